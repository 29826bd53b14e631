package collector

import "time"

// Article is a candidate news item produced by a source adapter. It is
// transient: nothing here is persisted until the store accepts it.
type Article struct {
	Title       string
	Description string
	URL         string
	Source      string
	Category    string
	PublishedAt time.Time
}

// Tip is a candidate community content item. Same shape as Article
// with a body and an author instead of a description.
type Tip struct {
	Title    string
	Content  string
	URL      string
	Author   string
	Source   string
	Category string
}

// ArticleSource abstracts a provider of news articles. Fetch performs
// one fresh pull for the given category; partial results are never
// returned alongside an error.
type ArticleSource interface {
	Name() string
	Fetch(category string) ([]Article, error)
}

// TipSource abstracts a provider of community tips.
type TipSource interface {
	Name() string
	Fetch(category string) ([]Tip, error)
}
