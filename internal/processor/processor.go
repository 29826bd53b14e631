package processor

import (
	"strings"

	"github.com/techhubafrica/tech-news-tips/internal/collector"
)

// techKeywords is the relevance vocabulary for structured news
// sources. Matching is case-insensitive substring over title and
// description.
var techKeywords = []string{
	"technology",
	"tech",
	"software",
	"hardware",
	"ai",
	"artificial intelligence",
	"machine learning",
	"blockchain",
	"cryptocurrency",
	"cybersecurity",
	"robotics",
	"virtual reality",
	"augmented reality",
	"iot",
	"internet of things",
	"cloud computing",
	"data science",
	"big data",
	"programming",
	"coding",
	"developer",
	"startup",
	"5g",
	"quantum computing",
	"fintech",
	"biotech",
	"nanotech",
	"space tech",
}

// Classifier validates and cleans candidates before they reach the
// store. Tips arrive pre-categorized (they are scraped per category),
// so only structured news articles go through the keyword filter.
type Classifier struct {
	keywords []string
}

func NewClassifier() *Classifier {
	return &Classifier{keywords: techKeywords}
}

// IsTechRelated reports whether any tech keyword appears in the title
// or description.
func (c *Classifier) IsTechRelated(title, description string) bool {
	title = strings.ToLower(title)
	description = strings.ToLower(description)

	for _, kw := range c.keywords {
		if strings.Contains(title, kw) || strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

// PrepareArticles trims candidates, drops the keyword-irrelevant and
// the untitled, stamps the category and dedupes within the batch so a
// listing that repeats a story does not hit the store twice.
func (c *Classifier) PrepareArticles(cat string, items []collector.Article) []collector.Article {
	out := make([]collector.Article, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		it.Description = strings.TrimSpace(it.Description)
		if it.Title == "" {
			continue
		}
		if !c.IsTechRelated(it.Title, it.Description) {
			continue
		}
		it.Category = cat

		key := identityKey(it.Title, it.Source, it.Category)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}

	return out
}

// PrepareTips trims candidates, drops the untitled and stamps the
// category. No keyword filter: the scraped pages are already scoped to
// tech communities.
func (c *Classifier) PrepareTips(cat string, items []collector.Tip) []collector.Tip {
	out := make([]collector.Tip, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		it.Content = strings.TrimSpace(it.Content)
		it.Author = strings.TrimSpace(it.Author)
		if it.Title == "" {
			continue
		}
		it.Category = cat

		key := identityKey(it.Title, it.Source, it.Category)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}

	return out
}

func identityKey(title, source, cat string) string {
	return title + "\x00" + source + "\x00" + cat
}
