package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/techhubafrica/tech-news-tips/internal/category"
)

const (
	newsAPIDefaultBaseURL  = "https://newsapi.org"
	newsAPIClientTimeout   = 10 * time.Second
	newsAPIMaxResponseSize = 4 << 20 // 4MB
)

// NewsAPISource pulls articles from the NewsAPI "everything" endpoint,
// one query per category using the category's search expression.
type NewsAPISource struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewNewsAPISource(apiKey, baseURL string) *NewsAPISource {
	if baseURL == "" {
		baseURL = newsAPIDefaultBaseURL
	}
	return &NewsAPISource{
		APIKey:  apiKey,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: newsAPIClientTimeout},
	}
}

func (n *NewsAPISource) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (n *NewsAPISource) Fetch(cat string) ([]Article, error) {
	info, ok := category.Get(cat)
	if !ok {
		return nil, fmt.Errorf("newsapi: unknown category %q", cat)
	}

	endpoint := fmt.Sprintf("%s/v2/everything?q=%s&sortBy=publishedAt&apiKey=%s",
		n.BaseURL, url.QueryEscape(info.NewsQuery), url.QueryEscape(n.APIKey))

	resp, err := n.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("newsapi: fetch %s: %w", cat, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: unexpected status %d for category %s", resp.StatusCode, cat)
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, newsAPIMaxResponseSize)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("newsapi: decode %s: %w", cat, err)
	}

	results := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		results = append(results, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			Category:    cat,
			PublishedAt: a.PublishedAt,
		})
	}

	return results, nil
}
