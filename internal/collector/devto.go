package collector

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/techhubafrica/tech-news-tips/internal/category"
)

const (
	devToDefaultBaseURL = "https://dev.to"
	devToSourceName     = "DEV Community"
	devToRequestTimeout = 10 * time.Second
)

// DevToSource scrapes community tips from dev.to listing pages. Each
// category maps to a set of pages (tag and search listings); every
// Fetch is a fresh pull over all pages for that category.
type DevToSource struct {
	BaseURL   string
	UserAgent string
	logger    *slog.Logger
	base      *url.URL
}

func NewDevToSource(baseURL, userAgent string, logger *slog.Logger) (*DevToSource, error) {
	if baseURL == "" {
		baseURL = devToDefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("devto: parse base url: %w", err)
	}
	return &DevToSource{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		logger:    logger,
		base:      base,
	}, nil
}

func (d *DevToSource) Name() string {
	return devToSourceName
}

// Fetch visits each configured page for the category and extracts one
// tip per story block. A failing page is logged and skipped; the error
// is only surfaced when every page of the category failed.
func (d *DevToSource) Fetch(cat string) ([]Tip, error) {
	info, ok := category.Get(cat)
	if !ok {
		return nil, fmt.Errorf("devto: unknown category %q", cat)
	}

	var (
		tips    []Tip
		lastErr error
	)

	for _, page := range info.TipPages {
		pageTips, err := d.fetchPage(cat, page)
		if err != nil {
			d.logger.Error("devto page fetch failed",
				"category", cat, "page", page, "error", err)
			lastErr = err
			continue
		}
		tips = append(tips, pageTips...)
	}

	if len(tips) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return tips, nil
}

func (d *DevToSource) fetchPage(cat, page string) ([]Tip, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(d.base.Hostname(), d.base.Host),
		colly.UserAgent(d.UserAgent),
	)
	c.SetRequestTimeout(devToRequestTimeout)

	tips := make([]Tip, 0, 30)

	c.OnHTML(".crayons-story", func(e *colly.HTMLElement) {
		href := e.ChildAttr(".crayons-story__title a", "href")
		link := d.resolveLink(href)
		if link == "" {
			// A story block without a resolvable link is useless to
			// readers; drop it rather than persist a dead card.
			return
		}

		tips = append(tips, Tip{
			Title:    strings.TrimSpace(e.ChildText(".crayons-story__title")),
			Content:  strings.TrimSpace(e.ChildText(".crayons-story__snippet")),
			Author:   storyAuthor(e.DOM),
			URL:      link,
			Source:   devToSourceName,
			Category: cat,
		})
	})

	if err := c.Visit(d.BaseURL + page); err != nil {
		return nil, err
	}

	return tips, nil
}

// storyAuthor pulls the author name from a story block: the first
// link in the meta row, ahead of the tag links.
func storyAuthor(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Find(".crayons-story__meta a").First().Text())
}

// resolveLink makes a scraped href absolute against the provider base.
// Returns "" when the href is missing or unparsable.
func (d *DevToSource) resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return d.base.ResolveReference(ref).String()
}
