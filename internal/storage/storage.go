package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/techhubafrica/tech-news-tips/internal/category"
)

// ErrInvalidCategory is returned for category codes outside the fixed
// enumeration; no query is executed in that case.
var ErrInvalidCategory = errors.New("invalid category")

// Article is a persisted news item. The triple (title, source,
// category) identifies an article; re-ingesting the same triple
// updates the mutable fields and never creates a second row.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:512;uniqueIndex:idx_articles_identity" json:"title"`
	Description string    `gorm:"size:2000" json:"description"`
	URL         string    `gorm:"size:1024" json:"url"`
	Source      string    `gorm:"size:128;uniqueIndex:idx_articles_identity" json:"source"`
	Category    string    `gorm:"size:32;uniqueIndex:idx_articles_identity;index" json:"category"`
	PublishedAt time.Time `gorm:"index" json:"publishedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tip is a persisted community content item, identified by the same
// (title, source, category) triple as articles.
type Tip struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:512;uniqueIndex:idx_tips_identity" json:"title"`
	Content  string `gorm:"size:2000" json:"content"`
	URL      string `gorm:"size:1024" json:"url"`
	Author   string `gorm:"size:128" json:"author"`
	Source   string `gorm:"size:128;uniqueIndex:idx_tips_identity" json:"source"`
	Category string `gorm:"size:32;uniqueIndex:idx_tips_identity;index" json:"category"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Article{}, &Tip{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// toValidUTF8 normalizes a string to legal UTF-8 so Postgres never
// rejects a write over a stray byte from an upstream page.
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunesDB truncates by rune count so a value never exceeds its
// varchar column even when upstream returns runaway text.
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// UpsertArticle inserts the article or, when the identity triple
// already exists, updates its mutable fields. CreatedAt is set on
// first insert and never rewritten.
func (s *Store) UpsertArticle(a *Article) error {
	title := truncateRunesDB(toValidUTF8(a.Title), 512)
	description := truncateRunesDB(toValidUTF8(a.Description), 2000)

	rec := &Article{
		Title:       title,
		Description: description,
		URL:         a.URL,
		Source:      a.Source,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
	}

	if err := s.DB.Where("title = ? AND source = ? AND category = ?",
		title, a.Source, a.Category).FirstOrCreate(rec).Error; err != nil {
		return err
	}

	// FirstOrCreate leaves an existing row untouched, so push the
	// mutable fields explicitly. Identity and created_at stay as they
	// were.
	if err := s.DB.Model(rec).Updates(map[string]any{
		"description":  description,
		"url":          a.URL,
		"published_at": a.PublishedAt,
	}).Error; err != nil {
		return err
	}

	*a = *rec
	return nil
}

// UpsertTip is the tip counterpart of UpsertArticle.
func (s *Store) UpsertTip(t *Tip) error {
	title := truncateRunesDB(toValidUTF8(t.Title), 512)
	content := truncateRunesDB(toValidUTF8(t.Content), 2000)

	rec := &Tip{
		Title:    title,
		Content:  content,
		URL:      t.URL,
		Author:   t.Author,
		Source:   t.Source,
		Category: t.Category,
	}

	if err := s.DB.Where("title = ? AND source = ? AND category = ?",
		title, t.Source, t.Category).FirstOrCreate(rec).Error; err != nil {
		return err
	}

	if err := s.DB.Model(rec).Updates(map[string]any{
		"content": content,
		"url":     t.URL,
		"author":  t.Author,
	}).Error; err != nil {
		return err
	}

	*t = *rec
	return nil
}

// cachedPage is the Redis cache entry for one paginated read.
type cachedPage[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

const pageCacheTTL = 5 * time.Minute

// FindArticles returns one page of articles for a category, newest
// publication first, plus the category's total article count.
func (s *Store) FindArticles(cat string, page, limit int) ([]Article, int64, error) {
	if !category.IsValid(cat) {
		return nil, 0, ErrInvalidCategory
	}
	page, limit = normalizePage(page, limit, 20)

	cacheKey := fmt.Sprintf("news:%s:%d:%d", cat, page, limit)
	if cached, ok := pageCacheGet[Article](s.Redis, cacheKey); ok {
		return cached.Items, cached.Total, nil
	}

	var total int64
	if err := s.DB.Model(&Article{}).Where("category = ?", cat).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Article
	err := s.DB.Where("category = ?", cat).
		Order("published_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	pageCacheSet(s.Redis, cacheKey, cachedPage[Article]{Items: list, Total: total})
	return list, total, nil
}

// FindTips returns one page of tips for a category, newest first by
// ingestion time, plus the category's total tip count.
func (s *Store) FindTips(cat string, page, limit int) ([]Tip, int64, error) {
	if !category.IsValid(cat) {
		return nil, 0, ErrInvalidCategory
	}
	page, limit = normalizePage(page, limit, 10)

	cacheKey := fmt.Sprintf("tips:%s:%d:%d", cat, page, limit)
	if cached, ok := pageCacheGet[Tip](s.Redis, cacheKey); ok {
		return cached.Items, cached.Total, nil
	}

	var total int64
	if err := s.DB.Model(&Tip{}).Where("category = ?", cat).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Tip
	err := s.DB.Where("category = ?", cat).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	pageCacheSet(s.Redis, cacheKey, cachedPage[Tip]{Items: list, Total: total})
	return list, total, nil
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// Cache reads and writes are best effort; a Redis hiccup falls through
// to Postgres. Entries expire on a short TTL, no invalidation on
// ingest.
func pageCacheGet[T any](rdb *redis.Client, key string) (cachedPage[T], bool) {
	var out cachedPage[T]
	if rdb == nil {
		return out, false
	}
	bs, err := rdb.Get(context.Background(), key).Bytes()
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(bs, &out); err != nil {
		return out, false
	}
	return out, true
}

func pageCacheSet[T any](rdb *redis.Client, key string, entry cachedPage[T]) {
	if rdb == nil {
		return
	}
	if bs, err := json.Marshal(entry); err == nil {
		_ = rdb.Set(context.Background(), key, bs, pageCacheTTL).Err()
	}
}
