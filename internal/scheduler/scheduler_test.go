package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techhubafrica/tech-news-tips/internal/category"
	"github.com/techhubafrica/tech-news-tips/internal/collector"
	"github.com/techhubafrica/tech-news-tips/internal/processor"
	"github.com/techhubafrica/tech-news-tips/internal/storage"
)

// fakeStore keeps records in memory keyed by the identity triple, the
// same dedup the real unique index enforces, and remembers the first
// CreatedAt per key.
type fakeStore struct {
	mu       sync.Mutex
	articles map[string]*storage.Article
	tips     map[string]*storage.Tip
	upserts  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		articles: make(map[string]*storage.Article),
		tips:     make(map[string]*storage.Tip),
	}
}

func key(title, source, cat string) string {
	return title + "|" + source + "|" + cat
}

func (f *fakeStore) UpsertArticle(a *storage.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++

	k := key(a.Title, a.Source, a.Category)
	if existing, ok := f.articles[k]; ok {
		existing.Description = a.Description
		existing.URL = a.URL
		existing.PublishedAt = a.PublishedAt
		return nil
	}
	cp := *a
	cp.CreatedAt = time.Now()
	f.articles[k] = &cp
	return nil
}

func (f *fakeStore) UpsertTip(t *storage.Tip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++

	k := key(t.Title, t.Source, t.Category)
	if existing, ok := f.tips[k]; ok {
		existing.Content = t.Content
		existing.URL = t.URL
		existing.Author = t.Author
		return nil
	}
	cp := *t
	cp.CreatedAt = time.Now()
	f.tips[k] = &cp
	return nil
}

func (f *fakeStore) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.articles), len(f.tips)
}

// fakeArticleSource yields one tech article per category, or fails
// every call.
type fakeArticleSource struct {
	name string
	fail bool
}

func (s *fakeArticleSource) Name() string { return s.name }

func (s *fakeArticleSource) Fetch(cat string) ([]collector.Article, error) {
	if s.fail {
		return nil, errors.New("provider unreachable")
	}
	return []collector.Article{{
		Title:       "Tech story from " + s.name,
		Description: "a software update",
		URL:         "https://example.com/" + s.name + "/" + cat,
		Source:      s.name,
		PublishedAt: time.Now(),
	}}, nil
}

type fakeTipSource struct {
	name string
}

func (s *fakeTipSource) Name() string { return s.name }

func (s *fakeTipSource) Fetch(cat string) ([]collector.Tip, error) {
	return []collector.Tip{{
		Title:   "Tip from " + s.name,
		Content: "content",
		URL:     "https://example.com/tips/" + cat,
		Source:  s.name,
	}}, nil
}

func newTestScheduler(t *testing.T, store Store, articles []collector.ArticleSource, tips []collector.TipSource) *Scheduler {
	t.Helper()
	s, err := New("0 */6 * * *", articles, tips, processor.NewClassifier(), store, nil)
	require.NoError(t, err)
	return s
}

func TestRunOnceIsolatesSourceFailure(t *testing.T) {
	store := newFakeStore()
	sources := []collector.ArticleSource{
		&fakeArticleSource{name: "source-1"},
		&fakeArticleSource{name: "source-2", fail: true},
		&fakeArticleSource{name: "source-3"},
	}

	s := newTestScheduler(t, store, sources, nil)
	s.RunOnce()

	articles, _ := store.counts()
	// Sources 1 and 3 persist one article per category despite
	// source 2 failing every call.
	assert.Equal(t, 2*len(category.All()), articles)
}

func TestRunOnceIsIdempotent(t *testing.T) {
	store := newFakeStore()
	s := newTestScheduler(t, store,
		[]collector.ArticleSource{&fakeArticleSource{name: "source-1"}},
		[]collector.TipSource{&fakeTipSource{name: "tips-1"}})

	s.RunOnce()
	articles1, tips1 := store.counts()
	require.Greater(t, articles1, 0)
	require.Greater(t, tips1, 0)

	// Same upstream data, second run: upserts happen again but no new
	// rows appear.
	s.RunOnce()
	articles2, tips2 := store.counts()
	assert.Equal(t, articles1, articles2)
	assert.Equal(t, tips1, tips2)
	assert.Equal(t, 2*(articles1+tips1), store.upserts)
}

func TestRunOncePreservesCreatedAtOnReingest(t *testing.T) {
	store := newFakeStore()
	src := &fakeTipSource{name: "tips-1"}
	s := newTestScheduler(t, store, nil, []collector.TipSource{src})

	s.RunOnce()

	store.mu.Lock()
	var firstCreated time.Time
	for _, tip := range store.tips {
		firstCreated = tip.CreatedAt
	}
	store.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	s.RunOnce()

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, tip := range store.tips {
		assert.Equal(t, firstCreated, tip.CreatedAt)
	}
}

func TestNewRejectsBadCronSpec(t *testing.T) {
	_, err := New("every six hours", nil, nil, processor.NewClassifier(), newFakeStore(), nil)
	assert.Error(t, err)
}
