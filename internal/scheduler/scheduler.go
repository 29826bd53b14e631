package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/techhubafrica/tech-news-tips/internal/category"
	"github.com/techhubafrica/tech-news-tips/internal/collector"
	"github.com/techhubafrica/tech-news-tips/internal/processor"
	"github.com/techhubafrica/tech-news-tips/internal/storage"
)

// Store is the slice of the storage layer the orchestrator writes to.
type Store interface {
	UpsertArticle(*storage.Article) error
	UpsertTip(*storage.Tip) error
}

// Scheduler drives the fetch-classify-persist cycle over every
// (category, source) pair, on a cron schedule and on demand. Runs are
// not mutually exclusive: an on-demand run may overlap a scheduled
// one, and the store's unique index keeps the overlap harmless.
type Scheduler struct {
	cron       *cron.Cron
	articles   []collector.ArticleSource
	tips       []collector.TipSource
	classifier *processor.Classifier
	store      Store
	logger     *slog.Logger
}

func New(spec string, articles []collector.ArticleSource, tips []collector.TipSource,
	cls *processor.Classifier, store Store, logger *slog.Logger) (*Scheduler, error) {

	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:       cron.New(),
		articles:   articles,
		tips:       tips,
		classifier: cls,
		store:      store,
		logger:     logger,
	}

	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// Delay the first ingestion so startup traffic isn't competing
	// with a full multi-source pull.
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce executes a single full ingestion cycle and blocks until it
// completes. A run never fails as a whole: every failure is contained
// to one source or one record and logged with its context.
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	start := time.Now()
	s.logger.Info("ingestion run started")

	var wg sync.WaitGroup
	for _, cat := range category.All() {
		for _, src := range s.articles {
			wg.Add(1)
			go func(cat string, src collector.ArticleSource) {
				defer wg.Done()
				s.ingestArticles(cat, src)
			}(cat, src)
		}
		for _, src := range s.tips {
			wg.Add(1)
			go func(cat string, src collector.TipSource) {
				defer wg.Done()
				s.ingestTips(cat, src)
			}(cat, src)
		}
	}
	wg.Wait()

	s.logger.Info("ingestion run completed", "elapsed", time.Since(start).String())
}

func (s *Scheduler) ingestArticles(cat string, src collector.ArticleSource) {
	items, err := src.Fetch(cat)
	if err != nil {
		s.logger.Error("article source fetch failed",
			"source", src.Name(), "category", cat, "error", err)
		return
	}

	prepared := s.classifier.PrepareArticles(cat, items)
	saved := 0
	for _, it := range prepared {
		rec := &storage.Article{
			Title:       it.Title,
			Description: it.Description,
			URL:         it.URL,
			Source:      it.Source,
			Category:    it.Category,
			PublishedAt: it.PublishedAt,
		}
		if err := s.store.UpsertArticle(rec); err != nil {
			s.logger.Error("article upsert failed",
				"source", src.Name(), "category", cat, "title", it.Title, "error", err)
			continue
		}
		saved++
	}

	s.logger.Info("article source done",
		"source", src.Name(), "category", cat,
		"fetched", len(items), "saved", saved)
}

func (s *Scheduler) ingestTips(cat string, src collector.TipSource) {
	items, err := src.Fetch(cat)
	if err != nil {
		s.logger.Error("tip source fetch failed",
			"source", src.Name(), "category", cat, "error", err)
		return
	}

	prepared := s.classifier.PrepareTips(cat, items)
	saved := 0
	for _, it := range prepared {
		rec := &storage.Tip{
			Title:    it.Title,
			Content:  it.Content,
			URL:      it.URL,
			Author:   it.Author,
			Source:   it.Source,
			Category: it.Category,
		}
		if err := s.store.UpsertTip(rec); err != nil {
			s.logger.Error("tip upsert failed",
				"source", src.Name(), "category", cat, "title", it.Title, "error", err)
			continue
		}
		saved++
	}

	s.logger.Info("tip source done",
		"source", src.Name(), "category", cat,
		"fetched", len(items), "saved", saved)
}
