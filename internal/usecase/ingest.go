package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsbrief/internal/domain"
	"newsbrief/internal/extract"
	"newsbrief/internal/ports"
)

// IngestorDeps wires the driven adapters into the ingestion orchestrator.
type IngestorDeps struct {
	Scraper ports.PageScraper
	Store   ports.ArticleStore
	Sources []string
	Logger  *slog.Logger
}

// Ingestor fans the source fetcher out over the configured source list and
// drives deduplicated persistence of whatever came back.
type Ingestor struct {
	scraper ports.PageScraper
	store   ports.ArticleStore
	sources []string
	logger  *slog.Logger
	now     func() time.Time
}

// NewIngestor constructs the orchestration component.
func NewIngestor(deps IngestorDeps) *Ingestor {
	return &Ingestor{
		scraper: deps.Scraper,
		store:   deps.Store,
		sources: deps.Sources,
		logger:  deps.Logger,
		now:     time.Now,
	}
}

// Ingest fetches every configured source in parallel, collects the usable
// candidates in source order and batch-inserts them with conflict-skip
// semantics. It returns only the newly inserted articles, so a caller can
// tell "nothing new" apart from "sources unreachable".
func (i *Ingestor) Ingest(ctx context.Context) ([]domain.Article, error) {
	fetchedAt := i.now().UTC()
	slots := make([]*domain.Candidate, len(i.sources))

	var wg sync.WaitGroup
	for idx, source := range i.sources {
		wg.Add(1)
		go func(idx int, source string) {
			defer wg.Done()
			slots[idx] = i.fetchOne(ctx, source, fetchedAt)
		}(idx, source)
	}
	wg.Wait()

	candidates := make([]domain.Candidate, 0, len(slots))
	for _, candidate := range slots {
		if candidate != nil {
			candidates = append(candidates, *candidate)
		}
	}

	if len(candidates) == 0 {
		return nil, domain.ErrNoArticles
	}

	inserted, err := i.store.InsertNew(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("store candidates: %w", err)
	}

	i.debug("ingest done", "sources", len(i.sources), "candidates", len(candidates), "inserted", len(inserted))
	return inserted, nil
}

// fetchOne performs one fetch-and-extract for a single source. Any failure
// is contained here: the source simply yields no candidate and its siblings
// proceed untouched.
func (i *Ingestor) fetchOne(ctx context.Context, sourceURL string, fetchedAt time.Time) *domain.Candidate {
	markup, err := i.scraper.ScrapePage(ctx, sourceURL)
	if err != nil {
		i.warn("source fetch failed", "source", sourceURL, "error", err)
		return nil
	}

	candidate, ok := extract.FromMarkup(markup, sourceURL)
	if !ok {
		i.debug("no usable article on page", "source", sourceURL)
		return nil
	}

	candidate.PublishedDate = fetchedAt
	return &candidate
}

func (i *Ingestor) debug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}

func (i *Ingestor) warn(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}
}
