package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbrief/internal/domain"
)

const (
	sourceA = "https://a.example.org"
	sourceB = "https://b.example.org"
	sourceC = "https://c.example.org"
)

func pageMarkup(title, paragraph string) string {
	return "<html><body><h1>" + title + "</h1><p>" + paragraph + "</p></body></html>"
}

func newTestIngestor(scraper *fakeScraper, store *memoryStore, sources ...string) *Ingestor {
	return NewIngestor(IngestorDeps{
		Scraper: scraper,
		Store:   store,
		Sources: sources,
	})
}

func TestIngestPartialSourceTolerance(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{
		pages: map[string]string{
			sourceA: pageMarkup("A", "a"),
			sourceB: pageMarkup("B", "b"),
		},
		fails: map[string]error{
			sourceC: errors.New("status 500"),
		},
	}
	store := &memoryStore{}

	inserted, err := newTestIngestor(scraper, store, sourceA, sourceB, sourceC).Ingest(context.Background())
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	assert.Equal(t, "A", inserted[0].Title)
	assert.Equal(t, "B", inserted[1].Title)
	assert.Len(t, scraper.calls, 3, "the failing source must not block its siblings")
}

func TestIngestAllSourcesFail(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{
		fails: map[string]error{
			sourceA: errors.New("timeout"),
			sourceB: errors.New("connection refused"),
		},
	}
	store := &memoryStore{}

	_, err := newTestIngestor(scraper, store, sourceA, sourceB).Ingest(context.Background())
	require.ErrorIs(t, err, domain.ErrNoArticles)
	assert.Zero(t, store.inserts, "nothing may be written when no candidate survived")
}

func TestIngestExtractionMissIsContained(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{
		pages: map[string]string{
			sourceA: "<html><body><div>no heading here</div></body></html>",
			sourceB: pageMarkup("B", "b"),
		},
	}
	store := &memoryStore{}

	inserted, err := newTestIngestor(scraper, store, sourceA, sourceB).Ingest(context.Background())
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "B", inserted[0].Title)
}

func TestIngestIsIdempotent(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{
		pages: map[string]string{
			sourceA: pageMarkup("A", "a"),
			sourceB: pageMarkup("B", "b"),
		},
	}
	store := &memoryStore{}
	ingestor := newTestIngestor(scraper, store, sourceA, sourceB)

	first, err := ingestor.Ingest(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := ingestor.Ingest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second, "re-ingesting unchanged sources inserts nothing")

	stored, err := store.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestIngestSameURLInOneBatchKeepsOneRow(t *testing.T) {
	t.Parallel()

	// Both pages link the same article, so two candidates carry the same
	// URL with different titles; the batch keeps the first in source order.
	shared := `<a href="https://shared.example/article/1">story</a>`
	scraper := &fakeScraper{
		pages: map[string]string{
			sourceA: "<html><body><h1>A</h1><p>a</p>" + shared + "</body></html>",
			sourceB: "<html><body><h1>B</h1><p>b</p>" + shared + "</body></html>",
		},
	}
	store := &memoryStore{}

	inserted, err := newTestIngestor(scraper, store, sourceA, sourceB).Ingest(context.Background())
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "A", inserted[0].Title)
	assert.Equal(t, "https://shared.example/article/1", inserted[0].URL)

	stored, err := store.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1, "one url must never yield two rows")
}

func TestIngestStoreErrorSurfaces(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{
		pages: map[string]string{sourceA: pageMarkup("A", "a")},
	}
	store := &memoryStore{failInsert: errors.New("connection lost")}

	_, err := newTestIngestor(scraper, store, sourceA).Ingest(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoArticles)
	assert.Contains(t, err.Error(), "connection lost")
}

func TestIngestPreservesSourceOrder(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{
		pages: map[string]string{
			sourceA: pageMarkup("First", "1"),
			sourceB: pageMarkup("Second", "2"),
			sourceC: pageMarkup("Third", "3"),
		},
	}
	store := &memoryStore{}

	inserted, err := newTestIngestor(scraper, store, sourceC, sourceA, sourceB).Ingest(context.Background())
	require.NoError(t, err)
	require.Len(t, inserted, 3)

	assert.Equal(t, "Third", inserted[0].Title)
	assert.Equal(t, "First", inserted[1].Title)
	assert.Equal(t, "Second", inserted[2].Title)
}
