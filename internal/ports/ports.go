package ports

import (
	"context"

	"newsbrief/internal/domain"
)

// ArticleStore is the persistence boundary for articles and their summaries.
type ArticleStore interface {
	// InsertNew commits the batch in one statement; candidates whose URL
	// already exists are skipped, the rest is still inserted. Returns
	// exactly the rows actually inserted.
	InsertNew(ctx context.Context, candidates []domain.Candidate) ([]domain.Article, error)

	// FindUnsummarized returns the article only if it exists and its
	// summary is still unset; nil otherwise.
	FindUnsummarized(ctx context.Context, id string) (*domain.Article, error)

	// CommitSummary sets the summary only while it is still unset. A nil
	// article means another writer got there first or the row is gone.
	CommitSummary(ctx context.Context, id, summary string) (*domain.Article, error)

	// ListArticles returns every stored article, newest first. Read-only
	// surface for the presentation layer.
	ListArticles(ctx context.Context) ([]domain.Article, error)

	// UpdateNote replaces the caller-owned note; nil if the id is unknown.
	UpdateNote(ctx context.Context, id, note string) (*domain.Article, error)

	// DeleteArticle removes the row; reports whether anything was deleted.
	DeleteArticle(ctx context.Context, id string) (bool, error)
}

// PageScraper renders one source page through the external scraping service
// and returns its raw markup.
type PageScraper interface {
	ScrapePage(ctx context.Context, pageURL string) (string, error)
}

// CompletionClient sends a prompt to the external completion service and
// returns the first choice's text.
type CompletionClient interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}
