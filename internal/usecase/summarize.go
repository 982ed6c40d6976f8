package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"newsbrief/internal/domain"
	"newsbrief/internal/ports"
)

const summarizerSystemPrompt = "You are a professional content summarizer. Create a concise summary of the article."

// Summarizer drives the one-way unsummarized -> summarized transition for a
// single stored article.
type Summarizer struct {
	store       ports.ArticleStore
	completions ports.CompletionClient
	logger      *slog.Logger
}

// NewSummarizer wires the store and the completion client.
func NewSummarizer(store ports.ArticleStore, completions ports.CompletionClient, logger *slog.Logger) *Summarizer {
	return &Summarizer{
		store:       store,
		completions: completions,
		logger:      logger,
	}
}

// Generate summarizes one eligible article and commits the result. The
// commit only lands while the summary is still unset, so of two racing
// calls exactly one persists its result; the loser reports ErrNotEligible.
func (s *Summarizer) Generate(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.store.FindUnsummarized(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find article %s: %w", id, err)
	}
	if article == nil {
		return nil, domain.ErrNotEligible
	}

	summary, err := s.completions.Complete(ctx, []domain.ChatMessage{
		{Role: "system", Content: summarizerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Title: %s\n\nContent: %s", article.Title, article.OriginalContent)},
	})
	if err != nil {
		return nil, fmt.Errorf("generate summary for %s: %w", id, err)
	}

	updated, err := s.store.CommitSummary(ctx, id, summary)
	if err != nil {
		return nil, fmt.Errorf("commit summary for %s: %w", id, err)
	}
	if updated == nil {
		// Lost the race against another summarize call; the stored
		// summary is whichever commit landed first.
		return nil, domain.ErrNotEligible
	}

	if s.logger != nil {
		s.logger.Info("article summarized", "id", id)
	}
	return updated, nil
}
