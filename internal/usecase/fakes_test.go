package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"newsbrief/internal/domain"
)

// fakeScraper serves canned markup per source URL.
type fakeScraper struct {
	pages map[string]string
	fails map[string]error
	mu    sync.Mutex
	calls []string
}

func (f *fakeScraper) ScrapePage(_ context.Context, pageURL string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pageURL)
	f.mu.Unlock()

	if err, ok := f.fails[pageURL]; ok {
		return "", err
	}
	if markup, ok := f.pages[pageURL]; ok {
		return markup, nil
	}
	return "", errors.New("unknown source")
}

// memoryStore is an in-memory ArticleStore with url-conflict-skip inserts.
type memoryStore struct {
	mu       sync.Mutex
	articles []domain.Article
	nextID   int
	inserts  int

	failInsert error
}

func (m *memoryStore) InsertNew(_ context.Context, candidates []domain.Candidate) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failInsert != nil {
		return nil, m.failInsert
	}

	m.inserts++

	var inserted []domain.Article
	for _, candidate := range candidates {
		if m.byURLLocked(candidate.URL) != nil {
			continue
		}
		m.nextID++
		article := domain.Article{
			ID:              fmt.Sprintf("id-%d", m.nextID),
			Title:           candidate.Title,
			OriginalContent: candidate.OriginalContent,
			URL:             candidate.URL,
			PublishedDate:   candidate.PublishedDate,
		}
		m.articles = append(m.articles, article)
		inserted = append(inserted, article)
	}
	return inserted, nil
}

func (m *memoryStore) FindUnsummarized(_ context.Context, id string) (*domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	article := m.byIDLocked(id)
	if article == nil || article.Summary != nil {
		return nil, nil
	}
	copied := *article
	return &copied, nil
}

func (m *memoryStore) CommitSummary(_ context.Context, id, summary string) (*domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	article := m.byIDLocked(id)
	if article == nil || article.Summary != nil {
		return nil, nil
	}
	article.Summary = &summary
	copied := *article
	return &copied, nil
}

func (m *memoryStore) ListArticles(_ context.Context) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Article(nil), m.articles...), nil
}

func (m *memoryStore) UpdateNote(_ context.Context, id, note string) (*domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	article := m.byIDLocked(id)
	if article == nil {
		return nil, nil
	}
	article.Note = &note
	copied := *article
	return &copied, nil
}

func (m *memoryStore) DeleteArticle(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.articles {
		if m.articles[i].ID == id {
			m.articles = append(m.articles[:i], m.articles[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) byURLLocked(url string) *domain.Article {
	for i := range m.articles {
		if m.articles[i].URL == url {
			return &m.articles[i]
		}
	}
	return nil
}

func (m *memoryStore) byIDLocked(id string) *domain.Article {
	for i := range m.articles {
		if m.articles[i].ID == id {
			return &m.articles[i]
		}
	}
	return nil
}

// fakeCompletions returns a fixed text or error and counts calls.
type fakeCompletions struct {
	text string
	err  error

	mu       sync.Mutex
	calls    int
	lastMsgs []domain.ChatMessage
}

func (f *fakeCompletions) Complete(_ context.Context, messages []domain.ChatMessage) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastMsgs = messages
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
