package server

import (
	"time"

	"newsbrief/internal/domain"
)

// articleJSON is the persisted shape as the presentation layer sees it.
type articleJSON struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	OriginalContent string    `json:"original_content"`
	URL             string    `json:"url"`
	PublishedDate   time.Time `json:"published_date"`
	Summary         *string   `json:"summary"`
	Note            *string   `json:"note"`
}

func articleJSONFrom(article domain.Article) articleJSON {
	return articleJSON{
		ID:              article.ID,
		Title:           article.Title,
		OriginalContent: article.OriginalContent,
		URL:             article.URL,
		PublishedDate:   article.PublishedDate,
		Summary:         article.Summary,
		Note:            article.Note,
	}
}

func toArticleJSON(articles []domain.Article) []articleJSON {
	out := make([]articleJSON, 0, len(articles))
	for _, article := range articles {
		out = append(out, articleJSONFrom(article))
	}
	return out
}
