package domain

import "time"

// Article is the persisted unit. Summary and Note are nil until set;
// a nil Summary marks the article as not yet summarized.
type Article struct {
	ID              string
	Title           string
	OriginalContent string
	URL             string
	PublishedDate   time.Time
	Summary         *string
	Note            *string
}

// Summarized reports whether the enrichment step already ran.
func (a Article) Summarized() bool {
	return a.Summary != nil
}

// Candidate is the transient output of one extraction run. It is consumed
// once by the batch insert and discarded; URL is the deduplication key.
type Candidate struct {
	Title           string
	OriginalContent string
	URL             string
	PublishedDate   time.Time
}

// ChatMessage is one entry of a completion-service prompt.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
