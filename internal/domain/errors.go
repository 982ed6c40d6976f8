package domain

import "errors"

var (
	// ErrNoArticles signals that every configured source failed or produced
	// no usable page; nothing was written.
	ErrNoArticles = errors.New("no articles found")

	// ErrNotEligible covers both a missing id and an already-summarized
	// article; callers cannot tell the two apart.
	ErrNotEligible = errors.New("article not found or already has a summary")

	// ErrMalformedCompletion means the completion service answered but not
	// in the expected shape; the article stays unsummarized for retry.
	ErrMalformedCompletion = errors.New("completion service returned a malformed response")
)
