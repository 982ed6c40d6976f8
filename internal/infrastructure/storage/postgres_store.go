package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsbrief/internal/domain"
	"newsbrief/internal/ports"
)

var articleColumns = []string{"id", "title", "original_content", "url", "published_date", "summary", "note"}

// PostgresStore persists articles into Postgres.
type PostgresStore struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// NewPostgresStore wires a pgx connection pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// InsertNew inserts the batch in a single statement. A url that already
// exists skips that one row; the statement returns exactly the rows it
// actually created.
func (s *PostgresStore) InsertNew(ctx context.Context, candidates []domain.Candidate) ([]domain.Article, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	query, args, err := insertNewQuery(s.builder, candidates)
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert articles: %w", err)
	}
	defer rows.Close()

	inserted, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}

	s.debug("batch insert done", "candidates", len(candidates), "inserted", len(inserted))
	return inserted, nil
}

// FindUnsummarized returns the article only while its summary is unset.
func (s *PostgresStore) FindUnsummarized(ctx context.Context, id string) (*domain.Article, error) {
	query, args, err := s.builder.
		Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		Where("summary IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	article, err := s.queryOne(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("find unsummarized %s: %w", id, err)
	}
	return article, nil
}

// CommitSummary sets the summary only where it is still unset, so a racing
// second writer updates zero rows instead of overwriting. The condition is
// what makes concurrent summarize calls safe; do not widen it.
func (s *PostgresStore) CommitSummary(ctx context.Context, id, summary string) (*domain.Article, error) {
	query, args, err := commitSummaryQuery(s.builder, id, summary)
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	article, err := s.queryOne(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("commit summary %s: %w", id, err)
	}
	return article, nil
}

// ListArticles returns every stored article, newest first.
func (s *PostgresStore) ListArticles(ctx context.Context) ([]domain.Article, error) {
	query, args, err := s.builder.
		Select(articleColumns...).
		From("articles").
		OrderBy("published_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// UpdateNote replaces the caller-owned note annotation.
func (s *PostgresStore) UpdateNote(ctx context.Context, id, note string) (*domain.Article, error) {
	query, args, err := s.builder.
		Update("articles").
		Set("note", note).
		Where(sq.Eq{"id": id}).
		Suffix(returningSuffix()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	article, err := s.queryOne(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return article, nil
}

// DeleteArticle removes the row and reports whether it existed.
func (s *PostgresStore) DeleteArticle(ctx context.Context, id string) (bool, error) {
	query, args, err := s.builder.
		Delete("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete article %s: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, args []interface{}) (*domain.Article, error) {
	var article domain.Article

	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&article.ID,
		&article.Title,
		&article.OriginalContent,
		&article.URL,
		&article.PublishedDate,
		&article.Summary,
		&article.Note,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &article, nil
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var articles []domain.Article

	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.OriginalContent,
			&article.URL,
			&article.PublishedDate,
			&article.Summary,
			&article.Note,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

func insertNewQuery(builder sq.StatementBuilderType, candidates []domain.Candidate) (string, []interface{}, error) {
	qb := builder.
		Insert("articles").
		Columns("id", "title", "original_content", "url", "published_date")

	for _, candidate := range candidates {
		qb = qb.Values(uuid.NewString(), candidate.Title, candidate.OriginalContent, candidate.URL, candidate.PublishedDate)
	}

	return qb.Suffix("ON CONFLICT (url) DO NOTHING " + returningSuffix()).ToSql()
}

func commitSummaryQuery(builder sq.StatementBuilderType, id, summary string) (string, []interface{}, error) {
	return builder.
		Update("articles").
		Set("summary", summary).
		Where(sq.Eq{"id": id}).
		Where("summary IS NULL").
		Suffix(returningSuffix()).
		ToSql()
}

func returningSuffix() string {
	return "RETURNING id, title, original_content, url, published_date, summary, note"
}

func (s *PostgresStore) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
