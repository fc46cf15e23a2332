package postgres

import (
	"context"
	"errors"
	"fmt"

	"vocab-quiz-service/internal/document"
	"vocab-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionSetLoader loads imported question-set documents (JSONB) from Postgres.
type QuestionSetLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionSetLoader(pool *pgxpool.Pool) *QuestionSetLoader {
	return &QuestionSetLoader{pool: pool}
}

func (l *QuestionSetLoader) LoadQuestionSet(ctx context.Context, source string) (domain.QuestionSet, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE id=$1`, source).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionSet{}, &domain.LoadError{Source: source, Cause: domain.ErrQuestionSetNotFound}
	}
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Source: source, Cause: fmt.Errorf("query question set: %w", err)}
	}
	set, err := document.Decode(raw)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Source: source, Cause: err}
	}
	return set, nil
}
