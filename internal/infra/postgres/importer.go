package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vocab-quiz-service/internal/document"
	"vocab-quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

// QuestionSetRow is the question_sets table.
type QuestionSetRow struct {
	bun.BaseModel `bun:"table:question_sets"`

	ID        string          `bun:"id,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	FetchedAt time.Time       `bun:"fetched_at"`
}

// Importer stores question sets in their document form so QuestionSetLoader
// can serve them without reaching the remote source.
type Importer struct {
	db  *bun.DB
	now func() time.Time
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db, now: time.Now}
}

// Upsert writes set under source, replacing any earlier import.
func (i *Importer) Upsert(ctx context.Context, source string, set domain.QuestionSet) error {
	raw, err := document.Encode(set)
	if err != nil {
		return fmt.Errorf("encode question set: %w", err)
	}
	row := &QuestionSetRow{ID: source, Data: raw, FetchedAt: i.now()}
	_, err = i.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("fetched_at = EXCLUDED.fetched_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert question set %s: %w", source, err)
	}
	return nil
}
