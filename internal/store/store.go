package store

import (
	"context"

	"github.com/eldtechnologies/maven/internal/models"
)

// QuestionStore defines the interface for the durable question ledger.
// LedgerStore, SQLiteStore and PostgresStore implement this interface.
type QuestionStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// LoadAll returns every stored question keyed by id.
	LoadAll(ctx context.Context) (map[string]*models.Question, error)

	// Upsert overwrites the row carrying the question's id, or appends a
	// new row if none exists.
	Upsert(ctx context.Context, q *models.Question) error
}
