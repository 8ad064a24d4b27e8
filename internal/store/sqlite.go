package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eldtechnologies/maven/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/maven.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/maven.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT DEFAULT '',
		requester TEXT DEFAULT '',
		channel TEXT NOT NULL,
		expert TEXT DEFAULT '',
		title TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadAll retrieves every question keyed by id.
func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]*models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, requester, channel, expert, title, created_at
		FROM questions
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make(map[string]*models.Question)
	for rows.Next() {
		var q models.Question
		var channel string
		var createdAt time.Time

		err := rows.Scan(
			&q.ID,
			&q.Text,
			&q.Answer,
			&q.Requester,
			&channel,
			&q.AnsweredBy,
			&q.Title,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		origin, err := models.ParseOrigin(channel)
		if err != nil {
			return nil, err
		}
		q.Origin = origin
		q.CreatedAt = createdAt
		questions[q.ID] = &q
	}

	return questions, rows.Err()
}

// Upsert inserts the question or overwrites the existing row with its id.
func (s *SQLiteStore) Upsert(ctx context.Context, q *models.Question) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (id, question, answer, requester, channel, expert, title, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			answer = excluded.answer,
			expert = excluded.expert
	`, q.ID, q.Text, q.Answer, q.Requester, q.Origin.Encode(), q.AnsweredBy, q.Title, q.CreatedAt)
	return err
}
