package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eldtechnologies/maven/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT DEFAULT '',
			requester TEXT DEFAULT '',
			channel TEXT NOT NULL,
			expert TEXT DEFAULT '',
			title TEXT DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at);
	`)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// LoadAll retrieves every question keyed by id.
func (s *PostgresStore) LoadAll(ctx context.Context) (map[string]*models.Question, error) {
	rows, err := s.pool.Query(ctx, `
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
func (s *PostgresStore) Upsert(ctx context.Context, q *models.Question) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO questions (id, question, answer, requester, channel, expert, title, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			answer = EXCLUDED.answer,
			expert = EXCLUDED.expert
	`, q.ID, q.Text, q.Answer, q.Requester, q.Origin.Encode(), q.AnsweredBy, q.Title, q.CreatedAt)
	return err
}
