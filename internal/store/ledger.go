package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eldtechnologies/maven/internal/models"
)

// ledgerHeader is the fixed column set of the tabular question file.
var ledgerHeader = []string{"ID", "Question", "Answer", "Requester", "Channel-Data", "Expert"}

// LedgerStore persists questions in a flat CSV file, one row per question
// id. It is the default backend and mirrors the fixed-column ledger the
// product started with.
type LedgerStore struct {
	mu   sync.Mutex
	path string
}

// NewLedgerStore opens (or creates) the ledger file at path.
// If path is empty, defaults to "questions.csv".
func NewLedgerStore(path string) (*LedgerStore, error) {
	if path == "" {
		path = "questions.csv"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	s := &LedgerStore{path: path}

	// Create the file with a header row when absent
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeRows(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s, nil
}

// Close is a no-op; the ledger holds no open handles between operations.
func (s *LedgerStore) Close() {}

// Ping checks that the ledger file is readable.
func (s *LedgerStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

// LoadAll reads every row of the ledger.
func (s *LedgerStore) LoadAll(ctx context.Context) (map[string]*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}

	questions := make(map[string]*models.Question, len(rows))
	for _, row := range rows {
		q, err := rowToQuestion(row)
		if err != nil {
			return nil, err
		}
		questions[q.ID] = q
	}
	return questions, nil
}

// Upsert locates the row with the question's id and overwrites it in place,
// or appends a new row if absent.
func (s *LedgerStore) Upsert(ctx context.Context, q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return err
	}

	row := questionToRow(q)
	found := false
	for i := range rows {
		if rows[i][0] == q.ID {
			rows[i] = row
			found = true
			break
		}
	}
	if !found {
		rows = append(rows, row)
	}

	return s.writeRows(rows)
}

// readRows returns all data rows, skipping the header.
func (s *LedgerStore) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(ledgerHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// writeRows rewrites the whole file, header first, through a temp file.
func (s *LedgerStore) writeRows(rows [][]string) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(ledgerHeader); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}

func questionToRow(q *models.Question) []string {
	return []string{q.ID, q.Text, q.Answer, q.Requester, q.Origin.Encode(), q.AnsweredBy}
}

func rowToQuestion(row []string) (*models.Question, error) {
	if row[0] == "" {
		return nil, fmt.Errorf("ledger row has empty id")
	}
	origin, err := models.ParseOrigin(row[4])
	if err != nil {
		return nil, fmt.Errorf("ledger row %s: %w", row[0], err)
	}
	return &models.Question{
		ID:         row[0],
		Text:       row[1],
		Answer:     row[2],
		Requester:  row[3],
		Origin:     origin,
		AnsweredBy: row[5],
		CreatedAt:  time.Now(),
	}, nil
}
