package relay

import (
	"strconv"
	"sync"
	"time"

	"github.com/eldtechnologies/maven/internal/models"
)

// Registry is the in-memory view of the question set plus the per-expert
// reminder entries. It is the single synchronization point shared by the
// intake router (writes), the reply correlator (read-modify-write) and the
// reminder sweeper (deletes); all access goes through one mutex.
type Registry struct {
	mu        sync.Mutex
	questions map[string]*models.Question
	reminders map[string]*models.Reminder // keyed by expert address
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		questions: make(map[string]*models.Question),
		reminders: make(map[string]*models.Reminder),
	}
}

// Add assigns the next free id to q and records it, in one critical
// section. Ids are a running counter over existing ids, so a fresh id is
// never a re-issue regardless of submission rate.
func (r *Registry) Add(q *models.Question) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	max := 0
	for id := range r.questions {
		if n, err := strconv.Atoi(id); err == nil && n > max {
			max = n
		}
	}
	q.ID = strconv.Itoa(max + 1)
	r.questions[q.ID] = q
	return q.ID
}

// Get returns the question with the given id.
func (r *Registry) Get(id string) (*models.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	return q, ok
}

// Put overwrites a question record (answer updates).
func (r *Registry) Put(q *models.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[q.ID] = q
}

// Merge folds store rows into the registry without displacing records that
// only exist in memory.
func (r *Registry) Merge(questions map[string]*models.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, q := range questions {
		if _, ok := r.questions[id]; !ok {
			r.questions[id] = q
		}
	}
}

// Len returns the number of known questions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.questions)
}

// Texts returns every known question text, for the similarity scorer.
func (r *Registry) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	texts := make([]string, 0, len(r.questions))
	for _, q := range r.questions {
		texts = append(texts, q.Text)
	}
	return texts
}

// Arm records an outstanding dispatch to one expert, replacing any earlier
// entry for the same expert.
func (r *Registry) Arm(e models.Expert, question, requester string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders[e.Address] = &models.Reminder{
		Expert:    e,
		Question:  question,
		Requester: requester,
		SentAt:    now,
	}
}

// Stale removes and returns every reminder entry older than threshold.
// Keys are collected first and deleted after, never while iterating, and
// removal is unconditional: each outstanding dispatch yields at most one
// follow-up.
func (r *Registry) Stale(threshold time.Duration, now time.Time) []*models.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()

	var staleKeys []string
	for addr, rem := range r.reminders {
		if now.Sub(rem.SentAt) > threshold {
			staleKeys = append(staleKeys, addr)
		}
	}

	stale := make([]*models.Reminder, 0, len(staleKeys))
	for _, addr := range staleKeys {
		stale = append(stale, r.reminders[addr])
		delete(r.reminders, addr)
	}
	return stale
}

// Outstanding returns the number of armed reminder entries.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reminders)
}
