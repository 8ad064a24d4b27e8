package relay

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/eldtechnologies/maven/internal/models"
)

func TestRegistryAddCountsUp(t *testing.T) {
	r := NewRegistry()

	if id := r.Add(&models.Question{Text: "a"}); id != "1" {
		t.Fatalf("first id = %q", id)
	}
	if id := r.Add(&models.Question{Text: "b"}); id != "2" {
		t.Fatalf("second id = %q", id)
	}

	r.Merge(map[string]*models.Question{"41": {ID: "41", Text: "old"}})
	if id := r.Add(&models.Question{Text: "c"}); id != "42" {
		t.Fatalf("id after merge = %q, want 42", id)
	}
}

func TestRegistryAddConcurrentNoReuse(t *testing.T) {
	r := NewRegistry()

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.Add(&models.Question{Text: "x"})
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %q issued twice", id)
		}
		seen[id] = true
	}
	if r.Len() != n {
		t.Fatalf("registry holds %d questions, want %d", r.Len(), n)
	}
}

func TestRegistryMergeDoesNotDisplace(t *testing.T) {
	r := NewRegistry()
	live := &models.Question{Text: "live", Answer: "answered in memory"}
	r.Add(live)

	r.Merge(map[string]*models.Question{
		live.ID: {ID: live.ID, Text: "stale row"},
		"9":     {ID: "9", Text: "new row"},
	})

	got, ok := r.Get(live.ID)
	if !ok || got.Answer != "answered in memory" {
		t.Fatal("merge displaced the in-memory record")
	}
	if _, ok := r.Get("9"); !ok {
		t.Fatal("merge dropped the new row")
	}
}

func TestRegistryArmReplacesPerExpert(t *testing.T) {
	r := NewRegistry()
	e := models.Expert{Address: "yoram@example.com", Name: "יורם"}

	r.Arm(e, "first question", "דנה", time.Now().Add(-48*time.Hour))
	r.Arm(e, "second question", "יוסי", time.Now())

	if got := r.Outstanding(); got != 1 {
		t.Fatalf("outstanding = %d, want the newer entry only", got)
	}
	if stale := r.Stale(24*time.Hour, time.Now()); len(stale) != 0 {
		t.Fatalf("fresh replacement reported stale: %v", stale)
	}
}

func TestRegistryStaleRemovesUnconditionally(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	for i := 0; i < 3; i++ {
		e := models.Expert{Address: fmt.Sprintf("e%d@example.com", i)}
		r.Arm(e, "q", "דנה", now.Add(-25*time.Hour))
	}
	r.Arm(models.Expert{Address: "fresh@example.com"}, "q", "דנה", now)

	stale := r.Stale(24*time.Hour, now)
	if len(stale) != 3 {
		t.Fatalf("stale = %d entries, want 3", len(stale))
	}
	if got := r.Outstanding(); got != 1 {
		t.Fatalf("outstanding = %d after sweep, want 1", got)
	}
	if again := r.Stale(24*time.Hour, now); len(again) != 0 {
		t.Fatalf("second collection returned %d entries", len(again))
	}
}
