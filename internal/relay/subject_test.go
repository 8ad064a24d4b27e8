package relay

import (
	"strings"
	"testing"

	"github.com/eldtechnologies/maven/internal/models"
)

func TestSubjectRoundTrip(t *testing.T) {
	ids := []string{"1", "7", "42", "1700000000"}
	for _, id := range ids {
		subject := FormatSubject(id, "דנה")
		if got := ExtractKey(subject); got != id {
			t.Fatalf("ExtractKey(%q) = %q, want %q", subject, got, id)
		}
	}
}

func TestSubjectRoundTripWithReplyPrefix(t *testing.T) {
	subject := "Re: Re: " + FormatSubject("7", "דנה")
	if got := ExtractKey(subject); got != "7" {
		t.Fatalf("ExtractKey(%q) = %q, want %q", subject, got, "7")
	}
}

func TestExtractKeyFirstToken(t *testing.T) {
	if got := ExtractKey("Fwd: #12 and later #99"); got != "12" {
		t.Fatalf("got %q, want first token 12", got)
	}
}

func TestExtractKeyAbsent(t *testing.T) {
	for _, subject := range []string{"", "no token here", "hash # but no digits", "מה לעשות?"} {
		if got := ExtractKey(subject); got != "" {
			t.Fatalf("ExtractKey(%q) = %q, want empty", subject, got)
		}
	}
}

func TestQuestionBodyCarriesID(t *testing.T) {
	q := &models.Question{ID: "7", Text: "מה לעשות?", Title: "עצה", Requester: "דנה"}
	body := FormatQuestionBody(q)
	if !strings.Contains(body, "7") || !strings.Contains(body, "מה לעשות?") || !strings.Contains(body, "דנה") {
		t.Fatalf("question body missing fields:\n%s", body)
	}
}
