package models

import (
	"strings"
	"testing"
)

func TestOriginEncodeParse(t *testing.T) {
	cases := []Origin{
		ChatOrigin(12345),
		ChatOrigin(-99),
		MailOrigin("dana@example.com"),
	}
	for _, o := range cases {
		got, err := ParseOrigin(o.Encode())
		if err != nil {
			t.Fatalf("ParseOrigin(%q): %v", o.Encode(), err)
		}
		if got != o {
			t.Fatalf("round trip %q = %+v, want %+v", o.Encode(), got, o)
		}
	}
}

func TestParseOriginRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "nokind", "chat:abc", "teleport:5"} {
		if _, err := ParseOrigin(raw); err == nil {
			t.Fatalf("ParseOrigin(%q) accepted malformed input", raw)
		}
	}
}

func TestParseOriginMailAddressWithColon(t *testing.T) {
	// Only the first colon separates kind from data.
	o, err := ParseOrigin("mail:user:tag@example.com")
	if err != nil {
		t.Fatalf("ParseOrigin: %v", err)
	}
	if o.Address != "user:tag@example.com" {
		t.Fatalf("address = %q", o.Address)
	}
}

func TestDeriveTitle(t *testing.T) {
	if got := DeriveTitle("שאלה קצרה", 40); got != "שאלה קצרה" {
		t.Fatalf("got %q", got)
	}

	if got := DeriveTitle("  שורה ראשונה\nשורה שנייה", 40); got != "שורה ראשונה" {
		t.Fatalf("first line not extracted: %q", got)
	}

	long := strings.Repeat("א", 60)
	if got := DeriveTitle(long, 40); len([]rune(got)) != 40 {
		t.Fatalf("truncated to %d runes, want 40", len([]rune(got)))
	}
}

func TestAnswered(t *testing.T) {
	q := &Question{ID: "1", Text: "מה לעשות?"}
	if q.Answered() {
		t.Fatal("fresh question reports answered")
	}
	q.Answer = "כך וכך"
	if !q.Answered() {
		t.Fatal("answered question reports unanswered")
	}
}
