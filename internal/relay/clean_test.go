package relay

import (
	"strings"
	"testing"
)

func TestCleanReplyStripsQuotedLines(t *testing.T) {
	body := "> quoted question\n>> deeper quote\nהתשובה שלי"
	if got := CleanReply(body); got != "התשובה שלי" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanReplyStripsAttribution(t *testing.T) {
	body := "On Mon, Jan 2, 2026 at 10:00 AM maven wrote:\nreal answer"
	if got := CleanReply(body); got != "real answer" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanReplyStripsBoilerplate(t *testing.T) {
	body := strings.Join([]string{
		"עצה טובה מאוד",
		"-------- Original Message --------",
		"From: maven <bot@example.com>",
		"Sent: Monday",
		"To: expert@example.com",
		"Subject: שאלה חדשה #7",
		"שאלה חדשה התקבלה:",
		"מזהה שאלה: 7",
		"שואל: דנה",
		"שאלה:",
		"עוד שורה של תשובה",
	}, "\n")

	got := CleanReply(body)
	want := "עצה טובה מאוד\nעוד שורה של תשובה"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanReplyPreservesOrder(t *testing.T) {
	body := "שורה ראשונה\n> quoted\nשורה שנייה\nשורה שלישית"
	got := CleanReply(body)
	want := "שורה ראשונה\nשורה שנייה\nשורה שלישית"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanReplyStrictFilter(t *testing.T) {
	body := "keep\n> drop\nFROM: someone\nkeep too"
	got := CleanReply(body)
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, ">") {
			t.Fatalf("quoted line survived: %q", line)
		}
		if containsMarker(line) {
			t.Fatalf("boilerplate line survived: %q", line)
		}
	}
}

func TestCleanReplyAllNoise(t *testing.T) {
	if got := CleanReply("> a\n> b\nOn Monday x wrote:"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
