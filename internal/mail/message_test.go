package mail

import (
	"fmt"
	"mime"
	"mime/quotedprintable"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestParseEnvelopePlainText(t *testing.T) {
	raw := []byte("From: Yoram <Yoram@Example.com>\r\nSubject: Re: hello\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nthe answer body")

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.Sender != "yoram@example.com" {
		t.Fatalf("sender = %q", env.Sender)
	}
	if env.Subject != "Re: hello" {
		t.Fatalf("subject = %q", env.Subject)
	}
	if env.Body != "the answer body" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestParseEnvelopeEncodedHebrewSubject(t *testing.T) {
	subject := "Re: שאלה חדשה #7 מאת דנה"
	encoded := mime.QEncoding.Encode("utf-8", subject)
	raw := []byte(fmt.Sprintf("From: yoram@example.com\r\nSubject: %s\r\n\r\nbody", encoded))

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.Subject != subject {
		t.Fatalf("subject = %q, want %q", env.Subject, subject)
	}
}

func TestParseEnvelopeBase64EncodedSubject(t *testing.T) {
	subject := "תשובה חשובה"
	encoded := mime.BEncoding.Encode("utf-8", subject)
	raw := []byte(fmt.Sprintf("From: yoram@example.com\r\nSubject: %s\r\n\r\nbody", encoded))

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.Subject != subject {
		t.Fatalf("subject = %q, want %q", env.Subject, subject)
	}
}

func TestParseEnvelopeMultipartPrefersPlainText(t *testing.T) {
	raw := []byte(strings.Join([]string{
		"From: yoram@example.com",
		"Subject: Re: #7",
		`Content-Type: multipart/alternative; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain part",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html part</p>",
		"--BOUNDARY--",
		"",
	}, "\r\n"))

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.TrimSpace(env.Body) != "plain part" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestParseEnvelopeNestedMultipart(t *testing.T) {
	raw := []byte(strings.Join([]string{
		"From: yoram@example.com",
		"Subject: Re: #7",
		`Content-Type: multipart/mixed; boundary="OUTER"`,
		"",
		"--OUTER",
		`Content-Type: multipart/alternative; boundary="INNER"`,
		"",
		"--INNER",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"nested plain part",
		"--INNER--",
		"--OUTER",
		"Content-Type: application/pdf",
		"",
		"%PDF-garbage",
		"--OUTER--",
		"",
	}, "\r\n"))

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.TrimSpace(env.Body) != "nested plain part" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestParseEnvelopeQuotedPrintableBody(t *testing.T) {
	var buf strings.Builder
	w := quotedprintable.NewWriter(&buf)
	w.Write([]byte("עצה טובה מאוד"))
	w.Close()

	raw := []byte("From: yoram@example.com\r\nSubject: Re: #7\r\nContent-Type: text/plain; charset=utf-8\r\nContent-Transfer-Encoding: quoted-printable\r\n\r\n" + buf.String())

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.TrimSpace(env.Body) != "עצה טובה מאוד" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestParseEnvelopeWindows1255Body(t *testing.T) {
	encoded, err := charmap.Windows1255.NewEncoder().Bytes([]byte("שלום"))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	raw := append([]byte("From: yoram@example.com\r\nSubject: Re: #7\r\nContent-Type: text/plain; charset=windows-1255\r\n\r\n"), encoded...)

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.TrimSpace(env.Body) != "שלום" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestParseEnvelopeInvalidUTF8FallsBack(t *testing.T) {
	// Latin-1 bytes with no charset declared must not come back mangled
	// into replacement runes.
	raw := append([]byte("From: yoram@example.com\r\nSubject: Re: #7\r\n\r\ncaf"), 0xE9)

	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.Body != "café" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestParseEnvelopeGarbage(t *testing.T) {
	if _, err := ParseEnvelope([]byte("not a mail message")); err == nil {
		t.Fatal("garbage accepted as a message")
	}
}

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"yoram@example.com", "yoram@example.com"},
		{"Yoram@Example.COM", "yoram@example.com"},
		{"Yoram Levi <yoram@example.com>", "yoram@example.com"},
		{`"Levi, Yoram" <yoram@example.com>`, "yoram@example.com"},
		{"יורם לוי <yoram@example.com>", "yoram@example.com"},
		{"  <yoram@example.com>  ", "yoram@example.com"},
	}
	for _, tc := range cases {
		if got := NormalizeAddress(tc.in); got != tc.want {
			t.Fatalf("NormalizeAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeSubjectStripsFolding(t *testing.T) {
	if got := DecodeSubject("Re: line one\r\n continued"); strings.ContainsAny(got, "\r\n") {
		t.Fatalf("folded subject kept line breaks: %q", got)
	}
}

func TestDecodeSubjectPassThrough(t *testing.T) {
	if got := DecodeSubject("plain subject #7"); got != "plain subject #7" {
		t.Fatalf("got %q", got)
	}
}
