package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGmail(handler http.HandlerFunc) (*Gmail, *httptest.Server) {
	srv := httptest.NewServer(handler)
	g := &Gmail{
		From:       "bot@example.com",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	}
	return g, srv
}

func TestGmailSendBuildsDecodableMessage(t *testing.T) {
	var captured struct {
		Raw string `json:"raw"`
	}

	g, srv := newTestGmail(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/send" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("payload not JSON: %v", err)
		}
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	subject := "שאלה חדשה #7 מאת דנה"
	if err := g.Send(context.Background(), "yoram@example.com", subject, "גוף ההודעה בעברית"); err != nil {
		t.Fatalf("send: %v", err)
	}

	raw, err := base64.URLEncoding.DecodeString(captured.Raw)
	if err != nil {
		t.Fatalf("raw not base64url: %v", err)
	}

	// The outbound message must survive our own inbound parser.
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse own message: %v", err)
	}
	if env.Subject != subject {
		t.Fatalf("subject = %q, want %q", env.Subject, subject)
	}
	if env.Sender != "bot@example.com" {
		t.Fatalf("sender = %q", env.Sender)
	}
	if strings.TrimSpace(env.Body) != "גוף ההודעה בעברית" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestGmailListUnread(t *testing.T) {
	g, srv := newTestGmail(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "is:unread" {
			t.Errorf("query q = %q", got)
		}
		w.Write([]byte(`{"messages":[{"id":"m1"},{"id":"m2"}]}`))
	})
	defer srv.Close()

	ids, err := g.ListUnread(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "m1" || ids[1] != "m2" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestGmailListUnreadEmpty(t *testing.T) {
	g, srv := newTestGmail(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	ids, err := g.ListUnread(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestGmailFetchRawUnpadded(t *testing.T) {
	message := "From: a@b.c\r\n\r\nhello"
	// Gmail strips base64url padding.
	encoded := strings.TrimRight(base64.URLEncoding.EncodeToString([]byte(message)), "=")

	g, srv := newTestGmail(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "raw" {
			t.Errorf("format = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"raw": encoded})
	})
	defer srv.Close()

	raw, err := g.FetchRaw(context.Background(), "m1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(raw) != message {
		t.Fatalf("raw = %q", raw)
	}
}

func TestGmailMarkRead(t *testing.T) {
	g, srv := newTestGmail(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/m1/modify" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "UNREAD") {
			t.Errorf("payload = %s", body)
		}
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	if err := g.MarkRead(context.Background(), "m1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
}

func TestGmailErrorSurfacesStatus(t *testing.T) {
	g, srv := newTestGmail(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := g.ListUnread(context.Background())
	if err == nil {
		t.Fatal("error status accepted")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("err = %v", err)
	}
}
