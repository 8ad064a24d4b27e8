package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/oauth2"
)

const gmailBase = "https://gmail.googleapis.com/gmail/v1/users/me"

// Gmail is a Transport backed by the Gmail REST API.
type Gmail struct {
	From       string
	BaseURL    string
	HTTPClient *http.Client
}

// NewGmail builds a Gmail transport from a client credentials file and a
// previously stored token file (see cmd/authorize). Token refresh is
// handled by the oauth2 client.
func NewGmail(ctx context.Context, credentialsFile, tokenFile, from string) (*Gmail, error) {
	conf, err := LoadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	tok, err := ReadToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no stored token (run authorize first): %w", err)
	}

	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, tok))
	client.Timeout = 30 * time.Second

	return &Gmail{
		From:       from,
		BaseURL:    gmailBase,
		HTTPClient: client,
	}, nil
}

// Send delivers one plain-text message as base64url-encoded RFC 822 raw.
func (g *Gmail) Send(ctx context.Context, to, subject, body string) error {
	raw := buildMessage(g.From, to, subject, body)

	payload := map[string]string{
		"raw": base64.URLEncoding.EncodeToString(raw),
	}

	return g.post(ctx, "/messages/send", payload, nil)
}

// ListUnread returns the ids of all unread messages.
func (g *Gmail) ListUnread(ctx context.Context) ([]string, error) {
	var result struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}

	q := url.Values{"q": {"is:unread"}}
	if err := g.get(ctx, "/messages?"+q.Encode(), &result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Messages))
	for _, m := range result.Messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// FetchRaw returns the full RFC 822 bytes of one message.
func (g *Gmail) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	var result struct {
		Raw string `json:"raw"`
	}

	if err := g.get(ctx, "/messages/"+id+"?format=raw", &result); err != nil {
		return nil, err
	}

	// Gmail emits unpadded base64url
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(result.Raw, "="))
}

// MarkRead clears the UNREAD label on one message.
func (g *Gmail) MarkRead(ctx context.Context, id string) error {
	payload := map[string][]string{
		"removeLabelIds": {"UNREAD"},
	}
	return g.post(ctx, "/messages/"+id+"/modify", payload, nil)
}

// Ping verifies the mailbox is reachable with the current credentials.
func (g *Gmail) Ping(ctx context.Context) error {
	return g.get(ctx, "/profile", &struct{}{})
}

func (g *Gmail) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return g.do(req, out)
}

func (g *Gmail) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, out)
}

func (g *Gmail) do(req *http.Request, out interface{}) error {
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gmail %s %s: %s: %s", req.Method, req.URL.Path, resp.Status, snippet)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// buildMessage assembles a plain-text RFC 822 message. The subject is
// encoded-word escaped so non-ASCII survives every mail client.
func buildMessage(from, to, subject, body string) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Message-ID: <%s@maven>\r\n", ulid.Make())
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("\r\n")
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))

	return b.Bytes()
}
