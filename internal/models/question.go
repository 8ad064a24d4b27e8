package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OriginKind tags the channel a question arrived on.
type OriginKind string

const (
	OriginChat OriginKind = "chat"
	OriginMail OriginKind = "mail"
)

// Origin identifies the channel that produced a question together with the
// routing data needed to deliver the answer back. Exactly one of ChatID or
// Address is meaningful, selected by Kind.
type Origin struct {
	Kind    OriginKind `json:"kind"`
	ChatID  int64      `json:"chat_id,omitempty"`
	Address string     `json:"address,omitempty"`
}

// ChatOrigin returns an Origin for a chat conversation.
func ChatOrigin(chatID int64) Origin {
	return Origin{Kind: OriginChat, ChatID: chatID}
}

// MailOrigin returns an Origin for a mail return address.
func MailOrigin(address string) Origin {
	return Origin{Kind: OriginMail, Address: address}
}

// Encode renders the origin as the Channel-Data store column value,
// "chat:<id>" or "mail:<address>".
func (o Origin) Encode() string {
	switch o.Kind {
	case OriginChat:
		return "chat:" + strconv.FormatInt(o.ChatID, 10)
	case OriginMail:
		return "mail:" + o.Address
	}
	return ""
}

// ParseOrigin reverses Encode.
func ParseOrigin(s string) (Origin, error) {
	kind, data, ok := strings.Cut(s, ":")
	if !ok {
		return Origin{}, fmt.Errorf("malformed channel data %q", s)
	}
	switch OriginKind(kind) {
	case OriginChat:
		id, err := strconv.ParseInt(data, 10, 64)
		if err != nil {
			return Origin{}, fmt.Errorf("malformed chat id %q: %w", data, err)
		}
		return ChatOrigin(id), nil
	case OriginMail:
		return MailOrigin(data), nil
	}
	return Origin{}, fmt.Errorf("unknown channel kind %q", kind)
}

// Question is the unit of work: one user question routed to the expert
// panel. A record is created once at intake, optionally mutated once when a
// reply is accepted, and never deleted.
type Question struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Title      string    `json:"title"`
	Requester  string    `json:"requester"`
	Origin     Origin    `json:"origin"`
	Answer     string    `json:"answer,omitempty"`
	AnsweredBy string    `json:"answered_by,omitempty"` // expert label, e.g. "יורם (יועץ משפחתי)"
	CreatedAt  time.Time `json:"created_at"`
	SimilarTo  []string  `json:"similar_to,omitempty"` // advisory only, never gates routing
}

// Answered reports whether a reply has been accepted for this question.
func (q *Question) Answered() bool {
	return q.Answer != ""
}

// DeriveTitle returns a short label for a question text: the first line,
// truncated to maxRunes runes.
func DeriveTitle(text string, maxRunes int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	runes := []rune(line)
	if len(runes) > maxRunes {
		return string(runes[:maxRunes])
	}
	return line
}
