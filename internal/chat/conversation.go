// Package chat is the Telegram front-end: it walks each conversation
// through question intake and delivers answers back to the originating
// chat.
package chat

import "strings"

// State of one chat conversation.
type State int

const (
	// AwaitQuestion: the next message is taken as a new question.
	AwaitQuestion State = iota
	// AwaitTitle: the question text is held, waiting for a short title.
	AwaitTitle
	// Dispatched: the question went out; the next message starts a new one.
	Dispatched
)

// User-facing prompts.
const (
	MsgWelcome   = "שלום! שלח את השאלה שלך והיא תועבר לפאנל המומחים."
	MsgAskTitle  = "מה נושא השאלה? (שלח - כדי לדלג)"
	MsgCancelled = "השאלה בוטלה. אפשר לשלוח שאלה חדשה."
	MsgAccepted  = "✅ השאלה נשלחה למומחים. תקבל תשובה בקרוב."
	MsgFailed    = "❌ אירעה שגיאה בעת שליחת השאלה. אנא נסה שוב."
)

// Submission is a completed question ready for intake.
type Submission struct {
	Text  string
	Title string // empty means derive from the text
}

// Conversation tracks one chat's progress toward a dispatched question.
// It is a pure state machine; all I/O stays in the listener.
type Conversation struct {
	state State
	text  string
}

// State returns the current conversation state.
func (c *Conversation) State() State {
	return c.state
}

// Advance feeds one user message into the machine. It returns the prompt
// to show and, once the conversation completes, the submission. /cancel
// returns to AwaitQuestion from any state.
func (c *Conversation) Advance(input string) (string, *Submission) {
	input = strings.TrimSpace(input)

	switch input {
	case "/cancel":
		c.reset()
		return MsgCancelled, nil
	case "/start":
		c.reset()
		return MsgWelcome, nil
	}

	switch c.state {
	case AwaitQuestion, Dispatched:
		if input == "" || strings.HasPrefix(input, "/") {
			return MsgWelcome, nil
		}
		c.text = input
		c.state = AwaitTitle
		return MsgAskTitle, nil

	case AwaitTitle:
		title := input
		if title == "-" {
			title = ""
		}
		sub := &Submission{Text: c.text, Title: title}
		c.text = ""
		c.state = Dispatched
		return "", sub
	}

	return "", nil
}

func (c *Conversation) reset() {
	c.text = ""
	c.state = AwaitQuestion
}
