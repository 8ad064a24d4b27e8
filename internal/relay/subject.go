package relay

import (
	"fmt"
	"regexp"

	"github.com/eldtechnologies/maven/internal/models"
)

// subjectKeyRe matches the first question id token anywhere in a decoded
// subject. Replies keep the token through arbitrary "Re: Re: " prefixing,
// which makes it the sole cross-channel correlation key.
var subjectKeyRe = regexp.MustCompile(`#(\d+)`)

// FormatSubject renders the outbound expert mail subject carrying the
// correlation token.
func FormatSubject(id, requester string) string {
	return fmt.Sprintf("שאלה חדשה #%s מאת %s", id, requester)
}

// ExtractKey returns the first #<digits> token in a subject, or "" when
// absent. It never guesses.
func ExtractKey(subject string) string {
	m := subjectKeyRe.FindStringSubmatch(subject)
	if m == nil {
		return ""
	}
	return m[1]
}

// FormatQuestionBody renders the mail body sent to each expert.
func FormatQuestionBody(q *models.Question) string {
	return fmt.Sprintf(`שאלה חדשה התקבלה:

מזהה שאלה: %s
שואל: %s
נושא: %s
שאלה:
%s

אנא השב למייל זה (Reply) ושמור על מזהה השאלה בנושא כדי שהתשובה תגיע לשואל.
`, q.ID, q.Requester, q.Title, q.Text)
}

// FormatAnswer renders the payload delivered back to the requester.
func FormatAnswer(expert models.Expert, question, answer string) string {
	return fmt.Sprintf(`✨ קיבלת תשובה ממומחה!

👨‍⚕️ המשיב/ה: %s - %s

📝 השאלה המקורית:
%s

✍️ התשובה:
%s

תודה שהשתמשת במערכת הייעוץ שלנו! 🙏`, expert.Name, expert.Title, question, answer)
}

// FormatAnswerSubject renders the subject for answers delivered over mail.
func FormatAnswerSubject(id string) string {
	return fmt.Sprintf("תשובה לשאלה #%s", id)
}

// FormatReminderBody renders the follow-up mail for a stale dispatch.
func FormatReminderBody(rem *models.Reminder) string {
	return fmt.Sprintf(`תזכורת: שאלה ממתינה לתשובתך.

שואל: %s
שאלה:
%s

אנא השב למייל המקורי (Reply) כדי שהתשובה תגיע לשואל.
`, rem.Requester, rem.Question)
}

// ReminderSubject is the fixed subject of follow-up mails. It carries no id
// token on purpose: a reply to a reminder cannot be correlated and is
// rejected instead of mis-routed.
const ReminderSubject = "תזכורת: שאלה ממתינה לתשובתך"
