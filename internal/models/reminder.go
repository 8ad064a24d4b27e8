package models

import "time"

// Reminder tracks the most recent un-acknowledged dispatch to one expert.
// An entry is created when a question is dispatched and destroyed once a
// single follow-up has been sent for it.
type Reminder struct {
	Expert    Expert
	Question  string
	Requester string
	SentAt    time.Time
}
