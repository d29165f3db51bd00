package domain

import "time"

// CurrentSenderID is the sentinel participant id used for messages
// composed by the active account holder.
const CurrentSenderID = "current"

// CurrentSender returns the sentinel Participant representing the
// active account holder.
func CurrentSender() Participant {
	return Participant{ID: CurrentSenderID, Name: "You", Email: "you@example.com"}
}

// Message is a single message within a thread.
type Message struct {
	ID        string
	Content   string
	Sender    Participant
	Timestamp time.Time
	IsRead    bool
}

// FromCurrentUser reports whether the message was composed by the
// active account holder.
func (m *Message) FromCurrentUser() bool {
	return m.Sender.ID == CurrentSenderID
}

// Contact is an address-book entry. Structurally identical to
// Participant, but sourced from the contacts API rather than thread
// data.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
