package domain

import (
	"fmt"
	"time"
)

// Mailbox identifies the collection a thread currently lives in. A
// thread is in exactly one mailbox at a time.
type Mailbox string

const (
	MailboxInbox  Mailbox = "inbox"
	MailboxSent   Mailbox = "sent"
	MailboxDrafts Mailbox = "drafts"
	MailboxTrash  Mailbox = "trash"
)

// Mailboxes lists all mailboxes in canonical display order.
var Mailboxes = []Mailbox{MailboxInbox, MailboxSent, MailboxDrafts, MailboxTrash}

// ParseMailbox converts a user-supplied name into a Mailbox.
func ParseMailbox(s string) (Mailbox, error) {
	switch Mailbox(s) {
	case MailboxInbox, MailboxSent, MailboxDrafts, MailboxTrash:
		return Mailbox(s), nil
	}
	return "", fmt.Errorf("unknown mailbox: %s (use inbox, sent, drafts, or trash)", s)
}

// Participant is a named email identity associated with a thread,
// distinct from the registered account holder. Participants are
// immutable reference data shared by many threads.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p Participant) String() string {
	if p.Name == "" {
		return p.Email
	}
	return p.Name + " <" + p.Email + ">"
}

// Thread is a conversation summary entry: the subject, who is on it,
// and a snapshot of its most recent message.
type Thread struct {
	ID              string
	Subject         string
	Participants    []Participant
	LastMessage     string
	LastMessageTime time.Time
	UnreadCount     int
	HasAttachment   bool
	Mailbox         Mailbox
}

// IsUnread reports whether the thread has any unread messages.
func (t *Thread) IsUnread() bool {
	return t.UnreadCount > 0
}

// From returns the display identity of the first participant, or a
// placeholder when the thread has none (an empty draft, say).
func (t *Thread) From() string {
	if len(t.Participants) == 0 {
		return "Unknown"
	}
	if t.Participants[0].Name != "" {
		return t.Participants[0].Name
	}
	return t.Participants[0].Email
}
