package source

import (
	"context"

	"github.com/quicksilvermail/quicksilver/internal/domain"
)

// Snapshot is the initial mailbox state a data source delivers:
// threads per mailbox, newest first, plus the contact list.
type Snapshot struct {
	Inbox    []domain.Thread
	Sent     []domain.Thread
	Drafts   []domain.Thread
	Trash    []domain.Thread
	Contacts []domain.Contact
}

// DataSource supplies mailbox content to the mail store. The mock
// implementation generates deterministic demo data; a future
// implementation will fetch over IMAP using the user's mail profile.
type DataSource interface {
	// Mailboxes produces the initial snapshot of all four mailboxes
	// and the contact list.
	Mailboxes(ctx context.Context) (*Snapshot, error)

	// SeedConversation produces the placeholder message history for a
	// thread whose messages have never been requested.
	SeedConversation(threadID string) []domain.Message
}
