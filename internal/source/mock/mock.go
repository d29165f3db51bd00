package mock

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/source"
)

// Thread counts per mailbox for the generated snapshot.
const (
	inboxCount = 12
	sentCount  = 8
	draftCount = 3
	trashCount = 5
)

var participants = []domain.Participant{
	{ID: "1", Name: "Alice Johnson", Email: "alice@example.com"},
	{ID: "2", Name: "Bob Smith", Email: "bob@example.com"},
	{ID: "3", Name: "Carol Williams", Email: "carol@example.com"},
	{ID: "4", Name: "David Brown", Email: "david@example.com"},
	{ID: "5", Name: "Eva Martinez", Email: "eva@example.com"},
}

var subjects = []string{
	"Project Update",
	"Meeting Notes",
	"Budget Review",
	"Team Lunch",
	"Q1 Planning",
	"Client Feedback",
	"Design Review",
	"Weekly Sync",
	"Code Review",
	"Important Announcement",
}

var snippets = []string{
	"Let's discuss this in our next meeting.",
	"I've attached the document for your review.",
	"Thanks for the update!",
	"Can we schedule a call?",
	"Please review the changes and let me know.",
	"Great work on this!",
	"I have some questions about the proposal.",
	"Looking forward to hearing from you.",
	"This looks good to me.",
	"Let's move forward with this plan.",
}

// Source generates deterministic demo mailboxes. Two Sources built
// with the same seed and clock produce identical snapshots.
type Source struct {
	clock clockwork.Clock
	seed  int64
}

// New creates a mock data source. Unread counts are drawn from a
// generator seeded with seed, so snapshots are reproducible.
func New(clock clockwork.Clock, seed int64) *Source {
	return &Source{clock: clock, seed: seed}
}

func (s *Source) Mailboxes(ctx context.Context) (*source.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.seed))
	now := s.clock.Now()

	return &source.Snapshot{
		Inbox:    s.generate(rng, now, inboxCount, domain.MailboxInbox),
		Sent:     s.generate(rng, now, sentCount, domain.MailboxSent),
		Drafts:   s.generate(rng, now, draftCount, domain.MailboxDrafts),
		Trash:    s.generate(rng, now, trashCount, domain.MailboxTrash),
		Contacts: Contacts(),
	}, nil
}

// generate produces count threads for box, cycling through the fixed
// pools by position. Each subsequent thread is two hours older than
// the previous one; every 4th has an attachment; in the inbox, every
// 3rd carries an unread count of 1-5.
func (s *Source) generate(rng *rand.Rand, now time.Time, count int, box domain.Mailbox) []domain.Thread {
	threads := make([]domain.Thread, count)
	for i := range threads {
		unread := 0
		if box == domain.MailboxInbox && i%3 == 0 {
			unread = rng.Intn(5) + 1
		}
		threads[i] = domain.Thread{
			ID:              fmt.Sprintf("%s-%d", idPrefix(box), i+1),
			Subject:         subjects[i%len(subjects)],
			Participants:    []domain.Participant{participants[i%len(participants)]},
			LastMessage:     snippets[i%len(snippets)],
			LastMessageTime: now.Add(-time.Duration(i) * 2 * time.Hour),
			UnreadCount:     unread,
			HasAttachment:   i%4 == 0,
			Mailbox:         box,
		}
	}
	return threads
}

func (s *Source) SeedConversation(threadID string) []domain.Message {
	now := s.clock.Now()
	return []domain.Message{
		{
			ID:        "msg-1",
			Content:   "Hi, this is the first message in the thread.",
			Sender:    participants[0],
			Timestamp: now.Add(-2 * time.Hour),
			IsRead:    true,
		},
		{
			ID:        "msg-2",
			Content:   "Thanks for your message. I'll review this and get back to you.",
			Sender:    domain.CurrentSender(),
			Timestamp: now.Add(-time.Hour),
			IsRead:    true,
		},
	}
}

// Contacts returns the static demo address book.
func Contacts() []domain.Contact {
	contacts := make([]domain.Contact, len(participants))
	for i, p := range participants {
		contacts[i] = domain.Contact{ID: p.ID, Name: p.Name, Email: p.Email}
	}
	return contacts
}

// idPrefix maps a mailbox to its thread id namespace. Draft ids use
// the singular form.
func idPrefix(box domain.Mailbox) string {
	if box == domain.MailboxDrafts {
		return "draft"
	}
	return string(box)
}
