package mock

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quicksilvermail/quicksilver/internal/domain"
)

func newTestSource(t *testing.T) (*Source, clockwork.Clock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return New(clock, 1), clock
}

func TestMailboxes_Counts(t *testing.T) {
	src, _ := newTestSource(t)

	snap, err := src.Mailboxes(context.Background())
	if err != nil {
		t.Fatalf("Mailboxes() error: %v", err)
	}

	if got := len(snap.Inbox); got != 12 {
		t.Errorf("inbox count = %d, want 12", got)
	}
	if got := len(snap.Sent); got != 8 {
		t.Errorf("sent count = %d, want 8", got)
	}
	if got := len(snap.Drafts); got != 3 {
		t.Errorf("drafts count = %d, want 3", got)
	}
	if got := len(snap.Trash); got != 5 {
		t.Errorf("trash count = %d, want 5", got)
	}
	if got := len(snap.Contacts); got != 5 {
		t.Errorf("contacts count = %d, want 5", got)
	}
}

func TestMailboxes_ThreadShape(t *testing.T) {
	src, clock := newTestSource(t)

	snap, err := src.Mailboxes(context.Background())
	if err != nil {
		t.Fatalf("Mailboxes() error: %v", err)
	}

	now := clock.Now()
	for i, thread := range snap.Inbox {
		if want := "inbox-" + strconv.Itoa(i+1); thread.ID != want {
			t.Errorf("inbox[%d].ID = %q, want %q", i, thread.ID, want)
		}
		if thread.Mailbox != domain.MailboxInbox {
			t.Errorf("inbox[%d].Mailbox = %q", i, thread.Mailbox)
		}
		if len(thread.Participants) != 1 {
			t.Fatalf("inbox[%d] participants = %d, want 1", i, len(thread.Participants))
		}

		wantTime := now.Add(-time.Duration(i) * 2 * time.Hour)
		if !thread.LastMessageTime.Equal(wantTime) {
			t.Errorf("inbox[%d].LastMessageTime = %v, want %v", i, thread.LastMessageTime, wantTime)
		}

		if want := i%4 == 0; thread.HasAttachment != want {
			t.Errorf("inbox[%d].HasAttachment = %v, want %v", i, thread.HasAttachment, want)
		}

		if i%3 == 0 {
			if thread.UnreadCount < 1 || thread.UnreadCount > 5 {
				t.Errorf("inbox[%d].UnreadCount = %d, want 1-5", i, thread.UnreadCount)
			}
		} else if thread.UnreadCount != 0 {
			t.Errorf("inbox[%d].UnreadCount = %d, want 0", i, thread.UnreadCount)
		}
	}

	// Only inbox threads are ever unread.
	for _, thread := range snap.Sent {
		if thread.UnreadCount != 0 {
			t.Errorf("sent thread %s has UnreadCount %d", thread.ID, thread.UnreadCount)
		}
	}

	// Draft ids use the singular namespace.
	if !strings.HasPrefix(snap.Drafts[0].ID, "draft-") {
		t.Errorf("draft id = %q, want draft- prefix", snap.Drafts[0].ID)
	}
}

func TestMailboxes_Deterministic(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	a, err := New(clock, 7).Mailboxes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(clock, 7).Mailboxes(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Inbox {
		if a.Inbox[i].UnreadCount != b.Inbox[i].UnreadCount {
			t.Errorf("inbox[%d] unread differs between identically seeded sources: %d vs %d",
				i, a.Inbox[i].UnreadCount, b.Inbox[i].UnreadCount)
		}
	}
}

func TestSeedConversation(t *testing.T) {
	src, _ := newTestSource(t)

	msgs := src.SeedConversation("inbox-1")
	if len(msgs) != 2 {
		t.Fatalf("SeedConversation() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].FromCurrentUser() {
		t.Error("first seed message should be inbound")
	}
	if !msgs[1].FromCurrentUser() {
		t.Error("second seed message should be from the current user")
	}
	if !msgs[0].Timestamp.Before(msgs[1].Timestamp) {
		t.Error("seed messages should be in chronological order")
	}
	for i, m := range msgs {
		if !m.IsRead {
			t.Errorf("seed message %d should be read", i)
		}
	}
}
