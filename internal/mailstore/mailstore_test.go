package mailstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/source/mock"
)

// newLoadedStore returns a store seeded from the mock source with
// zero latency, so tests exercise semantics rather than timers.
func newLoadedStore(t *testing.T) *Store {
	t.Helper()
	clock := clockwork.NewRealClock()
	s := New(mock.New(clock, 1), clock, Delays{})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return s
}

func TestLoad_SeedsAllMailboxes(t *testing.T) {
	s := newLoadedStore(t)

	wants := map[domain.Mailbox]int{
		domain.MailboxInbox:  12,
		domain.MailboxSent:   8,
		domain.MailboxDrafts: 3,
		domain.MailboxTrash:  5,
	}
	for box, want := range wants {
		if got := len(s.Threads(box)); got != want {
			t.Errorf("Threads(%s) count = %d, want %d", box, got, want)
		}
	}
	if got := len(s.Contacts()); got != 5 {
		t.Errorf("Contacts() count = %d, want 5", got)
	}
	if s.Loading() {
		t.Error("Loading() = true after Load()")
	}
}

func TestLoad_WaitsForSimulatedLatency(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(mock.New(clock, 1), clock, Delays{Load: 500 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	clock.BlockUntil(1)
	if !s.Loading() {
		t.Error("Loading() = false while the load timer is pending")
	}
	clock.Advance(500 * time.Millisecond)

	if err := <-done; err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Loading() {
		t.Error("Loading() = true after the load completed")
	}
}

func TestUnreadCount_SumsInboxOnly(t *testing.T) {
	s := newLoadedStore(t)

	want := 0
	for _, thread := range s.Threads(domain.MailboxInbox) {
		want += thread.UnreadCount
	}
	if want == 0 {
		t.Fatal("mock inbox should contain unread threads")
	}
	if got := s.UnreadCount(); got != want {
		t.Errorf("UnreadCount() = %d, want %d (inbox sum)", got, want)
	}
}

func TestGetThread_SearchesAllMailboxes(t *testing.T) {
	s := newLoadedStore(t)

	tests := []struct {
		id  string
		box domain.Mailbox
	}{
		{"inbox-1", domain.MailboxInbox},
		{"sent-3", domain.MailboxSent},
		{"draft-2", domain.MailboxDrafts},
		{"trash-5", domain.MailboxTrash},
	}
	for _, tt := range tests {
		thread, ok := s.GetThread(tt.id)
		if !ok {
			t.Errorf("GetThread(%s) not found", tt.id)
			continue
		}
		if thread.Mailbox != tt.box {
			t.Errorf("GetThread(%s).Mailbox = %q, want %q", tt.id, thread.Mailbox, tt.box)
		}
	}

	if _, ok := s.GetThread("inbox-99"); ok {
		t.Error("GetThread(inbox-99) should be absent")
	}
}

func TestGetMessages_SeedIsCached(t *testing.T) {
	s := newLoadedStore(t)

	first := s.GetMessages("inbox-1")
	if len(first) != 2 {
		t.Fatalf("GetMessages() seed length = %d, want 2", len(first))
	}

	second := s.GetMessages("inbox-1")
	if len(second) != 2 {
		t.Fatalf("second GetMessages() length = %d, want 2", len(second))
	}
	// Same cached list, not a regenerated one.
	if &first[0] != &second[0] {
		t.Error("GetMessages() regenerated the seed conversation")
	}
}

func TestSendMessage_AppendsToHistory(t *testing.T) {
	s := newLoadedStore(t)

	before := len(s.GetMessages("inbox-2"))

	msg, err := s.SendMessage(context.Background(), "inbox-2", "hello")
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if msg.Content != "hello" {
		t.Errorf("SendMessage().Content = %q, want %q", msg.Content, "hello")
	}
	if msg.Sender.ID != domain.CurrentSenderID {
		t.Errorf("SendMessage().Sender.ID = %q, want %q", msg.Sender.ID, domain.CurrentSenderID)
	}
	if !msg.IsRead {
		t.Error("SendMessage() should produce a read message")
	}

	after := s.GetMessages("inbox-2")
	if len(after) != before+1 {
		t.Fatalf("history length = %d, want %d", len(after), before+1)
	}
	if last := after[len(after)-1]; last.ID != msg.ID {
		t.Errorf("last message id = %q, want %q", last.ID, msg.ID)
	}
}

func TestSendMessage_CreatesHistoryIfAbsent(t *testing.T) {
	s := newLoadedStore(t)

	// No GetMessages call first: the history starts with this reply.
	msg, err := s.SendMessage(context.Background(), "sent-1", "ping")
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	history := s.GetMessages("sent-1")
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].ID != msg.ID {
		t.Errorf("history[0].ID = %q, want %q", history[0].ID, msg.ID)
	}
}

func TestSendEmail_PrependsToSent(t *testing.T) {
	s := newLoadedStore(t)
	sentBefore := len(s.Threads(domain.MailboxSent))
	draftsBefore := len(s.Threads(domain.MailboxDrafts))

	thread, err := s.SendEmail(context.Background(), Email{
		To:          []domain.Participant{{ID: "2", Name: "Bob Smith", Email: "bob@example.com"}},
		Subject:     "Quarterly numbers",
		Body:        "Attached below.",
		Attachments: []string{"q3.pdf"},
	})
	if err != nil {
		t.Fatalf("SendEmail() error: %v", err)
	}

	if thread.Mailbox != domain.MailboxSent {
		t.Errorf("SendEmail().Mailbox = %q, want sent", thread.Mailbox)
	}
	if !thread.HasAttachment {
		t.Error("SendEmail() with attachments should set HasAttachment")
	}

	sent := s.Threads(domain.MailboxSent)
	if len(sent) != sentBefore+1 {
		t.Fatalf("sent count = %d, want %d", len(sent), sentBefore+1)
	}
	if sent[0].ID != thread.ID {
		t.Errorf("sent[0].ID = %q, want new thread %q first", sent[0].ID, thread.ID)
	}
	if got := len(s.Threads(domain.MailboxDrafts)); got != draftsBefore {
		t.Errorf("drafts count changed to %d on SendEmail", got)
	}
}

func TestSaveDraft_Defaults(t *testing.T) {
	s := newLoadedStore(t)
	before := len(s.Threads(domain.MailboxDrafts))

	thread, err := s.SaveDraft(context.Background(), Email{})
	if err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}
	if thread.Subject != "(No subject)" {
		t.Errorf("SaveDraft().Subject = %q, want placeholder", thread.Subject)
	}
	if thread.LastMessage != "" {
		t.Errorf("SaveDraft().LastMessage = %q, want empty", thread.LastMessage)
	}

	drafts := s.Threads(domain.MailboxDrafts)
	if len(drafts) != before+1 {
		t.Fatalf("drafts count = %d, want %d", len(drafts), before+1)
	}
	if drafts[0].ID != thread.ID {
		t.Errorf("drafts[0].ID = %q, want new draft first", drafts[0].ID)
	}
}

func TestDeleteThread_MovesToTrash(t *testing.T) {
	s := newLoadedStore(t)
	trashBefore := len(s.Threads(domain.MailboxTrash))

	if err := s.DeleteThread(context.Background(), "inbox-4"); err != nil {
		t.Fatalf("DeleteThread() error: %v", err)
	}

	for _, thread := range s.Threads(domain.MailboxInbox) {
		if thread.ID == "inbox-4" {
			t.Error("inbox still contains deleted thread")
		}
	}

	trash := s.Threads(domain.MailboxTrash)
	if len(trash) != trashBefore+1 {
		t.Fatalf("trash count = %d, want %d", len(trash), trashBefore+1)
	}
	if trash[0].ID != "inbox-4" {
		t.Errorf("trash[0].ID = %q, want inbox-4 first", trash[0].ID)
	}
	if trash[0].Mailbox != domain.MailboxTrash {
		t.Errorf("moved thread Mailbox = %q, want trash", trash[0].Mailbox)
	}
}

func TestDeleteThread_Idempotent(t *testing.T) {
	s := newLoadedStore(t)
	trashBefore := len(s.Threads(domain.MailboxTrash))

	for range 3 {
		if err := s.DeleteThread(context.Background(), "sent-2"); err != nil {
			t.Fatalf("DeleteThread() error: %v", err)
		}
	}

	trash := s.Threads(domain.MailboxTrash)
	if len(trash) != trashBefore+1 {
		t.Errorf("trash count = %d after repeated deletes, want %d", len(trash), trashBefore+1)
	}
	seen := map[string]int{}
	for _, thread := range trash {
		seen[thread.ID]++
	}
	if seen["sent-2"] != 1 {
		t.Errorf("trash contains sent-2 %d times, want 1", seen["sent-2"])
	}
}

func TestDeleteThread_UnknownID(t *testing.T) {
	s := newLoadedStore(t)
	trashBefore := len(s.Threads(domain.MailboxTrash))

	if err := s.DeleteThread(context.Background(), "nope"); err != nil {
		t.Fatalf("DeleteThread() of unknown id error: %v", err)
	}
	if got := len(s.Threads(domain.MailboxTrash)); got != trashBefore {
		t.Errorf("trash count = %d, want unchanged %d", got, trashBefore)
	}
}

func TestMarkAsRead(t *testing.T) {
	s := newLoadedStore(t)

	// inbox-1 sits at position 0, which the generator marks unread.
	target, ok := s.GetThread("inbox-1")
	if !ok {
		t.Fatal("inbox-1 missing")
	}
	if target.UnreadCount == 0 {
		t.Fatal("inbox-1 should start unread")
	}

	others := map[string]int{}
	for _, thread := range s.Threads(domain.MailboxInbox) {
		if thread.ID != "inbox-1" {
			others[thread.ID] = thread.UnreadCount
		}
	}

	if err := s.MarkAsRead(context.Background(), "inbox-1"); err != nil {
		t.Fatalf("MarkAsRead() error: %v", err)
	}

	got, _ := s.GetThread("inbox-1")
	if got.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d after MarkAsRead, want 0", got.UnreadCount)
	}
	for _, thread := range s.Threads(domain.MailboxInbox) {
		if want, ok := others[thread.ID]; ok && thread.UnreadCount != want {
			t.Errorf("thread %s UnreadCount changed to %d, want %d", thread.ID, thread.UnreadCount, want)
		}
	}
}

func TestMarkAsRead_NonInboxThread(t *testing.T) {
	s := newLoadedStore(t)

	if err := s.MarkAsRead(context.Background(), "sent-1"); err != nil {
		t.Fatalf("MarkAsRead() error: %v", err)
	}
	thread, _ := s.GetThread("sent-1")
	if thread.Mailbox != domain.MailboxSent {
		t.Errorf("sent-1 moved to %q", thread.Mailbox)
	}
}

func TestOperations_ContextCanceled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(mock.New(clock, 1), clock, DefaultDelays())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
	if _, err := s.SendMessage(ctx, "inbox-1", "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("SendMessage() error = %v, want context.Canceled", err)
	}
	if err := s.DeleteThread(ctx, "inbox-1"); !errors.Is(err, context.Canceled) {
		t.Errorf("DeleteThread() error = %v, want context.Canceled", err)
	}
}
