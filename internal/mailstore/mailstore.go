package mailstore

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/source"
)

// Delays holds the simulated round-trip latency per operation class.
type Delays struct {
	Load      time.Duration
	Send      time.Duration
	SendEmail time.Duration
	SaveDraft time.Duration
	Delete    time.Duration
	MarkRead  time.Duration
}

// DefaultDelays mirrors the latencies of the backend this store
// stands in for.
func DefaultDelays() Delays {
	return Delays{
		Load:      500 * time.Millisecond,
		Send:      200 * time.Millisecond,
		SendEmail: 500 * time.Millisecond,
		SaveDraft: 300 * time.Millisecond,
		Delete:    300 * time.Millisecond,
		MarkRead:  200 * time.Millisecond,
	}
}

// Email is an outgoing message as assembled by a composer.
type Email struct {
	To          []domain.Participant
	Subject     string
	Body        string
	Attachments []string
}

// Store owns the four mailbox collections, the contact list, and the
// per-thread message cache. Threads live in a single authoritative
// map keyed by id; each carries its Mailbox, so a thread can never
// appear in two collections at once. Per-mailbox id lists preserve
// display order, newest first.
//
// Every mutating operation waits out its simulated latency before
// taking the lock, so the mutation itself is atomic and safe under
// concurrent callers.
type Store struct {
	source source.DataSource
	clock  clockwork.Clock
	delays Delays

	mu       sync.Mutex
	threads  map[string]*domain.Thread
	order    map[domain.Mailbox][]string
	messages map[string][]domain.Message
	contacts []domain.Contact
	loading  bool
}

// New creates a mail Store over the given data source. The store
// reports loading until Load has run.
func New(src source.DataSource, clock clockwork.Clock, delays Delays) *Store {
	return &Store{
		source:   src,
		clock:    clock,
		delays:   delays,
		threads:  map[string]*domain.Thread{},
		order:    map[domain.Mailbox][]string{},
		messages: map[string][]domain.Message{},
		loading:  true,
	}
}

// Load populates the store from the data source after the usual
// round-trip delay. Meant to run once at activation.
func (s *Store) Load(ctx context.Context) error {
	if err := s.wait(ctx, s.delays.Load); err != nil {
		return err
	}

	snap, err := s.source.Mailboxes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load mailboxes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.index(domain.MailboxInbox, snap.Inbox)
	s.index(domain.MailboxSent, snap.Sent)
	s.index(domain.MailboxDrafts, snap.Drafts)
	s.index(domain.MailboxTrash, snap.Trash)
	s.contacts = snap.Contacts
	s.loading = false

	log.Printf("[mail] loaded %d threads across %d mailboxes", len(s.threads), len(s.order))
	return nil
}

// index installs threads into a mailbox, preserving the given order.
// Callers hold s.mu.
func (s *Store) index(box domain.Mailbox, threads []domain.Thread) {
	ids := make([]string, 0, len(threads))
	for i := range threads {
		t := threads[i]
		t.Mailbox = box
		s.threads[t.ID] = &t
		ids = append(ids, t.ID)
	}
	s.order[box] = ids
}

// Loading reports whether the initial load is still pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Threads returns the threads of a mailbox in display order.
func (s *Store) Threads(box domain.Mailbox) []domain.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Thread, 0, len(s.order[box]))
	for _, id := range s.order[box] {
		out = append(out, *s.threads[id])
	}
	return out
}

// Contacts returns the address book.
func (s *Store) Contacts() []domain.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// GetThread looks a thread up by id across all mailboxes.
func (s *Store) GetThread(id string) (domain.Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return domain.Thread{}, false
	}
	return *t, true
}

// GetMessages returns the message history for a thread. The first
// request for an unknown thread id generates the seed conversation
// and caches it; later calls return the same cached list, extended in
// place by SendMessage.
func (s *Store) GetMessages(threadID string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msgs, ok := s.messages[threadID]; ok {
		return msgs
	}
	seed := s.source.SeedConversation(threadID)
	s.messages[threadID] = seed
	return seed
}

// SendMessage appends a reply from the current user to a thread's
// message history, creating the history if it does not exist yet.
func (s *Store) SendMessage(ctx context.Context, threadID, content string) (*domain.Message, error) {
	if err := s.wait(ctx, s.delays.Send); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.Message{
		ID:        "msg-" + uuid.NewString(),
		Content:   content,
		Sender:    domain.CurrentSender(),
		Timestamp: s.clock.Now(),
		IsRead:    true,
	}
	s.messages[threadID] = append(s.messages[threadID], msg)
	return &msg, nil
}

// SendEmail records an outgoing email as a new thread at the top of
// the sent mailbox. Drafts and inbox are unaffected.
func (s *Store) SendEmail(ctx context.Context, email Email) (*domain.Thread, error) {
	if err := s.wait(ctx, s.delays.SendEmail); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	thread := &domain.Thread{
		ID:              "sent-" + uuid.NewString(),
		Subject:         email.Subject,
		Participants:    email.To,
		LastMessage:     email.Body,
		LastMessageTime: s.clock.Now(),
		HasAttachment:   len(email.Attachments) > 0,
		Mailbox:         domain.MailboxSent,
	}
	s.insert(thread)
	return copyThread(thread), nil
}

// SaveDraft records an unfinished email at the top of the drafts
// mailbox. Missing fields get placeholder defaults.
func (s *Store) SaveDraft(ctx context.Context, draft Email) (*domain.Thread, error) {
	if err := s.wait(ctx, s.delays.SaveDraft); err != nil {
		return nil, err
	}

	subject := draft.Subject
	if subject == "" {
		subject = "(No subject)"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	thread := &domain.Thread{
		ID:              "draft-" + uuid.NewString(),
		Subject:         subject,
		Participants:    draft.To,
		LastMessage:     draft.Body,
		LastMessageTime: s.clock.Now(),
		HasAttachment:   len(draft.Attachments) > 0,
		Mailbox:         domain.MailboxDrafts,
	}
	s.insert(thread)
	return copyThread(thread), nil
}

// DeleteThread moves a thread from inbox, sent, or drafts to the top
// of trash. A thread already in trash, or an unknown id, is left
// alone; repeated deletes of the same id are therefore no-ops after
// the first.
func (s *Store) DeleteThread(ctx context.Context, threadID string) error {
	if err := s.wait(ctx, s.delays.Delete); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[threadID]
	if !ok || t.Mailbox == domain.MailboxTrash {
		return nil
	}

	s.order[t.Mailbox] = removeID(s.order[t.Mailbox], threadID)
	t.Mailbox = domain.MailboxTrash
	s.order[domain.MailboxTrash] = append([]string{threadID}, s.order[domain.MailboxTrash]...)
	return nil
}

// MarkAsRead zeroes the unread count of an inbox thread. Threads in
// other mailboxes never carry unread counts, so the call has no
// effect on them.
func (s *Store) MarkAsRead(ctx context.Context, threadID string) error {
	if err := s.wait(ctx, s.delays.MarkRead); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.threads[threadID]; ok && t.Mailbox == domain.MailboxInbox {
		t.UnreadCount = 0
	}
	return nil
}

// UnreadCount returns the aggregate unread count across the inbox.
// Sent, drafts, and trash do not contribute.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, id := range s.order[domain.MailboxInbox] {
		total += s.threads[id].UnreadCount
	}
	return total
}

// insert prepends a thread to its mailbox. Callers hold s.mu.
func (s *Store) insert(t *domain.Thread) {
	s.threads[t.ID] = t
	s.order[t.Mailbox] = append([]string{t.ID}, s.order[t.Mailbox]...)
}

func (s *Store) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-s.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func copyThread(t *domain.Thread) *domain.Thread {
	c := *t
	return &c
}
