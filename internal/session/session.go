package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/storage"
)

// StorageKey is the durable key the serialized user record lives under.
const StorageKey = "quicksilver_user"

// defaultDelay is the simulated round-trip for every session
// operation until a real authentication backend exists.
const defaultDelay = 500 * time.Millisecond

var (
	// ErrInvalidCredentials is returned by Login when email or
	// password is empty.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRegistration is returned by Register when email,
	// password, or name is missing.
	ErrInvalidRegistration = errors.New("invalid registration data")

	// ErrNotLoggedIn is returned by UpdateProfile when no session is
	// active.
	ErrNotLoggedIn = errors.New("no user logged in")
)

// Registration carries the fields collected by the registration form.
type Registration struct {
	Email    string
	Password string
	Name     string
	Mail     *domain.MailProfile
}

// ProfileUpdate holds partial profile fields; nil fields are left
// untouched by UpdateProfile.
type ProfileUpdate struct {
	Email *string
	Name  *string
	Mail  *domain.MailProfile
}

// Store owns the current-session identity and its lifecycle. All
// mutating operations simulate a server round-trip; validation and
// state changes happen after the delay, mirroring the backend this
// store stands in for.
type Store struct {
	kv    storage.KV
	clock clockwork.Clock
	delay time.Duration

	mu            sync.Mutex
	current       *domain.User
	authenticated bool
	loading       bool
}

// Option configures a Store.
type Option func(*Store)

// WithDelay overrides the simulated operation latency.
func WithDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// New creates a session Store over the given durable storage. The
// store reports loading until Restore has run.
func New(kv storage.KV, clock clockwork.Clock, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		clock:   clock,
		delay:   defaultDelay,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads a previously persisted session from storage. A
// corrupt record is discarded and logged rather than surfaced; the
// session simply starts unauthenticated. Restore is the only path
// that authenticates without an explicit Login or Register call.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	raw, err := s.kv.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[session] failed to read stored user: %v", err)
		}
		return
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("[session] failed to parse stored user: %v", err)
		if err := s.kv.Remove(StorageKey); err != nil {
			log.Printf("[session] failed to discard corrupt user record: %v", err)
		}
		return
	}

	s.current = &user
	s.authenticated = true
}

// Login authenticates with the given credentials. Until a real
// backend exists any non-empty pair is accepted and the display name
// is derived from the email local-part.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user := &domain.User{
		ID:    "1",
		Email: email,
		Name:  localPart(email),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(user); err != nil {
		return nil, err
	}
	s.current = user
	s.authenticated = true
	return copyUser(user), nil
}

// Register creates a new account from the supplied registration data,
// including any mail-service connection settings, and signs it in.
func (s *Store) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return nil, ErrInvalidRegistration
	}

	user := &domain.User{
		ID:    strconv.FormatInt(s.clock.Now().UnixMilli(), 10),
		Email: reg.Email,
		Name:  reg.Name,
		Mail:  reg.Mail,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(user); err != nil {
		return nil, err
	}
	s.current = user
	s.authenticated = true
	return copyUser(user), nil
}

// Logout clears the session and removes the persisted record. It is
// synchronous and has no failure mode the caller needs to handle.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.authenticated = false
	if err := s.kv.Remove(StorageKey); err != nil {
		log.Printf("[session] failed to remove stored user: %v", err)
	}
}

// UpdateProfile merges the non-nil fields of update into the current
// user and persists the result.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}

	merged := *s.current
	if update.Email != nil {
		merged.Email = *update.Email
	}
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Mail != nil {
		merged.Mail = update.Mail
	}

	if err := s.persist(&merged); err != nil {
		return nil, err
	}
	s.current = &merged
	return copyUser(&merged), nil
}

// ResetPassword acknowledges a password-reset request. No credential
// actually changes; the confirmation message is all the caller gets
// until a real backend exists.
func (s *Store) ResetPassword(ctx context.Context, email string) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	return "Password reset email sent", nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.current)
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Loading reports whether the initial restore is still pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// wait blocks for the simulated round-trip or until ctx is canceled.
func (s *Store) wait(ctx context.Context) error {
	select {
	case <-s.clock.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// persist serializes user under the storage key. Callers hold s.mu.
func (s *Store) persist(user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Mail != nil {
		m := *u.Mail
		c.Mail = &m
	}
	return &c
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
