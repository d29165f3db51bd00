package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quicksilvermail/quicksilver/internal/config"
	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/mailstore"
	"github.com/quicksilvermail/quicksilver/internal/session"
	"github.com/quicksilvermail/quicksilver/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Storage.Path = filepath.Join(t.TempDir(), "session.json")
	// Zero latency keeps the wiring tests fast.
	cfg.Latency = config.LatencyConfig{
		Session: "0s", Load: "0s", Send: "0s",
		SendEmail: "0s", SaveDraft: "0s", Delete: "0s", MarkRead: "0s",
	}
	return cfg
}

func TestNew_WiresStores(t *testing.T) {
	a, err := New(testConfig(t), clockwork.NewRealClock())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer a.Close()

	if a.Session == nil || a.Mail == nil {
		t.Fatal("New() left a store nil")
	}
	if a.Session.Loading() {
		t.Error("session still loading after New(): restore should have run")
	}
	if a.Session.IsAuthenticated() {
		t.Error("fresh app should start unauthenticated")
	}

	if err := a.Mail.Load(context.Background()); err != nil {
		t.Fatalf("Mail.Load() error: %v", err)
	}
	if got := len(a.Mail.Threads(domain.MailboxInbox)); got != 12 {
		t.Errorf("inbox count = %d, want 12", got)
	}
}

func TestNew_RestoresPersistedSession(t *testing.T) {
	cfg := testConfig(t)

	// A previous run left a session record behind.
	record, _ := json.Marshal(domain.User{ID: "1", Email: "alice@example.com", Name: "alice"})
	if err := storage.NewFile(cfg.Storage.Path).Set(session.StorageKey, string(record)); err != nil {
		t.Fatal(err)
	}

	a, err := New(cfg, clockwork.NewRealClock())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer a.Close()

	if !a.Session.IsAuthenticated() {
		t.Error("session should be restored from storage")
	}
	if u := a.Session.CurrentUser(); u == nil || u.Email != "alice@example.com" {
		t.Errorf("CurrentUser() = %+v, want restored alice", u)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "sqlite"

	if _, err := New(cfg, clockwork.NewRealClock()); err == nil {
		t.Error("New() should reject an unknown storage backend")
	}
}

func TestMailDelays_FromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Latency.Send = "25ms"
	cfg.Latency.Delete = "bogus"

	d := mailDelays(cfg)
	if d.Send != 25*time.Millisecond {
		t.Errorf("Send delay = %v, want 25ms", d.Send)
	}
	if want := mailstore.DefaultDelays().Delete; d.Delete != want {
		t.Errorf("Delete delay = %v, want default %v for malformed value", d.Delete, want)
	}
}
