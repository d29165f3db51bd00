package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quicksilvermail/quicksilver/internal/config"
	"github.com/quicksilvermail/quicksilver/internal/mailstore"
	"github.com/quicksilvermail/quicksilver/internal/session"
	"github.com/quicksilvermail/quicksilver/internal/source/mock"
	"github.com/quicksilvermail/quicksilver/internal/storage"
)

// App wires the two state stores to their collaborators and owns
// their lifecycle: construct once at startup, Close on shutdown.
type App struct {
	Config  *config.Config
	Session *session.Store
	Mail    *mailstore.Store
}

// New builds the application context from configuration. The session
// is restored from durable storage before New returns; mailbox data
// is loaded separately via Mail.Load, since it simulates a round
// trip.
func New(cfg *config.Config, clock clockwork.Clock) (*App, error) {
	kv, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	sess := session.New(kv, clock,
		session.WithDelay(config.Duration(cfg.Latency.Session, 500*time.Millisecond)))
	sess.Restore()

	src := mock.New(clock, cfg.Mock.Seed)
	mail := mailstore.New(src, clock, mailDelays(cfg))

	return &App{
		Config:  cfg,
		Session: sess,
		Mail:    mail,
	}, nil
}

// Close tears the context down. The stores hold no external
// resources today, but callers should treat the App as unusable
// afterwards.
func (a *App) Close() error {
	return nil
}

func openStorage(cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		path := cfg.Storage.Path
		if path == "" {
			path = filepath.Join(config.DataDir(), "session.json")
		}
		return storage.NewFile(path), nil
	case "keyring":
		return storage.NewKeyring(), nil
	case "memory":
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (use file, keyring, or memory)", cfg.Storage.Backend)
	}
}

func mailDelays(cfg *config.Config) mailstore.Delays {
	def := mailstore.DefaultDelays()
	return mailstore.Delays{
		Load:      config.Duration(cfg.Latency.Load, def.Load),
		Send:      config.Duration(cfg.Latency.Send, def.Send),
		SendEmail: config.Duration(cfg.Latency.SendEmail, def.SendEmail),
		SaveDraft: config.Duration(cfg.Latency.SaveDraft, def.SaveDraft),
		Delete:    config.Duration(cfg.Latency.Delete, def.Delete),
		MarkRead:  config.Duration(cfg.Latency.MarkRead, def.MarkRead),
	}
}
