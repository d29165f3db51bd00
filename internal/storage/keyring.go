package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "quicksilver"

// Keyring is a KV backed by the OS keyring (macOS Keychain, Windows
// Credential Manager, or Linux Secret Service). Useful when the
// session record should not sit in a plain file.
type Keyring struct{}

// NewKeyring returns a new Keyring KV.
func NewKeyring() *Keyring {
	return &Keyring{}
}

func (k *Keyring) Get(key string) (string, error) {
	v, err := keyring.Get(serviceName, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return v, nil
}

func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(serviceName, key, value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *Keyring) Remove(key string) error {
	err := keyring.Delete(serviceName, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
