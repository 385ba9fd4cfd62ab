package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the application's entries in the OS keychain.
const KeyringService = "jobsight"

var ErrNotFound = errors.New("secret not found in keychain")

// Keyring stores named secrets in the OS keychain under one service.
type Keyring struct {
	Service string
}

func NewKeyring() *Keyring {
	return &Keyring{Service: KeyringService}
}

func (k *Keyring) Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	secret, err := keyring.Get(k.Service, account)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(secret) == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s from keychain: %w", account, err)
	}
	return secret, nil
}

func (k *Keyring) Set(account, secret string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(k.Service, account, secret)
}

// Delete removes the entry. A missing entry is not an error.
func (k *Keyring) Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if err := keyring.Delete(k.Service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete %s from keychain: %w", account, err)
	}
	return nil
}
