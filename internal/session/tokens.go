package session

import (
	"errors"
	"sync"

	"github.com/spigell/jobsight/internal/secrets"
)

// TokenStore keeps the bearer token between calls and, for durable stores,
// between runs. Load returns "" with a nil error when nothing is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryTokens holds the token for the life of the process only.
type MemoryTokens struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokens) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokens) Clear() error {
	return m.Save("")
}

// KeyringTokens keeps the token in the OS keychain.
type KeyringTokens struct {
	Keyring *secrets.Keyring
	Account string
}

const DefaultAccount = "session:default"

func NewKeyringTokens(account string) *KeyringTokens {
	if account == "" {
		account = DefaultAccount
	}
	return &KeyringTokens{Keyring: secrets.NewKeyring(), Account: account}
}

func (k *KeyringTokens) Load() (string, error) {
	token, err := k.Keyring.Get(k.Account)
	if errors.Is(err, secrets.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (k *KeyringTokens) Save(token string) error {
	if token == "" {
		return k.Clear()
	}
	return k.Keyring.Set(k.Account, token)
}

func (k *KeyringTokens) Clear() error {
	return k.Keyring.Delete(k.Account)
}
