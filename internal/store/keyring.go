package store

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "mailsift"

// KeyringPasswordStore persists IMAP account passwords in the OS
// keyring (macOS Keychain, Windows Credential Manager, or Linux
// Secret Service).
type KeyringPasswordStore struct{}

// NewKeyringPasswordStore returns a new KeyringPasswordStore.
func NewKeyringPasswordStore() *KeyringPasswordStore {
	return &KeyringPasswordStore{}
}

// SavePassword stores the password in the OS keyring under the account ID.
func (k *KeyringPasswordStore) SavePassword(accountID, password string) error {
	if err := keyring.Set(serviceName, accountID, password); err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// LoadPassword retrieves the password for the given account ID from the OS keyring.
func (k *KeyringPasswordStore) LoadPassword(accountID string) (string, error) {
	password, err := keyring.Get(serviceName, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to load password from keyring: %w", err)
	}
	return password, nil
}

// DeletePassword removes the password for the given account ID from the OS keyring.
func (k *KeyringPasswordStore) DeletePassword(accountID string) error {
	if err := keyring.Delete(serviceName, accountID); err != nil {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}
