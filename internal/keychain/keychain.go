package keychain

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	serviceName  = "tgblocks"
	tokenAccount = "bot-token"
)

// Get retrieves a secret from the system keychain.
func Get(account string) (string, error) {
	return keyring.Get(serviceName, account)
}

// Set stores a secret in the system keychain.
func Set(account, value string) error {
	return keyring.Set(serviceName, account, value)
}

// Delete removes a secret from the system keychain.
func Delete(account string) error {
	return keyring.Delete(serviceName, account)
}

// Token returns the stored bot token, or "" if none has been stored.
func Token() (string, error) {
	tok, err := Get(tokenAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return tok, err
}

// SetToken stores the bot token.
func SetToken(token string) error {
	return Set(tokenAccount, token)
}

// DeleteToken removes the stored bot token. Removing a missing token is not an error.
func DeleteToken() error {
	err := Delete(tokenAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
