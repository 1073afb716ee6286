// Package config - keyring.go resolves secrets from the operating system's
// native keyring (Linux: Secret Service, macOS: Keychain, Windows:
// Credential Manager) as a fallback when neither the environment nor the
// config file carries them.
package config

import "github.com/zalando/go-keyring"

const (
	// keyringService is the service name used in the OS keyring.
	keyringService = "briefbot"

	// keyringBotToken is the key name for the Discord bot token.
	keyringBotToken = "bot_token"

	// keyringAPIKey is the key name for the LLM API key.
	keyringAPIKey = "api_key"
)

// keyringGet retrieves a secret from the OS keyring. Returns empty string
// when not found or the keyring is unavailable.
func keyringGet(key string) string {
	val, err := keyring.Get(keyringService, key)
	if err != nil {
		return ""
	}
	return val
}

// StoreBotToken saves the Discord bot token to the OS keyring so it can be
// kept out of the config file and environment.
func StoreBotToken(value string) error {
	return keyring.Set(keyringService, keyringBotToken, value)
}

// StoreAPIKey saves the LLM API key to the OS keyring.
func StoreAPIKey(value string) error {
	return keyring.Set(keyringService, keyringAPIKey, value)
}

// ClearCredentials removes both stored secrets from the OS keyring.
// Missing entries are not an error.
func ClearCredentials() error {
	for _, key := range []string{keyringBotToken, keyringAPIKey} {
		if err := keyring.Delete(keyringService, key); err != nil && err != keyring.ErrNotFound {
			return err
		}
	}
	return nil
}
