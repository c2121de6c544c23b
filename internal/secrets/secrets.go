package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"applypilot/internal/domain"
)

// “Service” groups the engine's secrets in the OS keychain.
const KeyringService = "applypilot"

// ErrNoCredentials is returned when a platform has no stored login.
var ErrNoCredentials = errors.New("no credentials stored for platform")

// Credentials is a platform login pair.
type Credentials struct {
	Username string
	Password string
}

// Keychain stores platform credentials in the OS keyring. Encryption at
// rest is the keychain's problem, not ours.
type Keychain struct{}

func credAccount(p domain.Platform) string {
	return fmt.Sprintf("creds:%s", p)
}

// GetCredentials returns the stored login for a platform, or ErrNoCredentials.
func (Keychain) GetCredentials(p domain.Platform) (Credentials, error) {
	raw, err := keyring.Get(KeyringService, credAccount(p))
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %s", ErrNoCredentials, p)
	}
	user, pass, ok := strings.Cut(raw, "\n")
	if !ok || user == "" || pass == "" {
		return Credentials{}, fmt.Errorf("%w: %s", ErrNoCredentials, p)
	}
	return Credentials{Username: user, Password: pass}, nil
}

// SetCredentials stores a platform login.
func (Keychain) SetCredentials(p domain.Platform, c Credentials) error {
	if strings.TrimSpace(c.Username) == "" {
		return errors.New("username is empty")
	}
	if c.Password == "" {
		return errors.New("password is empty")
	}
	if strings.Contains(c.Username, "\n") {
		return errors.New("username must not contain a newline")
	}
	return keyring.Set(KeyringService, credAccount(p), c.Username+"\n"+c.Password)
}

// DeleteCredentials removes a platform login. Missing entries are not an error.
func (Keychain) DeleteCredentials(p domain.Platform) error {
	err := keyring.Delete(KeyringService, credAccount(p))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
