// Package keystore provides encrypted on-disk storage for provider API keys.
// Configuration entries refer to stored keys by name through api_key_ref.
package keystore

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// PassphraseEnv names the variable holding the keystore passphrase.
const PassphraseEnv = "CHATGATE_KEYSTORE_PASSPHRASE"

// Keystore defines the interface for secure key storage.
type Keystore interface {
	// Set stores a key-value pair.
	Set(name, value string) error
	// Get retrieves a value by name. Returns error if not found.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// ErrEmptyPassphrase is returned by PassphraseSource for an empty value.
var ErrEmptyPassphrase = errors.New("keystore passphrase is empty")

// MasterKeySource supplies the secret the file encryption key is derived
// from.
type MasterKeySource interface {
	MasterKey() ([]byte, error)
}

// PassphraseSource uses a fixed passphrase.
type PassphraseSource string

func (p PassphraseSource) MasterKey() ([]byte, error) {
	if p == "" {
		return nil, ErrEmptyPassphrase
	}
	return []byte(p), nil
}

// MachineSource derives a master key from the host and user names. It keeps
// keys out of plain text but offers no protection against a local attacker.
type MachineSource struct{}

func (MachineSource) MasterKey() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	sum := sha256.Sum256([]byte(hostname + ":" + username + ":chatgate-keystore"))
	return sum[:], nil
}

// DefaultSource prefers CHATGATE_KEYSTORE_PASSPHRASE and falls back to
// MachineSource.
func DefaultSource() MasterKeySource {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return PassphraseSource(p)
	}
	return MachineSource{}
}

// DefaultKeystorePath returns the default keystore file path.
// - macOS/Linux: ~/.chatgate/keys.enc
// - Windows: %USERPROFILE%\.chatgate\keys.enc
func DefaultKeystorePath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "keys.enc"
	}

	return filepath.Join(homeDir, ".chatgate", "keys.enc")
}

// NewKeystore opens the keystore at the default path with the default
// master key source.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(DefaultKeystorePath(), DefaultSource())
}
