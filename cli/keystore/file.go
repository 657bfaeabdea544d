package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"maps"
	"slices"
	"sync"

	"golang.org/x/crypto/argon2"
)

// File layout: [magic (4)] [version (1)] [salt (16)] [nonce (12)] [ciphertext].
// The header is authenticated as additional data.
const (
	magicHeader   = "CGKS"
	formatVersion = byte(0x01)
	saltLength    = 16
	nonceLength   = 12
	headerLength  = len(magicHeader) + 1 + saltLength + nonceLength
)

// ErrCorrupt is returned for files that are not keystores or fail
// authentication, including files written under a different master key.
var ErrCorrupt = errors.New("keystore file is corrupt or the master key is wrong")

// kdfParams are the Argon2id cost parameters.
type kdfParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// OWASP recommended
var defaultKDF = kdfParams{time: 3, memory: 64 * 1024, threads: 4}

// FileKeystore implements Keystore using a JSON map encrypted with
// AES-256-GCM under an Argon2id-derived key. Each write uses a fresh salt and
// nonce.
type FileKeystore struct {
	path      string
	masterKey []byte
	kdf       kdfParams
	mu        sync.RWMutex
}

// NewFileKeystore creates a file-based keystore at path. The file is created
// on first Set.
func NewFileKeystore(path string, source MasterKeySource) (*FileKeystore, error) {
	masterKey, err := source.MasterKey()
	if err != nil {
		return nil, err
	}

	return &FileKeystore{
		path:      path,
		masterKey: masterKey,
		kdf:       defaultKDF,
	}, nil
}

// Path returns the backing file path.
func (f *FileKeystore) Path() string {
	return f.path
}

// Set stores a key-value pair.
func (f *FileKeystore) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadData()
	if err != nil {
		return err
	}

	data[name] = value
	return f.saveData(data)
}

// Get retrieves a value by name.
func (f *FileKeystore) Get(name string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.loadData()
	if err != nil {
		return "", err
	}

	value, ok := data[name]
	if !ok {
		return "", &ErrKeyNotFound{Name: name}
	}

	return value, nil
}

// Delete removes a key by name.
func (f *FileKeystore) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadData()
	if err != nil {
		return err
	}

	if _, ok := data[name]; !ok {
		return &ErrKeyNotFound{Name: name}
	}

	delete(data, name)
	return f.saveData(data)
}

// List returns all stored key names in sorted order.
func (f *FileKeystore) List() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.loadData()
	if err != nil {
		return nil, err
	}

	return slices.Sorted(maps.Keys(data)), nil
}

// loadData reads and decrypts the keystore file. A missing or empty file is
// an empty keystore.
func (f *FileKeystore) loadData() (map[string]string, error) {
	data := make(map[string]string)

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}

	plaintext, err := f.decrypt(raw)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, ErrCorrupt
	}
	return data, nil
}

// saveData encrypts and writes the keystore file atomically.
func (f *FileKeystore) saveData(data map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	plaintext, err := json.Marshal(data)
	if err != nil {
		return err
	}

	raw, err := f.encrypt(plaintext)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".keys-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileKeystore) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(f.masterKey, salt, f.kdf.time, f.kdf.memory, f.kdf.threads, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (f *FileKeystore) encrypt(plaintext []byte) ([]byte, error) {
	header := make([]byte, headerLength)
	copy(header, magicHeader)
	header[len(magicHeader)] = formatVersion

	saltAndNonce := header[len(magicHeader)+1:]
	if _, err := io.ReadFull(rand.Reader, saltAndNonce); err != nil {
		return nil, err
	}
	salt, nonce := saltAndNonce[:saltLength], saltAndNonce[saltLength:]

	gcm, err := f.aead(salt)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(header, nonce, plaintext, header), nil
}

func (f *FileKeystore) decrypt(raw []byte) ([]byte, error) {
	if len(raw) < headerLength ||
		string(raw[:len(magicHeader)]) != magicHeader ||
		raw[len(magicHeader)] != formatVersion {
		return nil, ErrCorrupt
	}

	header := raw[:headerLength]
	salt := header[len(magicHeader)+1 : len(magicHeader)+1+saltLength]
	nonce := header[len(magicHeader)+1+saltLength:]

	gcm, err := f.aead(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, raw[headerLength:], header)
	if err != nil {
		return nil, ErrCorrupt
	}
	return plaintext, nil
}

var _ Keystore = (*FileKeystore)(nil)
