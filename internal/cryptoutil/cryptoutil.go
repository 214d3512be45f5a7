// Package cryptoutil provides key material management and the two
// primitives the state layer composes: authenticated symmetric
// encryption (AES-256-GCM) and HMAC-SHA256 integrity tags. No novelty,
// standard library only.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// ErrDecrypt is returned when a ciphertext fails authenticated
// decryption: tampered data or a wrong key. It is never downgraded to
// silently returned garbage.
var ErrDecrypt = errors.New("cryptoutil: decryption failed (tampered data or wrong key)")

// validName matches alphanumeric, dash, underscore, and dot only, so a
// key name can never traverse outside the key directory.
var validName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("key name must not be empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("key name must not contain '..'")
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("key name contains invalid characters: only alphanumeric, dash, underscore, and dot are allowed")
	}
	return nil
}

// KeyStore manages named symmetric keys persisted on disk. The first
// caller for a given name creates and persists a key; all subsequent
// callers, including from other processes, retrieve the same key. Keys
// are never rotated automatically.
type KeyStore struct {
	dir string
	mu  sync.Mutex
}

// NewKeyStore creates a KeyStore backed by the given directory.
func NewKeyStore(dir string) (*KeyStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("cryptoutil: create key directory: %w", err)
	}
	return &KeyStore{dir: dir}, nil
}

// DefaultDir returns the default key store directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "agentgate-keys")
	}
	return filepath.Join(home, ".agentgate", "keys")
}

// GetOrCreateKey returns the key for the given name, creating and
// persisting a fresh one on first use. Idempotent.
func (s *KeyStore) GetOrCreateKey(name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("cryptoutil: invalid key name: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name+".key")
	if data, err := os.ReadFile(path); err == nil {
		if len(data) != KeySize {
			return nil, fmt.Errorf("cryptoutil: key %q has wrong size %d", name, len(data))
		}
		return data, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cryptoutil: read key %q: %w", name, err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("cryptoutil: generate key: %w", err)
	}
	if err := os.WriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("cryptoutil: write key %q: %w", name, err)
	}
	return key, nil
}

// HasKey reports whether a key with the given name already exists.
func (s *KeyStore) HasKey(name string) bool {
	if validateName(name) != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, name+".key"))
	return err == nil
}

// Encrypt seals plaintext with AES-256-GCM under the given key. The
// random nonce is prepended to the returned ciphertext.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cryptoutil: generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens an AES-256-GCM ciphertext produced by Encrypt. Any
// tampering or wrong key yields ErrDecrypt.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// ComputeHMAC returns the hex-encoded HMAC-SHA256 of data under key.
// Deterministic for identical (data, key).
func ComputeHMAC(data, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC checks an expected hex-encoded HMAC-SHA256 in constant
// time.
func VerifyHMAC(data, key []byte, expected string) bool {
	actual := ComputeHMAC(data, key)
	return hmac.Equal([]byte(actual), []byte(expected))
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cryptoutil: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoutil: init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptoutil: init gcm: %w", err)
	}
	return gcm, nil
}
