// Package state persists pipeline results encrypted at rest with an
// independent integrity tag, one ciphertext artifact and one tag
// artifact per evaluation id. Each owner name gets its own key, so one
// owner can never decrypt another owner's records.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/evalsec/agentgate/internal/cryptoutil"
)

// The three failure kinds a caller must be able to tell apart: absence
// means re-run, an integrity mismatch means investigate tampering, and
// a decryption failure means the wrong caller holds the wrong key.
var (
	ErrNotFound  = errors.New("state: no saved record for evaluation id")
	ErrIntegrity = errors.New("state: integrity check failed (possible tampering)")
	ErrDecrypt   = errors.New("state: decryption failed (tampered record or wrong owner key)")
)

var validID = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("evaluation id must not be empty")
	}
	if strings.Contains(id, "..") {
		return fmt.Errorf("evaluation id must not contain '..'")
	}
	if !validID.MatchString(id) {
		return fmt.Errorf("evaluation id contains invalid characters")
	}
	return nil
}

// Manager saves and loads encrypted evaluation records. Saves and loads
// for different evaluation ids may run concurrently; concurrent access
// to the same id must be serialized by the caller.
type Manager struct {
	dir  string
	keys *cryptoutil.KeyStore
	mu   sync.Mutex
}

// NewManager creates a Manager writing to dir, keyed through the given
// key store.
func NewManager(dir string, keys *cryptoutil.KeyStore) (*Manager, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("state: create state directory: %w", err)
	}
	return &Manager{dir: dir, keys: keys}, nil
}

// DefaultDir returns the default state directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "agentgate-state")
	}
	return filepath.Join(home, ".agentgate", "state")
}

// Save serializes record, encrypts it under owner's key, and writes the
// ciphertext plus a side-channel HMAC tag computed over the ciphertext.
func (m *Manager) Save(record any, id, owner string) error {
	if err := validateID(id); err != nil {
		return fmt.Errorf("state: invalid evaluation id: %w", err)
	}

	key, err := m.keys.GetOrCreateKey(owner)
	if err != nil {
		return fmt.Errorf("state: owner key: %w", err)
	}

	plaintext, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("state: marshal record: %w", err)
	}

	ciphertext, err := cryptoutil.Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("state: encrypt record: %w", err)
	}
	tag := cryptoutil.ComputeHMAC(ciphertext, key)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.WriteFile(m.encPath(id), ciphertext, 0600); err != nil {
		return fmt.Errorf("state: write record: %w", err)
	}
	if err := os.WriteFile(m.hmacPath(id), []byte(tag), 0600); err != nil {
		return fmt.Errorf("state: write integrity tag: %w", err)
	}
	return nil
}

// Load reads the record for id, verifies the integrity tag first when
// one is present, then decrypts under owner's key and unmarshals into
// out.
func (m *Manager) Load(id, owner string, out any) error {
	plaintext, err := m.LoadRaw(id, owner)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("state: unmarshal record: %w", err)
	}
	return nil
}

// LoadRaw is Load without the final unmarshal; it returns the decrypted
// JSON bytes.
func (m *Manager) LoadRaw(id, owner string) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("state: invalid evaluation id: %w", err)
	}

	ciphertext, err := os.ReadFile(m.encPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("state: read record: %w", err)
	}

	key, err := m.keys.GetOrCreateKey(owner)
	if err != nil {
		return nil, fmt.Errorf("state: owner key: %w", err)
	}

	// Integrity tag is checked before any decryption attempt.
	if tag, err := os.ReadFile(m.hmacPath(id)); err == nil {
		expected := strings.TrimSpace(string(tag))
		if !cryptoutil.VerifyHMAC(ciphertext, key, expected) {
			return nil, fmt.Errorf("%w: %s", ErrIntegrity, id)
		}
	}

	plaintext, err := cryptoutil.Decrypt(ciphertext, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecrypt, id)
	}
	return plaintext, nil
}

// List returns the ids of all saved evaluations, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("state: read state directory: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".enc"); ok {
			ids = append(ids, name)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Manager) encPath(id string) string {
	return filepath.Join(m.dir, id+".enc")
}

func (m *Manager) hmacPath(id string) string {
	return filepath.Join(m.dir, id+".hmac")
}
