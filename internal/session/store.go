// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/skillmap-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// SessionFileName is the session state file inside the config dir.
	SessionFileName = "session.json"

	// KeyFileName holds the per-install secret the token key derives from.
	KeyFileName = ".session.key"

	// encryptedPrefix marks an encrypted value (format: ENC:base64(nonce|ciphertext|tag)).
	encryptedPrefix = "ENC:"

	// nonceSize is the AES-GCM nonce size (96 bits).
	nonceSize = 12

	// keySize is the AES-256 key size.
	keySize = 32

	// saltSize is the PBKDF2 salt size.
	saltSize = 32

	// pbkdf2Iterations for PBKDF2-SHA-256 key derivation.
	// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

var (
	// ErrInvalidCiphertext indicates the stored token ciphertext is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// ErrDecryptionFailed indicates decryption failed (wrong key or tampered data).
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// SESSION STORE
// =============================================================================

// sessionFile is the on-disk JSON shape. The token is encrypted at rest;
// the username is not a secret and stays readable for support purposes.
type sessionFile struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Store persists the (token, username) pair across restarts.
//
// The token is encrypted with AES-256-GCM under a key derived (PBKDF2) from
// a random per-install secret kept next to the session file. If the
// directory is unwritable, the key file is unreadable, or the session file
// is corrupt, the store degrades to memory-only: Save and Clear keep
// working against process memory and nothing blocks login.
type Store struct {
	mu       sync.Mutex
	dir      string
	cipher   cipher.AEAD
	degraded bool

	// In-memory mirror; the only state in degraded mode.
	token    string
	username string
}

// NewStore creates a session store rooted at dir (normally ~/.skillmap).
// Construction never fails: storage problems put the store into
// memory-only mode with a warning.
func NewStore(dir string) *Store {
	s := &Store{dir: dir}

	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Printf("session store degraded to memory-only: %v", err)
		s.degraded = true
		return s
	}

	aead, err := s.loadOrCreateCipher()
	if err != nil {
		log.Printf("session store degraded to memory-only: %v", err)
		s.degraded = true
		return s
	}
	s.cipher = aead

	return s
}

// DefaultDir returns the default store directory (~/.skillmap).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".skillmap"), nil
}

// Degraded reports whether the store fell back to memory-only mode.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// sessionPath returns the session file path.
func (s *Store) sessionPath() string {
	return filepath.Join(s.dir, SessionFileName)
}

// keyPath returns the key file path.
func (s *Store) keyPath() string {
	return filepath.Join(s.dir, KeyFileName)
}

// =============================================================================
// KEY MANAGEMENT
// =============================================================================

// loadOrCreateCipher reads the per-install secret, creating it on first run,
// and derives the AES-GCM cipher from it.
//
// Key file layout: salt (32 bytes) || secret (32 bytes).
func (s *Store) loadOrCreateCipher() (cipher.AEAD, error) {
	raw, err := os.ReadFile(s.keyPath())
	if errors.Is(err, os.ErrNotExist) {
		raw, err = s.createKeyFile()
	}
	if err != nil {
		return nil, fmt.Errorf("session key unavailable: %w", err)
	}
	if len(raw) != saltSize+keySize {
		return nil, fmt.Errorf("session key file has wrong size %d", len(raw))
	}

	salt := raw[:saltSize]
	secret := raw[saltSize:]

	key := pbkdf2.Key(secret, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return gcm, nil
}

// createKeyFile generates and persists a fresh per-install secret.
func (s *Store) createKeyFile() ([]byte, error) {
	raw := make([]byte, saltSize+keySize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	if err := util.AtomicWriteFile(s.keyPath(), raw, 0600); err != nil {
		return nil, fmt.Errorf("failed to write session key file: %w", err)
	}
	return raw, nil
}

// zeroBytes zeros sensitive byte slices to limit exposure in crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// ENCRYPTION
// =============================================================================

// encryptToken returns ENC:base64(nonce || ciphertext || tag).
func (s *Store) encryptToken(token string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := s.cipher.Seal(nonce, nonce, []byte(token), nil)
	return encryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// decryptToken reverses encryptToken.
func (s *Store) decryptToken(value string) (string, error) {
	if !strings.HasPrefix(value, encryptedPrefix) {
		return "", ErrInvalidCiphertext
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, encryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(data) < nonceSize {
		return "", ErrInvalidCiphertext
	}
	plaintext, err := s.cipher.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Load returns the persisted session pair. ok is false when no usable
// session exists; a corrupt or undecryptable file counts as no session
// and is cleared so the next Save starts clean.
func (s *Store) Load() (token, username string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return s.token, s.username, s.token != ""
	}

	data, err := os.ReadFile(s.sessionPath())
	if err != nil {
		return "", "", false
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		log.Printf("session file corrupt, discarding: %v", err)
		os.Remove(s.sessionPath())
		return "", "", false
	}

	token, err = s.decryptToken(sf.Token)
	if err != nil {
		log.Printf("session token undecryptable, discarding: %v", err)
		os.Remove(s.sessionPath())
		return "", "", false
	}

	if token == "" || sf.Username == "" {
		return "", "", false
	}

	s.token = token
	s.username = sf.Username
	return token, sf.Username, true
}

// Save persists the session pair. Best effort: a write failure degrades the
// store to memory-only and is reported, but the in-memory pair is kept
// either way so the session keeps working for this process.
func (s *Store) Save(token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.username = username

	if s.degraded {
		return nil
	}

	enc, err := s.encryptToken(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt session token: %w", err)
	}

	data, err := json.MarshalIndent(sessionFile{Username: username, Token: enc}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}

	if err := util.AtomicWriteFile(s.sessionPath(), data, 0600); err != nil {
		s.degraded = true
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session and the in-memory mirror.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.username = ""

	if !s.degraded {
		os.Remove(s.sessionPath())
	}
}
