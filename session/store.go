package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// State is the tri-state result of reading the session store. Callers must
// not treat StateUnknown the same as StateAbsent: unknown means the store
// has not been consulted yet, which is exactly the window where protected
// content must not render.
type State int

const (
	StateUnknown State = iota
	StateAbsent
	StatePresent
)

// RoleInventoryManager is the only role allowed into the dashboard.
const RoleInventoryManager = "inventory_manager"

// Session is the client-held proof of authentication.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
}

// Store persists the session to a single JSON file. Writes are atomic
// (temp file + rename) so a crash never leaves a half-written session,
// and Clear removes every field in one operation.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Save writes the session to durable storage, overwriting any previous one.
func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Load reads the stored session. It is synchronous, so callers always get
// a resolved StatePresent or StateAbsent; StateUnknown is never returned
// here and exists only as the pre-read state of the caller.
//
// An access token whose exp claim has passed reads as absent: the server
// would reject it anyway, so treating it as a live session only produces
// a flash of content followed by a 401 redirect.
func (s *Store) Load() (Session, State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("Failed to read session file", zap.String("path", s.path), zap.Error(err))
		}
		return Session{}, StateAbsent
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		zap.L().Warn("Corrupt session file, treating as absent", zap.Error(err))
		return Session{}, StateAbsent
	}
	if sess.AccessToken == "" {
		return Session{}, StateAbsent
	}
	if expired(sess.AccessToken, s.now()) {
		return Session{}, StateAbsent
	}
	return sess, StatePresent
}

// Clear removes all session fields atomically. Used on logout and on
// receipt of a 401 from any authenticated call. Clearing an already
// empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// expired peeks at the token's exp claim without verifying the signature;
// the client never holds the signing secret. Opaque (non-JWT) tokens carry
// no expiry information and are passed through as live.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}
