package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	api "github.com/intellirefer/referctl/api/v1alpha1"
)

// Session holds the authenticated state persisted between invocations.
// Invariant: Credential is empty iff Role is empty.
type Session struct {
	Credential string   `json:"credential,omitempty"`
	Role       api.Role `json:"role,omitempty"`
}

func (s Session) IsAuthenticated() bool {
	return s.Credential != ""
}

// ExpiresAt returns the expiry of the credential when it is a JWT carrying
// an exp claim. The signature is not verified; the server remains the
// authority, this is only used to avoid issuing requests doomed to 401.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Credential == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Credential, &claims); err != nil {
		// opaque token, no expiry known
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (s Session) Expired(now time.Time) bool {
	expiry, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return now.After(expiry)
}

// Store owns the process-wide session. It is constructed once at startup and
// handed to everything that needs authentication state.
type Store struct {
	l       sync.Mutex
	path    string
	current Session
}

// NewStore returns a store backed by the given file without reading it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the session file if present. A missing file yields an
// unauthenticated store. A file breaking the credential/role invariant is
// discarded and the store starts unauthenticated.
func Load(path string) (*Store, error) {
	store := &Store{path: path}

	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	s := Session{}
	if err := yaml.Unmarshal(contents, &s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	if (s.Credential == "") != (s.Role == "") {
		zap.S().Named("session").Warnf("session file %s is inconsistent, discarding it", path)
		return store, nil
	}

	// A hand-edited file with an unknown role degrades to the least
	// privileged one.
	if s.Role != "" {
		s.Role = api.StringToRole(string(s.Role))
	}

	store.current = s
	return store, nil
}

// DefaultSessionPath returns the session file location under the config dir.
func DefaultSessionPath(configDir string) string {
	return filepath.Join(configDir, "session.yaml")
}

// Set replaces credential and role atomically and persists the new state.
// The in-memory state is updated even when persisting fails, so the running
// process stays consistent with what the server just granted.
func (s *Store) Set(credential string, role api.Role) error {
	s.l.Lock()
	defer s.l.Unlock()

	s.current = Session{Credential: credential, Role: role}
	return s.persist()
}

// Clear drops both fields atomically and persists the cleared state.
func (s *Store) Clear() error {
	s.l.Lock()
	defer s.l.Unlock()

	s.current = Session{}
	return s.persist()
}

// Get returns a copy of the current session.
func (s *Store) Get() Session {
	s.l.Lock()
	defer s.l.Unlock()
	return s.current
}

func (s *Store) IsAuthenticated() bool {
	s.l.Lock()
	defer s.l.Unlock()
	return s.current.IsAuthenticated()
}

// Credential returns the bearer token, or empty when unauthenticated.
func (s *Store) Credential() string {
	s.l.Lock()
	defer s.l.Unlock()
	return s.current.Credential
}

func (s *Store) persist() error {
	contents, err := yaml.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.WriteFile(s.path, contents, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}
