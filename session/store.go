package session

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

const (
	TokenEnvVar = "WEDDASH_TOKEN"
	RoleEnvVar  = "WEDDASH_ROLE"
)

// Store exposes the two session values the data provider reads on every
// call. Implementations must return current values; callers never cache them.
type Store interface {
	Role() string
	Token() string
}

// Snapshotter is implemented by stores that can return both values from a
// single read, so a concurrent update never pairs a new token with an old
// role.
type Snapshotter interface {
	Snapshot() (role string, token string)
}

var (
	_ Store       = (*Static)(nil)
	_ Store       = Env{}
	_ Store       = (*File)(nil)
	_ Snapshotter = (*Static)(nil)
	_ Snapshotter = (*File)(nil)
)

// Read returns the role and token of store, using one Snapshot when the
// store supports it.
func Read(store Store) (role string, token string) {
	if snapshotter, ok := store.(Snapshotter); ok {
		return snapshotter.Snapshot()
	}
	return store.Role(), store.Token()
}

// Static holds an in-memory session. Set replaces both values atomically.
type Static struct {
	mu    sync.RWMutex
	role  string
	token string
}

func NewStatic(role string, token string) *Static {
	return &Static{role: role, token: token}
}

func (s *Static) Set(role string, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = role
	s.token = token
}

func (s *Static) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Static) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Static) Snapshot() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role, s.token
}

// Env reads the session from environment variables at call time. Empty
// variable names fall back to WEDDASH_TOKEN and WEDDASH_ROLE.
type Env struct {
	TokenVar string
	RoleVar  string
}

func (e Env) Role() string {
	name := e.RoleVar
	if strings.TrimSpace(name) == "" {
		name = RoleEnvVar
	}
	return strings.TrimSpace(os.Getenv(name))
}

func (e Env) Token() string {
	name := e.TokenVar
	if strings.TrimSpace(name) == "" {
		name = TokenEnvVar
	}
	return strings.TrimSpace(os.Getenv(name))
}

// FileSession is the on-disk session document written by a login flow.
type FileSession struct {
	Token string `yaml:"token"`
	Role  string `yaml:"role,omitempty"`
}

// File re-reads a YAML session document on every access, so a token written
// by another process after construction is picked up and a removed file
// yields an empty session.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Role() string {
	return f.load().Role
}

func (f *File) Token() string {
	return f.load().Token
}

func (f *File) Snapshot() (string, string) {
	session := f.load()
	return session.Role, session.Token
}

func (f *File) load() FileSession {
	session, err := ReadFile(f.path)
	if err != nil {
		return FileSession{}
	}
	return session
}

func ReadFile(path string) (FileSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileSession{}, err
	}

	var session FileSession
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&session); err != nil {
		if errors.Is(err, io.EOF) {
			return FileSession{}, nil
		}
		return FileSession{}, err
	}
	session.Token = strings.TrimSpace(session.Token)
	session.Role = strings.TrimSpace(session.Role)
	return session, nil
}

// WriteFile stores a session document with owner-only permissions. The file
// is replaced by rename, so readers see either the old or the new document.
func WriteFile(path string, session FileSession) error {
	encoded, err := yaml.Marshal(session)
	if err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".weddash-session-*")
	if err != nil {
		return err
	}
	tempPath := tempFile.Name()
	if _, err := tempFile.Write(encoded); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := tempFile.Chmod(0o600); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}
