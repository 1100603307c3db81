// Package store owns the three JSON documents under ~/.tempo: the user
// profile, the project catalog and the app configuration. All writes are
// atomic (temp file + rename) so a crash mid-write never leaves a partial
// document behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tiliavir/tempo/internal/model"
)

// Kind identifies one of the persisted documents.
type Kind string

const (
	KindUser     Kind = "user"
	KindProjects Kind = "projects"
	KindConfig   Kind = "config"
)

func (k Kind) filename() string { return string(k) + ".json" }

// MissingError is returned when a document's backing file is absent.
// Running Seed creates all documents, so this normally indicates the
// store was never bootstrapped.
type MissingError struct {
	Kind Kind
	Path string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s document missing at %s (store has not been seeded)", e.Kind, e.Path)
}

// CorruptError is returned when a document exists but is not valid JSON
// or fails schema validation. The file is never overwritten or repaired
// automatically; the user has to fix or remove it by hand.
type CorruptError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s document at %s is corrupt: %v (fix or remove the file by hand; it will not be overwritten)",
		e.Kind, e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store reads and writes the JSON documents in a single base directory.
// The directory is injected so tests can point it at a temp dir.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on Seed,
// not here.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// BaseDir returns the default data directory (~/.tempo).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tempo"), nil
}

func (s *Store) path(kind Kind) string {
	return filepath.Join(s.dir, kind.filename())
}

// load reads and unmarshals one document into v.
func (s *Store) load(kind Kind, v any) error {
	path := s.path(kind)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &MissingError{Kind: kind, Path: path}
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &CorruptError{Kind: kind, Path: path, Err: err}
	}
	return nil
}

// save atomically writes one document: marshal, write temp file, rename.
func (s *Store) save(kind Kind, v any) error {
	path := s.path(kind)
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s document: %w", kind, err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// LoadUser loads and validates the user profile.
func (s *Store) LoadUser() (model.User, error) {
	var u model.User
	if err := s.load(KindUser, &u); err != nil {
		return model.User{}, err
	}
	if u.UUID == "" {
		return model.User{}, &CorruptError{Kind: KindUser, Path: s.path(KindUser),
			Err: fmt.Errorf("missing required field %q", "uuid")}
	}
	return u, nil
}

// SaveUser persists the user profile.
func (s *Store) SaveUser(u model.User) error {
	return s.save(KindUser, u)
}

// LoadCatalog loads and validates the project catalog. Validation
// enforces the uuid-uniqueness invariant and the status enum.
func (s *Store) LoadCatalog() (model.Catalog, error) {
	var c model.Catalog
	if err := s.load(KindProjects, &c); err != nil {
		return model.Catalog{}, err
	}
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		switch {
		case p.UUID == "":
			return model.Catalog{}, s.corruptCatalog(fmt.Errorf("project %q has no uuid", p.Name))
		case seen[p.UUID]:
			return model.Catalog{}, s.corruptCatalog(fmt.Errorf("duplicate project uuid %q", p.UUID))
		case !p.Status.Valid():
			return model.Catalog{}, s.corruptCatalog(fmt.Errorf("project %q has unknown status %q", p.Name, p.Status))
		}
		seen[p.UUID] = true
	}
	return c, nil
}

func (s *Store) corruptCatalog(err error) error {
	return &CorruptError{Kind: KindProjects, Path: s.path(KindProjects), Err: err}
}

// SaveCatalog persists the project catalog.
func (s *Store) SaveCatalog(c model.Catalog) error {
	return s.save(KindProjects, c)
}

// LoadConfig loads and validates the app configuration.
func (s *Store) LoadConfig() (model.Config, error) {
	var c model.Config
	if err := s.load(KindConfig, &c); err != nil {
		return model.Config{}, err
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return model.Config{}, &CorruptError{Kind: KindConfig, Path: s.path(KindConfig),
			Err: fmt.Errorf("missing required field %q", "api_url")}
	}
	return c, nil
}

// SaveConfig persists the app configuration.
func (s *Store) SaveConfig(c model.Config) error {
	return s.save(KindConfig, c)
}
