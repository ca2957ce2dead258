package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const fileExt = ".json"

// Store reads and writes profile records in a single directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a Store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the directory holding the records.
func (s *Store) Dir() string { return s.dir }

// Path returns the record path for a target.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Load reads the record for name. Returns nil, nil if the record does not
// exist.
func (s *Store) Load(name string) (*Profile, error) {
	data, err := afero.ReadFile(s.fs, s.Path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &ProfileError{Target: name, Op: "reading", Err: err}
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ProfileError{Target: name, Op: "parsing", Err: err}
	}
	if p.Servers == nil {
		p.Servers = []AttachedServer{}
	}
	return &p, nil
}

// Save atomically replaces the record for p.Name.
func (s *Store) Save(p *Profile) error {
	if p.Name == "" {
		return &ProfileError{Op: "writing", Err: fmt.Errorf("profile has no name")}
	}
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return &ProfileError{Target: p.Name, Op: "writing", Err: err}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &ProfileError{Target: p.Name, Op: "writing", Err: err}
	}
	data = append(data, '\n')

	tmp, err := afero.TempFile(s.fs, s.dir, "."+p.Name+"-*.tmp")
	if err != nil {
		return &ProfileError{Target: p.Name, Op: "writing", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return &ProfileError{Target: p.Name, Op: "writing", Err: err}
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return &ProfileError{Target: p.Name, Op: "writing", Err: err}
	}
	if err := s.fs.Rename(tmpName, s.Path(p.Name)); err != nil {
		s.fs.Remove(tmpName)
		return &ProfileError{Target: p.Name, Op: "writing", Err: err}
	}
	return nil
}

// Update loads the record for name, applies fn and saves the result. The
// record must exist.
func (s *Store) Update(name string, fn func(*Profile) error) error {
	p, err := s.Load(name)
	if err != nil {
		return err
	}
	if p == nil {
		return &ProfileError{Target: name, Op: "reading", Err: ErrNotFound}
	}
	if err := fn(p); err != nil {
		return err
	}
	return s.Save(p)
}

// EnsureDefault creates a disconnected record for name if none exists. It
// reports whether a record was created.
func (s *Store) EnsureDefault(name, configPath string) (bool, error) {
	existing, err := s.Load(name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	return true, s.Save(New(name, configPath))
}

// AttachItem records ref against the target with status pending_sync unless
// an entry with the same (category, name) already exists. It reports whether
// the record changed.
func (s *Store) AttachItem(name string, ref ItemRef, at time.Time) (bool, error) {
	changed := false
	err := s.Update(name, func(p *Profile) error {
		changed = p.Attach(ref, at, ServerPendingSync)
		if !changed {
			return errUnchanged
		}
		return nil
	})
	if err == errUnchanged {
		return false, nil
	}
	return changed, err
}

// SyncRecord is what a sync pass persists for one target.
type SyncRecord struct {
	At      time.Time
	Success bool
	Synced  []ItemRef
	Failed  []ItemRef
}

// RecordSync stores the outcome of a sync pass: last_sync, sync_status,
// synced_servers, and the status of every attached item touched by the pass.
func (s *Store) RecordSync(name string, rec SyncRecord) error {
	return s.Update(name, func(p *Profile) error {
		at := rec.At
		p.LastSync = &at
		if rec.Success {
			p.SyncStatus = SyncSuccess
		} else {
			p.SyncStatus = SyncError
		}
		n := len(rec.Synced)
		p.SyncedServers = &n

		for _, ref := range rec.Synced {
			p.SetServerStatus(ref, rec.At, ServerSynced)
		}
		for _, ref := range rec.Failed {
			p.SetServerStatus(ref, rec.At, ServerError)
		}
		return nil
	})
}

// List returns the names of all records in the store, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(names)
	return names, nil
}

var errUnchanged = fmt.Errorf("unchanged")
