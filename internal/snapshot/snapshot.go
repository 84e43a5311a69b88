// Package snapshot persists the last-known session view to a local file so
// the CLI can render immediately while the real refresh runs. The backend
// stays authoritative; a snapshot is never written back to it.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/reupapp/reup/internal/task"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Snapshot is the on-disk shape of one user's session view.
type Snapshot struct {
	UserID   string         `json:"user_id" yaml:"user_id"`
	Tasks    []task.Task    `json:"tasks" yaml:"tasks"`
	Schedule *task.Schedule `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	SavedAt  time.Time      `json:"saved_at" yaml:"saved_at"`
}

// Store reads and writes session snapshots, one file per user.
// Use afero.NewOsFs() for real filesystem operations, or afero.NewMemMapFs()
// for testing.
type Store struct {
	fs     afero.Fs
	dir    string
	format string
	now    func() time.Time
}

// NewStore creates a snapshot store rooted at dir. Supported formats are
// json and yaml.
func NewStore(fs afero.Fs, dir, format string) (*Store, error) {
	switch strings.ToLower(format) {
	case FormatJSON, FormatYAML:
	case "":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s (supported: json, yaml)", format)
	}
	return &Store{fs: fs, dir: dir, format: strings.ToLower(format), now: time.Now}, nil
}

// Save writes the session view for userID, replacing any previous snapshot.
func (s *Store) Save(userID string, tasks []task.Task, schedule *task.Schedule) error {
	if userID == "" {
		return fmt.Errorf("snapshot requires a user id")
	}
	snap := Snapshot{
		UserID:   userID,
		Tasks:    tasks,
		Schedule: schedule,
		SavedAt:  s.now().UTC(),
	}

	var (
		data []byte
		err  error
	)
	switch s.format {
	case FormatYAML:
		data, err = yaml.Marshal(snap)
	default:
		data, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal snapshot to %s: %w", s.format, err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", s.dir, err)
	}
	path := s.path(userID)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads the session view for userID. A missing snapshot is an error the
// caller is expected to tolerate.
func (s *Store) Load(userID string) ([]task.Task, *task.Schedule, error) {
	path := s.path(userID)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snap Snapshot
	switch s.format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if snap.UserID != userID {
		return nil, nil, fmt.Errorf("snapshot %s belongs to user %s", path, snap.UserID)
	}
	return snap.Tasks, snap.Schedule, nil
}

// Discard removes the snapshot for userID, if any.
func (s *Store) Discard(userID string) error {
	err := s.fs.Remove(s.path(userID))
	if err != nil && !isNotExist(err) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("session-%s.%s", userID, s.format))
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
