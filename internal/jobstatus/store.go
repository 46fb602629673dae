package jobstatus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Store persists job status records keyed by lesson id.
type Store interface {
	Get(ctx context.Context, lessonID string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
}

var validLessonID = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileStore keeps one YAML document per lesson in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a FileStore under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(lessonID string) (string, error) {
	if !validLessonID.MatchString(lessonID) || lessonID == "." || lessonID == ".." {
		return "", fmt.Errorf("invalid lesson id %q", lessonID)
	}
	return filepath.Join(s.dir, lessonID+".yaml"), nil
}

func (s *FileStore) Get(ctx context.Context, lessonID string) (*Record, error) {
	p, err := s.path(lessonID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", lessonID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode status %s: %w", lessonID, err)
	}
	return &rec, nil
}

func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	p, err := s.path(rec.LessonID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create status dir: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename status: %w", err)
	}
	return nil
}

// Tracker applies transitions to stored records.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker creates a Tracker backed by store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// Get returns the current record of a lesson.
func (t *Tracker) Get(ctx context.Context, lessonID string) (*Record, error) {
	return t.store.Get(ctx, lessonID)
}

// Update loads the lesson's record (starting a new one if none exists),
// moves it to status, lets mutate fill in details and stores it.
func (t *Tracker) Update(ctx context.Context, lessonID string, status Status, mutate func(*Record)) (*Record, error) {
	rec, err := t.store.Get(ctx, lessonID)
	if errors.Is(err, ErrNotFound) {
		rec = &Record{LessonID: lessonID}
	} else if err != nil {
		return nil, err
	}

	if err := rec.Transition(status, t.now().UTC()); err != nil {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, err)
	}
	if mutate != nil {
		mutate(rec)
	}

	if err := t.store.Put(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
