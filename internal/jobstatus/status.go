package jobstatus

import (
	"errors"
	"fmt"
	"time"
)

// Status is the lifecycle state of a transcription job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var (
	ErrNotFound          = errors.New("job status not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// next lists the states reachable from each state. Finished jobs may be
// picked up again when the lesson is resubmitted.
var next = map[Status][]Status{
	"":               {StatusPending},
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusPending},
	StatusFailed:     {StatusPending},
}

// CanTransition reports whether a job may move from one state to another.
func CanTransition(from, to Status) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Record is the persisted status of one lesson's transcription.
type Record struct {
	LessonID          string    `yaml:"lesson_id"`
	Status            Status    `yaml:"status"`
	Error             string    `yaml:"error,omitempty"`
	Source            string    `yaml:"source,omitempty"`
	Language          string    `yaml:"language,omitempty"`
	DetectedLanguages []string  `yaml:"detected_languages,omitempty"`
	Model             string    `yaml:"model,omitempty"`
	SubtitlePaths     []string  `yaml:"subtitle_paths,omitempty"`
	CueCount          int       `yaml:"cue_count,omitempty"`
	UpdatedAt         time.Time `yaml:"updated_at"`
}

// Transition moves r to the given state, or returns ErrInvalidTransition.
func (r *Record) Transition(to Status, now time.Time) error {
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, r.Status, to)
	}
	r.Status = to
	r.UpdatedAt = now
	if to != StatusFailed {
		r.Error = ""
	}
	return nil
}
