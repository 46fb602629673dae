package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load for paths that were never saved.
var ErrNotFound = errors.New("object not found")

// Object is a document handed to a Sink.
type Object struct {
	Path        string // slash separated, relative to the sink root
	Body        []byte
	ContentType string
	Language    string
	Model       string
}

// Sink durably stores subtitle documents and related lesson artifacts.
type Sink interface {
	Save(ctx context.Context, obj Object) error
	Load(ctx context.Context, objPath string) ([]byte, error)
}
