// Package repository persists document records. Records are insert-only.
package repository

import (
	"context"
	"errors"

	"github.com/resumematch/resumematch/internal/document"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrMalformedRecord marks a stored document that does not decode into a
	// Record. The store itself answered.
	ErrMalformedRecord = errors.New("malformed document record")
)

// Repository is the store gateway for one document kind.
//
// GetByFilename resolves duplicate filenames to the most recently uploaded
// record. Callers needing a specific record use GetByID.
type Repository interface {
	Insert(ctx context.Context, rec *document.Record) error
	GetByID(ctx context.Context, id string) (*document.Record, error)
	GetByFilename(ctx context.Context, name string) (*document.Record, error)
	ListByFilename(ctx context.Context, name string) ([]*document.Record, error)
	Ping(ctx context.Context) error
}
