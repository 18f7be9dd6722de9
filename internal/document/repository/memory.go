package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/resumematch/resumematch/internal/document"
)

var _ Repository = (*MemoryRepo)(nil)

// MemoryRepo keeps records in insertion order. It backs the service when no
// MongoDB URI is configured, and unit tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []*document.Record
	byID    map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

func (m *MemoryRepo) Insert(_ context.Context, rec *document.Record) error {
	if rec.ID == "" {
		return errors.New("record id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[rec.ID]; ok {
		return errors.New("duplicate record id " + rec.ID)
	}
	cp := *rec
	m.byID[cp.ID] = len(m.records)
	m.records = append(m.records, &cp)
	return nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*document.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i, ok := m.byID[id]; ok {
		cp := *m.records[i]
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) GetByFilename(_ context.Context, name string) (*document.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *document.Record
	for _, r := range m.records {
		if r.FileName != name {
			continue
		}
		if best == nil || newer(r, best) {
			best = r
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *MemoryRepo) ListByFilename(_ context.Context, name string) ([]*document.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Record{}
	for _, r := range m.records {
		if r.FileName == name {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

// newer orders by upload time, then by ID, matching the Mongo sort.
func newer(a, b *document.Record) bool {
	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.After(b.UploadedAt)
	}
	return a.ID > b.ID
}
