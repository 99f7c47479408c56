// Package repository implements audit entry persistence for the memory,
// PostgreSQL and MySQL backends.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/plantwatch/privacy/internal/audit/domain"
)

// MemoryRepository is an in-memory append-only audit sink.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry
}

// NewMemoryRepository creates an empty in-memory audit repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func cloneEntry(entry *domain.Entry) *domain.Entry {
	clone := *entry
	if entry.Details != nil {
		details := make(map[string]any, len(entry.Details))
		for k, v := range entry.Details {
			details[k] = v
		}
		clone.Details = details
	}
	return &clone
}

// Create appends an audit entry.
func (m *MemoryRepository) Create(_ context.Context, entry *domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, cloneEntry(entry))
	return nil
}

// List returns entries newest first with pagination and optional inclusive
// created-at filtering.
func (m *MemoryRepository) List(
	_ context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := make([]*domain.Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if createdAtFrom != nil && entry.CreatedAt.Before(*createdAtFrom) {
			continue
		}
		if createdAtTo != nil && entry.CreatedAt.After(*createdAtTo) {
			continue
		}
		filtered = append(filtered, entry)
	}

	if offset >= len(filtered) {
		return []*domain.Entry{}, nil
	}
	filtered = filtered[offset:]
	if limit < len(filtered) {
		filtered = filtered[:limit]
	}

	result := make([]*domain.Entry, 0, len(filtered))
	for _, entry := range filtered {
		result = append(result, cloneEntry(entry))
	}
	return result, nil
}

// DeleteOlderThan removes entries created before the cutoff.
func (m *MemoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	kept := make([]*domain.Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		if entry.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}

	if !dryRun {
		m.entries = kept
	}
	return removed, nil
}
