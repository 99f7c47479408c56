// Package repository implements personal-data record persistence. The memory
// repository is the reference backing store; PostgreSQL and MySQL variants
// provide durable storage with identical semantics.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/plantwatch/privacy/internal/errors"
	"github.com/plantwatch/privacy/internal/personaldata/domain"
)

// MemoryRepository is an in-memory personal-data store. It keeps a secondary
// index from record id to the record so id lookups never scan subjects.
type MemoryRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*domain.Record
	bySubject map[string][]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:   make(map[uuid.UUID]*domain.Record),
		bySubject: make(map[string][]uuid.UUID),
	}
}

// cloneRecord copies a record so callers never alias stored state.
func cloneRecord(record *domain.Record) *domain.Record {
	clone := *record
	if record.ConsentTimestamp != nil {
		ts := *record.ConsentTimestamp
		clone.ConsentTimestamp = &ts
	}
	if record.DeletedAt != nil {
		ts := *record.DeletedAt
		clone.DeletedAt = &ts
	}
	return &clone
}

// Create inserts a new record.
func (m *MemoryRepository) Create(_ context.Context, record *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.ID]; exists {
		return apperrors.ErrConflict
	}

	m.records[record.ID] = cloneRecord(record)
	m.bySubject[record.DataSubjectID] = append(m.bySubject[record.DataSubjectID], record.ID)
	return nil
}

// GetByID returns the record with the given id, or ErrNotFound.
func (m *MemoryRepository) GetByID(_ context.Context, recordID uuid.UUID) (*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[recordID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneRecord(record), nil
}

// Update replaces the stored record state.
func (m *MemoryRepository) Update(_ context.Context, record *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.records[record.ID] = cloneRecord(record)
	return nil
}

// ListBySubject returns every record of the data subject in insertion order.
func (m *MemoryRepository) ListBySubject(_ context.Context, dataSubjectID string) ([]*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.bySubject[dataSubjectID]
	records := make([]*domain.Record, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.records[id]; ok {
			records = append(records, cloneRecord(record))
		}
	}
	return records, nil
}

// ListSubjectIDs returns the distinct data subjects with at least one record.
func (m *MemoryRepository) ListSubjectIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subjects := make([]string, 0, len(m.bySubject))
	for subject, ids := range m.bySubject {
		if len(ids) > 0 {
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)
	return subjects, nil
}

// ListDeletionDue returns non-deleted records past their scheduled deletion time.
func (m *MemoryRepository) ListDeletionDue(_ context.Context, now time.Time) ([]*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var due []*domain.Record
	for _, record := range m.records {
		if !record.IsDeleted && !record.ScheduledDeletionAt.After(now) {
			due = append(due, cloneRecord(record))
		}
	}
	return due, nil
}

// ListAnonymizationDue returns non-deleted, non-anonymized records of the given
// category created at or before the cutoff.
func (m *MemoryRepository) ListAnonymizationDue(
	_ context.Context,
	category domain.Category,
	cutoff time.Time,
) ([]*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var due []*domain.Record
	for _, record := range m.records {
		if record.Category != category || record.IsDeleted || record.IsAnonymized {
			continue
		}
		if !record.CreatedAt.After(cutoff) {
			due = append(due, cloneRecord(record))
		}
	}
	return due, nil
}

// Counts aggregates record totals, including deleted and anonymized records.
func (m *MemoryRepository) Counts(_ context.Context) (domain.RecordCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var counts domain.RecordCounts
	for _, record := range m.records {
		counts.Total++
		if record.IsAnonymized {
			counts.Anonymized++
		}
		if record.IsDeleted {
			counts.Deleted++
		}
	}
	return counts, nil
}

// PurgeDeleted physically removes records soft-deleted before the cutoff.
func (m *MemoryRepository) PurgeDeleted(_ context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged []uuid.UUID
	for id, record := range m.records {
		if record.IsDeleted && record.DeletedAt != nil && record.DeletedAt.Before(cutoff) {
			purged = append(purged, id)
		}
	}

	if !dryRun {
		for _, id := range purged {
			subject := m.records[id].DataSubjectID
			delete(m.records, id)

			ids := m.bySubject[subject]
			for i, existing := range ids {
				if existing == id {
					m.bySubject[subject] = append(ids[:i], ids[i+1:]...)
					break
				}
			}
			if len(m.bySubject[subject]) == 0 {
				delete(m.bySubject, subject)
			}
		}
	}

	return int64(len(purged)), nil
}
