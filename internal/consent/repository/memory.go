// Package repository implements consent record persistence for the memory,
// PostgreSQL and MySQL backends.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/plantwatch/privacy/internal/consent/domain"
)

// MemoryRepository is an in-memory consent store keyed by data subject.
type MemoryRepository struct {
	mu        sync.RWMutex
	bySubject map[string][]*domain.ConsentRecord
}

// NewMemoryRepository creates an empty in-memory consent repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bySubject: make(map[string][]*domain.ConsentRecord)}
}

func cloneConsent(consent *domain.ConsentRecord) *domain.ConsentRecord {
	clone := *consent
	if consent.WithdrawnAt != nil {
		ts := *consent.WithdrawnAt
		clone.WithdrawnAt = &ts
	}
	if consent.DataCategories != nil {
		clone.DataCategories = append([]string(nil), consent.DataCategories...)
	}
	return &clone
}

// Create appends a consent record.
func (m *MemoryRepository) Create(_ context.Context, consent *domain.ConsentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bySubject[consent.DataSubjectID] = append(m.bySubject[consent.DataSubjectID], cloneConsent(consent))
	return nil
}

// ListBySubject returns all consent records of the subject, oldest first.
func (m *MemoryRepository) ListBySubject(_ context.Context, dataSubjectID string) ([]*domain.ConsentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.bySubject[dataSubjectID]
	consents := make([]*domain.ConsentRecord, 0, len(stored))
	for _, consent := range stored {
		consents = append(consents, cloneConsent(consent))
	}
	return consents, nil
}

// WithdrawAll withdraws every active consent of the subject.
func (m *MemoryRepository) WithdrawAll(
	_ context.Context,
	dataSubjectID string,
	withdrawnAt time.Time,
) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var withdrawn int64
	for _, consent := range m.bySubject[dataSubjectID] {
		if consent.Withdraw(withdrawnAt) {
			withdrawn++
		}
	}
	return withdrawn, nil
}

// CountActive returns the number of active consents across all subjects.
func (m *MemoryRepository) CountActive(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, consents := range m.bySubject {
		for _, consent := range consents {
			if consent.IsActive {
				count++
			}
		}
	}
	return count, nil
}

// CountActiveBySubject returns the number of active consents of one subject.
func (m *MemoryRepository) CountActiveBySubject(_ context.Context, dataSubjectID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, consent := range m.bySubject[dataSubjectID] {
		if consent.IsActive {
			count++
		}
	}
	return count, nil
}
