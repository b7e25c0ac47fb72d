package training

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/models"
)

// MemStore is an in-process SessionStore. It keeps an insertion-order index
// alongside the record map so List is stable without re-sorting.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.TrainingSession
	order    []uuid.UUID
}

func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[uuid.UUID]*models.TrainingSession),
	}
}

func (m *MemStore) Create(ctx context.Context, s *models.TrainingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.sessions[s.ID] = &cp
	m.order = append(m.order, s.ID)
	return nil
}

func (m *MemStore) FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemStore) UpdateByID(ctx context.Context, id uuid.UUID, p Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Progress != nil {
		s.Progress = *p.Progress
	}
	if p.CompletedAt != nil {
		s.CompletedAt = p.CompletedAt
	}
	return nil
}

func (m *MemStore) List(ctx context.Context, f Filter) ([]models.TrainingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.TrainingSession, 0, len(m.order))
	for _, id := range m.order {
		s, ok := m.sessions[id]
		if !ok {
			continue
		}
		if f.OwnerID != nil && s.OwnerID != *f.OwnerID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *MemStore) DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.sessions, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
