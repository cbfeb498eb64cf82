package readinglist

import (
	"context"
	"sync"
	"time"
)

// memoryRepo applies patches the way the stores do, for behaviour tests.
type memoryRepo struct {
	mu    sync.Mutex
	items map[[2]string]ReadingList
	order [][2]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[[2]string]ReadingList{}}
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]ReadingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ReadingList
	for _, k := range m.order {
		if l, ok := m.items[k]; ok && k[1] == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(_ context.Context, l ReadingList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{l.ID, l.UserID}
	m.items[k] = l
	m.order = append(m.order, k)
	return nil
}

func (m *memoryRepo) Update(_ context.Context, id, userID string, p *Patch, now time.Time) (ReadingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{id, userID}
	l, ok := m.items[k]
	if !ok {
		return ReadingList{}, ErrNotFound
	}
	for _, a := range p.Build(now) {
		switch a.Field {
		case FieldName:
			l.Name = a.Value.(string)
		case FieldDescription:
			l.Description = a.Value.(string)
		case FieldBookIDs:
			l.BookIDs = a.Value.([]string)
		case FieldUpdatedAt:
			l.UpdatedAt = a.Value.(string)
		}
	}
	m.items[k] = l
	return l, nil
}

func (m *memoryRepo) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, [2]string{id, userID})
	return nil
}
