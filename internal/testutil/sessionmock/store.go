package sessionmock

import (
	"context"
	"sync"

	domain "cashcraft-backend/internal/domain/user"
)

// Store is an in-memory user.Store for tests. Function fields override
// individual methods when set; otherwise the map implementation runs.
type Store struct {
	PutFn    func(ctx context.Context, u *domain.User) error
	GetFn    func(ctx context.Context, userID string) (*domain.User, error)
	DeleteFn func(ctx context.Context, userID string) error

	mu    sync.Mutex
	users map[string]domain.User
}

func New() *Store { return &Store{users: make(map[string]domain.User)} }

func (m *Store) Put(ctx context.Context, u *domain.User) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *Store) Get(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	cp := u
	return &cp, nil
}

func (m *Store) Delete(ctx context.Context, userID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}
