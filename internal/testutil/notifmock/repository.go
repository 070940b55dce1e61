package notifmock

import (
	"context"
	"sync"

	domain "cashcraft-backend/internal/domain/notification"
)

// Repo is an in-memory notification.Repository for tests. Function
// fields override individual methods when set.
type Repo struct {
	AppendFn func(ctx context.Context, n *domain.Notification) error

	mu      sync.Mutex
	rows    []domain.Notification
	cleared []domain.Notification
}

func New() *Repo { return &Repo{} }

// Rows returns a copy of everything appended, for assertions.
func (m *Repo) Rows() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Notification, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *Repo) Append(ctx context.Context, n *domain.Notification) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *n)
	return nil
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	// newest first, like the real repository
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *Repo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

// CountEverByUserID includes rows DeleteByUserID removed, mirroring
// the soft-delete counting of the real repository.
func (m *Repo) CountEverByUserID(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
		}
	}
	for _, r := range m.cleared {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *Repo) CountUnread(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID && !r.Read {
			n++
		}
	}
	return n, nil
}

func (m *Repo) MarkRead(ctx context.Context, userID, notificationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].UserID == userID && m.rows[i].NotificationID == notificationID {
			m.rows[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *Repo) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].UserID == userID {
			m.rows[i].Read = true
		}
	}
	return nil
}

func (m *Repo) DeleteByUserID(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.UserID != userID {
			kept = append(kept, r)
		} else {
			m.cleared = append(m.cleared, r)
		}
	}
	m.rows = kept
	return nil
}
