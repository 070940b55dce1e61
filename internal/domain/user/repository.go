package user

import "context"

// Store is the durable slot holding session user records. Backed by
// redis in production; a map works for tests. Get returns ErrNoSession
// when no record exists for the id.
type Store interface {
	Put(ctx context.Context, u *User) error
	Get(ctx context.Context, userID string) (*User, error)
	Delete(ctx context.Context, userID string) error
}
