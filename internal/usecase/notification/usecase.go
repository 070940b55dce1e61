package notification

import (
	"context"
	"time"

	"cashcraft-backend/internal/domain/notification"
	"cashcraft-backend/internal/domain/user"
	"cashcraft-backend/pkg/pace"

	"github.com/google/uuid"
)

const (
	markReadDelay    = 300 * time.Millisecond
	markAllReadDelay = 500 * time.Millisecond
)

type Usecase struct {
	repo  notification.Repository
	pacer pace.Pacer
}

func NewUsecase(repo notification.Repository, pacer pace.Pacer) *Usecase {
	return &Usecase{repo: repo, pacer: pacer}
}

// List returns the caller's log, newest first. The single welcome
// notification is seeded on the first-ever access only; a log the user
// cleared stays empty.
func (u *Usecase) List(ctx context.Context, actor *user.User) ([]notification.Notification, error) {
	if actor == nil {
		return nil, user.ErrNoSession
	}

	count, err := u.repo.CountEverByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		w := notification.Welcome(actor.ID, uuid.NewString())
		if err := u.repo.Append(ctx, w); err != nil {
			return nil, err
		}
	}
	return u.repo.ListByUserID(ctx, actor.ID)
}

func (u *Usecase) Append(ctx context.Context, actor *user.User, title, message string, typ notification.Type) (*notification.Notification, error) {
	if actor == nil {
		return nil, user.ErrNoSession
	}

	n := &notification.Notification{
		NotificationID: uuid.NewString(),
		UserID:         actor.ID,
		Title:          title,
		Message:        message,
		Type:           typ,
	}
	if err := u.repo.Append(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (u *Usecase) MarkRead(ctx context.Context, actor *user.User, notificationID string) error {
	if actor == nil {
		return user.ErrNoSession
	}
	if err := u.pacer.Wait(ctx, markReadDelay); err != nil {
		return err
	}
	return u.repo.MarkRead(ctx, actor.ID, notificationID)
}

func (u *Usecase) MarkAllRead(ctx context.Context, actor *user.User) error {
	if actor == nil {
		return user.ErrNoSession
	}
	if err := u.pacer.Wait(ctx, markAllReadDelay); err != nil {
		return err
	}
	return u.repo.MarkAllRead(ctx, actor.ID)
}

// Clear empties the caller's log only; other users' rows are untouched.
func (u *Usecase) Clear(ctx context.Context, actor *user.User) error {
	if actor == nil {
		return user.ErrNoSession
	}
	return u.repo.DeleteByUserID(ctx, actor.ID)
}

func (u *Usecase) UnreadCount(ctx context.Context, actor *user.User) (int64, error) {
	if actor == nil {
		return 0, user.ErrNoSession
	}
	return u.repo.CountUnread(ctx, actor.ID)
}
