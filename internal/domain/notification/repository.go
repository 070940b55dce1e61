package notification

import "context"

type Repository interface {
	Append(ctx context.Context, n *Notification) error
	ListByUserID(ctx context.Context, userID string) ([]Notification, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	// CountEverByUserID includes cleared rows. The welcome seed keys
	// off it so clearing the log does not resurrect the welcome.
	CountEverByUserID(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead flips the read flag on the caller's own notification;
	// ErrNotFound when the id does not belong to userID.
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}
