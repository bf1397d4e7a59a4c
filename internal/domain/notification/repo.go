package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

// Repository is the persistence boundary for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByRecipient returns the recipient's notifications newest first,
	// along with the total and the unread count.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) (items []*Notification, total, unread int, err error)
	// MarkRead flags a notification read iff it belongs to userID. Returns
	// false when no matching row exists.
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
}
