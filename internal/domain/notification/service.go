package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service creates and reads notifications.
type Service struct {
	notifications Repository
	log           zerolog.Logger
}

func NewService(notifications Repository, log zerolog.Logger) *Service {
	return &Service{notifications: notifications, log: log}
}

// Create persists a new unread notification.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Notification, error) {
	if in.RecipientID == uuid.Nil {
		return nil, fmt.Errorf("recipient_id is required")
	}
	if in.Title == "" || in.Message == "" {
		return nil, fmt.Errorf("title and message are required")
	}

	n := &Notification{
		RecipientID:    in.RecipientID,
		Title:          in.Title,
		Message:        in.Message,
		Type:           in.Type,
		RelatedClaimID: in.RelatedClaimID,
		Metadata:       in.Metadata,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListResult is the paginated notification feed with the unread count.
type ListResult struct {
	Items       []*Notification `json:"items"`
	UnreadCount int             `json:"unread_count"`
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) (*ListResult, int, error) {
	items, total, unread, err := s.notifications.ListByRecipient(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return &ListResult{Items: items, UnreadCount: unread}, total, nil
}

// MarkRead flags a notification read. Returns ErrNotFound when it does not
// exist or belongs to someone else; the caller cannot tell the two apart.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
