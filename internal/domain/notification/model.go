// Package notification implements in-app notifications for claim lifecycle
// events.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type categorizes a notification for client-side rendering.
type Type string

const (
	TypeClaimSubmitted   Type = "claim_submitted"
	TypeStatusUpdate     Type = "status_update"
	TypeDocumentRequest  Type = "document_request"
	TypePaymentProcessed Type = "payment_processed"
	TypeSystemAlert      Type = "system_alert"
)

// Notification is one message addressed to a single recipient.
type Notification struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	RecipientID    uuid.UUID      `db:"recipient_id" json:"recipient_id"`
	Title          string         `db:"title" json:"title"`
	Message        string         `db:"message" json:"message"`
	Type           Type           `db:"type" json:"type"`
	RelatedClaimID *uuid.UUID     `db:"related_claim_id" json:"related_claim_id,omitempty"`
	Metadata       map[string]any `db:"metadata" json:"metadata,omitempty"`
	IsRead         bool           `db:"is_read" json:"is_read"`
	ReadAt         *time.Time     `db:"read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// CreateInput carries the fields for a new notification.
type CreateInput struct {
	RecipientID    uuid.UUID
	Title          string
	Message        string
	Type           Type
	RelatedClaimID *uuid.UUID
	Metadata       map[string]any
}
