package claim

import (
	"context"

	"github.com/google/uuid"
)

// StatusChange is the payload of an atomic status update. Optional fields
// are applied only when non-nil.
type StatusChange struct {
	To                      Status
	Entry                   HistoryEntry
	RejectionReason         *string
	EstimatedProcessingDays *int
	ProcessedAmount         *float64
}

// Repository is the persistence boundary for claims.
type Repository interface {
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error)
	List(ctx context.Context, limit, offset int) ([]*Claim, int, error)
	// UpdateStatus applies the change iff the claim is still in the from
	// status (compare-and-set). Returns false without error on a CAS miss.
	UpdateStatus(ctx context.Context, id uuid.UUID, from Status, change StatusChange) (bool, error)
	// Assign sets the insurer and/or hospital assignment; nil leaves a side
	// unchanged.
	Assign(ctx context.Context, id uuid.UUID, insurerID, hospitalID *uuid.UUID) error
}
