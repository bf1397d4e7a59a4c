package claim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/domain/notification"
	"github.com/claimdesk/claimdesk/internal/domain/user"
)

// ErrForbidden means the actor's role does not allow the operation on this
// claim in its current state.
var ErrForbidden = errors.New("not authorized for this claim")

// Notifier is the slice of the notification service the workflow needs.
type Notifier interface {
	Create(ctx context.Context, in notification.CreateInput) (*notification.Notification, error)
}

// DefaultProcessingDays is the initial processing estimate for new claims.
const DefaultProcessingDays = 7

// Service drives the claim lifecycle. Notification failures are logged and
// swallowed; they never fail the triggering operation.
type Service struct {
	claims    Repository
	notifier  Notifier
	extractor Extractor
	log       zerolog.Logger
}

func NewService(claims Repository, notifier Notifier, extractor Extractor, log zerolog.Logger) *Service {
	return &Service{claims: claims, notifier: notifier, extractor: extractor, log: log}
}

// ExtractDocument runs the extractor over an uploaded file and returns the
// structured data together with the stored document descriptor.
func (s *Service) ExtractDocument(ctx context.Context, filename, contentType string, data []byte) (*ExtractedData, *DocumentInfo, error) {
	if filename == "" {
		return nil, nil, validationErrorf("filename is required")
	}
	if len(data) == 0 {
		return nil, nil, validationErrorf("file is empty")
	}

	extracted, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, nil, fmt.Errorf("extract document: %w", err)
	}

	doc := &DocumentInfo{
		FileName:   filename,
		FileSize:   int64(len(data)),
		FileType:   contentType,
		UploadPath: fmt.Sprintf("uploads/%s/%s", time.Now().UTC().Format("2006/01/02"), filename),
		UploadedAt: time.Now().UTC(),
	}
	return extracted, doc, nil
}

// SubmitInput carries a new claim.
type SubmitInput struct {
	ExtractedData      ExtractedData  `json:"extracted_data"`
	Documents          []DocumentInfo `json:"documents"`
	AdditionalNotes    *string        `json:"additional_notes"`
	EmergencyTreatment bool           `json:"emergency_treatment"`
}

// Submit creates a claim in the submitted state with a single-entry history.
func (s *Service) Submit(ctx context.Context, patientID uuid.UUID, in SubmitInput) (*Claim, error) {
	amount := math.Round(in.ExtractedData.ClaimAmount*100) / 100
	if amount <= 0 {
		return nil, validationErrorf("claim amount must be greater than zero")
	}
	in.ExtractedData.ClaimAmount = amount

	now := time.Now().UTC()
	c := &Claim{
		ClaimNumber:   NewClaimNumber(now),
		PatientID:     patientID,
		ExtractedData: in.ExtractedData,
		Documents:     in.Documents,
		Status:        StatusSubmitted,
		StatusHistory: []HistoryEntry{{
			Status:        StatusSubmitted,
			UpdatedBy:     patientID,
			UpdatedByRole: user.RolePatient,
			UpdatedAt:     now,
		}},
		AdditionalNotes:         in.AdditionalNotes,
		EmergencyTreatment:      in.EmergencyTreatment,
		EstimatedProcessingDays: DefaultProcessingDays,
	}

	if err := s.claims.Create(ctx, c); err != nil {
		return nil, err
	}

	s.notify(ctx, c.PatientID, c, notification.CreateInput{
		Title:   "Claim Submitted",
		Message: fmt.Sprintf("Your claim %s has been submitted successfully.", c.ClaimNumber),
		Type:    notification.TypeClaimSubmitted,
	})

	s.log.Info().
		Str("claim_id", c.ID.String()).
		Str("claim_number", c.ClaimNumber).
		Str("patient_id", patientID.String()).
		Msg("claim submitted")
	return c, nil
}

// Get returns a claim visible to the actor, or ErrForbidden.
func (s *Service) Get(ctx context.Context, id, actorID uuid.UUID, role user.Role) (*Claim, error) {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(actorID, role, c) {
		return nil, ErrForbidden
	}
	return c, nil
}

// ListForActor returns the actor's claim feed: patients get their own
// claims, staff roles get all of them.
func (s *Service) ListForActor(ctx context.Context, actorID uuid.UUID, role user.Role, limit, offset int) ([]*Claim, int, error) {
	if role == user.RolePatient {
		return s.claims.ListByPatient(ctx, actorID, limit, offset)
	}
	return s.claims.List(ctx, limit, offset)
}

// UpdateStatusInput carries a status transition request.
type UpdateStatusInput struct {
	Target                  Status   `json:"status"`
	Notes                   *string  `json:"notes"`
	EstimatedProcessingDays *int     `json:"estimated_processing_days"`
	ProcessedAmount         *float64 `json:"processed_amount"`
}

// UpdateStatus moves a claim to a new status. The write is a compare-and-set
// on the status read here; when a concurrent update wins, ErrConflict is
// returned and nothing is written.
func (s *Service) UpdateStatus(ctx context.Context, claimID, actorID uuid.UUID, actorRole user.Role, in UpdateStatusInput) (*Claim, error) {
	if !in.Target.Valid() {
		return nil, validationErrorf("invalid status: %s", in.Target)
	}

	c, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if !CanUpdateStatus(actorRole, c.Status) {
		return nil, ErrForbidden
	}
	if !CanTransition(c.Status, in.Target) {
		return nil, &TransitionError{From: c.Status, To: in.Target}
	}
	if in.Target.NotesRequired() && (in.Notes == nil || *in.Notes == "") {
		return nil, validationErrorf("notes are required when moving a claim to %s", in.Target)
	}

	change := StatusChange{
		To: in.Target,
		Entry: HistoryEntry{
			Status:        in.Target,
			UpdatedBy:     actorID,
			UpdatedByRole: actorRole,
			UpdatedAt:     time.Now().UTC(),
			Notes:         in.Notes,
		},
		EstimatedProcessingDays: in.EstimatedProcessingDays,
		ProcessedAmount:         in.ProcessedAmount,
	}
	if in.Target == StatusRejected {
		change.RejectionReason = in.Notes
	}

	applied, err := s.claims.UpdateStatus(ctx, c.ID, c.Status, change)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrConflict
	}

	updated, err := s.claims.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	title, message, typ := statusNotification(updated, in.Notes)
	s.notify(ctx, updated.PatientID, updated, notification.CreateInput{
		Title:   title,
		Message: message,
		Type:    typ,
	})

	s.log.Info().
		Str("claim_id", updated.ID.String()).
		Str("from", string(c.Status)).
		Str("to", string(updated.Status)).
		Str("actor_id", actorID.String()).
		Str("actor_role", string(actorRole)).
		Msg("claim status updated")
	return updated, nil
}

// Assign sets the insurer and/or hospital handling a claim.
func (s *Service) Assign(ctx context.Context, claimID uuid.UUID, insurerID, hospitalID *uuid.UUID) (*Claim, error) {
	if insurerID == nil && hospitalID == nil {
		return nil, validationErrorf("at least one of assigned_insurer or assigned_hospital is required")
	}
	if err := s.claims.Assign(ctx, claimID, insurerID, hospitalID); err != nil {
		return nil, err
	}
	return s.claims.GetByID(ctx, claimID)
}

func (s *Service) notify(ctx context.Context, recipientID uuid.UUID, c *Claim, in notification.CreateInput) {
	if s.notifier == nil {
		return
	}
	in.RecipientID = recipientID
	in.RelatedClaimID = &c.ID
	if _, err := s.notifier.Create(ctx, in); err != nil {
		s.log.Error().Err(err).
			Str("claim_id", c.ID.String()).
			Str("recipient_id", recipientID.String()).
			Msg("failed to dispatch notification")
	}
}

// statusNotification builds the patient-facing message for a status change.
func statusNotification(c *Claim, notes *string) (title, message string, typ notification.Type) {
	switch c.Status {
	case StatusInReview:
		return "Claim Under Review",
			fmt.Sprintf("Your claim %s is now being reviewed.", c.ClaimNumber),
			notification.TypeStatusUpdate
	case StatusUnderInvestigation:
		return "Claim Under Investigation",
			fmt.Sprintf("Your claim %s requires further investigation.", c.ClaimNumber),
			notification.TypeStatusUpdate
	case StatusApproved:
		return "Claim Approved",
			fmt.Sprintf("Good news! Your claim %s has been approved.", c.ClaimNumber),
			notification.TypeStatusUpdate
	case StatusRejected:
		reason := ""
		if notes != nil {
			reason = " Reason: " + *notes
		}
		return "Claim Rejected",
			fmt.Sprintf("Your claim %s has been rejected.%s", c.ClaimNumber, reason),
			notification.TypeStatusUpdate
	case StatusPendingDocuments:
		detail := ""
		if notes != nil {
			detail = " " + *notes
		}
		return "Documents Required",
			fmt.Sprintf("Additional documents are required for claim %s.%s", c.ClaimNumber, detail),
			notification.TypeDocumentRequest
	case StatusPaymentProcessing:
		return "Payment Processing",
			fmt.Sprintf("Payment for your claim %s is being processed.", c.ClaimNumber),
			notification.TypePaymentProcessed
	case StatusCompleted:
		return "Claim Completed",
			fmt.Sprintf("Your claim %s is complete and payment has been issued.", c.ClaimNumber),
			notification.TypePaymentProcessed
	default:
		return "Claim Updated",
			fmt.Sprintf("Your claim %s status changed to %s.", c.ClaimNumber, c.Status),
			notification.TypeStatusUpdate
	}
}
