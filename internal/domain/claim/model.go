// Package claim implements the claim lifecycle: the status machine, the
// permission predicates, document intake, and the workflow service.
package claim

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/domain/user"
)

// Status is a claim lifecycle state.
type Status string

const (
	StatusSubmitted          Status = "submitted"
	StatusInReview           Status = "in_review"
	StatusUnderInvestigation Status = "under_investigation"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusPendingDocuments   Status = "pending_documents"
	StatusPaymentProcessing  Status = "payment_processing"
	StatusCompleted          Status = "completed"
)

// Statuses lists every lifecycle state.
var Statuses = []Status{
	StatusSubmitted, StatusInReview, StatusUnderInvestigation, StatusApproved,
	StatusRejected, StatusPendingDocuments, StatusPaymentProcessing, StatusCompleted,
}

// Valid reports whether s is a defined status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusUnderInvestigation, StatusApproved,
		StatusRejected, StatusPendingDocuments, StatusPaymentProcessing, StatusCompleted:
		return true
	}
	return false
}

// transitions is the authoritative table of legal status moves. Terminal
// states have no entry.
var transitions = map[Status][]Status{
	StatusSubmitted:          {StatusInReview, StatusRejected, StatusPendingDocuments},
	StatusInReview:           {StatusUnderInvestigation, StatusApproved, StatusRejected, StatusPendingDocuments},
	StatusUnderInvestigation: {StatusApproved, StatusRejected, StatusPendingDocuments},
	StatusApproved:           {StatusPaymentProcessing},
	StatusPendingDocuments:   {StatusInReview, StatusRejected},
	StatusPaymentProcessing:  {StatusCompleted},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedNext returns the legal successors of a status. Empty for terminal
// states.
func AllowedNext(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Terminal reports whether a status admits no further transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// NotesRequired reports whether a transition into s must carry notes.
func (s Status) NotesRequired() bool {
	return s == StatusRejected || s == StatusPendingDocuments
}

// ExtractedData is the structured result of document extraction.
type ExtractedData struct {
	PatientName    string   `json:"patient_name"`
	PatientID      *string  `json:"patient_id,omitempty"`
	PatientDOB     *string  `json:"patient_dob,omitempty"`
	HospitalName   string   `json:"hospital_name"`
	DoctorName     string   `json:"doctor_name"`
	TreatmentDate  string   `json:"treatment_date"`
	ClaimAmount    float64  `json:"claim_amount"`
	Diagnosis      string   `json:"diagnosis"`
	TreatmentType  string   `json:"treatment_type"`
	PolicyNumber   *string  `json:"policy_number,omitempty"`
	ProcedureCodes []string `json:"procedure_codes,omitempty"`
}

// DocumentInfo describes an uploaded claim document. Storage is a stand-in;
// only the descriptor is kept.
type DocumentInfo struct {
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadPath string    `json:"upload_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// HistoryEntry is one step of the status trail.
type HistoryEntry struct {
	Status        Status    `json:"status"`
	UpdatedBy     uuid.UUID `json:"updated_by"`
	UpdatedByRole user.Role `json:"updated_by_role"`
	UpdatedAt     time.Time `json:"updated_at"`
	Notes         *string   `json:"notes,omitempty"`
}

// Claim is the aggregate root. StatusHistory always ends with the entry that
// produced the current Status.
type Claim struct {
	ID                      uuid.UUID      `db:"id" json:"id"`
	ClaimNumber             string         `db:"claim_number" json:"claim_number"`
	PatientID               uuid.UUID      `db:"patient_id" json:"patient_id"`
	ExtractedData           ExtractedData  `db:"extracted_data" json:"extracted_data"`
	Documents               []DocumentInfo `db:"documents" json:"documents"`
	Status                  Status         `db:"status" json:"status"`
	StatusHistory           []HistoryEntry `db:"status_history" json:"status_history"`
	AssignedInsurer         *uuid.UUID     `db:"assigned_insurer" json:"assigned_insurer,omitempty"`
	AssignedHospital        *uuid.UUID     `db:"assigned_hospital" json:"assigned_hospital,omitempty"`
	AdditionalNotes         *string        `db:"additional_notes" json:"additional_notes,omitempty"`
	EmergencyTreatment      bool           `db:"emergency_treatment" json:"emergency_treatment"`
	EstimatedProcessingDays int            `db:"estimated_processing_days" json:"estimated_processing_days"`
	ProcessedAmount         *float64       `db:"processed_amount" json:"processed_amount,omitempty"`
	RejectionReason         *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt               time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updated_at"`
}

// NewClaimNumber builds a human-referenceable claim number:
// CLM-<YYYYMMDD>-<8 hex chars>.
func NewClaimNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("CLM-%s-%s", now.Format("20060102"), suffix)
}
