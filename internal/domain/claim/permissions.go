package claim

import (
	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/domain/user"
)

// CanView reports whether an actor may read a claim. Admins see everything;
// patients see their own claims; hospitals and insurers see claims assigned
// to them.
func CanView(actorID uuid.UUID, role user.Role, c *Claim) bool {
	switch role {
	case user.RoleAdmin:
		return true
	case user.RolePatient:
		return c.PatientID == actorID
	case user.RoleInsurer:
		return c.AssignedInsurer != nil && *c.AssignedInsurer == actorID
	case user.RoleHospital:
		return c.AssignedHospital != nil && *c.AssignedHospital == actorID
	default:
		return false
	}
}

// CanUpdateStatus reports whether a role may move a claim out of its current
// status. It gates on the current status only; the transition table decides
// where the claim may go.
func CanUpdateStatus(role user.Role, current Status) bool {
	switch role {
	case user.RoleAdmin:
		return true
	case user.RoleHospital:
		return current == StatusSubmitted || current == StatusPendingDocuments
	case user.RoleInsurer:
		switch current {
		case StatusSubmitted, StatusInReview, StatusUnderInvestigation, StatusPendingDocuments:
			return true
		}
		return false
	case user.RolePatient:
		return current == StatusPendingDocuments
	default:
		return false
	}
}
