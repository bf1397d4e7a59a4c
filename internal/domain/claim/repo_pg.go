package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimdesk/claimdesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const claimCols = `id, claim_number, patient_id, extracted_data, documents,
	status, status_history, assigned_insurer, assigned_hospital,
	additional_notes, emergency_treatment, estimated_processing_days,
	processed_amount, rejection_reason, created_at, updated_at`

func (r *repoPG) scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	var extracted, documents, history []byte
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.PatientID, &extracted, &documents,
		&c.Status, &history, &c.AssignedInsurer, &c.AssignedHospital,
		&c.AdditionalNotes, &c.EmergencyTreatment, &c.EstimatedProcessingDays,
		&c.ProcessedAmount, &c.RejectionReason, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(extracted, &c.ExtractedData); err != nil {
		return nil, fmt.Errorf("unmarshal extracted_data: %w", err)
	}
	if len(documents) > 0 {
		if err := json.Unmarshal(documents, &c.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &c.StatusHistory); err != nil {
			return nil, fmt.Errorf("unmarshal status_history: %w", err)
		}
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Claim) error {
	c.ID = uuid.New()

	extracted, err := json.Marshal(c.ExtractedData)
	if err != nil {
		return fmt.Errorf("marshal extracted_data: %w", err)
	}
	documents, err := json.Marshal(c.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	history, err := json.Marshal(c.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status_history: %w", err)
	}

	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO claims (id, claim_number, patient_id, extracted_data, documents,
			status, status_history, assigned_insurer, assigned_hospital,
			additional_notes, emergency_treatment, estimated_processing_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.ClaimNumber, c.PatientID, extracted, documents,
		c.Status, history, c.AssignedInsurer, c.AssignedHospital,
		c.AdditionalNotes, c.EmergencyTreatment, c.EstimatedProcessingDays)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return r.scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+claimCols+` FROM claims WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM claims WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+claimCols+` FROM claims WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM claims`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+claimCols+` FROM claims ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) collect(rows pgx.Rows, total int) ([]*Claim, int, error) {
	var items []*Claim
	for rows.Next() {
		c, err := r.scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

// UpdateStatus is the single conditional UPDATE that makes transitions
// linearizable per claim: the status check, the status write, the history
// append, and the optional field updates all happen in one statement guarded
// by the status the caller read. Zero rows affected means someone else moved
// the claim first.
func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from Status, change StatusChange) (bool, error) {
	entry, err := json.Marshal(change.Entry)
	if err != nil {
		return false, fmt.Errorf("marshal history entry: %w", err)
	}

	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE claims SET
			status = $3,
			status_history = status_history || $4::jsonb,
			rejection_reason = COALESCE($5, rejection_reason),
			estimated_processing_days = COALESCE($6, estimated_processing_days),
			processed_amount = COALESCE($7, processed_amount),
			updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, change.To, entry,
		change.RejectionReason, change.EstimatedProcessingDays, change.ProcessedAmount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) Assign(ctx context.Context, id uuid.UUID, insurerID, hospitalID *uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE claims SET
			assigned_insurer = COALESCE($2, assigned_insurer),
			assigned_hospital = COALESCE($3, assigned_hospital),
			updated_at = NOW()
		WHERE id = $1`, id, insurerID, hospitalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
