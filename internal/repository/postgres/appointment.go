package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medq/hospital-api/internal/model"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

const appointmentColumns = `
	id, patient_id, doctor_id, hospital_id, requested_date, requested_time,
	reason, status, approved_at, rejected_at, rejection_reason,
	created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, req *model.AppointmentRequest) error {
	query := `
		INSERT INTO appointment_requests (
			id, patient_id, doctor_id, hospital_id, requested_date,
			requested_time, reason, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.PatientID,
		req.DoctorID,
		req.HospitalID,
		req.RequestedDate,
		req.RequestedTime,
		req.Reason,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment request: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentRequest, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointment_requests WHERE id = $1`

	var req model.AppointmentRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment request", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment request: %w", err)
	}
	return &req, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointment_requests
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var requests []*model.AppointmentRequest
	if err := r.db.SelectContext(ctx, &requests, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list appointment requests: %w", err)
	}
	return requests, nil
}

func (r *appointmentRepository) ListForHospital(ctx context.Context, hospitalID uuid.UUID, status *model.AppointmentStatus) ([]*model.AppointmentRequest, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointment_requests
		WHERE hospital_id = $1
	`
	args := []interface{}{hospitalID}
	if status != nil {
		query += " AND status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC"

	var requests []*model.AppointmentRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointment requests: %w", err)
	}
	return requests, nil
}

func (r *appointmentRepository) ListApproved(ctx context.Context, hospitalID uuid.UUID) ([]*model.AppointmentRequest, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointment_requests
		WHERE hospital_id = $1 AND status = 'approved'
		ORDER BY approved_at ASC
	`
	var requests []*model.AppointmentRequest
	if err := r.db.SelectContext(ctx, &requests, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list approved requests: %w", err)
	}
	return requests, nil
}

// Transition locks the request row, verifies the acting hospital and the
// pending status, applies the terminal status and writes the matching outbox
// event in the same transaction. Two concurrent transitions on the same
// request serialize on the row lock; the loser sees a non-pending status.
func (r *appointmentRepository) Transition(ctx context.Context, id, actingHospitalID uuid.UUID, to model.AppointmentStatus, rejectionReason *string) (*model.AppointmentRequest, error) {
	if to != model.AppointmentStatusApproved && to != model.AppointmentStatusRejected {
		return nil, apperrors.Validation(fmt.Sprintf("invalid target status %q", to), nil)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var req model.AppointmentRequest
	lockQuery := `SELECT ` + appointmentColumns + ` FROM appointment_requests WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &req, lockQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment request", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock appointment request: %w", err)
	}

	if req.HospitalID != actingHospitalID {
		return nil, apperrors.Forbidden("appointment request belongs to another hospital", nil)
	}
	if req.Status != model.AppointmentStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("appointment request is already %s", req.Status), nil)
	}

	now := time.Now()
	req.Status = to
	req.UpdatedAt = now
	switch to {
	case model.AppointmentStatusApproved:
		req.ApprovedAt = &now
	case model.AppointmentStatusRejected:
		req.RejectedAt = &now
		reason := ""
		if rejectionReason != nil {
			reason = *rejectionReason
		}
		req.RejectionReason = &reason
	}

	updateQuery := `
		UPDATE appointment_requests
		SET status = $1, approved_at = $2, rejected_at = $3,
			rejection_reason = $4, updated_at = $5
		WHERE id = $6
	`
	if _, err := tx.ExecContext(ctx, updateQuery,
		req.Status, req.ApprovedAt, req.RejectedAt, req.RejectionReason, req.UpdatedAt, req.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to update appointment request: %w", err)
	}

	payload, err := json.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	eventType := model.EventAppointmentApproved
	if to == model.AppointmentStatusRejected {
		eventType = model.EventAppointmentRejected
	}

	outboxQuery := `
		INSERT INTO outbox_events (id, event_type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, outboxQuery,
		uuid.New(), eventType, payload, model.OutboxStatusPending, now, now,
	); err != nil {
		return nil, fmt.Errorf("failed to write outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}
	return &req, nil
}
