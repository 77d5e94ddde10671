package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medq/hospital-api/internal/model"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (
			id, name, license_number, email, address, city, state, zip_code,
			phone, admin_first_name, admin_last_name, admin_phone,
			password_hash, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	hospital.ID = uuid.New()
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.LicenseNumber,
		hospital.Email,
		hospital.Address,
		hospital.City,
		hospital.State,
		hospital.ZipCode,
		hospital.Phone,
		hospital.AdminFirstName,
		hospital.AdminLastName,
		hospital.AdminPhone,
		hospital.PasswordHash,
		hospital.Status,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `
		SELECT id, name, license_number, email, address, city, state, zip_code,
			   phone, admin_first_name, admin_last_name, admin_phone,
			   password_hash, status, rejection_reason, created_at, updated_at
		FROM hospitals
		WHERE id = $1
	`
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	query := `
		SELECT id, name, license_number, email, address, city, state, zip_code,
			   phone, admin_first_name, admin_last_name, admin_phone,
			   password_hash, status, rejection_reason, created_at, updated_at
		FROM hospitals
		WHERE email = $1
	`
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital by email: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) ExistsByEmailOrLicense(ctx context.Context, email, licenseNumber string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM hospitals
			WHERE email = $1 OR license_number = $2
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, licenseNumber); err != nil {
		return false, fmt.Errorf("failed to check hospital existence: %w", err)
	}
	return exists, nil
}

func (r *hospitalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.HospitalStatus, rejectionReason *string) error {
	query := `
		UPDATE hospitals
		SET status = $1, rejection_reason = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, rejectionReason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update hospital status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("hospital", nil)
	}
	return nil
}

func (r *hospitalRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo []byte) error {
	query := `
		UPDATE hospitals
		SET photo = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, photo, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update hospital photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("hospital", nil)
	}
	return nil
}

func (r *hospitalRepository) List(ctx context.Context, status *model.HospitalStatus) ([]*model.Hospital, error) {
	query := `
		SELECT id, name, license_number, email, address, city, state, zip_code,
			   phone, admin_first_name, admin_last_name, admin_phone,
			   password_hash, status, rejection_reason, created_at, updated_at
		FROM hospitals
	`
	args := []interface{}{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC"

	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}
