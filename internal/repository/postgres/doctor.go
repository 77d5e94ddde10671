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

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, hospital_id, name, email, specialization, experience_years,
			qualification, license_number, consultation_fee, schedule,
			rating, review_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.HospitalID,
		doctor.Name,
		doctor.Email,
		doctor.Specialization,
		doctor.ExperienceYears,
		doctor.Qualification,
		doctor.LicenseNumber,
		doctor.ConsultationFee,
		doctor.Schedule,
		doctor.Rating,
		doctor.ReviewCount,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, hospital_id, name, email, specialization, experience_years,
			   qualification, license_number, consultation_fee, schedule,
			   rating, review_count, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM doctors WHERE email = $1
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check doctor existence: %w", err)
	}
	return exists, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, specialization = $2, experience_years = $3,
			qualification = $4, license_number = $5, consultation_fee = $6,
			schedule = $7, updated_at = $8
		WHERE id = $9
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.ExperienceYears,
		doctor.Qualification,
		doctor.LicenseNumber,
		doctor.ConsultationFee,
		doctor.Schedule,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM doctors
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo []byte) error {
	query := `
		UPDATE doctors
		SET photo = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, photo, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update doctor photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT id, hospital_id, name, email, specialization, experience_years,
			   qualification, license_number, consultation_fee, schedule,
			   rating, review_count, created_at, updated_at
		FROM doctors
		WHERE hospital_id = $1
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// ListBookable returns doctors whose owning hospital has been approved.
// Doctors of pending or rejected hospitals never reach patient-facing views.
func (r *doctorRepository) ListBookable(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT d.id, d.hospital_id, d.name, d.email, d.specialization,
			   d.experience_years, d.qualification, d.license_number,
			   d.consultation_fee, d.schedule, d.rating, d.review_count,
			   d.created_at, d.updated_at
		FROM doctors d
		JOIN hospitals h ON h.id = d.hospital_id
		WHERE h.status = 'approved'
		ORDER BY d.name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list bookable doctors: %w", err)
	}
	return doctors, nil
}
