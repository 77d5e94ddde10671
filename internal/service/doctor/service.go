package doctor

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository"
	apperrors "github.com/medq/hospital-api/pkg/errors"
	"github.com/medq/hospital-api/pkg/upload"
)

const (
	bookableCacheKey = "doctors:bookable"
	bookableCacheTTL = 1 * time.Minute
)

type Service struct {
	repo  repository.DoctorRepository
	cache *cache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(bookableCacheTTL, 5*time.Minute),
	}
}

// Add creates a doctor owned by the acting hospital. Doctor emails are
// unique across all hospitals, matching the registry-wide scoping of the
// rest of the system.
func (s *Service) Add(ctx context.Context, hospitalID uuid.UUID, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if !model.IsValidSpecialization(req.Specialization) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown specialization %q", req.Specialization), nil)
	}
	if err := validateSchedule(req.Schedule); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("a doctor with this email already exists", nil)
	}

	doctor := &model.Doctor{
		HospitalID:      hospitalID,
		Name:            req.Name,
		Email:           req.Email,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
		Qualification:   req.Qualification,
		LicenseNumber:   req.LicenseNumber,
		ConsultationFee: req.ConsultationFee,
		Schedule:        req.Schedule,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	s.cache.Delete(bookableCacheKey)
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

// Update edits a doctor's profile. Ownership never changes; only the owning
// hospital may edit.
func (s *Service) Update(ctx context.Context, id, actingHospitalID uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.ownedDoctor(ctx, id, actingHospitalID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialization != nil {
		if !model.IsValidSpecialization(*req.Specialization) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown specialization %q", *req.Specialization), nil)
		}
		doctor.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return nil, apperrors.Validation("experience years cannot be negative", nil)
		}
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.Qualification != nil {
		doctor.Qualification = *req.Qualification
	}
	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.ConsultationFee != nil {
		if *req.ConsultationFee < 0 {
			return nil, apperrors.Validation("consultation fee cannot be negative", nil)
		}
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Schedule != nil {
		if err := validateSchedule(*req.Schedule); err != nil {
			return nil, err
		}
		doctor.Schedule = *req.Schedule
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.cache.Delete(bookableCacheKey)
	return doctor, nil
}

func (s *Service) Remove(ctx context.Context, id, actingHospitalID uuid.UUID) error {
	if _, err := s.ownedDoctor(ctx, id, actingHospitalID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(bookableCacheKey)
	return nil
}

func (s *Service) UpdatePhoto(ctx context.Context, id, actingHospitalID uuid.UUID, header *multipart.FileHeader) error {
	if _, err := s.ownedDoctor(ctx, id, actingHospitalID); err != nil {
		return err
	}

	data, err := upload.ReadPhoto(header)
	if err != nil {
		return err
	}
	return s.repo.UpdatePhoto(ctx, id, data)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Doctor, error) {
	return s.repo.ListByHospital(ctx, hospitalID)
}

// ListBookable returns doctors of approved hospitals only. The result is
// cached in-process for a short interval.
func (s *Service) ListBookable(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(bookableCacheKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.ListBookable(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(bookableCacheKey, doctors, cache.DefaultExpiration)
	return doctors, nil
}

func (s *Service) ownedDoctor(ctx context.Context, id, actingHospitalID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor.HospitalID != actingHospitalID {
		return nil, apperrors.Forbidden("doctor belongs to another hospital", nil)
	}
	return doctor, nil
}

// A schedule always covers the full week, Monday first.
func validateSchedule(schedule model.WeeklySchedule) error {
	if len(schedule) != 7 {
		return apperrors.Validation("schedule must have exactly seven entries", nil)
	}
	return nil
}
