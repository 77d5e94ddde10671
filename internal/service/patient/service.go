package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

const bcryptCost = 12

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	if err := validateDateOfBirth(req.DateOfBirth); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	patient := &model.Patient{
		Email:                 req.Email,
		PasswordHash:          string(hash),
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Phone:                 req.Phone,
		DateOfBirth:           req.DateOfBirth,
		Address:               req.Address,
		City:                  req.City,
		State:                 req.State,
		ZipCode:               req.ZipCode,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// UpdateProfile applies a partial profile edit. Only the account owner may
// edit; the handler passes the authenticated subject as actorID.
func (s *Service) UpdateProfile(ctx context.Context, id, actorID uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if id != actorID {
		return nil, apperrors.Forbidden("cannot edit another patient's profile", nil)
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		if err := validateDateOfBirth(*req.DateOfBirth); err != nil {
			return nil, err
		}
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.City != nil {
		patient.City = *req.City
	}
	if req.State != nil {
		patient.State = *req.State
	}
	if req.ZipCode != nil {
		patient.ZipCode = *req.ZipCode
	}
	if req.EmergencyContactName != nil {
		patient.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		patient.EmergencyContactPhone = *req.EmergencyContactPhone
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

func validateDateOfBirth(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return apperrors.Validation("date of birth must be formatted as YYYY-MM-DD", nil)
	}
	return nil
}
