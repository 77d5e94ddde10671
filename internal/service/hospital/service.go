package hospital

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medq/hospital-api/internal/email"
	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository"
	"github.com/medq/hospital-api/internal/service/event"
	apperrors "github.com/medq/hospital-api/pkg/errors"
	"github.com/medq/hospital-api/pkg/upload"
)

const bcryptCost = 12

type Service struct {
	repo     repository.HospitalRepository
	events   *event.Service
	emailSvc email.Service
}

func NewService(repo repository.HospitalRepository, events *event.Service, emailSvc email.Service) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		emailSvc: emailSvc,
	}
}

// Register creates a hospital account in pending status. Email and license
// number are unique across the registry.
func (s *Service) Register(ctx context.Context, req *model.RegisterHospitalRequest) (*model.Hospital, error) {
	exists, err := s.repo.ExistsByEmailOrLicense(ctx, req.Email, req.LicenseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("a hospital with this email or license number is already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hospital := &model.Hospital{
		Name:           req.Name,
		LicenseNumber:  req.LicenseNumber,
		Email:          req.Email,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		Phone:          req.Phone,
		AdminFirstName: req.AdminFirstName,
		AdminLastName:  req.AdminLastName,
		AdminPhone:     req.AdminPhone,
		PasswordHash:   string(hash),
		Status:         model.HospitalStatusPending,
	}

	if err := s.repo.Create(ctx, hospital); err != nil {
		return nil, fmt.Errorf("failed to create hospital: %w", err)
	}
	return hospital, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status *model.HospitalStatus) ([]*model.Hospital, error) {
	if status != nil {
		switch *status {
		case model.HospitalStatusPending, model.HospitalStatusApproved, model.HospitalStatusRejected:
		default:
			return nil, apperrors.Validation(fmt.Sprintf("invalid status filter %q", *status), nil)
		}
	}
	return s.repo.List(ctx, status)
}

// Approve moves a pending hospital to approved. Terminal states cannot be
// re-entered.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if hospital.Status != model.HospitalStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("hospital is already %s", hospital.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.HospitalStatusApproved, nil); err != nil {
		return nil, err
	}
	hospital.Status = model.HospitalStatusApproved
	hospital.RejectionReason = nil

	s.notifyDecision(ctx, hospital, model.EventHospitalApproved)
	return hospital, nil
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*model.Hospital, error) {
	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if hospital.Status != model.HospitalStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("hospital is already %s", hospital.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.HospitalStatusRejected, &reason); err != nil {
		return nil, err
	}
	hospital.Status = model.HospitalStatusRejected
	hospital.RejectionReason = &reason

	s.notifyDecision(ctx, hospital, model.EventHospitalRejected)
	return hospital, nil
}

// UpdatePhoto stores a validated profile photo. Only the account owner may
// replace it.
func (s *Service) UpdatePhoto(ctx context.Context, id, actorID uuid.UUID, header *multipart.FileHeader) error {
	if id != actorID {
		return apperrors.Forbidden("cannot update another hospital's photo", nil)
	}

	data, err := upload.ReadPhoto(header)
	if err != nil {
		return err
	}
	return s.repo.UpdatePhoto(ctx, id, data)
}

func (s *Service) notifyDecision(ctx context.Context, hospital *model.Hospital, eventType string) {
	if err := s.events.Emit(ctx, eventType, hospital); err != nil {
		log.Warn().Err(err).Str("hospital_id", hospital.ID.String()).Msg("failed to emit hospital event")
	}
	if err := s.emailSvc.SendHospitalDecision(hospital.Email, hospital); err != nil {
		log.Warn().Err(err).Str("hospital_id", hospital.ID.String()).Msg("failed to send decision email")
	}
}
