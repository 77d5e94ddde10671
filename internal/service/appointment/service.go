package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medq/hospital-api/internal/email"
	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository"
	"github.com/medq/hospital-api/internal/service/event"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// QueueInvalidator drops a hospital's cached queue projection after a
// lifecycle transition.
type QueueInvalidator interface {
	Invalidate(ctx context.Context, hospitalID uuid.UUID) error
}

type Service struct {
	repo         repository.AppointmentRepository
	patientRepo  repository.PatientRepository
	doctorRepo   repository.DoctorRepository
	hospitalRepo repository.HospitalRepository
	events       *event.Service
	emailSvc     email.Service
	queue        QueueInvalidator
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	hospitalRepo repository.HospitalRepository,
	events *event.Service,
	emailSvc email.Service,
	queue QueueInvalidator,
) *Service {
	return &Service{
		repo:         repo,
		patientRepo:  patientRepo,
		doctorRepo:   doctorRepo,
		hospitalRepo: hospitalRepo,
		events:       events,
		emailSvc:     emailSvc,
		queue:        queue,
	}
}

// Submit creates a pending appointment request. The doctor's hospital must
// be approved. Duplicate bookings for the same patient, doctor and slot are
// allowed; the source system never enforced slot uniqueness and hospitals
// resolve duplicates by rejecting.
func (s *Service) Submit(ctx context.Context, patientID uuid.UUID, req *model.SubmitAppointmentRequest) (*model.AppointmentRequest, error) {
	if err := validateSchedulingIntent(req); err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	hospital, err := s.hospitalRepo.Get(ctx, doctor.HospitalID)
	if err != nil {
		return nil, err
	}
	if hospital.Status != model.HospitalStatusApproved {
		return nil, apperrors.Validation("doctor is not currently accepting bookings", nil)
	}

	request := &model.AppointmentRequest{
		PatientID:     patientID,
		DoctorID:      doctor.ID,
		HospitalID:    doctor.HospitalID,
		RequestedDate: req.RequestedDate,
		RequestedTime: req.RequestedTime,
		Reason:        req.Reason,
		Status:        model.AppointmentStatusPending,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create appointment request: %w", err)
	}

	if err := s.events.Emit(ctx, model.EventAppointmentCreated, request); err != nil {
		log.Warn().Err(err).Str("request_id", request.ID.String()).Msg("failed to emit appointment event")
	}

	return request, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentRequest, error) {
	return s.repo.Get(ctx, id)
}

// Approve transitions a pending request to approved. The transition is
// terminal; approving an already-decided request returns a conflict.
func (s *Service) Approve(ctx context.Context, id, actingHospitalID uuid.UUID) (*model.AppointmentRequest, error) {
	request, err := s.repo.Transition(ctx, id, actingHospitalID, model.AppointmentStatusApproved, nil)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, request)
	return request, nil
}

// Reject transitions a pending request to rejected with an optional reason.
func (s *Service) Reject(ctx context.Context, id, actingHospitalID uuid.UUID, reason string) (*model.AppointmentRequest, error) {
	request, err := s.repo.Transition(ctx, id, actingHospitalID, model.AppointmentStatusRejected, &reason)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, request)
	return request, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	return s.repo.ListForPatient(ctx, patientID)
}

func (s *Service) ListForHospital(ctx context.Context, hospitalID uuid.UUID, status *model.AppointmentStatus) ([]*model.AppointmentRequest, error) {
	if status != nil {
		switch *status {
		case model.AppointmentStatusPending, model.AppointmentStatusApproved, model.AppointmentStatusRejected:
		default:
			return nil, apperrors.Validation(fmt.Sprintf("invalid status filter %q", *status), nil)
		}
	}
	return s.repo.ListForHospital(ctx, hospitalID, status)
}

func (s *Service) afterTransition(ctx context.Context, request *model.AppointmentRequest) {
	if s.queue != nil {
		if err := s.queue.Invalidate(ctx, request.HospitalID); err != nil {
			log.Warn().Err(err).Str("hospital_id", request.HospitalID.String()).Msg("failed to invalidate queue cache")
		}
	}

	patient, err := s.patientRepo.Get(ctx, request.PatientID)
	if err != nil {
		log.Warn().Err(err).Str("request_id", request.ID.String()).Msg("failed to load patient for notification")
		return
	}

	switch request.Status {
	case model.AppointmentStatusApproved:
		err = s.emailSvc.SendAppointmentApproved(patient.Email, request)
	case model.AppointmentStatusRejected:
		err = s.emailSvc.SendAppointmentRejected(patient.Email, request)
	}
	if err != nil {
		log.Warn().Err(err).Str("request_id", request.ID.String()).Msg("failed to send appointment email")
	}
}

func validateSchedulingIntent(req *model.SubmitAppointmentRequest) error {
	if req.DoctorID == uuid.Nil {
		return apperrors.Validation("doctor is required", nil)
	}
	if req.RequestedDate == "" || req.RequestedTime == "" || req.Reason == "" {
		return apperrors.Validation("date, time and reason are required", nil)
	}
	if _, err := time.Parse(dateLayout, req.RequestedDate); err != nil {
		return apperrors.Validation("requested date must be in YYYY-MM-DD format", err)
	}
	if _, err := time.Parse(timeLayout, req.RequestedTime); err != nil {
		return apperrors.Validation("requested time must be in HH:MM format", err)
	}
	return nil
}
