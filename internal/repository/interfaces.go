package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medq/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	// HospitalRepository handles hospital account records
	HospitalRepository interface {
		Create(ctx context.Context, hospital *model.Hospital) error
		Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
		GetByEmail(ctx context.Context, email string) (*model.Hospital, error)
		ExistsByEmailOrLicense(ctx context.Context, email, licenseNumber string) (bool, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.HospitalStatus, rejectionReason *string) error
		UpdatePhoto(ctx context.Context, id uuid.UUID, photo []byte) error
		List(ctx context.Context, status *model.HospitalStatus) ([]*model.Hospital, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		UpdatePhoto(ctx context.Context, id uuid.UUID, photo []byte) error
		ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Doctor, error)
		ListBookable(ctx context.Context) ([]*model.Doctor, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, req *model.AppointmentRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.AppointmentRequest, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error)
		ListForHospital(ctx context.Context, hospitalID uuid.UUID, status *model.AppointmentStatus) ([]*model.AppointmentRequest, error)
		ListApproved(ctx context.Context, hospitalID uuid.UUID) ([]*model.AppointmentRequest, error)
		// Transition moves a pending request to a terminal status. The row is
		// locked for the duration of the transaction and an outbox event is
		// written atomically with the status change.
		Transition(ctx context.Context, id, actingHospitalID uuid.UUID, to model.AppointmentStatus, rejectionReason *string) (*model.AppointmentRequest, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ClaimPending atomically moves a batch of pending events to
		// PROCESSING and returns them. A claimed event is invisible to
		// other workers until it is marked processed or failed.
		ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
