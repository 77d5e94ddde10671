package appointment_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository/memory"
	"github.com/medq/hospital-api/internal/service/appointment"
	"github.com/medq/hospital-api/internal/service/event"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

type fakeEmail struct {
	mu       sync.Mutex
	approved []string
	rejected []string
}

func (f *fakeEmail) SendAppointmentApproved(to string, req *model.AppointmentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved = append(f.approved, to)
	return nil
}

func (f *fakeEmail) SendAppointmentRejected(to string, req *model.AppointmentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, to)
	return nil
}

func (f *fakeEmail) SendHospitalDecision(to string, hospital *model.Hospital) error {
	return nil
}

type fakeInvalidator struct {
	mu        sync.Mutex
	hospitals []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, hospitalID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hospitals = append(f.hospitals, hospitalID)
	return nil
}

type fixture struct {
	svc      *appointment.Service
	repo     *memory.AppointmentRepository
	outbox   *memory.OutboxRepository
	email    *fakeEmail
	queue    *fakeInvalidator
	patient  *model.Patient
	doctor   *model.Doctor
	hospital *model.Hospital
}

func newFixture(t *testing.T, hospitalStatus model.HospitalStatus) *fixture {
	t.Helper()
	ctx := context.Background()

	hospitalRepo := memory.NewHospitalRepository()
	patientRepo := memory.NewPatientRepository()
	doctorRepo := memory.NewDoctorRepository(hospitalRepo)
	outboxRepo := memory.NewOutboxRepository()
	appointmentRepo := memory.NewAppointmentRepository(outboxRepo)

	hospital := &model.Hospital{Name: "City General", Email: "admin@city.example", LicenseNumber: "LIC-1"}
	require.NoError(t, hospitalRepo.Create(ctx, hospital))
	require.NoError(t, hospitalRepo.UpdateStatus(ctx, hospital.ID, hospitalStatus, nil))
	hospital.Status = hospitalStatus

	patient := &model.Patient{Email: "pat@example.com", FirstName: "Pat", LastName: "Lee"}
	require.NoError(t, patientRepo.Create(ctx, patient))

	doctor := &model.Doctor{HospitalID: hospital.ID, Name: "Dr. Chen", Email: "chen@city.example", Specialization: "cardiology"}
	require.NoError(t, doctorRepo.Create(ctx, doctor))

	emailSvc := &fakeEmail{}
	queue := &fakeInvalidator{}
	svc := appointment.NewService(
		appointmentRepo,
		patientRepo,
		doctorRepo,
		hospitalRepo,
		event.NewService(outboxRepo),
		emailSvc,
		queue,
	)

	return &fixture{
		svc:      svc,
		repo:     appointmentRepo,
		outbox:   outboxRepo,
		email:    emailSvc,
		queue:    queue,
		patient:  patient,
		doctor:   doctor,
		hospital: hospital,
	}
}

func submitRequest(doctorID uuid.UUID) *model.SubmitAppointmentRequest {
	return &model.SubmitAppointmentRequest{
		DoctorID:      doctorID,
		RequestedDate: "2026-09-15",
		RequestedTime: "10:30",
		Reason:        "checkup",
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, created.Status)
	assert.Equal(t, f.hospital.ID, created.HospitalID)
	assert.NotEqual(t, uuid.Nil, created.ID)

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventAppointmentCreated, events[0].EventType)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.SubmitAppointmentRequest)
	}{
		{"missing doctor", func(r *model.SubmitAppointmentRequest) { r.DoctorID = uuid.Nil }},
		{"bad date", func(r *model.SubmitAppointmentRequest) { r.RequestedDate = "15/09/2026" }},
		{"bad time", func(r *model.SubmitAppointmentRequest) { r.RequestedTime = "10:30pm" }},
		{"empty reason", func(r *model.SubmitAppointmentRequest) { r.Reason = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := submitRequest(f.doctor.ID)
			tt.mutate(req)
			_, err := f.svc.Submit(ctx, f.patient.ID, req)
			assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "expected validation error, got %v", err)
		})
	}
}

func TestSubmitUnapprovedHospital(t *testing.T) {
	f := newFixture(t, model.HospitalStatusPending)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "not currently accepting bookings")
}

func TestSubmitUnknownPatient(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, uuid.New(), submitRequest(f.doctor.ID))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestSubmitAllowsDuplicateSlot(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)

	requests, err := f.svc.ListForPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}

func TestApprove(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, created.ID, f.hospital.ID)
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, []uuid.UUID{f.hospital.ID}, f.queue.hospitals)
	assert.Equal(t, []string{f.patient.Email}, f.email.approved)

	var types []string
	for _, e := range f.outbox.Events() {
		types = append(types, e.EventType)
	}
	assert.Contains(t, types, model.EventAppointmentApproved)
}

func TestApproveForeignHospital(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, created.ID, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestApproveIsTerminal(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, created.ID, f.hospital.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, created.ID, f.hospital.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = f.svc.Reject(ctx, created.ID, f.hospital.ID, "late")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestReject(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, created.ID, f.hospital.ID, "no capacity")
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "no capacity", *rejected.RejectionReason)
	require.NotNil(t, rejected.RejectedAt)
	assert.Equal(t, []string{f.patient.Email}, f.email.rejected)
}

func TestListForHospitalStatusFilter(t *testing.T) {
	f := newFixture(t, model.HospitalStatusApproved)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.patient.ID, submitRequest(f.doctor.ID))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, first.ID, f.hospital.ID)
	require.NoError(t, err)

	pending := model.AppointmentStatusPending
	requests, err := f.svc.ListForHospital(ctx, f.hospital.ID, &pending)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, model.AppointmentStatusPending, requests[0].Status)

	bogus := model.AppointmentStatus("cancelled")
	_, err = f.svc.ListForHospital(ctx, f.hospital.ID, &bogus)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
