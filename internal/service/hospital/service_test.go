package hospital_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository/memory"
	"github.com/medq/hospital-api/internal/service/event"
	"github.com/medq/hospital-api/internal/service/hospital"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

type fakeEmail struct {
	mu        sync.Mutex
	decisions []string
}

func (f *fakeEmail) SendAppointmentApproved(to string, req *model.AppointmentRequest) error {
	return nil
}

func (f *fakeEmail) SendAppointmentRejected(to string, req *model.AppointmentRequest) error {
	return nil
}

func (f *fakeEmail) SendHospitalDecision(to string, h *model.Hospital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, to)
	return nil
}

func setup(t *testing.T) (*hospital.Service, *memory.OutboxRepository, *fakeEmail) {
	t.Helper()
	repo := memory.NewHospitalRepository()
	outbox := memory.NewOutboxRepository()
	emailSvc := &fakeEmail{}
	return hospital.NewService(repo, event.NewService(outbox), emailSvc), outbox, emailSvc
}

func registerRequest(email, license string) *model.RegisterHospitalRequest {
	return &model.RegisterHospitalRequest{
		Name:           "City General",
		LicenseNumber:  license,
		Email:          email,
		Password:       "hospital-pass",
		Address:        "1 Care Way",
		City:           "Springfield",
		State:          "IL",
		ZipCode:        "62701",
		Phone:          "555-0100",
		AdminFirstName: "Dana",
		AdminLastName:  "Reed",
		AdminPhone:     "555-0101",
	}
}

func TestRegister(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("admin@city.example", "LIC-1"))
	require.NoError(t, err)

	assert.Equal(t, model.HospitalStatusPending, created.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hospital-pass")))
}

func TestRegisterDuplicateEmailOrLicense(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("admin@city.example", "LIC-1"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("admin@city.example", "LIC-2"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "same email must conflict")

	_, err = svc.Register(ctx, registerRequest("other@city.example", "LIC-1"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "same license must conflict")
}

func TestApprove(t *testing.T) {
	svc, outbox, emailSvc := setup(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("admin@city.example", "LIC-1"))
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HospitalStatusApproved, approved.Status)
	assert.Nil(t, approved.RejectionReason)

	events := outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventHospitalApproved, events[0].EventType)
	assert.Equal(t, []string{"admin@city.example"}, emailSvc.decisions)
}

func TestReject(t *testing.T) {
	svc, outbox, _ := setup(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("admin@city.example", "LIC-1"))
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, created.ID, "license expired")
	require.NoError(t, err)
	assert.Equal(t, model.HospitalStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "license expired", *rejected.RejectionReason)

	events := outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventHospitalRejected, events[0].EventType)
}

func TestDecisionIsTerminal(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("admin@city.example", "LIC-1"))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = svc.Reject(ctx, created.ID, "changed our mind")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestListStatusFilter(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, registerRequest("a@city.example", "LIC-1"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerRequest("b@city.example", "LIC-2"))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, first.ID)
	require.NoError(t, err)

	pending := model.HospitalStatusPending
	hospitals, err := svc.List(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "b@city.example", hospitals[0].Email)

	bogus := model.HospitalStatus("suspended")
	_, err = svc.List(ctx, &bogus)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
