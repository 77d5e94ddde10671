package doctor_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository/memory"
	"github.com/medq/hospital-api/internal/service/doctor"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

func setup(t *testing.T) (*doctor.Service, *memory.HospitalRepository, *memory.DoctorRepository) {
	t.Helper()
	hospitalRepo := memory.NewHospitalRepository()
	doctorRepo := memory.NewDoctorRepository(hospitalRepo)
	return doctor.NewService(doctorRepo), hospitalRepo, doctorRepo
}

func approvedHospital(t *testing.T, repo *memory.HospitalRepository, email string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	h := &model.Hospital{Name: "General", Email: email, LicenseNumber: email}
	require.NoError(t, repo.Create(ctx, h))
	require.NoError(t, repo.UpdateStatus(ctx, h.ID, model.HospitalStatusApproved, nil))
	return h.ID
}

func fullWeek() model.WeeklySchedule {
	week := make(model.WeeklySchedule, 7)
	for i := range week {
		week[i] = model.DaySchedule{Available: i < 5, Start: "09:00", End: "17:00"}
	}
	return week
}

func createRequest(email string) *model.CreateDoctorRequest {
	return &model.CreateDoctorRequest{
		Name:            "Dr. Osei",
		Email:           email,
		Specialization:  "pediatrics",
		ExperienceYears: 8,
		Qualification:   "MBBS",
		LicenseNumber:   "MD-100",
		ConsultationFee: 5000,
		Schedule:        fullWeek(),
	}
}

func TestAdd(t *testing.T) {
	svc, hospitals, _ := setup(t)
	ctx := context.Background()
	hospitalID := approvedHospital(t, hospitals, "a@h.example")

	created, err := svc.Add(ctx, hospitalID, createRequest("osei@h.example"))
	require.NoError(t, err)
	assert.Equal(t, hospitalID, created.HospitalID)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestAddUnknownSpecialization(t *testing.T) {
	svc, hospitals, _ := setup(t)
	hospitalID := approvedHospital(t, hospitals, "a@h.example")

	req := createRequest("osei@h.example")
	req.Specialization = "astrology"
	_, err := svc.Add(context.Background(), hospitalID, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAddBadSchedule(t *testing.T) {
	svc, hospitals, _ := setup(t)
	hospitalID := approvedHospital(t, hospitals, "a@h.example")

	req := createRequest("osei@h.example")
	req.Schedule = model.WeeklySchedule{{Available: true, Start: "09:00", End: "17:00"}}
	_, err := svc.Add(context.Background(), hospitalID, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAddMissingSchedule(t *testing.T) {
	svc, hospitals, _ := setup(t)
	hospitalID := approvedHospital(t, hospitals, "a@h.example")

	req := createRequest("osei@h.example")
	req.Schedule = nil
	_, err := svc.Add(context.Background(), hospitalID, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAddDuplicateEmailAcrossHospitals(t *testing.T) {
	svc, hospitals, _ := setup(t)
	ctx := context.Background()
	first := approvedHospital(t, hospitals, "a@h.example")
	second := approvedHospital(t, hospitals, "b@h.example")

	_, err := svc.Add(ctx, first, createRequest("osei@h.example"))
	require.NoError(t, err)

	// email uniqueness is registry-wide, not per hospital
	_, err = svc.Add(ctx, second, createRequest("osei@h.example"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestUpdateOwnership(t *testing.T) {
	svc, hospitals, _ := setup(t)
	ctx := context.Background()
	owner := approvedHospital(t, hospitals, "a@h.example")
	other := approvedHospital(t, hospitals, "b@h.example")

	created, err := svc.Add(ctx, owner, createRequest("osei@h.example"))
	require.NoError(t, err)

	name := "Dr. Mensah"
	_, err = svc.Update(ctx, created.ID, other, &model.UpdateDoctorRequest{Name: &name})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	updated, err := svc.Update(ctx, created.ID, owner, &model.UpdateDoctorRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Mensah", updated.Name)
}

func TestUpdateNegativeFee(t *testing.T) {
	svc, hospitals, _ := setup(t)
	ctx := context.Background()
	owner := approvedHospital(t, hospitals, "a@h.example")

	created, err := svc.Add(ctx, owner, createRequest("osei@h.example"))
	require.NoError(t, err)

	fee := int64(-1)
	_, err = svc.Update(ctx, created.ID, owner, &model.UpdateDoctorRequest{ConsultationFee: &fee})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRemove(t *testing.T) {
	svc, hospitals, _ := setup(t)
	ctx := context.Background()
	owner := approvedHospital(t, hospitals, "a@h.example")
	other := approvedHospital(t, hospitals, "b@h.example")

	created, err := svc.Add(ctx, owner, createRequest("osei@h.example"))
	require.NoError(t, err)

	err = svc.Remove(ctx, created.ID, other)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	require.NoError(t, svc.Remove(ctx, created.ID, owner))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestListBookableFiltersUnapprovedHospitals(t *testing.T) {
	svc, hospitals, _ := setup(t)
	ctx := context.Background()

	approved := approvedHospital(t, hospitals, "a@h.example")
	pending := &model.Hospital{Name: "Pending Clinic", Email: "p@h.example", LicenseNumber: "p@h.example"}
	require.NoError(t, hospitals.Create(ctx, pending))

	visible, err := svc.Add(ctx, approved, createRequest("visible@h.example"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, pending.ID, createRequest("hidden@h.example"))
	require.NoError(t, err)

	bookable, err := svc.ListBookable(ctx)
	require.NoError(t, err)
	require.Len(t, bookable, 1)
	assert.Equal(t, visible.ID, bookable[0].ID)
}

func TestListBookableCaches(t *testing.T) {
	svc, hospitals, repo := setup(t)
	ctx := context.Background()
	hospitalID := approvedHospital(t, hospitals, "a@h.example")

	_, err := svc.Add(ctx, hospitalID, createRequest("one@h.example"))
	require.NoError(t, err)

	first, err := svc.ListBookable(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Created behind the service's back, so the cached result still wins.
	require.NoError(t, repo.Create(ctx, &model.Doctor{
		HospitalID:     hospitalID,
		Name:           "Dr. Two",
		Email:          "two@h.example",
		Specialization: "surgery",
	}))

	cached, err := svc.ListBookable(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// A service-side mutation drops the cache.
	_, err = svc.Add(ctx, hospitalID, createRequest("three@h.example"))
	require.NoError(t, err)

	fresh, err := svc.ListBookable(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}
