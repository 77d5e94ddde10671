package patient_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository/memory"
	"github.com/medq/hospital-api/internal/service/patient"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

func registerRequest(email string) *model.RegisterPatientRequest {
	return &model.RegisterPatientRequest{
		Email:       email,
		Password:    "s3cret-pass",
		FirstName:   "Ama",
		LastName:    "Owusu",
		Phone:       "555-0100",
		DateOfBirth: "1990-04-02",
	}
}

func TestRegister(t *testing.T) {
	svc := patient.NewService(memory.NewPatientRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("ama@example.com"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "ama@example.com", created.Email)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := patient.NewService(memory.NewPatientRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("ama@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("ama@example.com"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestUpdateProfile(t *testing.T) {
	svc := patient.NewService(memory.NewPatientRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("ama@example.com"))
	require.NoError(t, err)

	phone := "555-0199"
	city := "Accra"
	updated, err := svc.UpdateProfile(ctx, created.ID, created.ID, &model.UpdatePatientRequest{
		Phone: &phone,
		City:  &city,
	})
	require.NoError(t, err)

	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Accra", updated.City)
	// untouched fields survive a partial update
	assert.Equal(t, "Ama", updated.FirstName)
}

func TestRegisterInvalidDateOfBirth(t *testing.T) {
	svc := patient.NewService(memory.NewPatientRepository())

	for _, dob := range []string{"02-04-1990", "1990/04/02", "yesterday", ""} {
		req := registerRequest("ama@example.com")
		req.DateOfBirth = dob
		_, err := svc.Register(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "dob %q", dob)
	}
}

func TestUpdateProfileInvalidDateOfBirth(t *testing.T) {
	svc := patient.NewService(memory.NewPatientRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("ama@example.com"))
	require.NoError(t, err)

	dob := "April 2nd"
	_, err = svc.UpdateProfile(ctx, created.ID, created.ID, &model.UpdatePatientRequest{DateOfBirth: &dob})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	// the stored value is untouched
	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1990-04-02", fetched.DateOfBirth)
}

func TestUpdateProfileForeignActor(t *testing.T) {
	svc := patient.NewService(memory.NewPatientRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("ama@example.com"))
	require.NoError(t, err)

	phone := "555-0199"
	_, err = svc.UpdateProfile(ctx, created.ID, uuid.New(), &model.UpdatePatientRequest{Phone: &phone})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestGetUnknown(t *testing.T) {
	svc := patient.NewService(memory.NewPatientRepository())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
