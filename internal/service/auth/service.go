package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medq/hospital-api/internal/config"
	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository"
	"github.com/medq/hospital-api/pkg/auth"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

type Service struct {
	patientRepo  repository.PatientRepository
	hospitalRepo repository.HospitalRepository
	jwtSvc       auth.JWTService
	admin        config.AdminConfig
}

func NewService(patientRepo repository.PatientRepository, hospitalRepo repository.HospitalRepository,
	jwtSvc auth.JWTService, admin config.AdminConfig) *Service {
	return &Service{
		patientRepo:  patientRepo,
		hospitalRepo: hospitalRepo,
		jwtSvc:       jwtSvc,
		admin:        admin,
	}
}

// Login authenticates an account for the given role and returns a token.
// Hospitals must be approved before they can sign in.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	switch req.Role {
	case model.RolePatient:
		return s.loginPatient(ctx, req.Email, req.Password)
	case model.RoleHospital:
		return s.loginHospital(ctx, req.Email, req.Password)
	case model.RoleAdmin:
		return s.loginAdmin(req.Email, req.Password)
	default:
		return nil, apperrors.Validation(fmt.Sprintf("invalid role %q", req.Role), nil)
	}
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}
	return claims, nil
}

func (s *Service) loginPatient(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	patient, err := s.patientRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	return s.issueToken(patient.ID, patient.Email, model.RolePatient)
}

func (s *Service) loginHospital(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	hospital, err := s.hospitalRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hospital.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	switch hospital.Status {
	case model.HospitalStatusPending:
		return nil, apperrors.Unauthorized("hospital registration is awaiting approval", nil)
	case model.HospitalStatusRejected:
		reason := ""
		if hospital.RejectionReason != nil {
			reason = *hospital.RejectionReason
		}
		return nil, apperrors.Unauthorized(fmt.Sprintf("hospital registration was rejected: %s", reason), nil)
	}

	return s.issueToken(hospital.ID, hospital.Email, model.RoleHospital)
}

func (s *Service) loginAdmin(email, password string) (*model.TokenResponse, error) {
	if s.admin.Email == "" || email != s.admin.Email {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	return s.issueToken(uuid.Nil, email, model.RoleAdmin)
}

func (s *Service) issueToken(subjectID uuid.UUID, email string, role model.Role) (*model.TokenResponse, error) {
	token, expiresIn, err := s.jwtSvc.GenerateToken(subjectID, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
