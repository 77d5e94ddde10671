package model

import "github.com/google/uuid"

type Role string

const (
	RolePatient  Role = "patient"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

func IsValidRole(r Role) bool {
	return r == RolePatient || r == RoleHospital || r == RoleAdmin
}

type TokenClaims struct {
	SubjectID uuid.UUID
	Email     string
	Role      Role
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required,role"`
}
