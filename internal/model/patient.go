package model

type Patient struct {
	Base
	Email                 string `db:"email" json:"email"`
	PasswordHash          string `db:"password_hash" json:"-"`
	FirstName             string `db:"first_name" json:"first_name"`
	LastName              string `db:"last_name" json:"last_name"`
	Phone                 string `db:"phone" json:"phone"`
	DateOfBirth           string `db:"date_of_birth" json:"date_of_birth"`
	Address               string `db:"address" json:"address"`
	City                  string `db:"city" json:"city"`
	State                 string `db:"state" json:"state"`
	ZipCode               string `db:"zip_code" json:"zip_code"`
	EmergencyContactName  string `db:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone string `db:"emergency_contact_phone" json:"emergency_contact_phone"`
}

type RegisterPatientRequest struct {
	Email                 string `json:"email" binding:"required,email"`
	Password              string `json:"password" binding:"required,min=8"`
	FirstName             string `json:"first_name" binding:"required"`
	LastName              string `json:"last_name" binding:"required"`
	Phone                 string `json:"phone" binding:"required"`
	DateOfBirth           string `json:"date_of_birth" binding:"required"`
	Address               string `json:"address"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZipCode               string `json:"zip_code"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}

type UpdatePatientRequest struct {
	FirstName             *string `json:"first_name"`
	LastName              *string `json:"last_name"`
	Phone                 *string `json:"phone"`
	DateOfBirth           *string `json:"date_of_birth"`
	Address               *string `json:"address"`
	City                  *string `json:"city"`
	State                 *string `json:"state"`
	ZipCode               *string `json:"zip_code"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}
