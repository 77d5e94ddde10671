package model

type HospitalStatus string

const (
	HospitalStatusPending  HospitalStatus = "pending"
	HospitalStatusApproved HospitalStatus = "approved"
	HospitalStatusRejected HospitalStatus = "rejected"
)

type Hospital struct {
	Base
	Name            string         `db:"name" json:"name"`
	LicenseNumber   string         `db:"license_number" json:"license_number"`
	Email           string         `db:"email" json:"email"`
	Address         string         `db:"address" json:"address"`
	City            string         `db:"city" json:"city"`
	State           string         `db:"state" json:"state"`
	ZipCode         string         `db:"zip_code" json:"zip_code"`
	Phone           string         `db:"phone" json:"phone"`
	AdminFirstName  string         `db:"admin_first_name" json:"admin_first_name"`
	AdminLastName   string         `db:"admin_last_name" json:"admin_last_name"`
	AdminPhone      string         `db:"admin_phone" json:"admin_phone"`
	Photo           []byte         `db:"photo" json:"-"`
	PasswordHash    string         `db:"password_hash" json:"-"`
	Status          HospitalStatus `db:"status" json:"status"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
}

type RegisterHospitalRequest struct {
	Name           string `json:"name" binding:"required"`
	LicenseNumber  string `json:"license_number" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Address        string `json:"address" binding:"required"`
	City           string `json:"city" binding:"required"`
	State          string `json:"state" binding:"required"`
	ZipCode        string `json:"zip_code" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	AdminFirstName string `json:"admin_first_name" binding:"required"`
	AdminLastName  string `json:"admin_last_name" binding:"required"`
	AdminPhone     string `json:"admin_phone"`
}

type RejectHospitalRequest struct {
	Reason string `json:"reason" binding:"required"`
}
