package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "pending"
	AppointmentStatusApproved AppointmentStatus = "approved"
	AppointmentStatusRejected AppointmentStatus = "rejected"
)

// AppointmentRequest is a booking in the pending -> approved/rejected
// lifecycle. Approved and rejected are terminal.
type AppointmentRequest struct {
	Base
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	HospitalID      uuid.UUID         `db:"hospital_id" json:"hospital_id"`
	RequestedDate   string            `db:"requested_date" json:"requested_date"`
	RequestedTime   string            `db:"requested_time" json:"requested_time"`
	Reason          string            `db:"reason" json:"reason"`
	Status          AppointmentStatus `db:"status" json:"status"`
	ApprovedAt      *time.Time        `db:"approved_at" json:"approved_at,omitempty"`
	RejectedAt      *time.Time        `db:"rejected_at" json:"rejected_at,omitempty"`
	RejectionReason *string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
}

type SubmitAppointmentRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id" binding:"required"`
	RequestedDate string    `json:"requested_date" binding:"required"`
	RequestedTime string    `json:"requested_time" binding:"required"`
	Reason        string    `json:"reason" binding:"required"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason"`
}
