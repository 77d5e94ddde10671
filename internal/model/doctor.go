package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Specializations accepted for a doctor profile.
var Specializations = []string{
	"cardiology",
	"dermatology",
	"general_medicine",
	"gynecology",
	"neurology",
	"orthopedics",
	"pediatrics",
	"psychiatry",
	"radiology",
	"surgery",
}

func IsValidSpecialization(s string) bool {
	for _, v := range Specializations {
		if v == s {
			return true
		}
	}
	return false
}

// DaySchedule is one weekday entry of a doctor's working hours.
type DaySchedule struct {
	Available bool   `json:"available"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// WeeklySchedule holds seven entries, Monday first. Stored as jsonb.
type WeeklySchedule []DaySchedule

func (s WeeklySchedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *WeeklySchedule) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for weekly schedule: %T", src)
	}
	return json.Unmarshal(b, s)
}

type Doctor struct {
	Base
	HospitalID      uuid.UUID      `db:"hospital_id" json:"hospital_id"`
	Name            string         `db:"name" json:"name"`
	Email           string         `db:"email" json:"email"`
	Specialization  string         `db:"specialization" json:"specialization"`
	ExperienceYears int            `db:"experience_years" json:"experience_years"`
	Qualification   string         `db:"qualification" json:"qualification"`
	LicenseNumber   string         `db:"license_number" json:"license_number"`
	ConsultationFee int64          `db:"consultation_fee" json:"consultation_fee"`
	Photo           []byte         `db:"photo" json:"-"`
	Schedule        WeeklySchedule `db:"schedule" json:"schedule"`
	Rating          float64        `db:"rating" json:"rating"`
	ReviewCount     int            `db:"review_count" json:"review_count"`
}

type CreateDoctorRequest struct {
	Name            string         `json:"name" binding:"required"`
	Email           string         `json:"email" binding:"required,email"`
	Specialization  string         `json:"specialization" binding:"required,specialization"`
	ExperienceYears int            `json:"experience_years" binding:"min=0"`
	Qualification   string         `json:"qualification" binding:"required"`
	LicenseNumber   string         `json:"license_number" binding:"required"`
	ConsultationFee int64          `json:"consultation_fee" binding:"min=0"`
	Schedule        WeeklySchedule `json:"schedule"`
}

type UpdateDoctorRequest struct {
	Name            *string         `json:"name"`
	Specialization  *string         `json:"specialization"`
	ExperienceYears *int            `json:"experience_years"`
	Qualification   *string         `json:"qualification"`
	LicenseNumber   *string         `json:"license_number"`
	ConsultationFee *int64          `json:"consultation_fee"`
	Schedule        *WeeklySchedule `json:"schedule"`
}
