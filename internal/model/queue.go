package model

import "github.com/google/uuid"

type QueueEntryStatus string

const (
	QueueStatusInProgress QueueEntryStatus = "in_progress"
	QueueStatusWaiting    QueueEntryStatus = "waiting"
)

// QueueEntry is one row of the live-queue projection over approved
// appointment requests. Derived data, never persisted.
type QueueEntry struct {
	Position      int              `json:"position"`
	RequestID     uuid.UUID        `json:"request_id"`
	PatientID     uuid.UUID        `json:"patient_id"`
	DoctorID      uuid.UUID        `json:"doctor_id"`
	RequestedDate string           `json:"requested_date"`
	RequestedTime string           `json:"requested_time"`
	Status        QueueEntryStatus `json:"status"`
	WaitMinutes   int              `json:"wait_minutes"`
}
