package email

import (
	"github.com/medq/hospital-api/internal/model"
)

type Service interface {
	SendAppointmentApproved(to string, req *model.AppointmentRequest) error
	SendAppointmentRejected(to string, req *model.AppointmentRequest) error
	SendHospitalDecision(to string, hospital *model.Hospital) error
}
