package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medq/hospital-api/internal/config"
	"github.com/medq/hospital-api/internal/model"
)

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewService returns an SMTP-backed sender, or a no-op sender when SMTP is
// disabled in configuration.
func NewService(cfg config.SMTPConfig) Service {
	if !cfg.Enabled {
		return noopService{}
	}
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) SendAppointmentApproved(to string, req *model.AppointmentRequest) error {
	body := fmt.Sprintf(
		"Your appointment request for %s at %s has been approved.",
		req.RequestedDate, req.RequestedTime,
	)
	return s.send(to, "Appointment approved", body)
}

func (s *gomailService) SendAppointmentRejected(to string, req *model.AppointmentRequest) error {
	reason := ""
	if req.RejectionReason != nil {
		reason = *req.RejectionReason
	}
	body := fmt.Sprintf(
		"Your appointment request for %s at %s has been rejected. Reason: %s",
		req.RequestedDate, req.RequestedTime, reason,
	)
	return s.send(to, "Appointment rejected", body)
}

func (s *gomailService) SendHospitalDecision(to string, hospital *model.Hospital) error {
	var body string
	switch hospital.Status {
	case model.HospitalStatusApproved:
		body = fmt.Sprintf("The registration for %s has been approved. You can now sign in.", hospital.Name)
	case model.HospitalStatusRejected:
		reason := ""
		if hospital.RejectionReason != nil {
			reason = *hospital.RejectionReason
		}
		body = fmt.Sprintf("The registration for %s has been rejected. Reason: %s", hospital.Name, reason)
	default:
		return nil
	}
	return s.send(to, "Hospital registration update", body)
}

func (s *gomailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type noopService struct{}

func (noopService) SendAppointmentApproved(string, *model.AppointmentRequest) error { return nil }
func (noopService) SendAppointmentRejected(string, *model.AppointmentRequest) error { return nil }
func (noopService) SendHospitalDecision(string, *model.Hospital) error              { return nil }
