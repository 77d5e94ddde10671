// Package memory provides in-memory repository implementations with the
// same semantics as the postgres package. They back the service tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository"
	apperrors "github.com/medq/hospital-api/pkg/errors"
)

type HospitalRepository struct {
	mu        sync.RWMutex
	hospitals map[uuid.UUID]*model.Hospital
}

func NewHospitalRepository() *HospitalRepository {
	return &HospitalRepository{hospitals: make(map[uuid.UUID]*model.Hospital)}
}

func (r *HospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	hospital.ID = uuid.New()
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()
	stored := *hospital
	r.hospitals[hospital.ID] = &stored
	return nil
}

func (r *HospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hospitals[id]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	copied := *h
	return &copied, nil
}

func (r *HospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.hospitals {
		if h.Email == email {
			copied := *h
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("hospital", nil)
}

func (r *HospitalRepository) ExistsByEmailOrLicense(ctx context.Context, email, licenseNumber string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.hospitals {
		if h.Email == email || h.LicenseNumber == licenseNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *HospitalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.HospitalStatus, rejectionReason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hospitals[id]
	if !ok {
		return apperrors.NotFound("hospital", nil)
	}
	h.Status = status
	h.RejectionReason = rejectionReason
	h.UpdatedAt = time.Now()
	return nil
}

func (r *HospitalRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hospitals[id]
	if !ok {
		return apperrors.NotFound("hospital", nil)
	}
	h.Photo = photo
	h.UpdatedAt = time.Now()
	return nil
}

func (r *HospitalRepository) List(ctx context.Context, status *model.HospitalStatus) ([]*model.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Hospital
	for _, h := range r.hospitals {
		if status != nil && h.Status != *status {
			continue
		}
		copied := *h
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type PatientRepository struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]*model.Patient
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *PatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *PatientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.patients {
		if p.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (r *PatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[patient.ID]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	patient.UpdatedAt = time.Now()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

type DoctorRepository struct {
	mu        sync.RWMutex
	doctors   map[uuid.UUID]*model.Doctor
	hospitals *HospitalRepository
}

// NewDoctorRepository takes the hospital repository so ListBookable can
// apply the approved-hospital filter the SQL join applies.
func NewDoctorRepository(hospitals *HospitalRepository) *DoctorRepository {
	return &DoctorRepository{
		doctors:   make(map[uuid.UUID]*model.Doctor),
		hospitals: hospitals,
	}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *DoctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	copied := *d
	return &copied, nil
}

func (r *DoctorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.doctors {
		if d.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[doctor.ID]; !ok {
		return apperrors.NotFound("doctor", nil)
	}
	doctor.UpdatedAt = time.Now()
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[id]; !ok {
		return apperrors.NotFound("doctor", nil)
	}
	delete(r.doctors, id)
	return nil
}

func (r *DoctorRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	d.Photo = photo
	d.UpdatedAt = time.Now()
	return nil
}

func (r *DoctorRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Doctor
	for _, d := range r.doctors {
		if d.HospitalID == hospitalID {
			copied := *d
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *DoctorRepository) ListBookable(ctx context.Context) ([]*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Doctor
	for _, d := range r.doctors {
		if r.hospitals != nil {
			h, err := r.hospitals.Get(ctx, d.HospitalID)
			if err != nil || h.Status != model.HospitalStatusApproved {
				continue
			}
		}
		copied := *d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type AppointmentRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.AppointmentRequest
	outbox   *OutboxRepository
}

// NewAppointmentRepository takes the outbox repository so Transition can
// write the lifecycle event the way the SQL transaction does.
func NewAppointmentRepository(outbox *OutboxRepository) *AppointmentRepository {
	return &AppointmentRepository{
		requests: make(map[uuid.UUID]*model.AppointmentRequest),
		outbox:   outbox,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, req *model.AppointmentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NotFound("appointment request", nil)
	}
	copied := *req
	return &copied, nil
}

func (r *AppointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentRequest
	for _, req := range r.requests {
		if req.PatientID == patientID {
			copied := *req
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *AppointmentRepository) ListForHospital(ctx context.Context, hospitalID uuid.UUID, status *model.AppointmentStatus) ([]*model.AppointmentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentRequest
	for _, req := range r.requests {
		if req.HospitalID != hospitalID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		copied := *req
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *AppointmentRepository) ListApproved(ctx context.Context, hospitalID uuid.UUID) ([]*model.AppointmentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentRequest
	for _, req := range r.requests {
		if req.HospitalID == hospitalID && req.Status == model.AppointmentStatusApproved {
			copied := *req
			out = append(out, &copied)
		}
	}
	// approved rows normally carry an approval time; tolerate ones that
	// don't by sorting them last
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].ApprovedAt, out[j].ApprovedAt
		switch {
		case ai == nil:
			return false
		case aj == nil:
			return true
		default:
			return ai.Before(*aj)
		}
	})
	return out, nil
}

func (r *AppointmentRepository) Transition(ctx context.Context, id, actingHospitalID uuid.UUID, to model.AppointmentStatus, rejectionReason *string) (*model.AppointmentRequest, error) {
	if to != model.AppointmentStatusApproved && to != model.AppointmentStatusRejected {
		return nil, apperrors.Validation(fmt.Sprintf("invalid target status %q", to), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NotFound("appointment request", nil)
	}
	if req.HospitalID != actingHospitalID {
		return nil, apperrors.Forbidden("appointment request belongs to another hospital", nil)
	}
	if req.Status != model.AppointmentStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("appointment request is already %s", req.Status), nil)
	}

	now := time.Now()
	req.Status = to
	req.UpdatedAt = now
	switch to {
	case model.AppointmentStatusApproved:
		req.ApprovedAt = &now
	case model.AppointmentStatusRejected:
		req.RejectedAt = &now
		reason := ""
		if rejectionReason != nil {
			reason = *rejectionReason
		}
		req.RejectionReason = &reason
	}

	if r.outbox != nil {
		eventType := model.EventAppointmentApproved
		if to == model.AppointmentStatusRejected {
			eventType = model.EventAppointmentRejected
		}
		payload, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		r.outbox.append(&model.OutboxEvent{
			EventType: eventType,
			Payload:   payload,
		})
	}

	copied := *req
	return &copied, nil
}

type OutboxRepository struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) append(event *model.OutboxEvent) {
	event.ID = uuid.New()
	event.Status = string(model.OutboxStatusPending)
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	r.events = append(r.events, event)
}

func (r *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.append(event)
	return nil
}

func (r *OutboxRepository) ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.OutboxEvent
	for _, e := range r.events {
		if e.Status != string(model.OutboxStatusPending) {
			continue
		}
		e.Status = string(model.OutboxStatusProcessing)
		e.UpdatedAt = time.Now()
		copied := *e
		out = append(out, &copied)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Status = string(status)
			e.ErrorMessage = errorMessage
			e.UpdatedAt = time.Now()
			if status == model.OutboxStatusProcessed {
				now := time.Now()
				e.ProcessedAt = &now
			}
			return nil
		}
	}
	return apperrors.NotFound("outbox event", nil)
}

func (r *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.OutboxEvent
	var deleted int64
	for _, e := range r.events {
		if e.Status == string(model.OutboxStatusProcessed) && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return deleted, nil
}

// Events returns a snapshot of everything recorded, newest last.
func (r *OutboxRepository) Events() []*model.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.OutboxEvent, len(r.events))
	copy(out, r.events)
	return out
}

var (
	_ repository.HospitalRepository    = (*HospitalRepository)(nil)
	_ repository.PatientRepository     = (*PatientRepository)(nil)
	_ repository.DoctorRepository      = (*DoctorRepository)(nil)
	_ repository.AppointmentRepository = (*AppointmentRepository)(nil)
	_ repository.OutboxRepository      = (*OutboxRepository)(nil)
)
