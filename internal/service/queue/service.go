package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository"
)

// WaitEstimator predicts the wait for a queue position. The default is a
// fixed consultation-slot multiplier; a real predictor can be swapped in
// without touching the projection.
type WaitEstimator interface {
	Estimate(position int) time.Duration
}

// FixedSlotEstimator assumes every consultation takes the same slot.
type FixedSlotEstimator struct {
	Slot time.Duration
}

func (e FixedSlotEstimator) Estimate(position int) time.Duration {
	if position <= 1 {
		return 0
	}
	return time.Duration(position-1) * e.Slot
}

// Service builds the live-queue projection over approved appointment
// requests. The projection is read-only and derived; it is cached in redis
// and invalidated on every lifecycle transition.
type Service struct {
	repo      repository.AppointmentRepository
	redis     *redis.Client
	estimator WaitEstimator
	ttl       time.Duration
}

func NewService(repo repository.AppointmentRepository, redisClient *redis.Client, estimator WaitEstimator, ttl time.Duration) *Service {
	return &Service{
		repo:      repo,
		redis:     redisClient,
		estimator: estimator,
		ttl:       ttl,
	}
}

// Project returns the hospital's queue: approved requests in approval
// order, the first entry in progress, the rest waiting.
func (s *Service) Project(ctx context.Context, hospitalID uuid.UUID) ([]model.QueueEntry, error) {
	key := cacheKey(hospitalID)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Bytes()
		if err == nil {
			var entries []model.QueueEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	requests, err := s.repo.ListApproved(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.QueueEntry, 0, len(requests))
	for i, req := range requests {
		status := model.QueueStatusWaiting
		if i == 0 {
			status = model.QueueStatusInProgress
		}
		entries = append(entries, model.QueueEntry{
			Position:      i + 1,
			RequestID:     req.ID,
			PatientID:     req.PatientID,
			DoctorID:      req.DoctorID,
			RequestedDate: req.RequestedDate,
			RequestedTime: req.RequestedTime,
			Status:        status,
			WaitMinutes:   int(s.estimator.Estimate(i + 1).Minutes()),
		})
	}

	if s.redis != nil {
		payload, err := json.Marshal(entries)
		if err == nil {
			if err := s.redis.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				log.Debug().Err(err).Str("hospital_id", hospitalID.String()).Msg("failed to cache queue projection")
			}
		}
	}

	return entries, nil
}

// Invalidate drops the cached projection for a hospital.
func (s *Service) Invalidate(ctx context.Context, hospitalID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, cacheKey(hospitalID)).Err()
}

func cacheKey(hospitalID uuid.UUID) string {
	return fmt.Sprintf("queue:%s", hospitalID)
}
