package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository/memory"
	"github.com/medq/hospital-api/internal/service/queue"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func seedApproved(t *testing.T, repo *memory.AppointmentRepository, hospitalID uuid.UUID, n int) []*model.AppointmentRequest {
	t.Helper()
	ctx := context.Background()
	out := make([]*model.AppointmentRequest, 0, n)
	for i := 0; i < n; i++ {
		req := &model.AppointmentRequest{
			PatientID:     uuid.New(),
			DoctorID:      uuid.New(),
			HospitalID:    hospitalID,
			RequestedDate: "2026-09-15",
			RequestedTime: "10:00",
			Reason:        "checkup",
			Status:        model.AppointmentStatusPending,
		}
		require.NoError(t, repo.Create(ctx, req))
		approved, err := repo.Transition(ctx, req.ID, hospitalID, model.AppointmentStatusApproved, nil)
		require.NoError(t, err)
		out = append(out, approved)
		// approval order drives queue order
		time.Sleep(time.Millisecond)
	}
	return out
}

func TestProject(t *testing.T) {
	_, client := newRedis(t)
	repo := memory.NewAppointmentRepository(memory.NewOutboxRepository())
	hospitalID := uuid.New()
	approved := seedApproved(t, repo, hospitalID, 3)

	svc := queue.NewService(repo, client, queue.FixedSlotEstimator{Slot: 15 * time.Minute}, time.Minute)

	entries, err := svc.Project(context.Background(), hospitalID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, model.QueueStatusInProgress, entries[0].Status)
	assert.Equal(t, 0, entries[0].WaitMinutes)
	assert.Equal(t, approved[0].ID, entries[0].RequestID)

	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, model.QueueStatusWaiting, entries[1].Status)
	assert.Equal(t, 15, entries[1].WaitMinutes)

	assert.Equal(t, 3, entries[2].Position)
	assert.Equal(t, model.QueueStatusWaiting, entries[2].Status)
	assert.Equal(t, 30, entries[2].WaitMinutes)
}

func TestProjectEmpty(t *testing.T) {
	_, client := newRedis(t)
	repo := memory.NewAppointmentRepository(memory.NewOutboxRepository())

	svc := queue.NewService(repo, client, queue.FixedSlotEstimator{Slot: 15 * time.Minute}, time.Minute)

	entries, err := svc.Project(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProjectServesFromCache(t *testing.T) {
	_, client := newRedis(t)
	repo := memory.NewAppointmentRepository(memory.NewOutboxRepository())
	hospitalID := uuid.New()
	seedApproved(t, repo, hospitalID, 1)

	svc := queue.NewService(repo, client, queue.FixedSlotEstimator{Slot: 15 * time.Minute}, time.Minute)
	ctx := context.Background()

	first, err := svc.Project(ctx, hospitalID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// New approvals are invisible until the cache is invalidated or expires.
	seedApproved(t, repo, hospitalID, 1)

	cached, err := svc.Project(ctx, hospitalID)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	require.NoError(t, svc.Invalidate(ctx, hospitalID))

	fresh, err := svc.Project(ctx, hospitalID)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestProjectCacheExpiry(t *testing.T) {
	mr, client := newRedis(t)
	repo := memory.NewAppointmentRepository(memory.NewOutboxRepository())
	hospitalID := uuid.New()
	seedApproved(t, repo, hospitalID, 1)

	svc := queue.NewService(repo, client, queue.FixedSlotEstimator{Slot: 15 * time.Minute}, 30*time.Second)
	ctx := context.Background()

	_, err := svc.Project(ctx, hospitalID)
	require.NoError(t, err)

	seedApproved(t, repo, hospitalID, 1)
	mr.FastForward(31 * time.Second)

	fresh, err := svc.Project(ctx, hospitalID)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestFixedSlotEstimator(t *testing.T) {
	e := queue.FixedSlotEstimator{Slot: 20 * time.Minute}
	assert.Equal(t, time.Duration(0), e.Estimate(0))
	assert.Equal(t, time.Duration(0), e.Estimate(1))
	assert.Equal(t, 20*time.Minute, e.Estimate(2))
	assert.Equal(t, 80*time.Minute, e.Estimate(5))
}
