package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/repository/memory"
	"github.com/medq/hospital-api/pkg/metrics"
)

// registered once; promauto panics on duplicate registration
var testMetrics = metrics.NewMetrics("hospital", "worker_test")

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	fail      bool
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func newProcessor(repo *memory.OutboxRepository, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, testMetrics)
}

func seedEvent(t *testing.T, repo *memory.OutboxRepository, eventType string) *model.OutboxEvent {
	t.Helper()
	event := &model.OutboxEvent{EventType: eventType, Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{}
	processor := newProcessor(repo, broker)

	seedEvent(t, repo, model.EventAppointmentApproved)
	seedEvent(t, repo, model.EventAppointmentRejected)

	require.NoError(t, processor.processEvents(context.Background()))

	assert.ElementsMatch(t,
		[]string{model.EventAppointmentApproved, model.EventAppointmentRejected},
		broker.published,
	)

	for _, e := range repo.Events() {
		assert.Equal(t, string(model.OutboxStatusProcessed), e.Status)
		assert.NotNil(t, e.ProcessedAt)
	}

	// nothing left to claim
	pending, err := repo.ClaimPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestClaimPendingIsExclusive(t *testing.T) {
	repo := memory.NewOutboxRepository()

	seedEvent(t, repo, model.EventAppointmentApproved)
	seedEvent(t, repo, model.EventHospitalApproved)

	first, err := repo.ClaimPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, first, 2)
	for _, e := range first {
		assert.Equal(t, string(model.OutboxStatusProcessing), e.Status)
	}

	// a second poller arriving before the batch is marked sees nothing
	second, err := repo.ClaimPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestProcessEventsMarksFailedAfterRetries(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{fail: true}
	processor := newProcessor(repo, broker)

	seedEvent(t, repo, model.EventAppointmentApproved)

	require.NoError(t, processor.processEvents(context.Background()))

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, string(model.OutboxStatusFailed), events[0].Status)
	require.NotNil(t, events[0].ErrorMessage)
	assert.Contains(t, *events[0].ErrorMessage, "broker unavailable")
}

func TestNewOutboxProcessorValidatesConfig(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{}

	assert.Panics(t, func() {
		NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
			PollInterval:  time.Second,
			RetryAttempts: 1,
			RetryDelay:    time.Second,
		}, testMetrics)
	})
}
