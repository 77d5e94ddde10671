package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medq/hospital-api/pkg/circuitbreaker"
)

func newBreaker(cooldown time.Duration) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Settings{
		Name:             "test",
		FailureThreshold: 3,
		Cooldown:         cooldown,
	})
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := newBreaker(time.Hour)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	}

	err := cb.Execute(func() error {
		t.Fatal("call should not run while open")
		return nil
	})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := newBreaker(time.Hour)
	boom := errors.New("boom")

	require.Error(t, cb.Execute(func() error { return boom }))
	require.Error(t, cb.Execute(func() error { return boom }))
	require.NoError(t, cb.Execute(func() error { return nil }))

	// the earlier failures no longer count toward the threshold
	require.Error(t, cb.Execute(func() error { return boom }))
	require.NoError(t, cb.Execute(func() error { return nil }))
}

func TestClosesAfterSuccessfulTrial(t *testing.T) {
	cb := newBreaker(time.Millisecond)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(func() error { return boom }))
	}
	require.ErrorIs(t, cb.Execute(func() error { return nil }), circuitbreaker.ErrOpen)

	time.Sleep(5 * time.Millisecond)

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
}
