package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBreakerStartsClosed(t *testing.T) {
	b := New("buckets")
	assert.Equal(t, "buckets", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}

func TestBreakerOpensOnConsecutiveFailures(t *testing.T) {
	b := New("buckets", WithFailureThreshold(3))

	for i := range 2 {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback, "failure %d", i+1)
		assert.False(t, change.Opened)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")
}

func TestBreakerSuccessClearsFailureStreak(t *testing.T) {
	b := New("buckets", WithFailureThreshold(2))
	b.RecordFailure()
	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)

	b.RecordFailure()
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreakerClosesAfterSuccessStreak(t *testing.T) {
	b := New("buckets", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	b.RecordFailure()
	usePrimary, _ = b.RecordSuccess()
	assert.False(t, usePrimary, "a failure restarts the success streak")

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreakerReset(t *testing.T) {
	b := New("buckets", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}

func TestInvalidThresholdsKeepDefaults(t *testing.T) {
	b := New("buckets", WithFailureThreshold(0), WithSuccessThreshold(-1))
	assert.Equal(t, 5, b.failureThreshold)
	assert.Equal(t, 3, b.successThreshold)
}
