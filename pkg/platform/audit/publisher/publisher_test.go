package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "lotolink/pkg/platform/audit"
	"lotolink/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subject := uuid.NewString()
	err := pub.Emit(context.Background(), audit.Event{
		Subject: subject,
		Action:  string(audit.EventBancaApproved),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventBancaApproved), events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	subject := uuid.NewString()
	for range 10 {
		err := pub.Emit(context.Background(), audit.Event{
			Subject: subject,
			Action:  string(audit.EventLoginSucceeded),
		})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := store.ListBySubject(context.Background(), subject)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")

	err = pub.Emit(context.Background(), audit.Event{Subject: subject, Action: "late"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPublisher_BufferFull_DoesNotPanic(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), audit.Event{
				Subject: "banca",
				Action:  string(audit.EventBancaCreated),
			})
			if err != nil {
				assert.ErrorIs(t, err, ErrBufferFull)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_Timestamps(t *testing.T) {
	t.Run("sets timestamp when missing", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := NewPublisher(store)

		before := time.Now()
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s1", Action: "a"}))
		after := time.Now()

		events, err := pub.List(context.Background(), "s1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].Timestamp.Before(before))
		assert.False(t, events[0].Timestamp.After(after))
	})

	t.Run("preserves existing timestamp", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := NewPublisher(store)
		customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s2", Action: "a", Timestamp: customTime}))

		events, err := pub.List(context.Background(), "s2")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, customTime, events[0].Timestamp)
	})
}

func TestAuditEventCategory(t *testing.T) {
	assert.Equal(t, audit.CategorySecurity, audit.EventAdminCodeLocked.Category())
	assert.Equal(t, audit.CategoryCompliance, audit.EventBancaCreated.Category())
	assert.Equal(t, audit.CategoryOperations, audit.EventTokenRefreshed.Category())
	assert.Equal(t, audit.CategoryOperations, audit.AuditEvent("unknown").Category())
}
