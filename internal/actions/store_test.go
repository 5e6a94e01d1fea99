package actions

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, size int, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, size, ttl), mr
}

func TestStoreAppendAndRecent(t *testing.T) {
	store, mr := newTestStore(t, 3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ev := NewEvent("alice", fmt.Sprintf("action-%d", i))
		require.NoError(t, store.Append(ctx, ev))
	}
	require.NoError(t, store.Append(ctx, NewEvent("bob", ActionButton)))

	events, err := store.Recent(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "action-4", events[0].Action)
	assert.Equal(t, "action-2", events[2].Action)
	for _, ev := range events {
		assert.Equal(t, "alice", ev.Username)
		assert.NotEmpty(t, ev.ID)
	}

	events, err = store.Recent(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "action-4", events[0].Action)

	assert.Equal(t, time.Hour, mr.TTL("actions:alice"))
}

func TestStoreRecentEmpty(t *testing.T) {
	store, _ := newTestStore(t, 0, 0)

	events, err := store.Recent(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, defaultHistorySize, store.size)
	assert.Equal(t, defaultHistoryTTL, store.ttl)
}

func TestStoreRejectsInvalidInput(t *testing.T) {
	store, _ := newTestStore(t, 10, time.Hour)
	ctx := context.Background()

	assert.Error(t, store.Append(ctx, nil))
	assert.Error(t, store.Append(ctx, &Event{Action: ActionButton}))
	_, err := store.Recent(ctx, "", 5)
	assert.Error(t, err)
}

func TestStoreRecentCorruptedEntry(t *testing.T) {
	store, mr := newTestStore(t, 10, time.Hour)
	_, err := mr.Lpush("actions:alice", "not-json")
	require.NoError(t, err)

	_, err = store.Recent(context.Background(), "alice", 5)
	assert.Error(t, err)
}

func TestSyncRecorder(t *testing.T) {
	store, _ := newTestStore(t, 10, time.Hour)
	var buf bytes.Buffer
	rec, err := NewSyncRecorder(store, log.New(&buf, "", 0))
	require.NoError(t, err)

	require.NoError(t, rec.Record(context.Background(), NewEvent("alice", ActionButton)))
	assert.Contains(t, buf.String(), "Button clicked by alice!")

	events, err := store.Recent(context.Background(), "alice", 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionButton, events[0].Action)

	assert.Error(t, rec.Record(context.Background(), nil))

	_, err = NewSyncRecorder(nil, nil)
	assert.Error(t, err)
}
