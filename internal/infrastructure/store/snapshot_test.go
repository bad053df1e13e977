package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotThreshold(t *testing.T) {
	assert.Equal(t, 10, SnapshotThreshold)
}

func TestSnapshot_StateRoundTrip(t *testing.T) {
	type orderState struct {
		ID     string `json:"id"`
		UserID string `json:"user_id"`
		Status string `json:"status"`
		Total  int    `json:"total"`
	}

	original := orderState{
		ID:     "order-123",
		UserID: "user-456",
		Status: "pending",
		Total:  24000,
	}
	stateJSON, err := json.Marshal(original)
	require.NoError(t, err)

	snapshot := Snapshot{
		AggregateID:   "order-123",
		AggregateType: "Order",
		Version:       10,
		State:         stateJSON,
		CreatedAt:     time.Now(),
	}

	var restored orderState
	require.NoError(t, json.Unmarshal(snapshot.State, &restored))
	assert.Equal(t, original, restored)
}

func TestEventStore_AppendAssignsSequentialVersions(t *testing.T) {
	ctx := context.Background()
	es := NewEventStore(nil)

	for i := 0; i < 3; i++ {
		event, err := es.Append(ctx, "cart-user-1", "Cart", "ItemAdded", map[string]int{"qty": i + 1})
		require.NoError(t, err)
		assert.Equal(t, i+1, event.Version)
	}

	events := es.GetEvents("cart-user-1")
	require.Len(t, events, 3)
	assert.Equal(t, 1, events[0].Version)
	assert.Equal(t, 3, events[2].Version)

	// Other aggregates keep their own version sequence
	event, err := es.Append(ctx, "cart-user-2", "Cart", "ItemAdded", map[string]int{"qty": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, event.Version)
}

func TestEventStore_GetEventsFromVersion(t *testing.T) {
	ctx := context.Background()
	es := NewEventStore(nil)

	for i := 0; i < 5; i++ {
		_, err := es.Append(ctx, "order-1", "Order", "OrderPlaced", nil)
		require.NoError(t, err)
	}

	events := es.GetEventsFromVersion(ctx, "order-1", 3)
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Version)
	assert.Equal(t, 5, events[1].Version)
}

func TestEventStore_SnapshotReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	es := NewEventStore(nil)

	missing, err := es.GetSnapshot(ctx, "order-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	first := &Snapshot{AggregateID: "order-1", AggregateType: "Order", Version: 10, State: json.RawMessage(`{"status":"pending"}`)}
	require.NoError(t, es.SaveSnapshot(ctx, first))

	second := &Snapshot{AggregateID: "order-1", AggregateType: "Order", Version: 20, State: json.RawMessage(`{"status":"fulfilled"}`)}
	require.NoError(t, es.SaveSnapshot(ctx, second))

	got, err := es.GetSnapshot(ctx, "order-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Version)
	assert.JSONEq(t, `{"status":"fulfilled"}`, string(got.State))
}
