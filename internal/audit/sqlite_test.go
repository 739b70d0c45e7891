package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "audit.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func criticalEvent(correlationID string) *Event {
	return &Event{
		Type:          EventCriticalResult,
		CorrelationID: correlationID,
		TestCode:      "HB",
		TestName:      "Hemoglobin",
		Value:         6.5,
		Unit:          "g/dL",
		Direction:     "low",
		PatientAge:    35,
		PatientSex:    "male",
		Message:       "critical result detected",
	}
}

func TestSQLiteStore_Record(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ev := criticalEvent("req-1")
	err := store.Record(ctx, ev)
	require.NoError(t, err)
	assert.NotZero(t, ev.ID)
	assert.False(t, ev.CreatedAt.IsZero())

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStore_RecordRejectsInvalidType(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(context.Background(), &Event{Type: "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid audit event type")
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"req-1", "req-2", "req-3"} {
		require.NoError(t, store.Record(ctx, criticalEvent(id)))
	}

	events, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "req-3", events[0].CorrelationID)
	assert.Equal(t, "req-1", events[2].CorrelationID)

	page, err := store.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "req-2", page[0].CorrelationID)
}

func TestSQLiteStore_ListByCorrelation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, criticalEvent("req-1")))
	require.NoError(t, store.Record(ctx, &Event{
		Type:          EventPediatricRejected,
		CorrelationID: "req-2",
		PatientAge:    15,
		Message:       "pediatric request rejected",
	}))
	require.NoError(t, store.Record(ctx, criticalEvent("req-1")))

	events, err := store.ListByCorrelation(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, EventCriticalResult, ev.Type)
	}

	events, err = store.ListByCorrelation(ctx, "req-2")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventPediatricRejected, events[0].Type)
	assert.Equal(t, 15, events[0].PatientAge)

	events, err = store.ListByCorrelation(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSQLiteStore_ExportJSON(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, criticalEvent("req-1")))
	require.NoError(t, store.Record(ctx, criticalEvent("req-2")))

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(ctx, &buf))

	var export Export
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, 2, export.Count)
	require.Len(t, export.Events, 2)
	assert.Equal(t, EventCriticalResult, export.Events[0].Type)
	assert.Equal(t, "Hemoglobin", export.Events[0].TestName)
}
