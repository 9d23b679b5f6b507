package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	st := newTestSQLite(t)
	leads, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	want := sampleLeads()
	require.NoError(t, st.Save(ctx, want))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].Location, got[i].Location)
		assert.Equal(t, want[i].Phones, got[i].Phones)
		assert.Equal(t, want[i].Pitch, got[i].Pitch)
		assert.Equal(t, want[i].Source, got[i].Source)
		assert.Equal(t, want[i].HasWebsite, got[i].HasWebsite)
		assert.Equal(t, want[i].HasApp, got[i].HasApp)
		assert.Equal(t, want[i].PresenceReason, got[i].PresenceReason)
		assert.Equal(t, want[i].Status, got[i].Status)
		assert.WithinDuration(t, want[i].AddedAt, got[i].AddedAt, time.Second)
		if want[i].ContactedAt == nil {
			assert.Nil(t, got[i].ContactedAt)
		} else {
			require.NotNil(t, got[i].ContactedAt)
			assert.WithinDuration(t, *want[i].ContactedAt, *got[i].ContactedAt, time.Second)
		}
	}
}

func TestSQLiteStore_SaveReplacesWholesale(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, sampleLeads()))
	require.NoError(t, st.Save(ctx, sampleLeads()[1:]))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100002", got[0].ID)
}

func TestSQLiteStore_PreservesOrder(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	// Insertion order, not id order.
	leads := []model.Lead{
		{ID: "300000", Name: "C", Phones: []string{"1"}, AddedAt: time.Now().UTC()},
		{ID: "100000", Name: "A", Phones: []string{"2"}, AddedAt: time.Now().UTC()},
		{ID: "200000", Name: "B", Phones: []string{"3"}, AddedAt: time.Now().UTC()},
	}
	require.NoError(t, st.Save(ctx, leads))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "300000", got[0].ID)
	assert.Equal(t, "100000", got[1].ID)
	assert.Equal(t, "200000", got[2].ID)
}

func TestSQLiteStore_Runs(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	first := sampleRun("run-1")
	second := sampleRun("run-2")
	second.StartedAt = first.StartedAt.Add(time.Hour)
	require.NoError(t, st.RecordRun(ctx, first))
	require.NoError(t, st.RecordRun(ctx, second))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)

	limited, err := st.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-2", limited[0].ID)
}
