package inventory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBolt(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "nested", "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestBoltStore_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestBolt(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)

	require.NoError(t, s.Record(ctx, Asset{
		Serial:           "FGVM0212345",
		SKU:              "FG-VM02",
		RegistrationCode: "AAAAA-BBBBB-CCCCC-DDDDD-EEEEEE",
		IPv4:             "192.0.2.1",
		LicensePath:      "/tmp/out/FGVM0212345.lic",
		RunID:            "run-1",
		RegisteredAt:     at,
	}))

	got, err := s.Get(ctx, "FGVM0212345")
	require.NoError(t, err)
	assert.Equal(t, "FG-VM02", got.SKU)
	assert.Equal(t, "192.0.2.1", got.IPv4)
	assert.True(t, at.Equal(got.RegisteredAt), "registered_at %v", got.RegisteredAt)

	_, err = s.Get(ctx, "UNKNOWN")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStore_RecordReplacesSerial(t *testing.T) {
	ctx := context.Background()
	s := newTestBolt(t)

	require.NoError(t, s.Record(ctx, Asset{Serial: "FGVM0200001", RunID: "run-1", RegistrationCode: "old"}))
	require.NoError(t, s.Record(ctx, Asset{Serial: "FGVM0200001", RunID: "run-2", RegistrationCode: "new"}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(ctx, "FGVM0200001")
	require.NoError(t, err)
	assert.Equal(t, "new", got.RegistrationCode)
	assert.Equal(t, "run-2", got.RunID)
}

func TestBoltStore_ListByRun(t *testing.T) {
	ctx := context.Background()
	s := newTestBolt(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Serials sort opposite to registration time.
	require.NoError(t, s.Record(ctx, Asset{Serial: "C", RunID: "run-1", RegisteredAt: base}))
	require.NoError(t, s.Record(ctx, Asset{Serial: "B", RunID: "run-2", RegisteredAt: base.Add(time.Second)}))
	require.NoError(t, s.Record(ctx, Asset{Serial: "A", RunID: "run-1", RegisteredAt: base.Add(2 * time.Second)}))

	run1, err := s.List(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, run1, 2)
	assert.Equal(t, "C", run1[0].Serial)
	assert.Equal(t, "A", run1[1].Serial)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBoltStore_RequiresPath(t *testing.T) {
	_, err := NewBoltStore("")
	assert.Error(t, err)
}
