package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/maps-scraper/internal/entity"
	"go.uber.org/zap"
)

func TestRunTracker_Lifecycle(t *testing.T) {
	tr := NewRunTracker()
	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return at }

	first := tr.Start("run-1", entity.Query{Text: "a", Category: "ca"})
	second := tr.Start("run-1", entity.Query{Text: "b", Category: "cb"})

	running := tr.Outcomes()
	require.Len(t, running, 2)
	assert.Equal(t, entity.QueryRunning, running[0].Status)
	assert.Nil(t, running[0].FinishedAt)

	tr.Finish(first, 1, 11, nil)
	tr.Finish(second, 3, 0, errors.New("boom"))
	tr.Finish(7, 1, 1, nil)

	out := tr.Outcomes()
	require.Len(t, out, 2)
	assert.Equal(t, entity.QuerySucceeded, out[0].Status)
	assert.Equal(t, 11, out[0].Listings)
	assert.Equal(t, entity.QueryFailed, out[1].Status)
	assert.Equal(t, "boom", out[1].Err)
	assert.Equal(t, 3, out[1].Attempts)
	require.NotNil(t, out[1].FinishedAt)

	// the copy is detached from tracker state
	out[0].Listings = 0
	assert.Equal(t, 11, tr.Outcomes()[0].Listings)
}

func TestDiagnostics_Capture(t *testing.T) {
	sink := &fakeDiagnosticsSink{}
	d := NewDiagnostics(sink, zap.NewNop())
	d.now = func() time.Time { return time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC) }

	d.Capture(context.Background(), &fakePage{}, entity.SnapshotError, "moscow pims")

	require.Len(t, sink.saved, 1)
	assert.Equal(t, "error_20250314_103000_moscow_pims.png", sink.saved[0].FileName())
	assert.Equal(t, []byte("png"), sink.saved[0].PNG)
}

func TestDiagnostics_CaptureNeverFails(t *testing.T) {
	failing := NewDiagnostics(&fakeDiagnosticsSink{err: errors.New("disk full")}, zap.NewNop())
	assert.NotPanics(t, func() {
		failing.Capture(context.Background(), &fakePage{}, entity.SnapshotResult, "q")
	})

	var nilDiag *Diagnostics
	assert.NotPanics(t, func() {
		nilDiag.Capture(context.Background(), &fakePage{}, entity.SnapshotResult, "q")
	})

	sink := &fakeDiagnosticsSink{}
	NewDiagnostics(sink, zap.NewNop()).Capture(context.Background(), nil, entity.SnapshotResult, "q")
	assert.Empty(t, sink.saved)
}
