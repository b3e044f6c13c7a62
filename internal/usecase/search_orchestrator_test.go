package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/maps-scraper/internal/entity"
	"go.uber.org/zap"
)

func newTestSearch(t *testing.T, l *fakeLauncher, diag *fakeDiagnosticsSink) (*SearchOrchestrator, *SessionManager) {
	t.Helper()
	s := newTestSession(t, l)
	a := NewElementAccessor(s, 2, zap.NewNop())
	opts := SearchOptions{MapURL: "https://example.test/maps/213", FindTimeout: time.Second}
	return NewSearchOrchestrator(s, a, DefaultSearchLocators(), opts, NewDiagnostics(diag, zap.NewNop()), zap.NewNop()), s
}

func TestSearchOrchestrator_Search(t *testing.T) {
	sel := DefaultSearchLocators()
	page := newFakePage(sel.Input.Query, sel.ZoomOut.Query, sel.ResultItem.Query)
	diag := &fakeDiagnosticsSink{}
	search, _ := newTestSearch(t, sameLauncher(page), diag)

	err := search.Search(context.Background(), entity.Query{Text: "пимс", Category: "c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.test/maps/213"}, page.navigated)
	assert.Equal(t, []string{"п", "и", "м", "с"}, page.typed)
	assert.Equal(t, []string{sel.ZoomOut.Query}, page.clicked)
	if assert.Len(t, diag.saved, 1) {
		assert.Equal(t, entity.SnapshotResult, diag.saved[0].Kind)
		assert.Equal(t, "пимс", diag.saved[0].Label)
	}
}

func TestSearchOrchestrator_ZoomOutIsOptional(t *testing.T) {
	sel := DefaultSearchLocators()
	page := newFakePage(sel.Input.Query, sel.ResultItem.Query)
	search, _ := newTestSearch(t, sameLauncher(page), &fakeDiagnosticsSink{})

	require.NoError(t, search.Search(context.Background(), entity.Query{Text: "bar"}))
	assert.Empty(t, page.clicked)
}

func TestSearchOrchestrator_MissingInput(t *testing.T) {
	l := &fakeLauncher{next: func(int) *fakePage { return newFakePage() }}
	diag := &fakeDiagnosticsSink{}
	search, _ := newTestSearch(t, l, diag)

	err := search.Search(context.Background(), entity.Query{Text: "bar"})
	assert.ErrorIs(t, err, ErrSearchFailed)
	assert.Empty(t, diag.saved)
	assert.Equal(t, 2, l.launches)
}

func TestSearchOrchestrator_NoResults(t *testing.T) {
	sel := DefaultSearchLocators()
	l := &fakeLauncher{next: func(int) *fakePage { return newFakePage(sel.Input.Query) }}
	search, _ := newTestSearch(t, l, &fakeDiagnosticsSink{})

	err := search.Search(context.Background(), entity.Query{Text: "bar"})
	assert.ErrorIs(t, err, ErrSearchFailed)
}
