package editor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-event-dashboard/internal/config"
	"ms-event-dashboard/internal/editor"
	"ms-event-dashboard/internal/linker"
	"ms-event-dashboard/internal/models"
)

func TestAutosaveFlushesAfterDebounce(t *testing.T) {
	store := new(MockStore)
	catalogs := new(MockCatalogs)
	expectLoad(store, catalogs, baseEvent())

	store.On("UpsertTickets", mock.Anything, "rec_evt1", mock.Anything).Return([]models.Ticket{}, map[string]string{}, nil)
	store.On("UpsertCoupons", mock.Anything, "rec_evt1", mock.Anything).Return([]models.Coupon{}, nil)
	store.On("UpsertEvent", mock.Anything, mock.Anything).Return(models.Event{
		ID: "rec_evt1", Title: "Changed", StartDate: "2026-09-01", EndDate: "2026-09-01",
		TimeFormat: models.TimeFormat24h, Format: models.FormatOnline, Status: models.StatusDraft,
		Slug: "morning-yoga-ab12cd",
	}, nil)

	manager := editor.NewManager(store, catalogs, linker.New(store, nil), nil, nil, config.EditorConfig{
		SaveTimeout:      5 * time.Second,
		AutosaveEnabled:  true,
		AutosaveDebounce: 20 * time.Millisecond,
	})

	session, err := manager.Open(context.Background(), "vendor1", "rec_evt1")
	require.NoError(t, err)

	// A burst of edits inside the debounce window collapses into one
	// save.
	require.NoError(t, session.SetField("title", "C"))
	require.NoError(t, session.SetField("title", "Ch"))
	require.NoError(t, session.SetField("title", "Changed"))

	require.Eventually(t, func() bool {
		return session.State() == editor.StateClean
	}, time.Second, 10*time.Millisecond)

	store.AssertNumberOfCalls(t, "UpsertEvent", 1)
}

func TestAutosaveSkipsCleanSessions(t *testing.T) {
	store := new(MockStore)
	catalogs := new(MockCatalogs)
	expectLoad(store, catalogs, baseEvent())

	manager := editor.NewManager(store, catalogs, linker.New(store, nil), nil, nil, config.EditorConfig{
		SaveTimeout:      5 * time.Second,
		AutosaveEnabled:  true,
		AutosaveDebounce: 10 * time.Millisecond,
	})

	session, err := manager.Open(context.Background(), "vendor1", "rec_evt1")
	require.NoError(t, err)

	// Edit, then revert inside the debounce window: the flush fires but
	// finds the session clean and writes nothing.
	require.NoError(t, session.SetField("title", "Changed"))
	require.NoError(t, session.SetField("title", "Morning Yoga"))

	time.Sleep(50 * time.Millisecond)

	store.AssertNotCalled(t, "UpsertEvent", mock.Anything, mock.Anything)
	assert.Equal(t, editor.StateClean, session.State())
}
