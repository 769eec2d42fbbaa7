package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/calendar"
)

func mexicoCity(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	return loc
}

func neverSent(string) bool { return true }

func notSent(string) bool { return false }

func TestPrePatchFires(t *testing.T) {
	loc := mexicoCity(t)
	store := &calendar.Store{
		PatchDates: []time.Time{time.Date(2025, 6, 10, 0, 0, 0, 0, loc)},
	}
	e := NewEvaluator(store)

	now := time.Date(2025, 6, 9, 10, 0, 0, 0, loc)
	r := e.PrePatch(now, notSent)

	require.NotNil(t, r)
	assert.Equal(t, "2025-06-10-prepatch", r.ID)
	assert.Equal(t, KindPrePatch, r.Kind)
	// Remaining runs until 01:30 on patch day.
	want := time.Date(2025, 6, 10, 1, 30, 0, 0, loc).Sub(now)
	assert.Equal(t, want, r.Remaining)
}

func TestPrePatchWindow(t *testing.T) {
	loc := mexicoCity(t)
	store := &calendar.Store{
		PatchDates: []time.Time{time.Date(2025, 6, 10, 0, 0, 0, 0, loc)},
	}
	e := NewEvaluator(store)

	tests := []struct {
		name string
		now  time.Time
		due  bool
	}{
		{"just before the trigger", time.Date(2025, 6, 9, 9, 59, 59, 0, loc), false},
		{"exactly at the trigger", time.Date(2025, 6, 9, 10, 0, 0, 0, loc), true},
		{"inside the tick window", time.Date(2025, 6, 9, 10, 0, 30, 0, loc), true},
		{"next tick", time.Date(2025, 6, 9, 10, 1, 0, 0, loc), false},
		{"wrong day", time.Date(2025, 6, 10, 10, 0, 0, 0, loc), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.PrePatch(tt.now, notSent)
			assert.Equal(t, tt.due, r != nil)
		})
	}
}

func TestPrePatchSuppressedWhenSent(t *testing.T) {
	loc := mexicoCity(t)
	store := &calendar.Store{
		PatchDates: []time.Time{time.Date(2025, 6, 10, 0, 0, 0, 0, loc)},
	}
	e := NewEvaluator(store)

	now := time.Date(2025, 6, 9, 10, 0, 0, 0, loc)
	assert.Nil(t, e.PrePatch(now, neverSent))
}

func TestNotesPublished(t *testing.T) {
	loc := mexicoCity(t)
	patch := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)
	e := NewEvaluator(&calendar.Store{PatchDates: []time.Time{patch}})

	r := e.NotesPublished(time.Date(2025, 6, 10, 0, 0, 0, 0, loc), notSent)
	require.NotNil(t, r)
	assert.Equal(t, "2025-06-10-notes-published", r.ID)

	// Only due at midnight of patch day.
	assert.Nil(t, e.NotesPublished(time.Date(2025, 6, 10, 0, 1, 0, 0, loc), notSent))
	assert.Nil(t, e.NotesPublished(time.Date(2025, 6, 9, 0, 0, 0, 0, loc), notSent))
}

func TestNotesPublishedFirstMatchWins(t *testing.T) {
	loc := mexicoCity(t)
	// Duplicate calendar entries for the same day: only one reminder.
	patch := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)
	e := NewEvaluator(&calendar.Store{PatchDates: []time.Time{patch, patch}})

	r := e.NotesPublished(patch, notSent)
	require.NotNil(t, r)
	assert.Equal(t, "2025-06-10-notes-published", r.ID)
}

func TestURLConfirmsPatch(t *testing.T) {
	loc := mexicoCity(t)
	patch := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)

	assert.True(t, URLConfirmsPatch("https://example.com/patch-2025-06-10-notes/", patch))
	// Previous day tolerated for the UTC/local publish offset.
	assert.True(t, URLConfirmsPatch("https://example.com/patch-2025-06-09-notes/", patch))
	assert.False(t, URLConfirmsPatch("https://example.com/patch-2025-05-27-notes/", patch))
}

func TestUnscheduledCheckDue(t *testing.T) {
	loc := mexicoCity(t)
	e := NewEvaluator(&calendar.Store{})

	assert.True(t, e.UnscheduledCheckDue(time.Date(2025, 6, 10, 14, 0, 0, 0, loc)))
	assert.True(t, e.UnscheduledCheckDue(time.Date(2025, 6, 10, 14, 30, 0, 0, loc)))
	assert.False(t, e.UnscheduledCheckDue(time.Date(2025, 6, 10, 14, 15, 0, 0, loc)))
}

func copaX(loc *time.Location) calendar.ClashEvent {
	return calendar.ClashEvent{
		Name:               "Copa X",
		Version:            "25.13",
		TeamFormationStart: time.Date(2025, 7, 1, 0, 0, 0, 0, loc),
		TournamentDays: []time.Time{
			time.Date(2025, 7, 5, 0, 0, 0, 0, loc),
			time.Date(2025, 7, 6, 0, 0, 0, 0, loc),
		},
	}
}

func TestClashFormation(t *testing.T) {
	loc := mexicoCity(t)
	e := NewEvaluator(&calendar.Store{Events: []calendar.ClashEvent{copaX(loc)}})

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, loc)
	due := e.ClashDue(now, notSent)

	require.Len(t, due, 1)
	assert.Equal(t, "Copa X-2025-07-01-formation", due[0].ID)
	assert.Equal(t, KindClashFormation, due[0].Kind)
	want := time.Date(2025, 7, 5, 0, 0, 0, 0, loc).Sub(now)
	assert.Equal(t, want, due[0].Remaining)
}

func TestClashMorningAndFinal(t *testing.T) {
	loc := mexicoCity(t)
	e := NewEvaluator(&calendar.Store{Events: []calendar.ClashEvent{copaX(loc)}})

	morning := e.ClashDue(time.Date(2025, 7, 5, 10, 0, 0, 0, loc), notSent)
	require.Len(t, morning, 1)
	assert.Equal(t, "Copa X-2025-07-05-morning", morning[0].ID)
	assert.Equal(t, 7*time.Hour, morning[0].Remaining)

	final := e.ClashDue(time.Date(2025, 7, 5, 18, 50, 0, 0, loc), notSent)
	require.Len(t, final, 1)
	assert.Equal(t, "Copa X-2025-07-05-final", final[0].ID)
	assert.Equal(t, KindClashFinal, final[0].Kind)
	assert.Equal(t, 10*time.Minute, final[0].Remaining)

	// Second tournament day gets its own ids.
	day2 := e.ClashDue(time.Date(2025, 7, 6, 18, 50, 0, 0, loc), notSent)
	require.Len(t, day2, 1)
	assert.Equal(t, "Copa X-2025-07-06-final", day2[0].ID)
}

func TestClashFinalDoesNotRefireAtClose(t *testing.T) {
	loc := mexicoCity(t)
	e := NewEvaluator(&calendar.Store{Events: []calendar.ClashEvent{copaX(loc)}})

	// 19:00 is outside the 18:50 trigger window even though it is the
	// same tournament day.
	due := e.ClashDue(time.Date(2025, 7, 5, 19, 0, 0, 0, loc), notSent)
	assert.Empty(t, due)
}

func TestClashSuppressedWhenSent(t *testing.T) {
	loc := mexicoCity(t)
	e := NewEvaluator(&calendar.Store{Events: []calendar.ClashEvent{copaX(loc)}})

	due := e.ClashDue(time.Date(2025, 7, 1, 10, 0, 0, 0, loc), neverSent)
	assert.Empty(t, due)
}

func TestClashCoincidingEventsAllFire(t *testing.T) {
	loc := mexicoCity(t)
	a := copaX(loc)
	b := copaX(loc)
	b.Name = "Copa Y"
	e := NewEvaluator(&calendar.Store{Events: []calendar.ClashEvent{a, b}})

	due := e.ClashDue(time.Date(2025, 7, 5, 10, 0, 0, 0, loc), notSent)
	require.Len(t, due, 2)
	assert.Equal(t, "Copa X-2025-07-05-morning", due[0].ID)
	assert.Equal(t, "Copa Y-2025-07-05-morning", due[1].ID)
}

func TestTournamentDays(t *testing.T) {
	loc := mexicoCity(t)
	days := []time.Time{
		time.Date(2025, 7, 5, 0, 0, 0, 0, loc),
		time.Date(2025, 7, 6, 0, 0, 0, 0, loc),
	}
	assert.Equal(t, "5 y 6 de julio", TournamentDays(days))
	assert.Equal(t, "5 de julio", TournamentDays(days[:1]))
}
