// Package reminder decides which scheduled announcements are due at a
// given instant and renders them as Discord embeds. The evaluation
// functions are pure: they look only at the clock, the calendar and the
// sent-predicate handed to them.
package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/calendar"
)

// Kind identifies the rule that produced a reminder.
type Kind int

const (
	KindPrePatch Kind = iota
	KindNotesPublished
	KindClashFormation
	KindClashMorning
	KindClashFinal
)

// Reminder is one due announcement with its deterministic id. The id
// is the idempotency key the ledger records after delivery.
type Reminder struct {
	ID        string
	Kind      Kind
	PatchDate time.Time
	Event     calendar.ClashEvent
	Day       time.Time
	Remaining time.Duration
}

// Evaluator applies the reminder rules against the calendar store.
//
// Triggers match on a window [trigger, trigger+Tick) rather than exact
// minute equality, so a tick landing anywhere inside the window fires
// the rule once. Downtime spanning a whole window still misses that
// reminder permanently.
type Evaluator struct {
	Store *calendar.Store
	Tick  time.Duration
}

// NewEvaluator creates an evaluator on the standard 1-minute tick.
func NewEvaluator(store *calendar.Store) *Evaluator {
	return &Evaluator{Store: store, Tick: time.Minute}
}

func (e *Evaluator) dueAt(now, trigger time.Time) bool {
	return !now.Before(trigger) && now.Before(trigger.Add(e.Tick))
}

// PrePatch returns the pre-patch reminder due at now, or nil. Trigger:
// 10:00 the day before a patch date. At most one per tick.
func (e *Evaluator) PrePatch(now time.Time, sent func(string) bool) *Reminder {
	for _, d := range e.Store.PatchDates {
		trigger := time.Date(d.Year(), d.Month(), d.Day()-1, 10, 0, 0, 0, d.Location())
		id := calendar.DateKey(d) + "-prepatch"
		if e.dueAt(now, trigger) && !sent(id) {
			// Ranked queues go down at 01:30 on patch day.
			disable := time.Date(d.Year(), d.Month(), d.Day(), 1, 30, 0, 0, d.Location())
			return &Reminder{
				ID:        id,
				Kind:      KindPrePatch,
				PatchDate: d,
				Remaining: disable.Sub(now),
			}
		}
	}
	return nil
}

// NotesPublished returns the notes-published reminder due at now, or
// nil. Trigger: midnight on the patch date. The caller must confirm
// the scraped article URL before delivering and recording, so a failed
// lookup retries while the window is open.
func (e *Evaluator) NotesPublished(now time.Time, sent func(string) bool) *Reminder {
	for _, d := range e.Store.PatchDates {
		id := calendar.DateKey(d) + "-notes-published"
		if e.dueAt(now, d) && !sent(id) {
			return &Reminder{ID: id, Kind: KindNotesPublished, PatchDate: d}
		}
	}
	return nil
}

// URLConfirmsPatch reports whether the article URL carries the patch
// date token, or the previous day's to tolerate the UTC/local offset.
func URLConfirmsPatch(url string, patchDate time.Time) bool {
	return strings.Contains(url, calendar.DateKey(patchDate)) ||
		strings.Contains(url, calendar.DateKey(patchDate.AddDate(0, 0, -1)))
}

// UnscheduledCheckDue reports whether this tick should run the
// unscheduled-patch detection (every 30 minutes on the clock).
func (e *Evaluator) UnscheduledCheckDue(now time.Time) bool {
	return now.Minute()%30 == 0
}

// ClashDue returns every Clash reminder due at now. Unlike the patch
// rules there is no short-circuit: coinciding trigger windows of
// independent events all fire in the same tick.
func (e *Evaluator) ClashDue(now time.Time, sent func(string) bool) []Reminder {
	var due []Reminder
	for _, ev := range e.Store.Events {
		f := ev.TeamFormationStart
		formationID := fmt.Sprintf("%s-%s-formation", ev.Name, calendar.DateKey(f))
		trigger := time.Date(f.Year(), f.Month(), f.Day(), 10, 0, 0, 0, f.Location())
		if e.dueAt(now, trigger) && !sent(formationID) {
			due = append(due, Reminder{
				ID:        formationID,
				Kind:      KindClashFormation,
				Event:     ev,
				Remaining: ev.TournamentDays[0].Sub(now),
			})
		}

		for _, day := range ev.TournamentDays {
			morningID := fmt.Sprintf("%s-%s-morning", ev.Name, calendar.DateKey(day))
			morning := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, day.Location())
			if e.dueAt(now, morning) && !sent(morningID) {
				confirmStart := time.Date(day.Year(), day.Month(), day.Day(), 17, 0, 0, 0, day.Location())
				due = append(due, Reminder{
					ID:        morningID,
					Kind:      KindClashMorning,
					Event:     ev,
					Day:       day,
					Remaining: confirmStart.Sub(now),
				})
			}

			finalID := fmt.Sprintf("%s-%s-final", ev.Name, calendar.DateKey(day))
			final := time.Date(day.Year(), day.Month(), day.Day(), 18, 50, 0, 0, day.Location())
			if e.dueAt(now, final) && !sent(finalID) {
				confirmEnd := time.Date(day.Year(), day.Month(), day.Day(), 19, 0, 0, 0, day.Location())
				due = append(due, Reminder{
					ID:        finalID,
					Kind:      KindClashFinal,
					Event:     ev,
					Day:       day,
					Remaining: confirmEnd.Sub(now),
				})
			}
		}
	}
	return due
}
