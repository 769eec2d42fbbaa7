// Package scheduler drives the reminder engine: two recurring checks
// (patch, Clash) on a fixed 1-minute cadence that evaluate the rules,
// deliver newly-due reminders and record them in the ledger.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/ledger"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/patchnotes"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/reminder"
)

// Sender delivers embeds to the announcement channel. Delivery is
// fire-and-forget from the scheduler's perspective: failures are
// logged, never retried.
type Sender interface {
	ChannelResolvable(channelID string) bool
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// PatchSource is the slice of the scraper the scheduled checks need.
type PatchSource interface {
	LatestPatch(ctx context.Context) (*patchnotes.Patch, error)
	SummaryImage(ctx context.Context, patchURL string) (string, error)
}

// Scheduler runs the patch and Clash loops. The two loops share the
// ledger but own disjoint id namespaces, so the ledger's per-operation
// locking is all the coordination they need.
type Scheduler struct {
	eval      *reminder.Evaluator
	ledger    *ledger.Ledger
	lastSeen  *ledger.LastSeenURL
	patches   PatchSource
	sender    Sender
	channelID string

	now  func() time.Time
	tick time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a scheduler on the standard 1-minute tick.
func New(eval *reminder.Evaluator, led *ledger.Ledger, lastSeen *ledger.LastSeenURL, patches PatchSource, sender Sender, channelID string) *Scheduler {
	loc := eval.Store.Location()
	return &Scheduler{
		eval:      eval,
		ledger:    led,
		lastSeen:  lastSeen,
		patches:   patches,
		sender:    sender,
		channelID: channelID,
		now: func() time.Time {
			if loc != nil {
				return time.Now().In(loc)
			}
			return time.Now()
		},
		tick:     time.Minute,
		stopChan: make(chan struct{}),
	}
}

// Start launches the two loops. They run until ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting reminder scheduler", "tick", s.tick, "channel", s.channelID)
	s.wg.Add(2)
	go s.runLoop(ctx, "patch", s.checkPatch)
	go s.runLoop(ctx, "clash", s.checkClash)
}

// Stop signals both loops and waits for them to exit.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, name string, check func(ctx context.Context, now time.Time)) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	check(ctx, s.now())

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler loop stopped (context cancelled)", "loop", name)
			return
		case <-s.stopChan:
			slog.Info("Scheduler loop stopped", "loop", name)
			return
		case <-ticker.C:
			check(ctx, s.now())
		}
	}
}

// checkPatch runs the patch rules in fixed order: pre-patch reminder,
// notes-published announcement, unscheduled-patch detection.
func (s *Scheduler) checkPatch(ctx context.Context, now time.Time) {
	if !s.sender.ChannelResolvable(s.channelID) {
		return
	}

	if r := s.eval.PrePatch(now, s.ledger.Has); r != nil {
		s.deliver(ledger.DomainPatch, r.ID, r.Embed(s.eval.Store.Info))
	}

	if r := s.eval.NotesPublished(now, s.ledger.Has); r != nil {
		s.announceNotes(ctx, r)
	}

	if s.eval.UnscheduledCheckDue(now) {
		s.checkUnscheduled(ctx)
	}
}

// announceNotes confirms the article is really online before firing.
// On lookup failure or a date mismatch the id stays unrecorded, so the
// rule retries while its trigger window is still open.
func (s *Scheduler) announceNotes(ctx context.Context, r *reminder.Reminder) {
	patch, err := s.patches.LatestPatch(ctx)
	if err != nil {
		slog.Warn("Could not fetch latest patch for notes announcement", "id", r.ID, "error", err)
		return
	}
	if !reminder.URLConfirmsPatch(patch.URL, r.PatchDate) {
		slog.Info("Latest article does not match expected patch date yet", "id", r.ID, "url", patch.URL)
		return
	}
	s.deliver(ledger.DomainPatch, r.ID, reminder.NotesPublishedEmbed(patch.Title, patch.URL))
}

// checkUnscheduled compares the latest article URL against the
// persisted last-seen slot; any change means a patch landed that was
// not in the calendar. The URL itself is the dedup key.
func (s *Scheduler) checkUnscheduled(ctx context.Context) {
	patch, err := s.patches.LatestPatch(ctx)
	if err != nil {
		slog.Warn("Unscheduled-patch check failed", "error", err)
		return
	}
	if patch.URL == s.lastSeen.URL() {
		return
	}

	slog.Info("New patch detected by page check", "title", patch.Title, "url", patch.URL)

	imageURL, err := s.patches.SummaryImage(ctx, patch.URL)
	if err != nil {
		slog.Warn("Could not fetch patch summary image", "error", err)
		imageURL = ""
	}

	embed := reminder.NewPatchDetectedEmbed(patch.Title, patch.URL, patch.Published, imageURL)
	if err := s.sender.SendEmbed(s.channelID, embed); err != nil {
		slog.Error("Failed to announce detected patch", "error", err)
		return
	}
	if err := s.lastSeen.Set(patch.URL); err != nil {
		slog.Error("Failed to persist last-seen patch URL", "error", err)
	}
}

// checkClash fires every due Clash reminder; independent events whose
// windows coincide all go out in the same tick.
func (s *Scheduler) checkClash(ctx context.Context, now time.Time) {
	if !s.sender.ChannelResolvable(s.channelID) {
		return
	}

	for _, r := range s.eval.ClashDue(now, s.ledger.Has) {
		s.deliver(ledger.DomainClash, r.ID, r.Embed(s.eval.Store.Info))
	}
}

// deliver sends the embed, then records the id write-through. A failed
// send leaves the id unrecorded (retry only while the window is open);
// a failed persist is logged and the loop keeps ticking.
func (s *Scheduler) deliver(domain ledger.Domain, id string, embed *discordgo.MessageEmbed) {
	if err := s.sender.SendEmbed(s.channelID, embed); err != nil {
		slog.Error("Failed to deliver reminder", "id", id, "error", err)
		return
	}
	slog.Info("Reminder delivered", "id", id)

	if err := s.ledger.Record(domain, id); err != nil {
		slog.Error("Failed to persist reminder ledger", "id", id, "error", err)
	}
}
