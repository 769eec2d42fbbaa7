// Package ledger persists the bot's small mutable state: the set of
// reminder ids already delivered and the last patch URL seen by the
// unscheduled-patch check. Both stores are rewritten wholesale on every
// mutation; at this volume (tens of ids per year) an append log would
// be overkill.
package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Domain selects which id list a reminder belongs to. The uniqueness
// guarantee spans both lists; the split only mirrors the file layout.
type Domain string

const (
	DomainPatch Domain = "patch"
	DomainClash Domain = "clash"
)

// fileFormat is the on-disk shape of sent_reminders.json.
type fileFormat struct {
	PatchRemindersSent []string `json:"patch_reminders_sent"`
	ClashRemindersSent []string `json:"clash_reminders_sent"`
}

// Ledger is the durable record of reminder ids already delivered.
// Safe for concurrent use by the patch and Clash scheduler loops.
type Ledger struct {
	mu    sync.Mutex
	path  string
	patch []string
	clash []string
	seen  map[string]struct{}
}

// Load reads the ledger from path. A missing file yields an empty
// ledger; a corrupt file yields an empty ledger plus a warning. Load
// never fails.
func Load(path string) *Ledger {
	l := &Ledger{path: path, seen: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Info("No reminder ledger on disk, starting empty", "path", path)
		return l
	}
	if err != nil {
		slog.Warn("Could not read reminder ledger, starting empty", "path", path, "error", err)
		return l
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		slog.Warn("Reminder ledger is corrupt, starting empty", "path", path, "error", err)
		return l
	}

	l.patch = ff.PatchRemindersSent
	l.clash = ff.ClashRemindersSent
	for _, id := range l.patch {
		l.seen[id] = struct{}{}
	}
	for _, id := range l.clash {
		l.seen[id] = struct{}{}
	}
	slog.Info("Loaded reminder ledger", "patch", len(l.patch), "clash", len(l.clash))
	return l
}

// Has reports whether id was already recorded.
func (l *Ledger) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

// Record appends id to the given domain and rewrites the backing file.
// Recording an already-present id is a no-op. The in-memory state is
// updated even when persistence fails, so the reminder is not re-sent
// within this process lifetime.
func (l *Ledger) Record(domain Domain, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[id]; ok {
		return nil
	}
	l.seen[id] = struct{}{}
	switch domain {
	case DomainClash:
		l.clash = append(l.clash, id)
	default:
		l.patch = append(l.patch, id)
	}

	data, err := json.MarshalIndent(fileFormat{
		PatchRemindersSent: l.patch,
		ClashRemindersSent: l.clash,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reminder ledger: %w", err)
	}
	if err := writeAtomic(l.path, data); err != nil {
		return fmt.Errorf("failed to persist reminder ledger: %w", err)
	}
	return nil
}

// writeAtomic replaces path via a temp file and rename so a crash
// mid-write cannot corrupt previously recorded state.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
