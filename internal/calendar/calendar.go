// Package calendar holds the static schedule data the bot works from:
// expected patch dates, Clash tournament cycles, Clash info tables and
// the valid champion name set. Everything is loaded once at startup and
// read-only afterwards.
package calendar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DateLayout is the wire format for every calendar date.
const DateLayout = "2006-01-02"

// DateKey formats t the way reminder ids and data files spell dates.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ClashEvent is one tournament cycle.
type ClashEvent struct {
	Name               string
	Version            string
	TeamFormationStart time.Time
	TournamentDays     []time.Time
}

// ClashInfo carries the static schedule/prize tables shown by the
// c!horarios and c!premios commands.
type ClashInfo struct {
	Schedule ScheduleInfo `json:"horarios"`
	Prizes   PrizeInfo    `json:"premios"`
}

type ScheduleInfo struct {
	Title string         `json:"titulo"`
	Tiers []ScheduleTier `json:"niveles"`
}

type ScheduleTier struct {
	Name  string `json:"nombre"`
	Hours string `json:"horario"`
}

type PrizeInfo struct {
	Title       string  `json:"titulo"`
	Description string  `json:"descripcion"`
	List        []Prize `json:"lista"`
}

type Prize struct {
	Place  string `json:"lugar"`
	Reward string `json:"recompensa"`
}

// FirstPlaceReward returns the top prize, or a generic fallback when the
// info table is missing.
func (i ClashInfo) FirstPlaceReward() string {
	if len(i.Prizes.List) > 0 && i.Prizes.List[0].Reward != "" {
		return i.Prizes.List[0].Reward
	}
	return "Recompensas épicas"
}

// Store is the read-only calendar state shared by the scheduler and the
// command handlers.
type Store struct {
	loc        *time.Location
	PatchDates []time.Time
	Events     []ClashEvent
	Info       ClashInfo
	champions  map[string]struct{}
}

// Load reads all calendar files from dataDir. Missing or unparseable
// files degrade to empty defaults with a warning; Load never fails.
func Load(dataDir string, loc *time.Location) *Store {
	s := &Store{loc: loc, champions: make(map[string]struct{})}

	s.loadChampions(filepath.Join(dataDir, "champions.txt"))
	s.loadPatchDates(filepath.Join(dataDir, "patch_dates.json"))
	s.loadClashEvents(filepath.Join(dataDir, "clash_dates.json"))
	s.loadClashInfo(filepath.Join(dataDir, "clash_info.json"))

	return s
}

// Location returns the timezone all calendar dates live in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// IsChampion reports whether name (case-insensitive) is a known champion.
func (s *Store) IsChampion(name string) bool {
	_, ok := s.champions[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ChampionCount returns the number of loaded champion names.
func (s *Store) ChampionCount() int {
	return len(s.champions)
}

// FuturePatches returns the patch dates strictly after now, ascending.
func (s *Store) FuturePatches(now time.Time) []time.Time {
	var out []time.Time
	for _, d := range s.PatchDates {
		if d.After(now) {
			out = append(out, d)
		}
	}
	return out
}

// NextPatch returns the first patch date after now.
func (s *Store) NextPatch(now time.Time) (time.Time, bool) {
	for _, d := range s.PatchDates {
		if d.After(now) {
			return d, true
		}
	}
	return time.Time{}, false
}

// FutureEvents returns the Clash events whose team formation starts
// after now, ascending.
func (s *Store) FutureEvents(now time.Time) []ClashEvent {
	var out []ClashEvent
	for _, e := range s.Events {
		if e.TeamFormationStart.After(now) {
			out = append(out, e)
		}
	}
	return out
}

// NextEvent returns the first Clash event starting after now.
func (s *Store) NextEvent(now time.Time) (ClashEvent, bool) {
	for _, e := range s.Events {
		if e.TeamFormationStart.After(now) {
			return e, true
		}
	}
	return ClashEvent{}, false
}

func (s *Store) loadChampions(path string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("Champion list not found, p!ver validation disabled", "path", path, "error", err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if name != "" {
			s.champions[name] = struct{}{}
		}
	}
	slog.Info("Loaded champion list", "count", len(s.champions))
}

func (s *Store) loadPatchDates(path string) {
	var raw struct {
		PatchDates []string `json:"patch_dates"`
	}
	if !readJSON(path, &raw) {
		return
	}

	for _, ds := range raw.PatchDates {
		d, err := time.ParseInLocation(DateLayout, ds, s.loc)
		if err != nil {
			slog.Warn("Skipping invalid patch date", "date", ds, "error", err)
			continue
		}
		s.PatchDates = append(s.PatchDates, d)
	}
	sort.Slice(s.PatchDates, func(i, j int) bool { return s.PatchDates[i].Before(s.PatchDates[j]) })
	slog.Info("Loaded patch calendar", "count", len(s.PatchDates))
}

func (s *Store) loadClashEvents(path string) {
	var raw struct {
		ClashEvents []struct {
			Name               string   `json:"name"`
			Version            string   `json:"version"`
			TeamFormationStart string   `json:"team_formation_start"`
			TournamentDays     []string `json:"tournament_days"`
		} `json:"clash_events"`
	}
	if !readJSON(path, &raw) {
		return
	}

	for _, re := range raw.ClashEvents {
		ev, err := s.parseEvent(re.Name, re.Version, re.TeamFormationStart, re.TournamentDays)
		if err != nil {
			slog.Warn("Skipping invalid Clash event", "name", re.Name, "error", err)
			continue
		}
		s.Events = append(s.Events, ev)
	}
	sort.Slice(s.Events, func(i, j int) bool {
		return s.Events[i].TeamFormationStart.Before(s.Events[j].TeamFormationStart)
	})
	slog.Info("Loaded Clash calendar", "count", len(s.Events))
}

func (s *Store) parseEvent(name, version, formation string, days []string) (ClashEvent, error) {
	start, err := time.ParseInLocation(DateLayout, formation, s.loc)
	if err != nil {
		return ClashEvent{}, fmt.Errorf("invalid team_formation_start %q: %w", formation, err)
	}
	if len(days) == 0 {
		return ClashEvent{}, fmt.Errorf("event has no tournament days")
	}

	ev := ClashEvent{Name: name, Version: version, TeamFormationStart: start}
	for _, ds := range days {
		d, err := time.ParseInLocation(DateLayout, ds, s.loc)
		if err != nil {
			return ClashEvent{}, fmt.Errorf("invalid tournament day %q: %w", ds, err)
		}
		ev.TournamentDays = append(ev.TournamentDays, d)
	}
	return ev, nil
}

func (s *Store) loadClashInfo(path string) {
	if !readJSON(path, &s.Info) {
		return
	}
	slog.Info("Loaded Clash info", "schedule_tiers", len(s.Info.Schedule.Tiers), "prizes", len(s.Info.Prizes.List))
}

// readJSON decodes path into v, returning false (with a warning) when
// the file is missing or corrupt.
func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Calendar file not found, using empty defaults", "path", path, "error", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("Calendar file is not valid JSON, using empty defaults", "path", path, "error", err)
		return false
	}
	return true
}
