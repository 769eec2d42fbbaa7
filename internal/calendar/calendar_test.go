package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func testStore(t *testing.T) (*Store, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "champions.txt", "Ahri\nmiss fortune\n\nZed\n")
	writeFile(t, dir, "patch_dates.json", `{"patch_dates": ["2025-06-24", "2025-06-10", "2025-07-08"]}`)
	writeFile(t, dir, "clash_dates.json", `{"clash_events": [
		{"name": "Copa X", "version": "25.12", "team_formation_start": "2025-07-01", "tournament_days": ["2025-07-05", "2025-07-06"]},
		{"name": "Copa W", "version": "25.10", "team_formation_start": "2025-06-02", "tournament_days": ["2025-06-07"]}
	]}`)
	writeFile(t, dir, "clash_info.json", `{
		"horarios": {"titulo": "Horarios de Clash", "niveles": [{"nombre": "Nivel I", "horario": "19:00"}]},
		"premios": {"titulo": "Premios", "descripcion": "Por equipo", "lista": [{"lugar": "1er Lugar", "recompensa": "Capa de la victoria"}]}
	}`)

	return Load(dir, loc), loc
}

func TestLoad(t *testing.T) {
	s, loc := testStore(t)

	require.Len(t, s.PatchDates, 3)
	// Sorted ascending regardless of file order.
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, loc), s.PatchDates[0])
	assert.Equal(t, time.Date(2025, 7, 8, 0, 0, 0, 0, loc), s.PatchDates[2])

	require.Len(t, s.Events, 2)
	assert.Equal(t, "Copa W", s.Events[0].Name)
	assert.Equal(t, "Copa X", s.Events[1].Name)
	require.Len(t, s.Events[1].TournamentDays, 2)

	assert.Equal(t, "Capa de la victoria", s.Info.FirstPlaceReward())
	assert.Equal(t, 3, s.ChampionCount())
}

func TestLoadMissingFiles(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	s := Load(t.TempDir(), loc)

	assert.Empty(t, s.PatchDates)
	assert.Empty(t, s.Events)
	assert.Equal(t, 0, s.ChampionCount())
	// Missing info table falls back to the generic prize.
	assert.Equal(t, "Recompensas épicas", s.Info.FirstPlaceReward())
}

func TestLoadCorruptFile(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "patch_dates.json", "{not json")

	s := Load(dir, loc)
	assert.Empty(t, s.PatchDates)
}

func TestIsChampion(t *testing.T) {
	s, _ := testStore(t)

	assert.True(t, s.IsChampion("ahri"))
	assert.True(t, s.IsChampion("  Ahri "))
	assert.True(t, s.IsChampion("Miss Fortune"))
	assert.False(t, s.IsChampion("teemo"))
}

func TestQueries(t *testing.T) {
	s, loc := testStore(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	next, ok := s.NextPatch(now)
	require.True(t, ok)
	assert.Equal(t, "2025-06-24", DateKey(next))
	assert.Len(t, s.FuturePatches(now), 2)

	ev, ok := s.NextEvent(now)
	require.True(t, ok)
	assert.Equal(t, "Copa X", ev.Name)
	assert.Len(t, s.FutureEvents(now), 1)

	// Past the whole calendar there is nothing left.
	later := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)
	_, ok = s.NextPatch(later)
	assert.False(t, ok)
	_, ok = s.NextEvent(later)
	assert.False(t, ok)
}
