package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndHas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_reminders.json")
	l := Load(path)

	assert.False(t, l.Has("2025-06-10-prepatch"))
	require.NoError(t, l.Record(DomainPatch, "2025-06-10-prepatch"))
	assert.True(t, l.Has("2025-06-10-prepatch"))
}

func TestRecordIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_reminders.json")
	l := Load(path)

	require.NoError(t, l.Record(DomainClash, "Copa X-2025-07-05-final"))
	require.NoError(t, l.Record(DomainClash, "Copa X-2025-07-05-final"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var ff fileFormat
	require.NoError(t, json.Unmarshal(data, &ff))
	assert.Equal(t, []string{"Copa X-2025-07-05-final"}, ff.ClashRemindersSent)
	assert.Empty(t, ff.PatchRemindersSent)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_reminders.json")

	l := Load(path)
	require.NoError(t, l.Record(DomainPatch, "a"))
	require.NoError(t, l.Record(DomainClash, "b"))

	reloaded := Load(path)
	assert.True(t, reloaded.Has("a"))
	assert.True(t, reloaded.Has("b"))
	assert.False(t, reloaded.Has("c"))
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_reminders.json")

	l := Load(path)
	assert.False(t, l.Has("anything"))

	// And the first record after an empty load persists fine.
	require.NoError(t, l.Record(DomainPatch, "2025-06-10-notes-published"))
	assert.True(t, Load(path).Has("2025-06-10-notes-published"))
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_reminders.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	l := Load(path)
	assert.False(t, l.Has("a"))

	// Recording over a corrupt file replaces it with valid state.
	require.NoError(t, l.Record(DomainPatch, "a"))
	assert.True(t, Load(path).Has("a"))
}

func TestRecordCreatesStateDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "sent_reminders.json")
	l := Load(path)

	require.NoError(t, l.Record(DomainPatch, "a"))
	assert.True(t, Load(path).Has("a"))
}

func TestLastSeenURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_patch_url.txt")

	s := LoadLastSeenURL(path)
	assert.Equal(t, "", s.URL())

	require.NoError(t, s.Set("https://example.com/news/game-updates/patch-25-12-notes/"))
	assert.Equal(t, "https://example.com/news/game-updates/patch-25-12-notes/", s.URL())

	reloaded := LoadLastSeenURL(path)
	assert.Equal(t, "https://example.com/news/game-updates/patch-25-12-notes/", reloaded.URL())
}
