package ledger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LastSeenURL is the single-slot store backing the unscheduled-patch
// check. The stored URL itself is the dedup key: a change means a new
// patch was published.
type LastSeenURL struct {
	mu   sync.Mutex
	path string
	url  string
}

// LoadLastSeenURL reads the slot from path. Missing or unreadable files
// yield an empty slot.
func LoadLastSeenURL(path string) *LastSeenURL {
	s := &LastSeenURL{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Could not read last-seen patch URL, starting empty", "path", path, "error", err)
		}
		return s
	}
	s.url = strings.TrimSpace(string(data))
	return s
}

// URL returns the currently stored URL, empty if none.
func (s *LastSeenURL) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Set overwrites the slot and persists it.
func (s *LastSeenURL) Set(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
	return writeAtomic(s.path, []byte(url+"\n"))
}
