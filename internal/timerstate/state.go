package timerstate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"bingwall/internal/fileutil"
	"bingwall/internal/logging"
)

// State is the persisted timer document: whether scheduled fetching is
// enabled and when the last successful fetch completed.
type State struct {
	Enabled   bool   `json:"enabled"`
	LastFetch string `json:"last_fetch,omitempty"` // RFC 3339, absent until the first fetch
}

// LastFetchTime parses the last-fetch timestamp. The second return is false
// when no fetch has been recorded or the stored value does not parse.
func (s State) LastFetchTime() (time.Time, bool) {
	if s.LastFetch == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s.LastFetch)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Store provides serialized load-modify-save access to the timer state file.
// Writes rewrite the whole document atomically; concurrent writers across
// processes resolve last-writer-wins.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore creates a store backed by the document at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "timerstate"),
	}
}

// Path returns the backing file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads the current state. A missing or corrupt file yields the zero
// state (disabled, never fetched) so a damaged document never wedges the
// timer.
func (st *Store) Load() State {
	var state State
	data, err := os.ReadFile(st.path)
	if err != nil {
		if !os.IsNotExist(err) {
			st.logger.Warn("read timer state failed",
				logging.String(logging.FieldEventType, "timerstate_read_failed"),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "starting from the default state"))
		}
		return state
	}
	if len(data) == 0 {
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		st.logger.Warn("timer state file is corrupt",
			logging.String(logging.FieldEventType, "timerstate_parse_failed"),
			logging.String(logging.FieldPath, st.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "starting from the default state"))
		return State{}
	}
	return state
}

// Save rewrites the state document.
func (st *Store) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timer state: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(st.path, data, 0o644); err != nil {
		return fmt.Errorf("write timer state: %w", err)
	}
	return nil
}

// SetEnabled flips the enabled flag through a load-modify-save cycle and
// returns the persisted state.
func (st *Store) SetEnabled(enabled bool) (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	state := st.Load()
	state.Enabled = enabled
	if err := st.Save(state); err != nil {
		return State{}, err
	}
	return state, nil
}

// RecordFetch stamps the last successful fetch time and persists it.
func (st *Store) RecordFetch(now time.Time) (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	state := st.Load()
	state.LastFetch = now.Format(time.RFC3339)
	if err := st.Save(state); err != nil {
		return State{}, err
	}
	return state, nil
}
