// Package authors holds the per-(chat, author) rolling window state: which
// identifiers an author has newly contributed today and this month.
package authors

import (
	"sort"

	"dedup-telegram-bot/identifier"
	"dedup-telegram-bot/window"
)

// Key identifies one author in one chat.
type Key struct {
	ChatID   int64
	AuthorID int64
}

// State is an author's rolling window record. Day and month sets hold
// normalized identifiers first contributed by this author since the last
// reset of the corresponding window.
type State struct {
	DayKey   string
	MonthKey string

	PhonesDay    map[string]struct{}
	HandlesDay   map[string]struct{}
	PhonesMonth  map[string]struct{}
	HandlesMonth map[string]struct{}
}

func newState(dayKey, monthKey string) *State {
	return &State{
		DayKey:       dayKey,
		MonthKey:     monthKey,
		PhonesDay:    make(map[string]struct{}),
		HandlesDay:   make(map[string]struct{}),
		PhonesMonth:  make(map[string]struct{}),
		HandlesMonth: make(map[string]struct{}),
	}
}

// Roll applies day and month rollovers against the current window keys.
// The month key is a prefix of the day key, so a month change always
// arrives together with a day change and both subsets end up cleared.
func (s *State) Roll(dayKey, monthKey string) {
	if window.Rolled(s.DayKey, dayKey) {
		s.DayKey = dayKey
		s.PhonesDay = make(map[string]struct{})
		s.HandlesDay = make(map[string]struct{})
	}
	if window.Rolled(s.MonthKey, monthKey) {
		s.MonthKey = monthKey
		s.PhonesMonth = make(map[string]struct{})
		s.HandlesMonth = make(map[string]struct{})
	}
}

// Add records a normalized identifier into the author's day and month sets.
func (s *State) Add(kind identifier.Kind, value string) {
	if kind == identifier.Phone {
		s.PhonesDay[value] = struct{}{}
		s.PhonesMonth[value] = struct{}{}
		return
	}
	s.HandlesDay[value] = struct{}{}
	s.HandlesMonth[value] = struct{}{}
}

// Store maps (chat, author) pairs to their window state. Entries are
// created lazily and live for the process lifetime; resets clear subsets
// in place, never the record itself. The store performs no locking of its
// own; the engine serializes access.
type Store struct {
	states map[Key]*State
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{states: make(map[Key]*State)}
}

// Get returns the state for (chatID, authorID), creating a fresh one with
// the given window keys if none exists. Never returns nil.
func (st *Store) Get(chatID, authorID int64, dayKey, monthKey string) *State {
	k := Key{ChatID: chatID, AuthorID: authorID}
	s, ok := st.states[k]
	if !ok {
		s = newState(dayKey, monthKey)
		st.states[k] = s
	}
	return s
}

// Snapshot is one row of the read-only dump used by the export and daily
// summary paths.
type Snapshot struct {
	ChatID       int64
	AuthorID     int64
	PhonesDay    int
	HandlesDay   int
	PhonesMonth  int
	HandlesMonth int
}

// SnapshotAll returns counters for every known author, ordered by chat then
// author for stable output. Window subsets whose stored key no longer
// matches the given current key are reported as zero: an author idle since
// yesterday has nothing "today" even though their day set has not been
// lazily cleared yet.
func (st *Store) SnapshotAll(dayKey, monthKey string) []Snapshot {
	rows := make([]Snapshot, 0, len(st.states))
	for k, s := range st.states {
		row := Snapshot{ChatID: k.ChatID, AuthorID: k.AuthorID}
		if !window.Rolled(s.DayKey, dayKey) {
			row.PhonesDay = len(s.PhonesDay)
			row.HandlesDay = len(s.HandlesDay)
		}
		if !window.Rolled(s.MonthKey, monthKey) {
			row.PhonesMonth = len(s.PhonesMonth)
			row.HandlesMonth = len(s.HandlesMonth)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ChatID != rows[j].ChatID {
			return rows[i].ChatID < rows[j].ChatID
		}
		return rows[i].AuthorID < rows[j].AuthorID
	})
	return rows
}
