// Package engine classifies submitted identifiers as novel or duplicate and
// attributes duplicates to their known submitters.
package engine

import (
	"sync"

	"dedup-telegram-bot/authors"
	"dedup-telegram-bot/identifier"
	"dedup-telegram-bot/ledger"
	"dedup-telegram-bot/window"
)

// Attribution warns that the current author shares an identifier with
// other known submitters. Others holds display names in first-submission
// order and never includes the current author.
type Attribution struct {
	Kind   identifier.Kind
	Value  string
	Others []string
}

// Result is the outcome of processing one message.
type Result struct {
	// DuplicateCount and Duplicates cover every duplicate occurrence in
	// submission order, repeats within the same message included.
	DuplicateCount int
	Duplicates     []string

	// Attributions are computed once per distinct identifier in the
	// message, regardless of how many times it was typed.
	Attributions []Attribution

	PhonesToday  int
	HandlesToday int
	PhonesMonth  int
	HandlesMonth int
}

// SnapshotRow is one line of the read-only per-author dump.
type SnapshotRow struct {
	authors.Snapshot
	DisplayName string
}

// Engine orchestrates the window tracker, the per-author store, and the
// global ledger. A single mutex serializes every operation, so a message
// is always processed atomically with respect to shared state.
type Engine struct {
	mu      sync.Mutex
	tracker *window.Tracker
	store   *authors.Store
	ledger  *ledger.Ledger
}

// New creates an engine over the given collaborators.
func New(tracker *window.Tracker, store *authors.Store, ldg *ledger.Ledger) *Engine {
	return &Engine{tracker: tracker, store: store, ledger: ldg}
}

type token struct {
	kind  identifier.Kind
	value string
}

// Process runs the per-message algorithm: apply window rollovers, classify
// each token (phones first, then handles), update the ledger, and build
// the duplicate and attribution reports. Empty token lists are valid and
// yield a zero-duplicate result with current counters.
func (e *Engine) Process(chatID int64, author ledger.Author, phones, handles []string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	dayKey, monthKey := e.tracker.Keys()
	state := e.store.Get(chatID, author.ID, dayKey, monthKey)
	state.Roll(dayKey, monthKey)

	var res Result
	var distinct []token
	seen := make(map[token]struct{})

	classify := func(kind identifier.Kind, raw string) {
		value := identifier.Normalize(kind, raw)
		if value == "" {
			return
		}
		if e.ledger.RecordAndClassify(kind, value, author) {
			state.Add(kind, value)
		} else {
			res.DuplicateCount++
			res.Duplicates = append(res.Duplicates, value)
		}
		tok := token{kind: kind, value: value}
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			distinct = append(distinct, tok)
		}
	}

	for _, raw := range phones {
		classify(identifier.Phone, raw)
	}
	for _, raw := range handles {
		classify(identifier.Handle, raw)
	}

	for _, tok := range distinct {
		owners := e.ledger.OwnersOf(tok.kind, tok.value)
		if len(owners) < 2 {
			continue
		}
		others := make([]string, 0, len(owners)-1)
		for _, o := range owners {
			if o.ID != author.ID {
				others = append(others, o.Name)
			}
		}
		if len(others) > 0 {
			res.Attributions = append(res.Attributions, Attribution{
				Kind:   tok.kind,
				Value:  tok.value,
				Others: others,
			})
		}
	}

	res.PhonesToday = len(state.PhonesDay)
	res.HandlesToday = len(state.HandlesDay)
	res.PhonesMonth = len(state.PhonesMonth)
	res.HandlesMonth = len(state.HandlesMonth)
	return res
}

// Seed bulk-loads historical tokens into the ledger as known identifiers
// with no owners. Tokens are normalized here; length filtering belongs to
// the loader.
func (e *Engine) Seed(phones, handles []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	normPhones := make([]string, 0, len(phones))
	for _, p := range phones {
		normPhones = append(normPhones, identifier.NormalizePhone(p))
	}
	normHandles := make([]string, 0, len(handles))
	for _, h := range handles {
		normHandles = append(normHandles, identifier.NormalizeHandle(h))
	}
	e.ledger.Seed(identifier.Phone, normPhones)
	e.ledger.Seed(identifier.Handle, normHandles)
}

// Snapshot returns per-author month/day counters joined with display
// names, for the export and daily summary paths.
func (e *Engine) Snapshot() []SnapshotRow {
	e.mu.Lock()
	defer e.mu.Unlock()

	dayKey, monthKey := e.tracker.Keys()
	base := e.store.SnapshotAll(dayKey, monthKey)
	rows := make([]SnapshotRow, 0, len(base))
	for _, s := range base {
		rows = append(rows, SnapshotRow{
			Snapshot:    s,
			DisplayName: e.ledger.DisplayName(s.AuthorID),
		})
	}
	return rows
}

// KnownCounts returns how many phones and handles the ledger holds.
func (e *Engine) KnownCounts() (phones, handles int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.KnownCount(identifier.Phone), e.ledger.KnownCount(identifier.Handle)
}
