// Package ledger is the process-wide record of every identifier ever seen,
// who has submitted each one, and the latest display name per author.
package ledger

import "dedup-telegram-bot/identifier"

// Author is a stable numeric account id plus a best-effort display name.
// The id is the identity; the name is mutable, last seen wins.
type Author struct {
	ID   int64
	Name string
}

// ownerSet is an insertion-ordered set of author ids. Attribution output
// follows first-submission order, so plain maps are not enough.
type ownerSet struct {
	index map[int64]struct{}
	order []int64
}

func newOwnerSet() *ownerSet {
	return &ownerSet{index: make(map[int64]struct{})}
}

func (o *ownerSet) add(id int64) {
	if _, ok := o.index[id]; ok {
		return
	}
	o.index[id] = struct{}{}
	o.order = append(o.order, id)
}

// Ledger holds the known-identifier sets, the owner sets, and the display
// name directory. Entries are only ever added. The ledger performs no
// locking; the engine serializes access.
type Ledger struct {
	known  map[identifier.Kind]map[string]struct{}
	owners map[identifier.Kind]map[string]*ownerSet
	names  map[int64]string
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		known: map[identifier.Kind]map[string]struct{}{
			identifier.Phone:  make(map[string]struct{}),
			identifier.Handle: make(map[string]struct{}),
		},
		owners: map[identifier.Kind]map[string]*ownerSet{
			identifier.Phone:  make(map[string]*ownerSet),
			identifier.Handle: make(map[string]*ownerSet),
		},
		names: make(map[int64]string),
	}
}

// RecordAndClassify registers a submission of a normalized identifier.
// The author joins the identifier's owner set and has their display name
// updated regardless of outcome; the identifier itself is added to the
// known set only on its first appearance. Returns whether this submission
// was that first appearance.
func (l *Ledger) RecordAndClassify(kind identifier.Kind, value string, author Author) (novel bool) {
	_, known := l.known[kind][value]

	set, ok := l.owners[kind][value]
	if !ok {
		set = newOwnerSet()
		l.owners[kind][value] = set
	}
	set.add(author.ID)
	l.recordName(author)

	if !known {
		l.known[kind][value] = struct{}{}
	}
	return !known
}

func (l *Ledger) recordName(author Author) {
	if author.Name != "" {
		l.names[author.ID] = author.Name
	}
}

// Known reports whether the identifier has ever been recorded or seeded.
func (l *Ledger) Known(kind identifier.Kind, value string) bool {
	_, ok := l.known[kind][value]
	return ok
}

// OwnersOf returns the authors that have submitted the identifier, in
// first-submission order, with their latest display names. Empty for an
// unseen or seed-only identifier.
func (l *Ledger) OwnersOf(kind identifier.Kind, value string) []Author {
	set, ok := l.owners[kind][value]
	if !ok {
		return nil
	}
	out := make([]Author, 0, len(set.order))
	for _, id := range set.order {
		out = append(out, Author{ID: id, Name: l.DisplayName(id)})
	}
	return out
}

// DisplayName returns the latest recorded name for an author id, or
// "Unknown" if none was ever recorded.
func (l *Ledger) DisplayName(id int64) string {
	if name, ok := l.names[id]; ok {
		return name
	}
	return "Unknown"
}

// Seed bulk-loads normalized identifiers as known without attaching any
// owner. A later live submission of a seeded identifier classifies as
// duplicate and makes that submitter the first owner.
func (l *Ledger) Seed(kind identifier.Kind, values []string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		l.known[kind][v] = struct{}{}
	}
}

// KnownCount returns how many identifiers of a kind the ledger holds.
func (l *Ledger) KnownCount(kind identifier.Kind) int {
	return len(l.known[kind])
}
