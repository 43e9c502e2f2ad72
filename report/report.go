// Package report renders engine results into reply text.
package report

import (
	"fmt"
	"strings"
	"time"

	"dedup-telegram-bot/engine"
	"dedup-telegram-bot/identifier"
)

const timeLayout = "1/2/2006, 3:04:05 PM"

// Formatter renders replies with timestamps in a fixed location.
type Formatter struct {
	loc *time.Location
}

// NewFormatter creates a formatter for the given location.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// Message renders the full reply for one processed message.
func (f *Formatter) Message(authorName string, authorID int64, res engine.Result, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "👤 User: %s %d\n", authorName, authorID)
	fmt.Fprintf(&sb, "📝 Duplicate: %s\n", duplicateSummary(res))
	fmt.Fprintf(&sb, "📱 Phone Numbers Today: %d\n", res.PhonesToday)
	fmt.Fprintf(&sb, "@ Username Count Today: %d\n", res.HandlesToday)
	fmt.Fprintf(&sb, "📈 Daily Increase: %d\n", res.PhonesToday+res.HandlesToday)
	fmt.Fprintf(&sb, "📊 Monthly Total: %d\n", res.PhonesMonth+res.HandlesMonth)
	fmt.Fprintf(&sb, "📅 Time: %s", now.In(f.loc).Format(timeLayout))

	for _, attr := range res.Attributions {
		sb.WriteString("\n")
		sb.WriteString(AttributionLine(authorName, attr))
	}
	return sb.String()
}

func duplicateSummary(res engine.Result) string {
	if res.DuplicateCount == 0 {
		return "None"
	}
	return fmt.Sprintf("⚠️ %s (%d)", strings.Join(res.Duplicates, ", "), res.DuplicateCount)
}

// AttributionLine renders one sharing warning.
func AttributionLine(authorName string, attr engine.Attribution) string {
	others := strings.Join(attr.Others, ", ")
	if attr.Kind == identifier.Phone {
		return fmt.Sprintf("⚠️ %s you are sharing number %s with %s", authorName, attr.Value, others)
	}
	return fmt.Sprintf("⚠️ %s you are sharing %s with %s", authorName, attr.Value, others)
}

// Stats renders the /stats reply for one author.
func (f *Formatter) Stats(authorName string, res engine.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Stats for %s\n\n", authorName)
	fmt.Fprintf(&sb, "📱 Phone Numbers Today: %d\n", res.PhonesToday)
	fmt.Fprintf(&sb, "@ Usernames Today: %d\n", res.HandlesToday)
	fmt.Fprintf(&sb, "📱 Phone Numbers This Month: %d\n", res.PhonesMonth)
	fmt.Fprintf(&sb, "@ Usernames This Month: %d", res.HandlesMonth)
	return sb.String()
}

// DailySummary renders the scheduled per-chat broadcast from snapshot rows
// belonging to one chat.
func (f *Formatter) DailySummary(rows []engine.SnapshotRow, now time.Time) string {
	var phones, handles int
	for _, r := range rows {
		phones += r.PhonesDay
		handles += r.HandlesDay
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Daily Summary — %s\n\n", now.In(f.loc).Format("2006-01-02"))
	fmt.Fprintf(&sb, "📱 New Phone Numbers: %d\n", phones)
	fmt.Fprintf(&sb, "@ New Usernames: %d\n", handles)
	fmt.Fprintf(&sb, "👥 Active Submitters: %d", activeCount(rows))
	return sb.String()
}

func activeCount(rows []engine.SnapshotRow) int {
	n := 0
	for _, r := range rows {
		if r.PhonesDay > 0 || r.HandlesDay > 0 {
			n++
		}
	}
	return n
}
