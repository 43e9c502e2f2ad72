package report

import (
	"strings"
	"testing"
	"time"

	"dedup-telegram-bot/authors"
	"dedup-telegram-bot/engine"
	"dedup-telegram-bot/identifier"
)

var testTime = time.Date(2025, time.March, 7, 15, 4, 5, 0, time.UTC)

func TestMessageNoDuplicates(t *testing.T) {
	f := NewFormatter(time.UTC)
	res := engine.Result{PhonesToday: 2, HandlesToday: 1, PhonesMonth: 5, HandlesMonth: 3}

	msg := f.Message("@alice", 1, res, testTime)

	for _, want := range []string{
		"👤 User: @alice 1",
		"📝 Duplicate: None",
		"📱 Phone Numbers Today: 2",
		"@ Username Count Today: 1",
		"📈 Daily Increase: 3",
		"📊 Monthly Total: 8",
		"📅 Time: 3/7/2025, 3:04:05 PM",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "sharing") {
		t.Errorf("unexpected attribution line:\n%s", msg)
	}
}

func TestMessageWithDuplicatesAndAttribution(t *testing.T) {
	f := NewFormatter(time.UTC)
	res := engine.Result{
		DuplicateCount: 2,
		Duplicates:     []string{"0912345678", "@john"},
		Attributions: []engine.Attribution{
			{Kind: identifier.Phone, Value: "0912345678", Others: []string{"Alice", "Carol"}},
			{Kind: identifier.Handle, Value: "@john", Others: []string{"Alice"}},
		},
	}

	msg := f.Message("@bob", 2, res, testTime)

	if !strings.Contains(msg, "📝 Duplicate: ⚠️ 0912345678, @john (2)") {
		t.Errorf("duplicate summary wrong:\n%s", msg)
	}
	if !strings.Contains(msg, "⚠️ @bob you are sharing number 0912345678 with Alice, Carol") {
		t.Errorf("phone attribution line wrong:\n%s", msg)
	}
	if !strings.Contains(msg, "⚠️ @bob you are sharing @john with Alice") {
		t.Errorf("handle attribution line wrong:\n%s", msg)
	}
}

func TestMessageTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+6:30", 6*3600+1800)
	f := NewFormatter(loc)

	msg := f.Message("@alice", 1, engine.Result{}, testTime)
	// 15:04 UTC is 21:34 in UTC+6:30.
	if !strings.Contains(msg, "📅 Time: 3/7/2025, 9:34:05 PM") {
		t.Errorf("timestamp not rendered in fixed zone:\n%s", msg)
	}
}

func TestStats(t *testing.T) {
	f := NewFormatter(time.UTC)
	res := engine.Result{PhonesToday: 1, HandlesToday: 2, PhonesMonth: 3, HandlesMonth: 4}

	msg := f.Stats("@alice", res)
	for _, want := range []string{
		"Stats for @alice",
		"📱 Phone Numbers Today: 1",
		"@ Usernames Today: 2",
		"📱 Phone Numbers This Month: 3",
		"@ Usernames This Month: 4",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("stats missing %q:\n%s", want, msg)
		}
	}
}

func TestDailySummary(t *testing.T) {
	f := NewFormatter(time.UTC)
	rows := []engine.SnapshotRow{
		{Snapshot: snapshotWith(1, 2, 0), DisplayName: "Alice"},
		{Snapshot: snapshotWith(2, 0, 1), DisplayName: "Bob"},
		{Snapshot: snapshotWith(3, 0, 0), DisplayName: "Idle"},
	}

	msg := f.DailySummary(rows, testTime)
	for _, want := range []string{
		"📋 Daily Summary — 2025-03-07",
		"📱 New Phone Numbers: 2",
		"@ New Usernames: 1",
		"👥 Active Submitters: 2",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("summary missing %q:\n%s", want, msg)
		}
	}
}

func snapshotWith(authorID int64, phonesDay, handlesDay int) authors.Snapshot {
	return authors.Snapshot{
		ChatID:     100,
		AuthorID:   authorID,
		PhonesDay:  phonesDay,
		HandlesDay: handlesDay,
	}
}
