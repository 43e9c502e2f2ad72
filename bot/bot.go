// Package bot routes inbound Telegram updates to the dedup engine and
// renders replies. Transport, persistence, and the engine are reached
// through small interfaces so handlers stay testable.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"dedup-telegram-bot/engine"
	"dedup-telegram-bot/export"
	"dedup-telegram-bot/extract"
	"dedup-telegram-bot/ledger"
	"dedup-telegram-bot/report"
)

// MessageSender sends text replies.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// DocumentSender sends file replies.
type DocumentSender interface {
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error
}

// Deduper is the engine surface the handlers need.
type Deduper interface {
	Process(chatID int64, author ledger.Author, phones, handles []string) engine.Result
	Snapshot() []engine.SnapshotRow
}

// AdminChecker reports whether a user may run privileged commands in a chat.
type AdminChecker interface {
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// ChatRegistry tracks chats that receive the daily summary.
type ChatRegistry interface {
	RegisterChat(ctx context.Context, chatID int64, title string) error
	ListChatIDs(ctx context.Context) ([]int64, error)
}

// SettingsStore persists key/value settings.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// ScheduleUpdater reschedules the daily summary job.
type ScheduleUpdater interface {
	ScheduleDaily(timeStr string, fn func()) error
}

// SummaryTimeKey is the settings key holding the daily summary time.
const SummaryTimeKey = "summary_time"

// Sender identifies the author of an inbound message.
type Sender struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName is the handle if present, else the free-text name, else
// "Unknown".
func (s Sender) DisplayName() string {
	if s.Username != "" {
		return "@" + s.Username
	}
	name := strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
	if name == "" {
		return "Unknown"
	}
	return name
}

// Handler processes inbound messages and commands.
type Handler struct {
	deduper   Deduper
	sender    MessageSender
	docs      DocumentSender
	admin     AdminChecker
	chats     ChatRegistry
	settings  SettingsStore
	scheduler ScheduleUpdater
	formatter *report.Formatter
	now       func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the handler's clock.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithSummarySchedule wires the settings store and scheduler behind the
// /summary command. Without it the command reports that rescheduling is
// unavailable.
func WithSummarySchedule(settings SettingsStore, scheduler ScheduleUpdater) Option {
	return func(h *Handler) {
		h.settings = settings
		h.scheduler = scheduler
	}
}

// NewHandler creates a handler over the given collaborators.
func NewHandler(
	deduper Deduper,
	sender MessageSender,
	docs DocumentSender,
	admin AdminChecker,
	chats ChatRegistry,
	formatter *report.Formatter,
	opts ...Option,
) *Handler {
	h := &Handler{
		deduper:   deduper,
		sender:    sender,
		docs:      docs,
		admin:     admin,
		chats:     chats,
		formatter: formatter,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleMessage dispatches one inbound text message.
func (h *Handler) HandleMessage(ctx context.Context, chatID int64, chatTitle string, from Sender, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	switch {
	case text == "/start" || strings.HasPrefix(text, "/start@"):
		return h.handleStart(ctx, chatID, chatTitle)
	case text == "/stats" || strings.HasPrefix(text, "/stats@"):
		return h.handleStats(ctx, chatID, from)
	case text == "/export" || strings.HasPrefix(text, "/export@"):
		return h.handleExport(ctx, chatID, from)
	case strings.HasPrefix(text, "/summary"):
		args := ""
		if i := strings.IndexByte(text, ' '); i >= 0 {
			args = strings.TrimSpace(text[i+1:])
		}
		return h.handleSummaryTime(ctx, chatID, from, args)
	case strings.HasPrefix(text, "/"):
		// Unknown command, stay quiet.
		return nil
	}

	return h.handleText(ctx, chatID, from, text)
}

func (h *Handler) handleStart(ctx context.Context, chatID int64, chatTitle string) error {
	if err := h.chats.RegisterChat(ctx, chatID, chatTitle); err != nil {
		return fmt.Errorf("register chat: %w", err)
	}

	msg := "👋 Duplicate watch is on.\n\n" +
		"Every phone number and @username posted here is checked against " +
		"everything seen before, and re-submissions are flagged with their " +
		"previous submitters.\n\n" +
		"Commands:\n" +
		"/stats - Your counters for today and this month\n" +
		"/export - Monthly report spreadsheet (admins only)\n" +
		"/summary HH:MM - Change the daily summary time (admins only)"

	return h.sender.SendMessage(ctx, chatID, msg)
}

func (h *Handler) handleStats(ctx context.Context, chatID int64, from Sender) error {
	author := ledger.Author{ID: from.ID, Name: from.DisplayName()}
	// Processing with no tokens applies rollovers and returns counters.
	res := h.deduper.Process(chatID, author, nil, nil)
	return h.sender.SendMessage(ctx, chatID, h.formatter.Stats(author.Name, res))
}

func (h *Handler) handleExport(ctx context.Context, chatID int64, from Sender) error {
	ok, err := h.admin.IsAdmin(ctx, chatID, from.ID)
	if err != nil {
		slog.Warn("admin check failed", "chat_id", chatID, "user_id", from.ID, "error", err)
		ok = false
	}
	if !ok {
		return h.sender.SendMessage(ctx, chatID, "⛔ /export is for chat admins only.")
	}

	data, err := export.Workbook(h.deduper.Snapshot())
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	name := fmt.Sprintf("report-%s.xlsx", h.now().Format("2006-01"))
	return h.docs.SendDocument(ctx, chatID, name, data)
}

var summaryTimeRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

func (h *Handler) handleSummaryTime(ctx context.Context, chatID int64, from Sender, args string) error {
	ok, err := h.admin.IsAdmin(ctx, chatID, from.ID)
	if err != nil {
		slog.Warn("admin check failed", "chat_id", chatID, "user_id", from.ID, "error", err)
		ok = false
	}
	if !ok {
		return h.sender.SendMessage(ctx, chatID, "⛔ /summary is for chat admins only.")
	}

	if h.settings == nil || h.scheduler == nil {
		return h.sender.SendMessage(ctx, chatID, "Summary scheduling is not available.")
	}

	if args == "" {
		current := "not set"
		if v, err := h.settings.GetSetting(ctx, SummaryTimeKey); err == nil {
			current = v
		}
		msg := fmt.Sprintf("Daily summary time: %s\nUpdate with /summary HH:MM", current)
		return h.sender.SendMessage(ctx, chatID, msg)
	}

	if !summaryTimeRegex.MatchString(args) {
		return h.sender.SendMessage(ctx, chatID, "Invalid time format. Use HH:MM (e.g., 09:00, 21:30)")
	}

	if err := h.settings.SetSetting(ctx, SummaryTimeKey, args); err != nil {
		return fmt.Errorf("save summary time: %w", err)
	}
	if err := h.scheduler.ScheduleDaily(args, func() {
		h.BroadcastDailySummary(context.Background())
	}); err != nil {
		return fmt.Errorf("reschedule summary: %w", err)
	}

	return h.sender.SendMessage(ctx, chatID, fmt.Sprintf("✅ Daily summary time updated to %s", args))
}

func (h *Handler) handleText(ctx context.Context, chatID int64, from Sender, text string) error {
	author := ledger.Author{ID: from.ID, Name: from.DisplayName()}
	res := h.deduper.Process(chatID, author, extract.Phones(text), extract.Handles(text))

	slog.Info("processed message",
		"chat_id", chatID,
		"author_id", author.ID,
		"duplicates", res.DuplicateCount,
		"attributions", len(res.Attributions))

	msg := h.formatter.Message(author.Name, author.ID, res, h.now())
	return h.sender.SendMessage(ctx, chatID, msg)
}

// BroadcastDailySummary sends each registered chat its aggregate counts of
// identifiers recorded today. Per-chat failures are logged and skipped.
func (h *Handler) BroadcastDailySummary(ctx context.Context) {
	chatIDs, err := h.chats.ListChatIDs(ctx)
	if err != nil {
		slog.Warn("failed to list chats for daily summary", "error", err)
		return
	}
	if len(chatIDs) == 0 {
		return
	}

	rows := h.deduper.Snapshot()
	byChat := make(map[int64][]engine.SnapshotRow)
	for _, r := range rows {
		byChat[r.ChatID] = append(byChat[r.ChatID], r)
	}

	now := h.now()
	for _, chatID := range chatIDs {
		msg := h.formatter.DailySummary(byChat[chatID], now)
		if err := h.sender.SendMessage(ctx, chatID, msg); err != nil {
			slog.Warn("failed to send daily summary", "chat_id", chatID, "error", err)
		}
	}
}
