package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"dedup-telegram-bot/authors"
	"dedup-telegram-bot/bot"
	"dedup-telegram-bot/config"
	"dedup-telegram-bot/engine"
	"dedup-telegram-bot/history"
	"dedup-telegram-bot/ledger"
	"dedup-telegram-bot/report"
	"dedup-telegram-bot/scheduler"
	"dedup-telegram-bot/storage"
	"dedup-telegram-bot/window"
)

func main() {
	// .env is optional; real config comes from the YAML file.
	_ = godotenv.Load()

	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("starting dedup bot", "config", configPath)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database initialized", "path", cfg.DBPath)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("failed to initialize Telegram bot", "error", err)
		os.Exit(1)
	}
	slog.Info("telegram bot initialized", "username", api.Self.UserName)

	eng := engine.New(window.New(loc), authors.NewStore(), ledger.New())

	if cfg.HistoryFile != "" {
		seedHistory(eng, cfg.HistoryFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sched := scheduler.New(loc)
	client := &telegramClient{api: api}
	handler := bot.NewHandler(
		eng,
		client,
		client,
		client,
		&chatRegistry{db: db},
		report.NewFormatter(loc),
		bot.WithSummarySchedule(db, sched),
	)

	summaryTime := cfg.SummaryTime
	if stored, err := db.GetSetting(ctx, bot.SummaryTimeKey); err == nil {
		summaryTime = stored
	}
	if err := sched.ScheduleDaily(summaryTime, func() {
		handler.BroadcastDailySummary(context.Background())
	}); err != nil {
		slog.Error("failed to schedule daily summary", "time", summaryTime, "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()
	slog.Info("daily summary scheduled", "time", summaryTime, "timezone", cfg.Timezone)

	slog.Info("starting bot polling")
	run(ctx, api, handler)
	slog.Info("bot stopped")
}

func run(ctx context.Context, api *tgbotapi.BotAPI, handler *bot.Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.From == nil || msg.Text == "" {
				continue
			}
			from := bot.Sender{
				ID:        msg.From.ID,
				Username:  msg.From.UserName,
				FirstName: msg.From.FirstName,
				LastName:  msg.From.LastName,
			}
			if err := handler.HandleMessage(ctx, msg.Chat.ID, msg.Chat.Title, from, msg.Text); err != nil {
				slog.Warn("failed to handle message", "chat_id", msg.Chat.ID, "error", err)
			}
		}
	}
}

func seedHistory(eng *engine.Engine, path string) {
	phones, handles, err := history.Load(path)
	if err != nil {
		// Missing dump is not fatal; the bot just starts cold.
		slog.Warn("skipping history seed", "path", path, "error", err)
		return
	}
	eng.Seed(phones, handles)
	knownPhones, knownHandles := eng.KnownCounts()
	slog.Info("history seeded", "phones", knownPhones, "handles", knownHandles)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// telegramClient adapts the Telegram API to the bot package interfaces.
type telegramClient struct {
	api *tgbotapi.BotAPI
}

func (c *telegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (c *telegramClient) SendDocument(ctx context.Context, chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := c.api.Send(doc)
	return err
}

func (c *telegramClient) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	// Private chats have no member roles; the user owns the chat.
	if chatID == userID {
		return true, nil
	}
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return false, err
	}
	return member.Status == "creator" || member.Status == "administrator", nil
}

// chatRegistry adapts storage.DB to the bot.ChatRegistry interface.
type chatRegistry struct {
	db *storage.DB
}

func (r *chatRegistry) RegisterChat(ctx context.Context, chatID int64, title string) error {
	return r.db.RegisterChat(ctx, chatID, title)
}

func (r *chatRegistry) ListChatIDs(ctx context.Context) ([]int64, error) {
	chats, err := r.db.ListChats(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(chats))
	for _, c := range chats {
		ids = append(ids, c.ID)
	}
	return ids, nil
}
