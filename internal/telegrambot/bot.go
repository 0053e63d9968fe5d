// Package telegrambot is the chat transport: it routes Telegram updates to
// the meal logging service and renders replies. All nutrition logic lives
// below it.
package telegrambot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
	"github.com/mealgram/nutrition-bot/internal/resolver"
)

const (
	// MaxMessageSize is the maximum size for a single Telegram message part.
	MaxMessageSize = 4000

	updateTimeoutSeconds = 60
	handleTimeout        = 2 * time.Minute
)

// Command names.
const (
	CmdStart  = "start"
	CmdHelp   = "help"
	CmdGoal   = "goal"
	CmdToday  = "today"
	CmdReport = "report"
	CmdUndo   = "undo"
)

// Log field names.
const (
	LogFieldChatID  = "chat_id"
	LogFieldCommand = "command"
)

// Repository is the storage surface the bot handlers depend on.
type Repository interface {
	UpsertUserGoal(ctx context.Context, chatID int64, goalKcal int) error
	GetUserGoal(ctx context.Context, chatID int64) (int, error)
	MealsForDay(ctx context.Context, chatID int64, dayStart, dayEnd time.Time) ([]domain.Meal, error)
	DailySummary(ctx context.Context, chatID int64, dayStart, dayEnd time.Time) (*domain.DailySummary, error)
	DeleteLastMeal(ctx context.Context, chatID int64) (string, error)
}

// MealLogger logs a free-text meal for a chat user.
type MealLogger interface {
	LogMeal(ctx context.Context, chatID int64, text string) (*resolver.LogResult, error)
}

type Bot struct {
	database Repository
	meals    MealLogger
	api      *tgbotapi.BotAPI
	location *time.Location
	logger   *zerolog.Logger
}

func New(token string, database Repository, meals MealLogger, location *time.Location, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}

	if location == nil {
		location = time.UTC
	}

	return &Bot{
		database: database,
		meals:    meals,
		api:      api,
		location: location,
		logger:   logger,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("bot run context canceled: %w", ctx.Err())
		case update := <-updates:
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}

			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if msg.IsCommand() {
		b.logger.Info().Str(LogFieldCommand, msg.Command()).Int64(LogFieldChatID, msg.Chat.ID).Msg("Handling command")
		b.handleCommand(ctx, msg)

		return
	}

	b.handleMealText(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case CmdStart:
		b.handleStart(msg)
	case CmdHelp:
		b.handleHelp(msg)
	case CmdGoal:
		b.handleGoal(ctx, msg)
	case CmdToday:
		b.handleToday(ctx, msg)
	case CmdReport:
		b.handleReport(ctx, msg)
	case CmdUndo:
		b.handleUndo(ctx, msg)
	default:
		b.reply(msg, "Unknown command. Try /help.")
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	for _, part := range SplitMessage(text, MaxMessageSize) {
		reply := tgbotapi.NewMessage(chatID, part)
		reply.ParseMode = tgbotapi.ModeHTML

		if _, err := b.api.Send(reply); err != nil {
			b.logger.Error().Err(err).Int64(LogFieldChatID, chatID).Msg("failed to send reply")
		}
	}
}
