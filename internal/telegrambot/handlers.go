package telegrambot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	coreerrors "github.com/mealgram/nutrition-bot/internal/core/errors"
)

const (
	minGoalKcal = 500
	maxGoalKcal = 10000
)

const helpText = `Send me a meal in plain words and I will log it:
  "two slices of toast with nutella and a coca-cola zero"

Commands:
/goal &lt;kcal&gt; - set your daily calorie goal
/today - today's totals
/report &lt;when&gt; - totals for another day, e.g. /report yesterday
/undo - delete the last logged meal
/help - this message`

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.reply(msg, "Hi! I track what you eat.\n\n"+helpText)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.reply(msg, helpText)
}

func (b *Bot) handleGoal(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.replyCurrentGoal(ctx, msg)

		return
	}

	goal, err := strconv.Atoi(args)
	if err != nil || goal < minGoalKcal || goal > maxGoalKcal {
		b.reply(msg, fmt.Sprintf("Usage: /goal &lt;kcal&gt; with a value between %d and %d.", minGoalKcal, maxGoalKcal))

		return
	}

	if err := b.database.UpsertUserGoal(ctx, msg.Chat.ID, goal); err != nil {
		b.logger.Error().Err(err).Int64(LogFieldChatID, msg.Chat.ID).Msg("failed to set goal")
		b.reply(msg, "Could not save your goal, please try again.")

		return
	}

	b.reply(msg, fmt.Sprintf("Daily goal set to %d kcal.", goal))
}

func (b *Bot) replyCurrentGoal(ctx context.Context, msg *tgbotapi.Message) {
	goal, err := b.database.GetUserGoal(ctx, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, coreerrors.ErrUserNotFound) {
			b.reply(msg, "No goal set yet. Use /goal &lt;kcal&gt; to set one.")

			return
		}

		b.logger.Error().Err(err).Int64(LogFieldChatID, msg.Chat.ID).Msg("failed to read goal")
		b.reply(msg, "Could not read your goal, please try again.")

		return
	}

	b.reply(msg, fmt.Sprintf("Your daily goal is %d kcal.", goal))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) {
	b.sendDayReport(ctx, msg, time.Now().In(b.location))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.handleToday(ctx, msg)

		return
	}

	day, err := parseDay(args, b.location, time.Now().In(b.location))
	if err != nil {
		b.reply(msg, "I could not understand that date. Try /report yesterday or /report 2026-08-30.")

		return
	}

	b.sendDayReport(ctx, msg, day)
}

func (b *Bot) sendDayReport(ctx context.Context, msg *tgbotapi.Message, day time.Time) {
	dayStart, dayEnd := dayBounds(day, b.location)

	summary, err := b.database.DailySummary(ctx, msg.Chat.ID, dayStart, dayEnd)
	if err != nil {
		b.logger.Error().Err(err).Int64(LogFieldChatID, msg.Chat.ID).Msg("failed to build day report")
		b.reply(msg, "Could not build the report, please try again.")

		return
	}

	if goal, err := b.database.GetUserGoal(ctx, msg.Chat.ID); err == nil {
		summary.GoalKcal = goal
	}

	meals, err := b.database.MealsForDay(ctx, msg.Chat.ID, dayStart, dayEnd)
	if err != nil {
		b.logger.Error().Err(err).Int64(LogFieldChatID, msg.Chat.ID).Msg("failed to list meals")
		b.reply(msg, "Could not build the report, please try again.")

		return
	}

	b.reply(msg, FormatDayReport(summary, meals))
}

func (b *Bot) handleUndo(ctx context.Context, msg *tgbotapi.Message) {
	rawText, err := b.database.DeleteLastMeal(ctx, msg.Chat.ID)
	if err != nil {
		b.logger.Error().Err(err).Int64(LogFieldChatID, msg.Chat.ID).Msg("failed to undo meal")
		b.reply(msg, "Could not undo, please try again.")

		return
	}

	if rawText == "" {
		b.reply(msg, "Nothing to undo.")

		return
	}

	b.reply(msg, fmt.Sprintf("Deleted: %s", EscapeHTML(Truncate(rawText, rawTextPreviewLength))))
}

func (b *Bot) handleMealText(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	result, err := b.meals.LogMeal(ctx, msg.Chat.ID, text)
	if err != nil {
		switch {
		case errors.Is(err, coreerrors.ErrInvalidInput):
			b.reply(msg, "I could not find any food in that message. Describe what you ate, e.g. \"200g of greek yogurt\".")
		case errors.Is(err, coreerrors.ErrNoMatch), errors.Is(err, coreerrors.ErrNoResults):
			b.reply(msg, "I could not match that to any product. Try naming the brand or being more specific.")
		default:
			b.logger.Error().Err(err).Int64(LogFieldChatID, msg.Chat.ID).Msg("failed to log meal")
			b.reply(msg, "Something went wrong while logging the meal, please try again.")
		}

		return
	}

	b.reply(msg, FormatLogResult(result))
}

// parseDay resolves a user-supplied day reference. "today" and "yesterday"
// are handled directly; everything else goes through the freeform date
// parser in the report's timezone.
func parseDay(text string, loc *time.Location, now time.Time) (time.Time, error) {
	switch strings.ToLower(text) {
	case "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	day, err := dateparse.ParseIn(text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", text, err)
	}

	return day, nil
}
