package telegrambot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
	"github.com/mealgram/nutrition-bot/internal/resolver"
)

const rawTextPreviewLength = 60

// SplitMessage splits text into parts of at most limit runes, preferring
// newline boundaries so items are not cut mid-line.
func SplitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var parts []string

	lines := strings.Split(text, "\n")
	current := strings.Builder{}

	for _, line := range lines {
		if current.Len() > 0 && len([]rune(current.String()))+len([]rune(line))+1 > limit {
			parts = append(parts, current.String())
			current.Reset()
		}

		// A single oversized line is split hard.
		for len([]rune(line)) > limit {
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}

		current.WriteString(line)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// EscapeHTML escapes user-provided text for Telegram HTML parse mode.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

// Truncate shortens text to at most limit runes, appending an ellipsis when
// anything was cut.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit]) + "…"
}

// dayBounds returns the [start, end) range of the calendar day containing t
// in the given location.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	return start, start.AddDate(0, 0, 1)
}

// FormatLogResult renders a confirmation reply for one logged meal.
func FormatLogResult(result *resolver.LogResult) string {
	var sb strings.Builder

	if result.Reused {
		sb.WriteString("Logged again (same as a previous meal):\n")
	} else {
		sb.WriteString("Logged:\n")
	}

	for _, item := range result.Meal.Items {
		sb.WriteString(fmt.Sprintf("• %s (%.0fg) - %.0f kcal\n", EscapeHTML(itemLabel(item)), item.QuantityGrams, item.Kcal))
	}

	sb.WriteString(fmt.Sprintf("\nTotal: <b>%.0f kcal</b>", result.Meal.TotalKcal()))

	for _, name := range result.Unresolved {
		sb.WriteString(fmt.Sprintf("\n⚠️ Could not match: %s", EscapeHTML(name)))
	}

	return sb.String()
}

// FormatDayReport renders the day summary followed by the individual meals.
func FormatDayReport(summary *domain.DailySummary, meals []domain.Meal) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", summary.Day.Format("Mon, 2 Jan 2006")))

	if summary.Meals == 0 {
		sb.WriteString("No meals logged.")

		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%d meal(s), %.0f kcal", summary.Meals, summary.Kcal))

	if summary.GoalKcal > 0 {
		remaining := float64(summary.GoalKcal) - summary.Kcal
		if remaining >= 0 {
			sb.WriteString(fmt.Sprintf(" of %d (%.0f left)", summary.GoalKcal, remaining))
		} else {
			sb.WriteString(fmt.Sprintf(" of %d (%.0f over)", summary.GoalKcal, -remaining))
		}
	}

	sb.WriteString(fmt.Sprintf("\nProtein %.0fg · Fat %.0fg · Carbs %.0fg\n", summary.Proteins, summary.Fat, summary.Carbs))

	for _, meal := range meals {
		sb.WriteString(fmt.Sprintf("\n%s - %.0f kcal\n", meal.LoggedAt.Format("15:04"), meal.TotalKcal()))

		for _, item := range meal.Items {
			sb.WriteString(fmt.Sprintf("  • %s (%.0fg)\n", EscapeHTML(itemLabel(item)), item.QuantityGrams))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func itemLabel(item domain.MealItem) string {
	if item.Brand != "" && !strings.Contains(strings.ToLower(item.ProductName), strings.ToLower(item.Brand)) {
		return item.Brand + " " + item.ProductName
	}

	return item.ProductName
}
