package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

// SaveMeal stores a meal and its resolved items in one transaction.
func (db *DB) SaveMeal(ctx context.Context, meal *domain.Meal) error {
	if meal == nil {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save meal: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var embedding interface{}
	if len(meal.Embedding) > 0 {
		embedding = pgvector.NewVector(meal.Embedding)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO meals (id, chat_id, logged_at, raw_text, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`, toUUID(meal.ID), meal.ChatID, toTimestamptz(meal.LoggedAt), toText(meal.RawText), embedding)
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}

	for _, item := range meal.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO meal_items (
				meal_id,
				product_code,
				product_name,
				brand,
				quantity_grams,
				kcal,
				proteins,
				fat,
				carbs
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, toUUID(meal.ID), toText(item.ProductCode), toText(item.ProductName), toText(item.Brand),
			item.QuantityGrams, item.Kcal, item.Proteins, item.Fat, item.Carbs)
		if err != nil {
			return fmt.Errorf("insert meal item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save meal: %w", err)
	}

	return nil
}

// DeleteLastMeal removes the most recently logged meal for a chat user and
// returns its raw text. Returns empty string when there is nothing to undo.
func (db *DB) DeleteLastMeal(ctx context.Context, chatID int64) (string, error) {
	var rawText string

	err := db.Pool.QueryRow(ctx, `
		DELETE FROM meals
		WHERE id = (
			SELECT id FROM meals
			WHERE chat_id = $1
			ORDER BY logged_at DESC
			LIMIT 1
		)
		RETURNING raw_text
	`, chatID).Scan(&rawText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("delete last meal: %w", err)
	}

	return rawText, nil
}

// MealsForDay returns the meals a user logged between dayStart and dayEnd.
func (db *DB) MealsForDay(ctx context.Context, chatID int64, dayStart, dayEnd time.Time) ([]domain.Meal, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT m.id,
		       m.logged_at,
		       m.raw_text,
		       i.product_code,
		       i.product_name,
		       i.brand,
		       i.quantity_grams,
		       i.kcal,
		       i.proteins,
		       i.fat,
		       i.carbs
		FROM meals m
		LEFT JOIN meal_items i ON i.meal_id = m.id
		WHERE m.chat_id = $1 AND m.logged_at >= $2 AND m.logged_at < $3
		ORDER BY m.logged_at, m.id
	`, chatID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("query meals for day: %w", err)
	}
	defer rows.Close()

	var meals []domain.Meal

	byID := make(map[string]int)

	for rows.Next() {
		var (
			id       string
			loggedAt time.Time
			rawText  string
			item     mealItemRow
		)

		if err := rows.Scan(&id, &loggedAt, &rawText,
			&item.code, &item.name, &item.brand,
			&item.quantity, &item.kcal, &item.proteins, &item.fat, &item.carbs); err != nil {
			return nil, fmt.Errorf("scan meal row: %w", err)
		}

		idx, ok := byID[id]
		if !ok {
			meals = append(meals, domain.Meal{
				ID:       id,
				ChatID:   chatID,
				LoggedAt: loggedAt,
				RawText:  rawText,
			})
			idx = len(meals) - 1
			byID[id] = idx
		}

		if item.code.Valid || item.name.Valid {
			meals[idx].Items = append(meals[idx].Items, item.toDomain())
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal rows: %w", err)
	}

	return meals, nil
}

// DailySummary aggregates one user's meals for the day containing day's date
// in the given location.
func (db *DB) DailySummary(ctx context.Context, chatID int64, dayStart, dayEnd time.Time) (*domain.DailySummary, error) {
	summary := &domain.DailySummary{Day: dayStart}

	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT m.id),
		       COALESCE(SUM(i.kcal), 0),
		       COALESCE(SUM(i.proteins), 0),
		       COALESCE(SUM(i.fat), 0),
		       COALESCE(SUM(i.carbs), 0)
		FROM meals m
		LEFT JOIN meal_items i ON i.meal_id = m.id
		WHERE m.chat_id = $1 AND m.logged_at >= $2 AND m.logged_at < $3
	`, chatID, dayStart, dayEnd).Scan(&summary.Meals, &summary.Kcal, &summary.Proteins, &summary.Fat, &summary.Carbs)
	if err != nil {
		return nil, fmt.Errorf("query daily summary: %w", err)
	}

	return summary, nil
}

// FindSimilarMeal finds a previously logged meal whose description embedding
// is within threshold cosine similarity of the given embedding. Returns nil
// when no similar meal exists. Uses the pgvector cosine distance operator.
func (db *DB) FindSimilarMeal(ctx context.Context, chatID int64, embedding []float32, threshold float32, since time.Time) (*domain.Meal, error) {
	if len(embedding) == 0 {
		return nil, nil
	}

	var (
		id       string
		loggedAt time.Time
		rawText  string
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT id, logged_at, raw_text
		FROM meals
		WHERE chat_id = $1
		  AND logged_at > $2
		  AND embedding IS NOT NULL
		  AND (embedding <=> $3::vector) < $4
		ORDER BY embedding <=> $3::vector
		LIMIT 1
	`, chatID, since, pgvector.NewVector(embedding), float64(1.0-threshold)).Scan(&id, &loggedAt, &rawText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("find similar meal: %w", err)
	}

	meal := &domain.Meal{ID: id, ChatID: chatID, LoggedAt: loggedAt, RawText: rawText}

	items, err := db.mealItems(ctx, id)
	if err != nil {
		return nil, err
	}

	meal.Items = items

	return meal, nil
}

func (db *DB) mealItems(ctx context.Context, mealID string) ([]domain.MealItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT product_code, product_name, brand, quantity_grams, kcal, proteins, fat, carbs
		FROM meal_items
		WHERE meal_id = $1
	`, toUUID(mealID))
	if err != nil {
		return nil, fmt.Errorf("query meal items: %w", err)
	}
	defer rows.Close()

	var items []domain.MealItem

	for rows.Next() {
		var item mealItemRow

		if err := rows.Scan(&item.code, &item.name, &item.brand,
			&item.quantity, &item.kcal, &item.proteins, &item.fat, &item.carbs); err != nil {
			return nil, fmt.Errorf("scan meal item row: %w", err)
		}

		items = append(items, item.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal item rows: %w", err)
	}

	return items, nil
}
