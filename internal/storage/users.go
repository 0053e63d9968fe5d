package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	coreerrors "github.com/mealgram/nutrition-bot/internal/core/errors"
)

// UpsertUserGoal stores or updates the daily calorie goal for a chat user.
func (db *DB) UpsertUserGoal(ctx context.Context, chatID int64, goalKcal int) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (chat_id, goal_kcal, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (chat_id) DO UPDATE SET
			goal_kcal = EXCLUDED.goal_kcal,
			updated_at = now()
	`, chatID, goalKcal)
	if err != nil {
		return fmt.Errorf("upsert user goal: %w", err)
	}

	return nil
}

// GetUserGoal returns the daily calorie goal for a chat user.
// Returns ErrUserNotFound when the user has never set a goal.
func (db *DB) GetUserGoal(ctx context.Context, chatID int64) (int, error) {
	var goal int

	err := db.Pool.QueryRow(ctx, `
		SELECT goal_kcal FROM users WHERE chat_id = $1
	`, chatID).Scan(&goal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, coreerrors.ErrUserNotFound
		}

		return 0, fmt.Errorf("get user goal: %w", err)
	}

	return goal, nil
}
