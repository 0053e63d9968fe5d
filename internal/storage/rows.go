package storage

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

// mealItemRow scans a meal_items row, tolerating NULLs from left joins.
type mealItemRow struct {
	code     pgtype.Text
	name     pgtype.Text
	brand    pgtype.Text
	quantity pgtype.Float8
	kcal     pgtype.Float8
	proteins pgtype.Float8
	fat      pgtype.Float8
	carbs    pgtype.Float8
}

func (r mealItemRow) toDomain() domain.MealItem {
	return domain.MealItem{
		ProductCode:   fromText(r.code),
		ProductName:   fromText(r.name),
		Brand:         fromText(r.brand),
		QuantityGrams: r.quantity.Float64,
		Kcal:          r.kcal.Float64,
		Proteins:      r.proteins.Float64,
		Fat:           r.fat.Float64,
		Carbs:         r.carbs.Float64,
	}
}
