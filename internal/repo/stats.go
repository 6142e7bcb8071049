// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides aggregate statistics queries over a
// user's food-log history, used by the stats endpoint. Totals join live
// catalog facts, so editing a meal's nutrition changes historical numbers.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
)

// FoodLogStats is the per-user aggregate produced by GetFoodLogStats.
type FoodLogStats struct {
	TotalLogs       int64                   `json:"total_logs"`
	TotalCalories   float64                 `json:"total_calories"`
	TotalProtein    float64                 `json:"total_protein"`
	TotalFat        float64                 `json:"total_fat"`
	TotalCarbs      float64                 `json:"total_carbs"`
	AverageQuantity float64                 `json:"average_quantity"`
	ByMealType      map[domain.MealType]int `json:"by_meal_type"`
}

// GetFoodLogStats computes aggregate counters for userID in two grouped
// queries: per-meal-type counts plus total/average quantity, and nutrition
// totals via a LEFT JOIN against the catalog (missing facts count as zero).
func GetFoodLogStats(ctx context.Context, db *gorm.DB, userID string) (*FoodLogStats, error) {
	stats := &FoodLogStats{
		ByMealType: make(map[domain.MealType]int, len(domain.MealTypes)),
	}
	for _, mt := range domain.MealTypes {
		stats.ByMealType[mt] = 0
	}

	var perType []struct {
		MealType domain.MealType
		Count    int64
		Quantity float64
	}
	err := db.WithContext(ctx).
		Model(&domain.FoodLogEntry{}).
		Select("meal_type, COUNT(*) AS count, SUM(quantity) AS quantity").
		Where("user_id = ?", userID).
		Group("meal_type").
		Scan(&perType).Error
	if err != nil {
		return nil, err
	}

	var totalQuantity float64
	for _, row := range perType {
		stats.TotalLogs += row.Count
		stats.ByMealType[row.MealType] = int(row.Count)
		totalQuantity += row.Quantity
	}
	if stats.TotalLogs == 0 {
		return stats, nil
	}
	stats.AverageQuantity = totalQuantity / float64(stats.TotalLogs)

	var totals struct {
		Calories float64
		Protein  float64
		Fat      float64
		Carbs    float64
	}
	err = db.WithContext(ctx).
		Table("food_log_entries AS f").
		Select(`SUM(f.quantity * COALESCE(m.calories, 0)) AS calories,
			SUM(f.quantity * COALESCE(m.protein, 0))  AS protein,
			SUM(f.quantity * COALESCE(m.fat, 0))      AS fat,
			SUM(f.quantity * COALESCE(m.carbs, 0))    AS carbs`).
		Joins("LEFT JOIN meals AS m ON m.id = f.meal_id").
		Where("f.user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	stats.TotalCalories = totals.Calories
	stats.TotalProtein = totals.Protein
	stats.TotalFat = totals.Fat
	stats.TotalCarbs = totals.Carbs
	return stats, nil
}
