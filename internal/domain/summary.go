// Package domain – derived (non-persisted) aggregation types.
//
// DailyNutritionSummary and its per-meal-type breakdown are computed on demand
// from food-log entries joined with catalog facts. They are never stored or
// cached; every request recomputes them from current store contents.
package domain

import "time"

// MealTypeBreakdown accumulates one meal type's share of a day's nutrition.
type MealTypeBreakdown struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Items    int     `json:"items"`
}

// DailyNutritionSummary is the nutrition roll-up for one user and one
// calendar day. All four meal-type buckets are always present, zero-filled
// when no entry of that type exists.
type DailyNutritionSummary struct {
	Date          time.Time                      `json:"date"`
	TotalCalories float64                        `json:"total_calories"`
	TotalProtein  float64                        `json:"total_protein"`
	TotalFat      float64                        `json:"total_fat"`
	TotalCarbs    float64                        `json:"total_carbs"`
	TotalItems    int                            `json:"total_items"`
	ByMealType    map[MealType]MealTypeBreakdown `json:"by_meal_type"`
}

// NewDailyNutritionSummary returns a summary for date with all four
// meal-type buckets zero-initialized.
func NewDailyNutritionSummary(date time.Time) *DailyNutritionSummary {
	buckets := make(map[MealType]MealTypeBreakdown, len(MealTypes))
	for _, mt := range MealTypes {
		buckets[mt] = MealTypeBreakdown{}
	}
	return &DailyNutritionSummary{Date: date, ByMealType: buckets}
}

// Add folds one log entry's contribution into the summary: each fact is
// multiplied by the logged quantity and added to both the grand totals and
// the entry's meal-type bucket.
func (s *DailyNutritionSummary) Add(e *FoodLogEntry) {
	cal, prot, fat, carbs := e.Facts()

	s.TotalCalories += e.Quantity * cal
	s.TotalProtein += e.Quantity * prot
	s.TotalFat += e.Quantity * fat
	s.TotalCarbs += e.Quantity * carbs
	s.TotalItems++

	b := s.ByMealType[e.MealType]
	b.Calories += e.Quantity * cal
	b.Protein += e.Quantity * prot
	b.Fat += e.Quantity * fat
	b.Carbs += e.Quantity * carbs
	b.Items++
	s.ByMealType[e.MealType] = b
}
