package repo

import (
	"context"
	"math"
	"testing"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
)

func TestGetFoodLogStats_EmptyHistory(t *testing.T) {
	db := newFoodLogDB(t, &domain.Meal{}, &domain.FoodLogEntry{})

	stats, err := GetFoodLogStats(context.Background(), db, "nobody")
	if err != nil {
		t.Fatalf("GetFoodLogStats: %v", err)
	}
	if stats.TotalLogs != 0 || stats.TotalCalories != 0 || stats.AverageQuantity != 0 {
		t.Fatalf("empty history must be all-zero: %+v", stats)
	}
	// All four buckets present even when empty.
	for _, mt := range domain.MealTypes {
		if n, ok := stats.ByMealType[mt]; !ok || n != 0 {
			t.Fatalf("bucket %s missing or non-zero: %+v", mt, stats.ByMealType)
		}
	}
}

func TestGetFoodLogStats_TotalsJoinLiveFacts(t *testing.T) {
	db := newFoodLogDB(t, &domain.Meal{}, &domain.FoodLogEntry{})
	ctx := context.Background()

	full := seedMeal(t, db, "bowl", fptr(250), fptr(20), fptr(10), fptr(30))
	// No fat recorded in the catalog: contributes zero fat, not an error.
	partial := seedMeal(t, db, "shake", fptr(100), fptr(8), nil, fptr(12))

	entries := []*domain.FoodLogEntry{
		{UserID: "u1", MealID: full.ID, MealType: domain.MealTypeLunch, Quantity: 2, LogDate: day(2025, 3, 1)},
		{UserID: "u1", MealID: partial.ID, MealType: domain.MealTypeSnack, Quantity: 1, LogDate: day(2025, 3, 1)},
		{UserID: "u1", MealID: full.ID, MealType: domain.MealTypeDinner, Quantity: 1, LogDate: day(2025, 3, 2)},
		// Other users' history must not bleed in.
		{UserID: "u2", MealID: full.ID, MealType: domain.MealTypeLunch, Quantity: 50, LogDate: day(2025, 3, 1)},
	}
	for _, e := range entries {
		if err := CreateFoodLog(ctx, db, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	stats, err := GetFoodLogStats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetFoodLogStats: %v", err)
	}
	if stats.TotalLogs != 3 {
		t.Fatalf("TotalLogs = %d, want 3", stats.TotalLogs)
	}
	// 2*250 + 1*100 + 1*250 = 850
	if stats.TotalCalories != 850 {
		t.Fatalf("TotalCalories = %v, want 850", stats.TotalCalories)
	}
	// 2*10 + 1*0 + 1*10 = 30 (missing fat counts as zero)
	if stats.TotalFat != 30 {
		t.Fatalf("TotalFat = %v, want 30", stats.TotalFat)
	}
	// (2 + 1 + 1) / 3
	if math.Abs(stats.AverageQuantity-4.0/3.0) > 1e-9 {
		t.Fatalf("AverageQuantity = %v, want %v", stats.AverageQuantity, 4.0/3.0)
	}
	if stats.ByMealType[domain.MealTypeLunch] != 1 ||
		stats.ByMealType[domain.MealTypeSnack] != 1 ||
		stats.ByMealType[domain.MealTypeDinner] != 1 ||
		stats.ByMealType[domain.MealTypeBreakfast] != 0 {
		t.Fatalf("per-type counts wrong: %+v", stats.ByMealType)
	}
}
