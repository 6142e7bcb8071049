package domain

import (
	"testing"
	"time"
)

func f(v float64) *float64 { return &v }

func TestMealType_Valid(t *testing.T) {
	for _, mt := range MealTypes {
		if !mt.Valid() {
			t.Fatalf("%s should be valid", mt)
		}
	}
	for _, bad := range []MealType{"", "brunch", "Lunch", "BREAKFAST"} {
		if bad.Valid() {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}

func TestFoodLogEntry_Facts_MissingValuesCoerceToZero(t *testing.T) {
	e := &FoodLogEntry{Meal: &Meal{Calories: f(250), Protein: f(20)}}
	cal, prot, fat, carbs := e.Facts()
	if cal != 250 || prot != 20 || fat != 0 || carbs != 0 {
		t.Fatalf("got %v %v %v %v", cal, prot, fat, carbs)
	}

	// No catalog join at all: the entry contributes nothing.
	orphan := &FoodLogEntry{}
	cal, prot, fat, carbs = orphan.Facts()
	if cal != 0 || prot != 0 || fat != 0 || carbs != 0 {
		t.Fatalf("orphan entry must contribute zero, got %v %v %v %v", cal, prot, fat, carbs)
	}
}

func TestNewDailyNutritionSummary_ZeroFillsAllBuckets(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	s := NewDailyNutritionSummary(date)

	if !s.Date.Equal(date) {
		t.Fatalf("date not set: %v", s.Date)
	}
	if len(s.ByMealType) != len(MealTypes) {
		t.Fatalf("expected %d buckets, got %d", len(MealTypes), len(s.ByMealType))
	}
	for _, mt := range MealTypes {
		b, ok := s.ByMealType[mt]
		if !ok || b != (MealTypeBreakdown{}) {
			t.Fatalf("bucket %s should exist and be zero: %+v", mt, b)
		}
	}
}

func TestDailyNutritionSummary_Add_ScalesByQuantity(t *testing.T) {
	s := NewDailyNutritionSummary(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	meal := &Meal{Calories: f(250), Protein: f(20), Fat: f(10), Carbs: f(30)}
	s.Add(&FoodLogEntry{MealType: MealTypeLunch, Quantity: 2, Meal: meal})
	s.Add(&FoodLogEntry{MealType: MealTypeSnack, Quantity: 0.5, Meal: meal})

	if s.TotalCalories != 625 || s.TotalProtein != 50 || s.TotalItems != 2 {
		t.Fatalf("grand totals wrong: %+v", s)
	}
	lunch := s.ByMealType[MealTypeLunch]
	if lunch.Calories != 500 || lunch.Items != 1 {
		t.Fatalf("lunch bucket wrong: %+v", lunch)
	}
	snack := s.ByMealType[MealTypeSnack]
	if snack.Calories != 125 || snack.Carbs != 15 {
		t.Fatalf("snack bucket wrong: %+v", snack)
	}
	if b := s.ByMealType[MealTypeBreakfast]; b.Items != 0 {
		t.Fatalf("untouched bucket must stay zero: %+v", b)
	}
}
