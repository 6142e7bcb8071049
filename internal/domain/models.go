// Package domain defines the persistence models for meals and food-log
// entries. These types are mapped with GORM and form the core data layer
// of the nutrition-logging application.
package domain

import (
	"time"
)

// MealType identifies which meal of the day a food-log entry counts toward.
// The set is closed: exactly breakfast, lunch, dinner, and snack.
type MealType string

// Allowed meal types.
const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// MealTypes lists all valid meal types in canonical order. Summaries emit
// their per-meal-type buckets in this order.
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// Valid reports whether m is one of the four allowed meal types.
func (m MealType) Valid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// Meal is a catalog item with fixed per-serving nutrition facts. The food-log
// core only reads meals; catalog maintenance happens elsewhere.
//
// Nutrition fields are nullable: a catalog entry may have been created without
// a complete analysis, and a missing fact contributes zero to summaries rather
// than failing the aggregation.
type Meal struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"         gorm:"type:varchar(255);not null"`
	ServingSize string    `json:"serving_size,omitempty" gorm:"type:varchar(64)"`
	Calories    *float64  `json:"calories,omitempty"`
	Protein     *float64  `json:"protein,omitempty"`
	Fat         *float64  `json:"fat,omitempty"`
	Carbs       *float64  `json:"carbs,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Meal.
func (Meal) TableName() string { return "meals" }

// FoodLogEntry records one logged occurrence of a meal for a user on a
// specific log day.
//
// Uniqueness invariant: at most one row exists per
// (UserID, MealID, LogDate, MealType). Logging the same tuple again replaces
// Quantity and Notes on the existing row instead of inserting a duplicate.
// The compound unique index backs the atomic upsert in the repo layer.
//
// LogDate is the calendar day the entry counts toward (normalized to start of
// day, UTC); LoggedAt is the wall-clock time the entry was recorded and does
// not affect which day's summary it belongs to.
type FoodLogEntry struct {
	ID       string   `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID   string   `json:"user_id"   gorm:"type:varchar(64);not null;index:idx_user_logs,priority:1;uniqueIndex:ux_log_tuple,priority:1"`
	MealID   string   `json:"meal_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_log_tuple,priority:2"`
	MealType MealType `json:"meal_type" gorm:"type:varchar(16);not null;check:meal_type IN ('breakfast','lunch','dinner','snack');uniqueIndex:ux_log_tuple,priority:4"`
	// Quantity is the number of servings consumed, in [0.1, 100].
	Quantity float64   `json:"quantity"  gorm:"not null"`
	LogDate  time.Time `json:"log_date"  gorm:"not null;index:idx_user_logs,priority:2;uniqueIndex:ux_log_tuple,priority:3"`
	LoggedAt time.Time `json:"logged_at" gorm:"not null"`
	Notes    string    `json:"notes,omitempty" gorm:"type:varchar(500)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Meal carries the joined catalog facts when the repo fetches entries
	// for aggregation or response payloads. It is never written through.
	Meal *Meal `json:"meal,omitempty" gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE"`
}

// TableName returns the database table name for FoodLogEntry.
func (FoodLogEntry) TableName() string { return "food_log_entries" }

// Facts returns the joined catalog facts with missing values coerced to zero.
// Entries whose meal is absent from the catalog contribute nothing.
func (e *FoodLogEntry) Facts() (calories, protein, fat, carbs float64) {
	if e.Meal == nil {
		return 0, 0, 0, 0
	}
	return deref(e.Meal.Calories), deref(e.Meal.Protein), deref(e.Meal.Fat), deref(e.Meal.Carbs)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
