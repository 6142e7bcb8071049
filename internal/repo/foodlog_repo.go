// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// FoodLogEntry model — the FoodLogStore of the aggregation core.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an entry is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// The uniqueness invariant — at most one row per
// (user_id, meal_id, log_date, meal_type) — is enforced twice: by the
// compound unique index ux_log_tuple at the schema level, and by
// UpsertFoodLog, which turns insert-or-update into a single atomic statement
// so concurrent submissions of the same tuple cannot produce duplicates.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// logTupleColumns are the columns of the compound uniqueness constraint.
var logTupleColumns = []clause.Column{
	{Name: "user_id"},
	{Name: "meal_id"},
	{Name: "log_date"},
	{Name: "meal_type"},
}

// CreateFoodLog inserts a new food-log row. A missing ID is assigned a UUID
// and zero timestamps are set to UTC now before the insert.
func CreateFoodLog(ctx context.Context, db *gorm.DB, e *domain.FoodLogEntry) error {
	prepareEntry(e)
	return db.WithContext(ctx).Create(e).Error
}

// CreateFoodLogs inserts a batch of entries in a single multi-row insert.
// IDs and timestamps are assigned the same way as CreateFoodLog.
func CreateFoodLogs(ctx context.Context, db *gorm.DB, entries []*domain.FoodLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		prepareEntry(e)
	}
	return db.WithContext(ctx).Create(entries).Error
}

// UpsertFoodLog inserts e, or — when a row with the same
// (user_id, meal_id, log_date, meal_type) already exists — replaces that
// row's quantity, notes, and logged_at in place. The conflict target is the
// ux_log_tuple unique index, so the insert-or-update pair is one atomic
// statement and concurrent writers for the same tuple collapse into a
// single row.
//
// On return e.ID may not match the stored row's ID when the conflict path
// was taken; callers that need the persisted row should re-read by tuple.
func UpsertFoodLog(ctx context.Context, db *gorm.DB, e *domain.FoodLogEntry) error {
	prepareEntry(e)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   logTupleColumns,
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "notes", "logged_at", "updated_at"}),
		}).
		Create(e).Error
}

// GetFoodLog fetches an entry by ID with its catalog meal joined.
// Returns ErrNotFound when no such entry exists.
func GetFoodLog(ctx context.Context, db *gorm.DB, id string) (*domain.FoodLogEntry, error) {
	var e domain.FoodLogEntry
	err := db.WithContext(ctx).
		Preload("Meal").
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindLogByTuple looks up the single entry matching the uniqueness tuple.
// An empty mealType omits the meal-type predicate (lenient mode, used by
// legacy single-item callers). Returns ErrNotFound when absent.
func FindLogByTuple(ctx context.Context, db *gorm.DB, userID, mealID string, logDate time.Time, mealType domain.MealType) (*domain.FoodLogEntry, error) {
	q := db.WithContext(ctx).
		Preload("Meal").
		Where("user_id = ? AND meal_id = ? AND log_date = ?", userID, mealID, logDate)
	if mealType != "" {
		q = q.Where("meal_type = ?", mealType)
	}
	var e domain.FoodLogEntry
	if err := q.First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// FindLogsByMeals returns all entries for userID on logDate with the given
// mealType whose meal_id is in mealIDs. This is the single batch existence
// lookup the bulk processor partitions against; it never returns ErrNotFound,
// only an empty slice.
func FindLogsByMeals(ctx context.Context, db *gorm.DB, userID string, mealType domain.MealType, logDate time.Time, mealIDs []string) ([]domain.FoodLogEntry, error) {
	if len(mealIDs) == 0 {
		return []domain.FoodLogEntry{}, nil
	}
	var out []domain.FoodLogEntry
	err := db.WithContext(ctx).
		Where("user_id = ? AND meal_type = ? AND log_date = ? AND meal_id IN ?",
			userID, mealType, logDate, mealIDs).
		Find(&out).Error
	return out, err
}

// UpdateFoodLog applies the given column updates to the entry with id.
// Returns ErrNotFound when no row was affected.
func UpdateFoodLog(ctx context.Context, db *gorm.DB, id string, updates map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.FoodLogEntry{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteFoodLog removes an entry by ID. Returns ErrNotFound when no row
// was deleted.
func DeleteFoodLog(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.FoodLogEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountFoodLogs returns the number of entries for userID, optionally
// restricted to a [from, to] log-date window (either bound may be nil).
func CountFoodLogs(ctx context.Context, db *gorm.DB, userID string, from, to *time.Time) (int64, error) {
	var total int64
	err := scopeLogs(db.WithContext(ctx), userID, from, to).
		Model(&domain.FoodLogEntry{}).
		Count(&total).Error
	return total, err
}

// ListFoodLogsPage returns a page of entries for userID with meals joined,
// newest log day first (log_date DESC, created_at DESC), optionally
// restricted to a [from, to] log-date window.
func ListFoodLogsPage(ctx context.Context, db *gorm.DB, userID string, from, to *time.Time, offset, limit int) ([]domain.FoodLogEntry, error) {
	var out []domain.FoodLogEntry
	err := scopeLogs(db.WithContext(ctx), userID, from, to).
		Preload("Meal").
		Order("log_date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListLogsInRange returns all entries for userID with log_date in
// [start, end] inclusive, meals joined, ordered ascending by log day.
// The aggregator consumes this for daily and range summaries.
func ListLogsInRange(ctx context.Context, db *gorm.DB, userID string, start, end time.Time) ([]domain.FoodLogEntry, error) {
	var out []domain.FoodLogEntry
	err := db.WithContext(ctx).
		Preload("Meal").
		Where("user_id = ? AND log_date >= ? AND log_date <= ?", userID, start, end).
		Order("log_date ASC, created_at ASC").
		Find(&out).Error
	return out, err
}

// scopeLogs composes the shared user/date-window predicates.
func scopeLogs(q *gorm.DB, userID string, from, to *time.Time) *gorm.DB {
	q = q.Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("log_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("log_date <= ?", *to)
	}
	return q
}

// prepareEntry assigns a UUID primary key and UTC timestamps to an entry
// about to be written.
func prepareEntry(e *domain.FoodLogEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.LoggedAt.IsZero() {
		e.LoggedAt = now
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}
