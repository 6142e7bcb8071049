// Package services – FoodLogService
//
// This file implements the FoodLogService, which owns the lifecycle of
// food-log entries. Its central responsibility is deduplication: for a given
// (user, meal, log day, meal type) tuple at most one entry may exist, and
// logging the same tuple again replaces the stored quantity and notes instead
// of inserting a duplicate. Repeated identical calls are idempotent on the
// final stored quantity — values are never summed.
//
// The write path is an atomic conditional upsert keyed on the uniqueness
// tuple, so the invariant holds even under concurrent submissions; the
// read that precedes it only decides whether the response reports a merge.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// user and meal identifiers.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
)

// Quantity and batch bounds enforced before any store write.
const (
	MinQuantity  = 0.1
	MaxQuantity  = 100
	MaxNotesLen  = 500
	MaxBulkItems = 20
)

// FoodLogRepo defines the persistence contract required by FoodLogService —
// the FoodLogStore of the aggregation core.
type FoodLogRepo interface {
	// Create inserts a single entry.
	Create(ctx context.Context, db *gorm.DB, e *domain.FoodLogEntry) error

	// CreateBatch inserts several entries in one multi-row statement.
	CreateBatch(ctx context.Context, db *gorm.DB, entries []*domain.FoodLogEntry) error

	// Upsert atomically inserts e or replaces quantity/notes/logged_at of the
	// row sharing its uniqueness tuple.
	Upsert(ctx context.Context, db *gorm.DB, e *domain.FoodLogEntry) error

	// Get fetches an entry by ID with catalog facts joined.
	Get(ctx context.Context, db *gorm.DB, id string) (*domain.FoodLogEntry, error)

	// FindByTuple looks up the entry matching the uniqueness tuple; an empty
	// meal type omits that predicate.
	FindByTuple(ctx context.Context, db *gorm.DB, userID, mealID string, logDate time.Time, mealType domain.MealType) (*domain.FoodLogEntry, error)

	// FindByMeals is the single batch existence lookup used by bulk logging.
	FindByMeals(ctx context.Context, db *gorm.DB, userID string, mealType domain.MealType, logDate time.Time, mealIDs []string) ([]domain.FoodLogEntry, error)

	// Update applies column updates to the entry with id.
	Update(ctx context.Context, db *gorm.DB, id string, updates map[string]any) error

	// Delete removes an entry by ID.
	Delete(ctx context.Context, db *gorm.DB, id string) error

	// Count returns the number of entries in an optional log-date window.
	Count(ctx context.Context, db *gorm.DB, userID string, from, to *time.Time) (int64, error)

	// ListPage returns a page of entries in an optional log-date window.
	ListPage(ctx context.Context, db *gorm.DB, userID string, from, to *time.Time, offset, limit int) ([]domain.FoodLogEntry, error)
}

// MealCatalog is the read-only collaborator resolving meal IDs to nutrition
// facts. The core never mutates the catalog.
type MealCatalog interface {
	// GetMeal fetches one catalog meal; missing meals surface as a
	// record-not-found error.
	GetMeal(ctx context.Context, db *gorm.DB, id string) (*domain.Meal, error)

	// GetMeals fetches the catalog meals for ids, keyed by ID; missing IDs
	// are absent from the map.
	GetMeals(ctx context.Context, db *gorm.DB, ids []string) (map[string]*domain.Meal, error)
}

// FoodLogService coordinates validation, deduplication, and persistence for
// food-log entries. It is stateless across calls; each invocation is a pure
// function of its inputs and current store contents.
type FoodLogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Logs is the food-log repository used by this service.
	Logs FoodLogRepo
	// Catalog resolves meal references.
	Catalog MealCatalog

	// Now supplies the current time; nil defaults to time.Now. Injected by
	// tests that pin "today".
	Now func() time.Time
}

// NewFoodLogService constructs a FoodLogService with the real clock.
func NewFoodLogService(db *gorm.DB, logs FoodLogRepo, catalog MealCatalog) *FoodLogService {
	return &FoodLogService{DB: db, Logs: logs, Catalog: catalog, Now: time.Now}
}

func (s *FoodLogService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// LogRequest carries one single-item logging call.
type LogRequest struct {
	UserID   string
	MealID   string
	MealType domain.MealType
	Quantity float64
	// LogDate, when nil, defaults to the start of the current day.
	LogDate *time.Time
	// LoggedAt, when nil, defaults to the current time.
	LoggedAt *time.Time
	Notes    string
}

// Log resolves a single-item logging call against the uniqueness invariant:
// if an entry for (UserID, MealID, log day, MealType) already exists, its
// quantity is replaced (and notes, when supplied) and merged=true is
// returned; otherwise a new entry is created.
//
// The returned entry is the persisted row with catalog facts joined.
func (s *FoodLogService) Log(ctx context.Context, req LogRequest) (entry *domain.FoodLogEntry, merged bool, err error) {
	tr := otel.Tracer("services/FoodLogService")
	ctx, span := tr.Start(ctx, "Log",
		trace.WithAttributes(
			attribute.String("user.id", req.UserID),
			attribute.String("meal.id", req.MealID),
		),
	)
	defer span.End()

	if err := validateLogFields(req.MealType, req.Quantity, req.Notes); err != nil {
		return nil, false, err
	}

	// The referenced meal must exist before anything is written.
	if _, err := s.Catalog.GetMeal(ctx, s.DB, req.MealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrMealNotFound
		}
		return nil, false, err
	}

	logDate := startOfDay(s.now())
	if req.LogDate != nil {
		logDate = startOfDay(req.LogDate.UTC())
	}
	loggedAt := s.now()
	if req.LoggedAt != nil {
		loggedAt = req.LoggedAt.UTC()
	}

	// Existence check decides created-vs-merged for the response; the write
	// below stays correct without it.
	existing, err := s.Logs.FindByTuple(ctx, s.DB, req.UserID, req.MealID, logDate, req.MealType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	merged = existing != nil

	notes := req.Notes
	if notes == "" && merged {
		// Notes are replaced only when supplied; otherwise keep the old ones.
		notes = existing.Notes
	}

	up := &domain.FoodLogEntry{
		UserID:   req.UserID,
		MealID:   req.MealID,
		MealType: req.MealType,
		Quantity: req.Quantity,
		LogDate:  logDate,
		LoggedAt: loggedAt,
		Notes:    notes,
	}
	if err := s.Logs.Upsert(ctx, s.DB, up); err != nil {
		return nil, false, fmt.Errorf("log meal %s: %w", req.MealID, err)
	}

	stored, err := s.Logs.FindByTuple(ctx, s.DB, req.UserID, req.MealID, logDate, req.MealType)
	if err != nil {
		return nil, false, err
	}
	return stored, merged, nil
}

// Get returns a single entry by ID with catalog facts joined.
func (s *FoodLogService) Get(ctx context.Context, id string) (*domain.FoodLogEntry, error) {
	e, err := s.Logs.Get(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return e, nil
}

// UpdateRequest carries the mutable fields of an explicit entry update.
// Nil fields are left unchanged.
type UpdateRequest struct {
	Quantity *float64
	MealType *domain.MealType
	Notes    *string
	LoggedAt *time.Time
}

// Update applies an explicit update to an entry by ID, revalidating every
// supplied field, and returns the updated entry.
func (s *FoodLogService) Update(ctx context.Context, id string, req UpdateRequest) (*domain.FoodLogEntry, error) {
	updates := map[string]any{}
	if req.Quantity != nil {
		if *req.Quantity < MinQuantity || *req.Quantity > MaxQuantity {
			return nil, ErrInvalidQuantity
		}
		updates["quantity"] = *req.Quantity
	}
	if req.MealType != nil {
		if !req.MealType.Valid() {
			return nil, ErrInvalidMealType
		}
		updates["meal_type"] = *req.MealType
	}
	if req.Notes != nil {
		if len(*req.Notes) > MaxNotesLen {
			return nil, ErrNotesTooLong
		}
		updates["notes"] = *req.Notes
	}
	if req.LoggedAt != nil {
		updates["logged_at"] = req.LoggedAt.UTC()
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	updates["updated_at"] = s.now()

	if err := s.Logs.Update(ctx, s.DB, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an entry by ID.
func (s *FoodLogService) Delete(ctx context.Context, id string) error {
	if err := s.Logs.Delete(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	return nil
}

// ListPage returns a page of a user's entries, newest log day first, with an
// optional [from, to] log-date window, plus the total for pagination.
func (s *FoodLogService) ListPage(ctx context.Context, userID string, from, to *time.Time, page, pageSize int) ([]domain.FoodLogEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, 0, ErrInvalidDateRange
	}
	offset := (page - 1) * pageSize

	total, err := s.Logs.Count(ctx, s.DB, userID, from, to)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.FoodLogEntry{}, 0, nil
	}

	items, err := s.Logs.ListPage(ctx, s.DB, userID, from, to, offset, pageSize)
	return items, total, err
}

// validateLogFields enforces the boundary constraints shared by single and
// bulk logging: closed meal-type set, quantity in [0.1, 100], notes length.
func validateLogFields(mealType domain.MealType, quantity float64, notes string) error {
	if !mealType.Valid() {
		return ErrInvalidMealType
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if len(notes) > MaxNotesLen {
		return ErrNotesTooLong
	}
	return nil
}

// startOfDay truncates t to midnight UTC — the canonical log-day key.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay returns the last instant of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
