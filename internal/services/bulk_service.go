// Package services – bulk logging.
//
// This file implements the BulkLogProcessor side of FoodLogService: a batch
// of 1–20 items sharing a user, meal type, and log day is resolved against
// existing entries with a single batch lookup, partitioned into disjoint
// update and create sets, and written inside one transaction. A failure on
// any item rolls the whole batch back; the offending meal ID is wrapped onto
// the returned error. Validation runs before any write, so malformed batches
// never reach the store.
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
)

// BulkItem is one meal inside a bulk submission.
type BulkItem struct {
	MealID   string
	Quantity float64
	// Notes overrides the batch-level notes for this item when non-empty.
	Notes string
}

// BulkRequest carries a bulk logging call. LogDate and LoggedAt default the
// same way as single-item logging and apply to every item.
type BulkRequest struct {
	UserID   string
	MealType domain.MealType
	Items    []BulkItem
	LogDate  *time.Time
	LoggedAt *time.Time
	// Notes is the batch-level fallback for items without their own notes.
	Notes string
}

// BulkResult reports the outcome of a bulk submission: which entries were
// created versus merged, and the nutrition totals of the whole batch
// computed against catalog facts.
type BulkResult struct {
	CreatedLogs []domain.FoodLogEntry `json:"created_logs"`
	UpdatedLogs []domain.FoodLogEntry `json:"updated_logs"`
	AllLogs     []domain.FoodLogEntry `json:"all_logs"`

	TotalItems        int `json:"total_items"`
	NewItemsCount     int `json:"new_items_count"`
	UpdatedItemsCount int `json:"updated_items_count"`

	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalFat      float64 `json:"total_fat"`
	TotalCarbs    float64 `json:"total_carbs"`

	MealType domain.MealType `json:"meal_type"`
	LogDate  time.Time       `json:"log_date"`
	LoggedAt time.Time       `json:"logged_at"`
}

// LogBulk processes a batch of 1–20 items sharing UserID, MealType, and log
// day. One batch lookup partitions the items into entries to update
// (quantity replaced, notes per item-then-batch precedence) and entries to
// create (inserted with a single multi-row statement). The update/create
// partition is computed from a single snapshot and both phases run inside
// one transaction, so the batch is all-or-nothing.
func (s *FoodLogService) LogBulk(ctx context.Context, req BulkRequest) (*BulkResult, error) {
	tr := otel.Tracer("services/FoodLogService")
	ctx, span := tr.Start(ctx, "LogBulk",
		trace.WithAttributes(
			attribute.String("user.id", req.UserID),
			attribute.Int("bulk.items", len(req.Items)),
		),
	)
	defer span.End()

	if err := validateBulk(req); err != nil {
		return nil, err
	}

	logDate := startOfDay(s.now())
	if req.LogDate != nil {
		logDate = startOfDay(req.LogDate.UTC())
	}
	loggedAt := s.now()
	if req.LoggedAt != nil {
		loggedAt = req.LoggedAt.UTC()
	}

	mealIDs := make([]string, len(req.Items))
	for i, it := range req.Items {
		mealIDs[i] = it.MealID
	}

	// Every referenced meal must resolve before any write; the fetched facts
	// are reused for the totals afterwards.
	meals, err := s.Catalog.GetMeals(ctx, s.DB, mealIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range mealIDs {
		if _, ok := meals[id]; !ok {
			return nil, fmt.Errorf("meal %s: %w", id, ErrMealNotFound)
		}
	}

	res := &BulkResult{
		MealType: req.MealType,
		LogDate:  logDate,
		LoggedAt: loggedAt,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// One batch lookup for the whole submission; the partition below is
		// computed from this single consistent snapshot.
		existing, err := s.Logs.FindByMeals(ctx, tx, req.UserID, req.MealType, logDate, mealIDs)
		if err != nil {
			return err
		}
		existingByMeal := make(map[string]*domain.FoodLogEntry, len(existing))
		for i := range existing {
			existingByMeal[existing[i].MealID] = &existing[i]
		}

		var toCreate []*domain.FoodLogEntry
		for _, it := range req.Items {
			notes := it.Notes
			if notes == "" {
				notes = req.Notes
			}

			if prev, ok := existingByMeal[it.MealID]; ok {
				updates := map[string]any{
					"quantity":   it.Quantity,
					"logged_at":  loggedAt,
					"updated_at": s.now(),
				}
				if notes != "" {
					updates["notes"] = notes
				}
				if err := s.Logs.Update(ctx, tx, prev.ID, updates); err != nil {
					return fmt.Errorf("update log for meal %s: %w", it.MealID, err)
				}
				res.UpdatedItemsCount++
				continue
			}

			toCreate = append(toCreate, &domain.FoodLogEntry{
				UserID:   req.UserID,
				MealID:   it.MealID,
				MealType: req.MealType,
				Quantity: it.Quantity,
				LogDate:  logDate,
				LoggedAt: loggedAt,
				Notes:    notes,
			})
		}

		if len(toCreate) > 0 {
			if err := s.Logs.CreateBatch(ctx, tx, toCreate); err != nil {
				return fmt.Errorf("insert %d new logs: %w", len(toCreate), err)
			}
			res.NewItemsCount = len(toCreate)
		}

		// Re-fetch everything that was written and join the already-loaded
		// catalog facts for the totals.
		all, err := s.Logs.FindByMeals(ctx, tx, req.UserID, req.MealType, logDate, mealIDs)
		if err != nil {
			return err
		}
		for i := range all {
			all[i].Meal = meals[all[i].MealID]
			if _, wasExisting := existingByMeal[all[i].MealID]; wasExisting {
				res.UpdatedLogs = append(res.UpdatedLogs, all[i])
			} else {
				res.CreatedLogs = append(res.CreatedLogs, all[i])
			}
			res.AllLogs = append(res.AllLogs, all[i])

			cal, prot, fat, carbs := all[i].Facts()
			res.TotalCalories += all[i].Quantity * cal
			res.TotalProtein += all[i].Quantity * prot
			res.TotalFat += all[i].Quantity * fat
			res.TotalCarbs += all[i].Quantity * carbs
		}
		res.TotalItems = len(res.AllLogs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// validateBulk fail-fast checks a bulk submission before any store write:
// item count in [1, 20], distinct meal IDs, valid meal type, every quantity
// in [0.1, 100], and notes lengths at both batch and item level.
func validateBulk(req BulkRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyBatch
	}
	if len(req.Items) > MaxBulkItems {
		return ErrBatchTooLarge
	}
	if !req.MealType.Valid() {
		return ErrInvalidMealType
	}
	if len(req.Notes) > MaxNotesLen {
		return ErrNotesTooLong
	}
	seen := make(map[string]struct{}, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < MinQuantity || it.Quantity > MaxQuantity {
			return fmt.Errorf("meal %s: %w", it.MealID, ErrInvalidQuantity)
		}
		if len(it.Notes) > MaxNotesLen {
			return fmt.Errorf("meal %s: %w", it.MealID, ErrNotesTooLong)
		}
		if _, dup := seen[it.MealID]; dup {
			return fmt.Errorf("meal %s: %w", it.MealID, ErrDuplicateBatchMeal)
		}
		seen[it.MealID] = struct{}{}
	}
	return nil
}
