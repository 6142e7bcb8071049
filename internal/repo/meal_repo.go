// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the read side of the meal catalog.
// The aggregation core treats the catalog as an immutable collaborator:
// lookup by ID only, no mutation paths beyond seeding.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
)

// GetMeal fetches a catalog meal by ID. Returns ErrNotFound when the meal
// does not exist.
func GetMeal(ctx context.Context, db *gorm.DB, id string) (*domain.Meal, error) {
	var m domain.Meal
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMeals fetches all catalog meals whose ID is in ids, keyed by ID.
// Missing IDs are simply absent from the map; callers treat them as
// zero-contribution meals.
func GetMeals(ctx context.Context, db *gorm.DB, ids []string) (map[string]*domain.Meal, error) {
	out := make(map[string]*domain.Meal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var meals []domain.Meal
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&meals).Error; err != nil {
		return nil, err
	}
	for i := range meals {
		out[meals[i].ID] = &meals[i]
	}
	return out, nil
}

// CreateMeal inserts a catalog meal. Used by seeding and tests; the food-log
// core itself never writes to the catalog.
func CreateMeal(ctx context.Context, db *gorm.DB, m *domain.Meal) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return db.WithContext(ctx).Create(m).Error
}
