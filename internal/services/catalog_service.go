// Package services – CatalogService
//
// Thin read-only facade over the meal catalog. The food-log core consumes
// meals exclusively by ID; catalog maintenance lives outside this service.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
	"github.com/anirudhsingh20/bite-count-apis/internal/repo"
)

// CatalogService exposes lookup-by-ID over catalog meals.
type CatalogService struct {
	// DB is the database handle used for catalog reads.
	DB *gorm.DB
}

// Get returns the catalog meal with the given ID, or ErrMealNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Meal, error) {
	m, err := repo.GetMeal(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return m, nil
}
