package repo

import (
	"context"
	"testing"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
)

func TestGetMeal_FoundAndNotFound(t *testing.T) {
	db := newFoodLogDB(t, &domain.Meal{})
	ctx := context.Background()

	m := seedMeal(t, db, "yogurt", fptr(120), fptr(10), nil, fptr(8))

	got, err := GetMeal(ctx, db, m.ID)
	if err != nil {
		t.Fatalf("GetMeal: %v", err)
	}
	if got.Name != "yogurt" || got.Fat != nil {
		t.Fatalf("unexpected meal: %+v", got)
	}

	if _, err := GetMeal(ctx, db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMeals_KeyedByID_MissingAbsent(t *testing.T) {
	db := newFoodLogDB(t, &domain.Meal{})
	ctx := context.Background()

	a := seedMeal(t, db, "a", fptr(100), nil, nil, nil)
	b := seedMeal(t, db, "b", fptr(200), nil, nil, nil)

	got, err := GetMeals(ctx, db, []string{a.ID, "missing", b.ID})
	if err != nil {
		t.Fatalf("GetMeals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 resolved meals, got %d", len(got))
	}
	if got[a.ID] == nil || got[a.ID].Name != "a" || got[b.ID] == nil || got[b.ID].Name != "b" {
		t.Fatalf("map not keyed by ID: %+v", got)
	}
	if _, present := got["missing"]; present {
		t.Fatalf("missing IDs must be absent from the map")
	}
}

func TestGetMeals_EmptyInput(t *testing.T) {
	db := newFoodLogDB(t, &domain.Meal{})
	got, err := GetMeals(context.Background(), db, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty input should yield empty map, got %v %v", got, err)
	}
}

func TestCreateMeal_AssignsIDAndTimestamps(t *testing.T) {
	db := newFoodLogDB(t, &domain.Meal{})
	m := &domain.Meal{Name: "granola"}
	if err := CreateMeal(context.Background(), db, m); err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() || m.UpdatedAt.IsZero() {
		t.Fatalf("id/timestamps not assigned: %+v", m)
	}
}
