// Package services – NutritionService
//
// This file implements the NutritionAggregator: daily and range nutrition
// roll-ups computed by joining log quantities against live catalog facts and
// grouping by calendar day and meal type. Summaries are derived data —
// recomputed per request, never cached — which means editing a meal's
// nutrition retroactively changes past summaries.
//
// Missing facts on a referenced meal contribute zero to the affected totals
// instead of raising an error; availability wins over completeness here.
package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
	"github.com/anirudhsingh20/bite-count-apis/internal/repo"
)

// NutritionService computes per-day and per-range nutrition summaries and
// aggregate statistics. Like the rest of the core it holds no state across
// calls; every summary is a pure function of its inputs and current store
// contents.
type NutritionService struct {
	// DB is the database handle used for all read queries.
	DB *gorm.DB

	// Now supplies the current time for trend windows; nil defaults to
	// time.Now. Injected by tests that pin "now".
	Now func() time.Time
}

func (s *NutritionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// DailySummary computes the nutrition roll-up for userID on date's calendar
// day. The summary always carries all four meal-type buckets, zero-filled
// when empty; a day with no logs yields an all-zero summary rather than an
// error.
func (s *NutritionService) DailySummary(ctx context.Context, userID string, date time.Time) (*domain.DailyNutritionSummary, error) {
	tr := otel.Tracer("services/NutritionService")
	ctx, span := tr.Start(ctx, "DailySummary",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	day := startOfDay(date)
	entries, err := repo.ListLogsInRange(ctx, s.DB, userID, day, endOfDay(date))
	if err != nil {
		return nil, err
	}

	summary := domain.NewDailyNutritionSummary(day)
	for i := range entries {
		summary.Add(&entries[i])
	}
	return summary, nil
}

// RangeSummary computes one DailyNutritionSummary per calendar day in
// [start, end] that has at least one log, sorted ascending by date. Days
// without logs are omitted — the result is sparse, not a dense calendar.
func (s *NutritionService) RangeSummary(ctx context.Context, userID string, start, end time.Time) ([]*domain.DailyNutritionSummary, error) {
	tr := otel.Tracer("services/NutritionService")
	ctx, span := tr.Start(ctx, "RangeSummary",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	entries, err := repo.ListLogsInRange(ctx, s.DB, userID, startOfDay(start), endOfDay(end))
	if err != nil {
		return nil, err
	}

	// Group by calendar-day key, then reduce each group independently.
	byDay := make(map[time.Time]*domain.DailyNutritionSummary)
	for i := range entries {
		day := startOfDay(entries[i].LogDate)
		summary, ok := byDay[day]
		if !ok {
			summary = domain.NewDailyNutritionSummary(day)
			byDay[day] = summary
		}
		summary.Add(&entries[i])
	}

	out := make([]*domain.DailyNutritionSummary, 0, len(byDay))
	for _, summary := range byDay {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// TrendResult wraps a range summary with the window it covers.
type TrendResult struct {
	StartDate time.Time                       `json:"start_date"`
	EndDate   time.Time                       `json:"end_date"`
	Days      []*domain.DailyNutritionSummary `json:"days"`
}

// WeeklyTrend returns the range summary covering the last weeks*7 days,
// anchored to now.
func (s *NutritionService) WeeklyTrend(ctx context.Context, userID string, weeks int) (*TrendResult, error) {
	if weeks < 1 {
		return nil, ErrInvalidWindow
	}
	end := s.now()
	start := end.AddDate(0, 0, -weeks*7)
	return s.trend(ctx, userID, start, end)
}

// MonthlyTrend returns the range summary covering the last months calendar
// months, anchored to now. The subtraction is calendar arithmetic, not a
// fixed 30-day window, so month-length variability is absorbed.
func (s *NutritionService) MonthlyTrend(ctx context.Context, userID string, months int) (*TrendResult, error) {
	if months < 1 {
		return nil, ErrInvalidWindow
	}
	end := s.now()
	start := end.AddDate(0, -months, 0)
	return s.trend(ctx, userID, start, end)
}

func (s *NutritionService) trend(ctx context.Context, userID string, start, end time.Time) (*TrendResult, error) {
	days, err := s.RangeSummary(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return &TrendResult{StartDate: start, EndDate: end, Days: days}, nil
}

// Stats returns the aggregate counters for a user's whole food-log history.
func (s *NutritionService) Stats(ctx context.Context, userID string) (*repo.FoodLogStats, error) {
	return repo.GetFoodLogStats(ctx, s.DB, userID)
}
