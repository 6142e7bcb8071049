// Nutrition HTTP handlers.
//
// This file exposes the read side of the aggregation core:
//   - GET /food-logs/daily-nutrition/{userId}    (one day's roll-up)
//   - GET /food-logs/nutrition-range/{userId}    (sparse per-day summaries)
//   - GET /food-logs/weekly-trend/{userId}       (last N weeks, anchored to now)
//   - GET /food-logs/monthly-trend/{userId}      (last N calendar months)
//   - GET /food-logs/stats/{userId}              (aggregate counters)
//
// Date parameters travel as non-negative epoch-millisecond integers; trend
// windows as positive integers. Summaries are recomputed per request from
// live catalog facts.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anirudhsingh20/bite-count-apis/internal/utils"
)

// timeNowUTC is a seam so tests can pin "today" for the default-date path.
var timeNowUTC = func() time.Time { return time.Now().UTC() }

// GetDailyNutrition godoc
// @ID          getDailyNutrition
// @Summary     Daily nutrition summary
// @Description Computes the nutrition roll-up for one calendar day: grand totals plus a zero-filled per-meal-type breakdown.
// @Tags        Nutrition
// @Produce     json
//
// @Param       userId  path   string  true   "User ID"
// @Param       date    query  int     false  "Day to summarize (epoch ms; defaults to today)"
//
// @Success     200  {object}  domain.DailyNutritionSummary
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/daily-nutrition/{userId} [get]
func (h *Handlers) GetDailyNutrition(c *gin.Context) {
	userID := c.Param("userId")

	date, err := utils.ParseEpochMillis(c.Query("date"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date "+err.Error())
		return
	}

	// Default to the current day when no date is supplied.
	day := timeNowUTC()
	if date != nil {
		day = *date
	}

	summary, err := h.nutritionSvc.DailySummary(c.Request.Context(), userID, day)
	if err != nil {
		failFromService(c, err, ErrCodeSummaryFailed)
		return
	}
	ok(c, http.StatusOK, summary)
}

// GetNutritionRange godoc
// @ID          getNutritionRange
// @Summary     Nutrition summaries over a date range
// @Description Returns one summary per day in [startDate, endDate] that has at least one log, sorted ascending. Days without logs are omitted.
// @Tags        Nutrition
// @Produce     json
//
// @Param       userId     path   string  true  "User ID"
// @Param       startDate  query  int     true  "Range start (epoch ms)"
// @Param       endDate    query  int     true  "Range end (epoch ms)"
//
// @Success     200  {array}   domain.DailyNutritionSummary
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/nutrition-range/{userId} [get]
func (h *Handlers) GetNutritionRange(c *gin.Context) {
	userID := c.Param("userId")

	start, err := utils.ParseEpochMillis(c.Query("startDate"))
	if err != nil || start == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "startDate must be a non-negative epoch-millisecond integer")
		return
	}
	end, err := utils.ParseEpochMillis(c.Query("endDate"))
	if err != nil || end == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "endDate must be a non-negative epoch-millisecond integer")
		return
	}

	summaries, err := h.nutritionSvc.RangeSummary(c.Request.Context(), userID, *start, *end)
	if err != nil {
		failFromService(c, err, ErrCodeSummaryFailed)
		return
	}
	ok(c, http.StatusOK, summaries)
}

// GetWeeklyTrend godoc
// @ID          getWeeklyTrend
// @Summary     Weekly nutrition trend
// @Description Range summary over the last weeks*7 days, anchored to the current time.
// @Tags        Nutrition
// @Produce     json
//
// @Param       userId  path   string  true   "User ID"
// @Param       weeks   query  int     false  "Number of weeks"  minimum(1) default(1)
//
// @Success     200  {object}  services.TrendResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/weekly-trend/{userId} [get]
func (h *Handlers) GetWeeklyTrend(c *gin.Context) {
	userID := c.Param("userId")
	weeks := utils.AtoiDefault(c.Query("weeks"), 1)

	trend, err := h.nutritionSvc.WeeklyTrend(c.Request.Context(), userID, weeks)
	if err != nil {
		failFromService(c, err, ErrCodeSummaryFailed)
		return
	}
	ok(c, http.StatusOK, trend)
}

// GetMonthlyTrend godoc
// @ID          getMonthlyTrend
// @Summary     Monthly nutrition trend
// @Description Range summary over the last N calendar months (calendar-month subtraction, not a fixed 30-day window), anchored to the current time.
// @Tags        Nutrition
// @Produce     json
//
// @Param       userId  path   string  true   "User ID"
// @Param       months  query  int     false  "Number of months"  minimum(1) default(1)
//
// @Success     200  {object}  services.TrendResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/monthly-trend/{userId} [get]
func (h *Handlers) GetMonthlyTrend(c *gin.Context) {
	userID := c.Param("userId")
	months := utils.AtoiDefault(c.Query("months"), 1)

	trend, err := h.nutritionSvc.MonthlyTrend(c.Request.Context(), userID, months)
	if err != nil {
		failFromService(c, err, ErrCodeSummaryFailed)
		return
	}
	ok(c, http.StatusOK, trend)
}

// GetFoodLogStats godoc
// @ID          getFoodLogStats
// @Summary     Per-user food-log statistics
// @Description Aggregate counters over a user's whole history: entry count, nutrition totals, average quantity, and per-meal-type counts.
// @Tags        Nutrition
// @Produce     json
//
// @Param       userId  path  string  true  "User ID"
//
// @Success     200  {object}  repo.FoodLogStats
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/stats/{userId} [get]
func (h *Handlers) GetFoodLogStats(c *gin.Context) {
	stats, err := h.nutritionSvc.Stats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFromService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, stats)
}
