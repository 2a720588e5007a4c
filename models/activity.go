package models

import (
	"errors"
	"regexp"
	"time"
)

// DailyBudgetMinutes is the hard ceiling on summed activity durations for a
// single (user, date) pair: 24 hours.
const DailyBudgetMinutes = 1440

type Activity struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Duration     int       `json:"duration"`
	ActivityDate string    `json:"activity_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var activityDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateActivityDate checks both the YYYY-MM-DD shape and calendar
// validity, so "2024-13-40" is rejected even though it matches the pattern.
func ValidateActivityDate(s string) error {
	if !activityDatePattern.MatchString(s) {
		return errors.New("activity_date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return errors.New("activity_date is not a valid calendar date")
	}
	return nil
}

// CreateActivityRequest is the payload for creating an activity. All fields
// are required.
type CreateActivityRequest struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Duration     int    `json:"duration"`
	ActivityDate string `json:"activity_date"`
}

func (r *CreateActivityRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Category == "" {
		return errors.New("category is required")
	}
	if r.Duration <= 0 {
		return errors.New("duration must be a positive integer")
	}
	return ValidateActivityDate(r.ActivityDate)
}

// UpdateActivityRequest carries partial update semantics: a nil field means
// "leave unchanged". There is no way to clear a field, which matches the
// product's update model.
type UpdateActivityRequest struct {
	Title        *string `json:"title"`
	Category     *string `json:"category"`
	Duration     *int    `json:"duration"`
	ActivityDate *string `json:"activity_date"`
}

func (r *UpdateActivityRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return errors.New("title must not be empty")
	}
	if r.Category != nil && *r.Category == "" {
		return errors.New("category must not be empty")
	}
	if r.Duration != nil && *r.Duration <= 0 {
		return errors.New("duration must be a positive integer")
	}
	if r.ActivityDate != nil {
		return ValidateActivityDate(*r.ActivityDate)
	}
	return nil
}

// TouchesBudget reports whether the update can change a day total and
// therefore requires a budget re-check.
func (r *UpdateActivityRequest) TouchesBudget() bool {
	return r.Duration != nil || r.ActivityDate != nil
}

// DailyAnalytics is the derived, never-persisted aggregation of one user's
// activities for one date.
type DailyAnalytics struct {
	Date              string         `json:"date"`
	Activities        []*Activity    `json:"activities"`
	TotalMinutes      int            `json:"totalMinutes"`
	CategoryBreakdown map[string]int `json:"categoryBreakdown"`
}

// ComputeDailyAnalytics reduces an ordered activity list into totals and a
// per-category sum. An empty input yields a valid zero result whose slice and
// map serialize as [] and {}, not null.
func ComputeDailyAnalytics(date string, activities []*Activity) *DailyAnalytics {
	a := &DailyAnalytics{
		Date:              date,
		Activities:        make([]*Activity, 0, len(activities)),
		CategoryBreakdown: make(map[string]int),
	}
	for _, act := range activities {
		a.Activities = append(a.Activities, act)
		a.TotalMinutes += act.Duration
		a.CategoryBreakdown[act.Category] += act.Duration
	}
	return a
}
