package repository

import (
	"database/sql"
	"daylog-api/models"
	"fmt"
	"strings"
	"time"
)

type ActivitiesRepository struct {
	db *sql.DB
}

func NewActivitiesRepository(db *sql.DB) *ActivitiesRepository {
	return &ActivitiesRepository{db: db}
}

const activityColumns = "id, user_id, title, category, duration, activity_date, created_at, updated_at"

func scanActivity(row interface{ Scan(...any) error }) (*models.Activity, error) {
	var a models.Activity
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Title,
		&a.Category,
		&a.Duration,
		&a.ActivityDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActivitiesRepository) CreateActivity(userID string, req *models.CreateActivityRequest) (*models.Activity, error) {
	var newID int64
	now := time.Now().UTC()
	err := r.db.QueryRow(`
		INSERT INTO activities (user_id, title, category, duration, activity_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`, userID, req.Title, req.Category, req.Duration, req.ActivityDate, now).Scan(&newID)
	if err != nil {
		return nil, err
	}
	return r.GetActivityByID(userID, newID)
}

// GetActivityByID returns the activity only when it is owned by userID.
// A missing or foreign row yields (nil, nil).
func (r *ActivitiesRepository) GetActivityByID(userID string, id int64) (*models.Activity, error) {
	a, err := scanActivity(r.db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivities returns all of a user's activities, optionally restricted
// to one date, newest day first and newest entry first within a day.
func (r *ActivitiesRepository) ListActivities(userID string, date *string) ([]*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE user_id = $1`
	args := []any{userID}
	if date != nil {
		query += ` AND activity_date = $2`
		args = append(args, *date)
	}
	query += ` ORDER BY activity_date DESC, created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*models.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ListActivitiesForDate returns one day's activities in insertion order,
// which is the timeline order the analytics view expects.
func (r *ActivitiesRepository) ListActivitiesForDate(userID, date string) ([]*models.Activity, error) {
	rows, err := r.db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE user_id = $1 AND activity_date = $2
		ORDER BY created_at ASC
	`, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*models.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// SumDurations returns the summed duration for (userID, date). When
// excludeID is non-nil that row is left out, which is how updates discount
// the row being replaced. The aggregate is re-read on every call; callers
// must not cache it across the budget check.
func (r *ActivitiesRepository) SumDurations(userID, date string, excludeID *int64) (int, error) {
	query := `SELECT COALESCE(SUM(duration), 0) FROM activities WHERE user_id = $1 AND activity_date = $2`
	args := []any{userID, date}
	if excludeID != nil {
		query += ` AND id != $3`
		args = append(args, *excludeID)
	}
	var total int
	if err := r.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateActivity applies only the fields set in req and refreshes
// updated_at, returning the resulting row. The caller is responsible for
// ownership and budget checks.
func (r *ActivitiesRepository) UpdateActivity(userID string, id int64, req *models.UpdateActivityRequest) (*models.Activity, error) {
	sets := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.Title != nil {
		sets = append(sets, "title = "+arg(*req.Title))
	}
	if req.Category != nil {
		sets = append(sets, "category = "+arg(*req.Category))
	}
	if req.Duration != nil {
		sets = append(sets, "duration = "+arg(*req.Duration))
	}
	if req.ActivityDate != nil {
		sets = append(sets, "activity_date = "+arg(*req.ActivityDate))
	}
	sets = append(sets, "updated_at = "+arg(time.Now().UTC()))

	query := "UPDATE activities SET " + strings.Join(sets, ", ") +
		" WHERE id = " + arg(id) + " AND user_id = " + arg(userID)
	if _, err := r.db.Exec(query, args...); err != nil {
		return nil, err
	}
	return r.GetActivityByID(userID, id)
}

// DeleteActivity removes the row and reports whether anything was deleted.
func (r *ActivitiesRepository) DeleteActivity(userID string, id int64) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM activities
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
