package handlers

import (
	"fmt"
	"net/http"
)

func (s *E2ETestSuite) Test01_CreateActivityValid() {
	date := s.uniqueDate()
	resp := s.do("POST", "/api/activities", s.token, map[string]interface{}{
		"title":         "Morning run",
		"category":      "Exercise",
		"duration":      45,
		"activity_date": date,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	s.decode(resp, &created)
	s.True(created["id"].(float64) > 0)
	s.Equal(s.userID, created["user_id"])
	s.Equal("Morning run", created["title"])
	s.Equal("Exercise", created["category"])
	s.Equal(float64(45), created["duration"])
	s.Equal(date, created["activity_date"])
	s.NotEmpty(created["created_at"])
	s.NotEmpty(created["updated_at"])
}

func (s *E2ETestSuite) Test02_CreateActivityValidation() {
	date := s.uniqueDate()
	cases := []map[string]interface{}{
		{"title": "", "category": "Work", "duration": 30, "activity_date": date},
		{"title": "X", "category": "", "duration": 30, "activity_date": date},
		{"title": "X", "category": "Work", "duration": 0, "activity_date": date},
		{"title": "X", "category": "Work", "duration": -5, "activity_date": date},
		{"title": "X", "category": "Work", "duration": 30, "activity_date": "2024-13-40"},
		{"title": "X", "category": "Work", "duration": 30, "activity_date": "01-01-2024"},
		{"title": "X", "category": "Work", "duration": 30.5, "activity_date": date},
	}
	for i, body := range cases {
		resp := s.do("POST", "/api/activities", s.token, body)
		s.Equal(http.StatusBadRequest, resp.StatusCode, "case %d", i)
		resp.Body.Close()
	}
}

func (s *E2ETestSuite) Test03_CreateActivityBudgetExceeded() {
	date := s.uniqueDate()
	s.createActivity("Long shift", "Work", 1400, date)

	resp := s.do("POST", "/api/activities", s.token, map[string]interface{}{
		"title":         "Gym",
		"category":      "Exercise",
		"duration":      50,
		"activity_date": date,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]interface{}
	s.decode(resp, &errBody)
	s.NotEmpty(errBody["error"])
	s.Equal(float64(40), errBody["remaining"])

	// The rejected write left nothing behind; filling up to exactly 1440 works.
	s.createActivity("Gym", "Exercise", 40, date)

	resp = s.do("GET", "/api/activities?date="+date, s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	s.decode(resp, &list)
	s.Len(list, 2)
	total := 0
	for _, a := range list {
		total += int(a["duration"].(float64))
	}
	s.Equal(1440, total)
}

func (s *E2ETestSuite) Test04_ListActivities() {
	date := s.uniqueDate()
	id := s.createActivity("Unique entry", "Hobby", 25, date)

	resp := s.do("GET", "/api/activities?date="+date, s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	s.decode(resp, &list)

	seen := 0
	for _, a := range list {
		if int64(a["id"].(float64)) == id {
			seen++
		}
	}
	s.Equal(1, seen)

	// Unfiltered listing includes the row too, ordered newest date first.
	resp = s.do("GET", "/api/activities", s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var all []map[string]interface{}
	s.decode(resp, &all)
	s.NotEmpty(all)
	for i := 1; i < len(all); i++ {
		s.LessOrEqual(all[i]["activity_date"].(string), all[i-1]["activity_date"].(string))
	}
}

func (s *E2ETestSuite) Test05_ListOtherUserSeesNothing() {
	date := s.uniqueDate()
	s.createActivity("Private", "Work", 60, date)

	resp := s.do("GET", "/api/activities?date="+date, s.otherToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	s.decode(resp, &list)
	s.Empty(list)
}

func (s *E2ETestSuite) Test06_UpdateActivityPartial() {
	date := s.uniqueDate()
	id := s.createActivity("Draft title", "Work", 120, date)

	resp := s.do("PUT", fmt.Sprintf("/api/activities/%d", id), s.token, map[string]interface{}{
		"title": "Final title",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	var updated map[string]interface{}
	s.decode(resp, &updated)
	s.Equal("Final title", updated["title"])
	// Untouched fields stay as they were.
	s.Equal("Work", updated["category"])
	s.Equal(float64(120), updated["duration"])
	s.Equal(date, updated["activity_date"])
}

func (s *E2ETestSuite) Test07_UpdateBudgetExcludesOwnRow() {
	date := s.uniqueDate()
	s.createActivity("Everything else", "Work", 1340, date)
	id := s.createActivity("Flexible block", "Rest", 100, date)

	// 1340 + 150 > 1440: rejected even though the row's own 100 is excluded.
	resp := s.do("PUT", fmt.Sprintf("/api/activities/%d", id), s.token, map[string]interface{}{
		"duration": 150,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]interface{}
	s.decode(resp, &errBody)
	s.Equal(float64(100), errBody["remaining"])

	// Shrinking the same row is fine: 1340 + 90 <= 1440.
	resp = s.do("PUT", fmt.Sprintf("/api/activities/%d", id), s.token, map[string]interface{}{
		"duration": 90,
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	var updated map[string]interface{}
	s.decode(resp, &updated)
	s.Equal(float64(90), updated["duration"])
}

func (s *E2ETestSuite) Test08_UpdateMovingDateChecksTargetDay() {
	fullDate := s.uniqueDate()
	freeDate := s.uniqueDate()
	s.createActivity("Packed day", "Work", 1440, fullDate)
	id := s.createActivity("Movable", "Hobby", 30, freeDate)

	// Moving onto a full day must be rejected against that day's total.
	resp := s.do("PUT", fmt.Sprintf("/api/activities/%d", id), s.token, map[string]interface{}{
		"activity_date": fullDate,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]interface{}
	s.decode(resp, &errBody)
	s.Equal(float64(0), errBody["remaining"])
}

func (s *E2ETestSuite) Test09_UpdateNotFound() {
	resp := s.do("PUT", "/api/activities/999999999", s.token, map[string]interface{}{
		"title": "Ghost",
	})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// A non-numeric id can never match a row, so it is the same 404.
	resp = s.do("PUT", "/api/activities/not-a-number", s.token, map[string]interface{}{
		"title": "Ghost",
	})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Another user's activity is indistinguishable from a missing one.
	date := s.uniqueDate()
	id := s.createActivity("Mine", "Work", 30, date)
	resp = s.do("PUT", fmt.Sprintf("/api/activities/%d", id), s.otherToken, map[string]interface{}{
		"title": "Stolen",
	})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *E2ETestSuite) Test10_DeleteActivity() {
	date := s.uniqueDate()
	id := s.createActivity("Disposable", "Chores", 15, date)

	resp := s.do("DELETE", fmt.Sprintf("/api/activities/%d", id), s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var ok map[string]interface{}
	s.decode(resp, &ok)
	s.Equal(true, ok["success"])

	// Deleting again is a 404, as is deleting an id that never existed.
	resp = s.do("DELETE", fmt.Sprintf("/api/activities/%d", id), s.token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.do("DELETE", "/api/activities/999999999", s.token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.do("DELETE", "/api/activities/not-a-number", s.token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *E2ETestSuite) Test11_DeleteOtherUsersActivity() {
	date := s.uniqueDate()
	id := s.createActivity("Keep out", "Work", 20, date)

	resp := s.do("DELETE", fmt.Sprintf("/api/activities/%d", id), s.otherToken, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Still there for the owner.
	resp = s.do("GET", "/api/activities?date="+date, s.token, nil)
	var list []map[string]interface{}
	s.decode(resp, &list)
	s.Len(list, 1)
}
