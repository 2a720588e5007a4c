package handlers

import "net/http"

func (s *E2ETestSuite) Test20_AnalyticsBreakdown() {
	date := s.uniqueDate()
	s.createActivity("Office", "Work", 480, date)
	s.createActivity("Night", "Sleep", 480, date)
	s.createActivity("Emails", "Work", 60, date)

	resp := s.do("GET", "/api/analytics/"+date, s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var analytics struct {
		Date              string                   `json:"date"`
		Activities        []map[string]interface{} `json:"activities"`
		TotalMinutes      int                      `json:"totalMinutes"`
		CategoryBreakdown map[string]int           `json:"categoryBreakdown"`
	}
	s.decode(resp, &analytics)

	s.Equal(date, analytics.Date)
	s.Equal(1020, analytics.TotalMinutes)
	s.Equal(map[string]int{"Work": 540, "Sleep": 480}, analytics.CategoryBreakdown)

	// Timeline is insertion ordered.
	s.Len(analytics.Activities, 3)
	s.Equal("Office", analytics.Activities[0]["title"])
	s.Equal("Emails", analytics.Activities[2]["title"])
}

func (s *E2ETestSuite) Test21_AnalyticsEmptyDay() {
	date := s.uniqueDate()

	resp := s.do("GET", "/api/analytics/"+date, s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var analytics struct {
		Activities        []map[string]interface{} `json:"activities"`
		TotalMinutes      int                      `json:"totalMinutes"`
		CategoryBreakdown map[string]int           `json:"categoryBreakdown"`
	}
	s.decode(resp, &analytics)

	s.NotNil(analytics.Activities)
	s.Empty(analytics.Activities)
	s.Zero(analytics.TotalMinutes)
	s.Empty(analytics.CategoryBreakdown)
}

func (s *E2ETestSuite) Test22_AnalyticsScopedToOwner() {
	date := s.uniqueDate()
	s.createActivity("Mine only", "Work", 200, date)

	resp := s.do("GET", "/api/analytics/"+date, s.otherToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var analytics struct {
		TotalMinutes int `json:"totalMinutes"`
	}
	s.decode(resp, &analytics)
	s.Zero(analytics.TotalMinutes)
}

func (s *E2ETestSuite) Test23_AnalyticsNonDateString() {
	// A malformed date matches no rows and is indistinguishable from an
	// empty day: success with zero totals, never an error.
	resp := s.do("GET", "/api/analytics/not-a-date", s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var analytics struct {
		Date              string                   `json:"date"`
		Activities        []map[string]interface{} `json:"activities"`
		TotalMinutes      int                      `json:"totalMinutes"`
		CategoryBreakdown map[string]int           `json:"categoryBreakdown"`
	}
	s.decode(resp, &analytics)
	s.Equal("not-a-date", analytics.Date)
	s.NotNil(analytics.Activities)
	s.Empty(analytics.Activities)
	s.Zero(analytics.TotalMinutes)
	s.Empty(analytics.CategoryBreakdown)
}
