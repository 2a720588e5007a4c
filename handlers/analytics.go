package handlers

import (
	"net/http"

	"daylog-api/models"
	"daylog-api/repository"
	"daylog-api/types"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	repo *repository.ActivitiesRepository
}

func NewAnalyticsHandler(repo *repository.ActivitiesRepository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

// GetDailyAnalytics returns the per-category breakdown for one of the
// caller's days. The date is not validated: a string that matches no rows,
// malformed or not, produces the same empty zero-total result as a day with
// no activities, which is a normal 200.
func (h *AnalyticsHandler) GetDailyAnalytics(c *gin.Context) {
	userID := c.GetString("userId")
	date := c.Param("date")
	activities, err := h.repo.ListActivitiesForDate(userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to load analytics"))
		return
	}
	c.JSON(http.StatusOK, models.ComputeDailyAnalytics(date, activities))
}
