package handlers

import (
	"net/http"
	"strconv"

	"daylog-api/models"
	"daylog-api/observability"
	"daylog-api/pkg/events"
	"daylog-api/pkg/notify"
	"daylog-api/repository"
	"daylog-api/types"

	"github.com/gin-gonic/gin"
)

type ActivitiesHandler struct {
	repo     *repository.ActivitiesRepository
	notifier notify.Notifier
}

func NewActivitiesHandler(repo *repository.ActivitiesRepository) *ActivitiesHandler {
	return &ActivitiesHandler{repo: repo}
}

func (h *ActivitiesHandler) WithNotifier(n notify.Notifier) *ActivitiesHandler {
	h.notifier = n
	return h
}

func (h *ActivitiesHandler) notifyUser(userID string, event events.ActivityEvent) {
	if h.notifier != nil {
		h.notifier.NotifyUser(userID, event)
	}
}

// ListActivities returns the caller's activities, optionally filtered to a
// single date via ?date=YYYY-MM-DD. The response is a plain JSON array.
func (h *ActivitiesHandler) ListActivities(c *gin.Context) {
	userID := c.GetString("userId")
	var date *string
	if d := c.Query("date"); d != "" {
		date = &d
	}
	activities, err := h.repo.ListActivities(userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list activities"))
		return
	}
	c.JSON(http.StatusOK, activities)
}

// CreateActivity validates the payload, re-reads the day's current total and
// rejects the write when it would push the day past the 1440-minute budget.
// The aggregate read and the insert are deliberately two statements; the
// narrow race between concurrent writers for the same day is accepted.
func (h *ActivitiesHandler) CreateActivity(c *gin.Context) {
	userID := c.GetString("userId")
	var req models.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(err.Error()))
		return
	}

	currentTotal, err := h.repo.SumDurations(userID, req.ActivityDate, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to check daily budget"))
		return
	}
	if currentTotal+req.Duration > models.DailyBudgetMinutes {
		observability.RecordBudgetRejection()
		c.JSON(http.StatusBadRequest, types.NewBudgetExceededResponse(models.DailyBudgetMinutes-currentTotal))
		return
	}

	created, err := h.repo.CreateActivity(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to create activity"))
		return
	}
	observability.RecordActivityCreated(created.Category)
	h.notifyUser(userID, events.NewActivityCreated(created))
	c.JSON(http.StatusCreated, created)
}

// UpdateActivity applies a partial update. When duration or date changes,
// the budget is re-checked against the target date with the updated row's
// own prior duration excluded from the sum.
func (h *ActivitiesHandler) UpdateActivity(c *gin.Context) {
	userID := c.GetString("userId")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		// A non-numeric id can never match a row; same outcome as a
		// missing one.
		c.JSON(http.StatusNotFound, types.NewErrorResponse("Activity not found"))
		return
	}
	var req models.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(err.Error()))
		return
	}

	existing, err := h.repo.GetActivityByID(userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to load activity"))
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("Activity not found"))
		return
	}

	if req.TouchesBudget() {
		targetDate := existing.ActivityDate
		if req.ActivityDate != nil {
			targetDate = *req.ActivityDate
		}
		newDuration := existing.Duration
		if req.Duration != nil {
			newDuration = *req.Duration
		}
		currentTotal, err := h.repo.SumDurations(userID, targetDate, &id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to check daily budget"))
			return
		}
		if currentTotal+newDuration > models.DailyBudgetMinutes {
			observability.RecordBudgetRejection()
			c.JSON(http.StatusBadRequest, types.NewBudgetExceededResponse(models.DailyBudgetMinutes-currentTotal))
			return
		}
	}

	updated, err := h.repo.UpdateActivity(userID, id, &req)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to update activity"))
		return
	}
	h.notifyUser(userID, events.NewActivityUpdated(updated))
	c.JSON(http.StatusOK, updated)
}

// DeleteActivity hard-deletes the caller's activity. Deleting an id that
// does not exist, or that belongs to someone else, is a 404 every time.
func (h *ActivitiesHandler) DeleteActivity(c *gin.Context) {
	userID := c.GetString("userId")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("Activity not found"))
		return
	}
	deleted, err := h.repo.DeleteActivity(userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to delete activity"))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("Activity not found"))
		return
	}
	h.notifyUser(userID, events.NewActivityDeleted(id))
	c.JSON(http.StatusOK, types.NewSuccessResponse())
}
