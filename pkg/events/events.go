package events

import "daylog-api/models"

// Event types pushed to connected clients. Changes should be additive.
const (
	TypeActivityCreated = "activity.created"
	TypeActivityUpdated = "activity.updated"
	TypeActivityDeleted = "activity.deleted"
)

// ActivityEvent is the wire shape for live activity updates. Deleted events
// carry only the id.
type ActivityEvent struct {
	Type     string           `json:"type"`
	Activity *models.Activity `json:"activity,omitempty"`
	ID       int64            `json:"id,omitempty"`
}

func NewActivityCreated(a *models.Activity) ActivityEvent {
	return ActivityEvent{Type: TypeActivityCreated, Activity: a, ID: a.ID}
}

func NewActivityUpdated(a *models.Activity) ActivityEvent {
	return ActivityEvent{Type: TypeActivityUpdated, Activity: a, ID: a.ID}
}

func NewActivityDeleted(id int64) ActivityEvent {
	return ActivityEvent{Type: TypeActivityDeleted, ID: id}
}
