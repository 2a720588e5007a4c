package types

// ErrorResponse is the error body for every failing endpoint. Budget
// rejections additionally carry the minutes still available for the day.
type ErrorResponse struct {
	Error     string `json:"error"`
	Remaining *int   `json:"remaining,omitempty"`
}

// SuccessResponse is the body for endpoints that only acknowledge an action,
// such as delete and logout.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// NewErrorResponse creates a plain error body.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// NewBudgetExceededResponse creates the budget-rejection body reporting the
// remaining minutes before the daily ceiling.
func NewBudgetExceededResponse(remaining int) *ErrorResponse {
	return &ErrorResponse{
		Error:     "Total minutes for this day would exceed 1440",
		Remaining: &remaining,
	}
}

// NewSuccessResponse creates an acknowledgement body.
func NewSuccessResponse() *SuccessResponse {
	return &SuccessResponse{Success: true}
}
