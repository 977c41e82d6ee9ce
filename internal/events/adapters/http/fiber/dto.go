package fiber

// CreateEventRequest represents event creation payload
// @Description Audit event creation DTO
type CreateEventRequest struct {
	UserID       string `json:"user_id"`
	AppID        string `json:"app_id"`
	AppName      string `json:"app_name"`
	Action       string `json:"action"`
	Timestamp    int64  `json:"timestamp"`
	StatusCode   int    `json:"status_code"`
	ErrorMessage string `json:"error_message"`
}

type CreateEventResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type BulkCreateEventsRequest struct {
	Events []bulkEventItem `json:"events"`
}

type bulkEventItem struct {
	UserID       string `json:"user_id"`
	AppID        string `json:"app_id"`
	AppName      string `json:"app_name"`
	Action       string `json:"action"`
	Timestamp    int64  `json:"timestamp"`
	StatusCode   int    `json:"status_code"`
	ErrorMessage string `json:"error_message"`
}

type BulkCreateEventsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message" example:"Event payload is invalid"`
}
