package domain

import "time"

// UnknownApp is the sentinel used when an event carries no app identity.
const UnknownApp = "unknown"

// Interaction actions. Only these count toward engagement metrics;
// every other action is still stored and feeds error/volume stats.
const (
	ActionOpen    = "open"
	ActionStart   = "start"
	ActionAccess  = "access"
	ActionView    = "view"
	ActionExecute = "execute"
)

// Lifecycle actions, surfaced in the report's lifecycle feed.
const (
	ActionCreateApp = "createApp"
	ActionDeleteApp = "deleteApp"
	ActionDeployApp = "deployApp"
	ActionStartApp  = "startApp"
	ActionStopApp   = "stopApp"
)

var interactionActions = map[string]struct{}{
	ActionOpen:    {},
	ActionStart:   {},
	ActionAccess:  {},
	ActionView:    {},
	ActionExecute: {},
}

var lifecycleActions = map[string]struct{}{
	ActionCreateApp: {},
	ActionDeleteApp: {},
	ActionDeployApp: {},
	ActionStartApp:  {},
	ActionStopApp:   {},
}

// Event is one normalized interaction record from the audit log.
// StatusCode 0 and ErrorMessage "" mean the source field was null.
type Event struct {
	EventID      string
	UserID       string
	AppID        string
	AppName      string
	Action       string
	EventTime    time.Time
	StatusCode   int
	ErrorMessage string
	DedupeKey    string
}

// IsInteraction reports whether the event counts toward interaction volume.
func (e Event) IsInteraction() bool {
	_, ok := interactionActions[e.Action]
	return ok
}

// IsLifecycle reports whether the event is an app lifecycle action.
func (e Event) IsLifecycle() bool {
	_, ok := lifecycleActions[e.Action]
	return ok
}

// IsError implements the source contract: status_code >= 400 OR
// error_message is not null.
func (e Event) IsError() bool {
	return e.StatusCode >= 400 || e.ErrorMessage != ""
}

// IsSuccess reports a 2xx status code.
func (e Event) IsSuccess() bool {
	return e.StatusCode >= 200 && e.StatusCode <= 299
}

// App returns the display identity for the event's target app, falling
// back app_name -> app_id -> UnknownApp like the source's COALESCE.
func (e Event) App() string {
	if e.AppName != "" {
		return e.AppName
	}
	if e.AppID != "" {
		return e.AppID
	}
	return UnknownApp
}

// Valid reports whether the event has the required fields. Invalid events
// are dropped and counted, never fatal.
func (e Event) Valid() bool {
	return e.UserID != "" && !e.EventTime.IsZero()
}

// Clean drops malformed events and returns the kept slice plus the number
// skipped. The input is never mutated.
func Clean(events []Event) ([]Event, int) {
	kept := make([]Event, 0, len(events))
	skipped := 0
	for _, e := range events {
		if !e.Valid() {
			skipped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, skipped
}
