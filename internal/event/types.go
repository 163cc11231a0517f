package event

import "time"

// Event type identifiers published by the refresh pipeline.
const (
	TypeInfo         = "refresh.info"
	TypeStderr       = "refresh.stderr"
	TypeError        = "refresh.error"
	TypeExit         = "refresh.exit"
	TypeStageChanged = "refresh.stage_changed"
)

// Exit status codes carried by ExitEvent.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "refresh.info", "refresh.exit")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Progress Events
// -----------------------------------------------------------------------------

// InfoEvent carries a human-readable progress string, emitted after each
// major pipeline stage (objects listed, definitions fetched, stubs written).
type InfoEvent struct {
	baseEvent
	Message string
}

// NewInfoEvent creates an InfoEvent.
func NewInfoEvent(message string) InfoEvent {
	return InfoEvent{
		baseEvent: newBaseEvent(TypeInfo),
		Message:   message,
	}
}

// StageChangedEvent is emitted when the pipeline moves between stages.
type StageChangedEvent struct {
	baseEvent
	PreviousStage string // empty on the first transition
	CurrentStage  string
}

// NewStageChangedEvent creates a StageChangedEvent.
func NewStageChangedEvent(previous, current string) StageChangedEvent {
	return StageChangedEvent{
		baseEvent:     newBaseEvent(TypeStageChanged),
		PreviousStage: previous,
		CurrentStage:  current,
	}
}

// -----------------------------------------------------------------------------
// Failure Events
// -----------------------------------------------------------------------------

// StderrEvent carries the human-readable failure string. One StderrEvent is
// published alongside every ErrorEvent.
type StderrEvent struct {
	baseEvent
	Message string
}

// NewStderrEvent creates a StderrEvent.
func NewStderrEvent(message string) StderrEvent {
	return StderrEvent{
		baseEvent: newBaseEvent(TypeStderr),
		Message:   message,
	}
}

// ErrorEvent carries the structured error for programmatic handling.
type ErrorEvent struct {
	baseEvent
	Err error
}

// NewErrorEvent creates an ErrorEvent.
func NewErrorEvent(err error) ErrorEvent {
	return ErrorEvent{
		baseEvent: newBaseEvent(TypeError),
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Terminal Events
// -----------------------------------------------------------------------------

// ExitEvent carries the invocation's terminal status code. It is published
// exactly once per refresh, as the last observable action. Cancellation is
// not a failure: a cancelled run exits with ExitSuccess.
type ExitEvent struct {
	baseEvent
	Code int
}

// NewExitEvent creates an ExitEvent.
func NewExitEvent(code int) ExitEvent {
	return ExitEvent{
		baseEvent: newBaseEvent(TypeExit),
		Code:      code,
	}
}
