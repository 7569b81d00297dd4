// Package events defines the progress records a pipeline run emits and the
// sinks that receive them. The pipeline only talks to the Sink interface;
// how records reach an observer (channel, log, push stream) is up to the
// sink implementation.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the record kind on the wire.
type EventType string

const (
	StageCompleted EventType = "stage.completed"
	RunCompleted   EventType = "run.completed"
	RunFailed      EventType = "run.failed"
	RunCancelled   EventType = "run.cancelled"
)

// Stage names one step of the pipeline, in execution order.
type Stage string

const (
	StageFetching    Stage = "fetching"
	StageExtracting  Stage = "extracting"
	StageFiltering   Stage = "filtering"
	StageSummarizing Stage = "summarizing"
	StageScoring     Stage = "scoring"
	StageRanking     Stage = "ranking"
	StageFormatting  Stage = "formatting"
)

// BaseEvent is the envelope every record carries.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
}

// StageEvent reports one completed pipeline stage.
type StageEvent struct {
	BaseEvent
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// RunCompletedEvent is the terminal record of a successful run. The digest
// itself travels out of band; the record carries only the headline numbers.
type RunCompletedEvent struct {
	BaseEvent
	Articles  int   `json:"articles"`
	Errors    int   `json:"errors"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// RunFailedEvent is the terminal record of a run that hit a fatal error.
type RunFailedEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// RunCancelledEvent is the terminal record of a cancelled run.
type RunCancelledEvent struct {
	BaseEvent
}

const source = "hn-digest"

// NewBase stamps a fresh envelope for a record of the given type.
func NewBase(eventType EventType, runID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		Source:    source,
	}
}

// Serialize marshals a record and returns its type tag for routing.
func Serialize(event interface{}) ([]byte, EventType, error) {
	var eventType EventType

	switch e := event.(type) {
	case StageEvent:
		eventType = e.Type
	case RunCompletedEvent:
		eventType = e.Type
	case RunFailedEvent:
		eventType = e.Type
	case RunCancelledEvent:
		eventType = e.Type
	default:
		return nil, "", fmt.Errorf("unknown event type: %T", event)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, eventType, nil
}

// Deserialize unmarshals a record into the struct matching its type tag.
func Deserialize(eventType EventType, data []byte) (interface{}, error) {
	var event interface{}

	switch eventType {
	case StageCompleted:
		event = &StageEvent{}
	case RunCompleted:
		event = &RunCompletedEvent{}
	case RunFailed:
		event = &RunFailedEvent{}
	case RunCancelled:
		event = &RunCancelledEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
