package events

import (
	"github.com/google/uuid"

	"hn-digest/internal/logger"
	"hn-digest/models"
)

// Sink receives progress from a pipeline run. Implementations must be safe
// for calls from the run's goroutine and must not block for long; a slow
// sink stalls the pipeline.
type Sink interface {
	OnStage(stage Stage, message string)
	OnComplete(digest *models.Digest)
	OnError(message string)
	OnCancelled()
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) OnStage(Stage, string)     {}
func (NopSink) OnComplete(*models.Digest) {}
func (NopSink) OnError(string)            {}
func (NopSink) OnCancelled()              {}

// LogSink writes progress to the structured log.
type LogSink struct {
	runID string
}

// NewLogSink builds a LogSink with a fresh run ID.
func NewLogSink() *LogSink {
	return &LogSink{runID: uuid.NewString()}
}

func (s *LogSink) OnStage(stage Stage, message string) {
	logger.InfoWithFields("stage completed", logger.Fields{
		"run_id":  s.runID,
		"stage":   string(stage),
		"message": message,
	})
}

func (s *LogSink) OnComplete(digest *models.Digest) {
	logger.InfoWithFields("run completed", logger.Fields{
		"run_id":     s.runID,
		"articles":   digest.Stats.Final,
		"errors":     digest.Stats.Errors,
		"elapsed_ms": digest.Stats.GenerationTimeMS,
	})
}

func (s *LogSink) OnError(message string) {
	logger.ErrorWithFields("run failed", logger.Fields{
		"run_id": s.runID,
		"error":  message,
	})
}

func (s *LogSink) OnCancelled() {
	logger.WarnWithFields("run cancelled", logger.Fields{
		"run_id": s.runID,
	})
}

// ChannelSink serializes records onto a channel for an external transport
// to relay. Records are dropped, not queued, when the channel is full.
type ChannelSink struct {
	runID string
	out   chan []byte
}

// NewChannelSink builds a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{
		runID: uuid.NewString(),
		out:   make(chan []byte, buffer),
	}
}

// Events returns the channel the serialized records arrive on. Closed
// after the terminal record is sent.
func (s *ChannelSink) Events() <-chan []byte {
	return s.out
}

func (s *ChannelSink) OnStage(stage Stage, message string) {
	s.send(StageEvent{
		BaseEvent: NewBase(StageCompleted, s.runID),
		Stage:     stage,
		Message:   message,
	})
}

func (s *ChannelSink) OnComplete(digest *models.Digest) {
	s.send(RunCompletedEvent{
		BaseEvent: NewBase(RunCompleted, s.runID),
		Articles:  digest.Stats.Final,
		Errors:    digest.Stats.Errors,
		ElapsedMS: digest.Stats.GenerationTimeMS,
	})
	close(s.out)
}

func (s *ChannelSink) OnError(message string) {
	s.send(RunFailedEvent{
		BaseEvent: NewBase(RunFailed, s.runID),
		Message:   message,
	})
	close(s.out)
}

func (s *ChannelSink) OnCancelled() {
	s.send(RunCancelledEvent{
		BaseEvent: NewBase(RunCancelled, s.runID),
	})
	close(s.out)
}

func (s *ChannelSink) send(event interface{}) {
	data, eventType, err := Serialize(event)
	if err != nil {
		logger.Log.Errorf("serialize %s event: %v", eventType, err)
		return
	}
	select {
	case s.out <- data:
	default:
		logger.Log.Warnf("event channel full, dropping %s record", eventType)
	}
}
