package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
)

// Event types.
const (
	TypeReviewRecorded = "card.review_recorded"
)

// Event is a single published fact. Payload is JSON so that handlers do not
// depend on the emitter's types.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an event of the given type with payload encoded as JSON.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReviewRecorded is the payload of TypeReviewRecorded.
type ReviewRecorded struct {
	Log domain.ReviewLog `json:"log"`
}

// NewReviewRecordedEvent wraps a review log entry in an event.
func NewReviewRecordedEvent(entry domain.ReviewLog) (*Event, error) {
	return NewEvent(TypeReviewRecorded, ReviewRecorded{Log: entry})
}

// EventHandler processes events. Handlers ignore types they do not know.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events to every registered handler.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
