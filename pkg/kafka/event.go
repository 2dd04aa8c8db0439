package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnvelopeVersion is the version stamped on events built by NewEvent.
const EnvelopeVersion = 1

// ErrInvalidEvent marks an envelope that decoded but cannot be handled.
var ErrInvalidEvent = errors.New("invalid event")

// Event is the envelope carried by every storefront message. AggregateID is
// the shopper profile for cart and wishlist events and doubles as the
// message key, so one profile's events stay ordered within a partition.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent wraps data in a versioned envelope stamped with a fresh id and
// the current UTC time. Metadata starts nil; WithMetadata allocates it.
func NewEvent(eventType, aggregateID, aggregateType, source string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	e := &Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Version:   EnvelopeVersion,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Data:      payload,
	}
	e.AggregateID, e.AggregateType = aggregateID, aggregateType
	return e, nil
}

// WithCorrelationID tags e with the request that caused it.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithMetadata records one metadata entry; replicas use it to stamp their
// instance id so they can skip their own events.
func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = map[string]string{key: value}
		return e
	}
	e.Metadata[key] = value
	return e
}

// Validate rejects envelopes missing the fields consumers route on, and
// envelopes from a newer producer.
func (e *Event) Validate() error {
	var problem string
	switch {
	case e.EventID == "":
		problem = "missing event_id"
	case e.EventType == "":
		problem = fmt.Sprintf("event %s has no event_type", e.EventID)
	case e.Version > EnvelopeVersion:
		problem = fmt.Sprintf("event %s has unsupported version %d", e.EventID, e.Version)
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidEvent, problem)
}

// Marshal encodes the whole envelope.
func (e *Event) Marshal() ([]byte, error) { return json.Marshal(e) }

// UnmarshalEvent decodes an envelope. Callers validate separately.
func UnmarshalEvent(data []byte) (*Event, error) {
	e := new(Event)
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	return e, nil
}

// UnmarshalData decodes the payload into target.
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
