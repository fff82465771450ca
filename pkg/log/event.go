package log

import "time"

// Event records one instrument session event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the instrument session (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Resource is the instrument resource name.
	Resource string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Op names the controller operation that produced the event.
	Op string `cbor:"5,keyasint,omitempty"`

	// Message is a human-readable description.
	Message string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Reading *ReadingEvent     `cbor:"10,keyasint,omitempty"`
	State   *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error   *ErrorEvent       `cbor:"12,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState is a session lifecycle transition.
	CategoryState Category = 0
	// CategoryCommand is a configuration write to the instrument.
	CategoryCommand Category = 1
	// CategoryReading is a measurement result.
	CategoryReading Category = 2
	// CategoryError is a failure at any layer.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryCommand:
		return "COMMAND"
	case CategoryReading:
		return "READING"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ReadingEvent carries a measurement result in display units.
type ReadingEvent struct {
	// Value is a single reading; meaningful when Count is 1.
	Value float64 `cbor:"1,keyasint,omitempty"`

	// Mean of an averaged reading.
	Mean float64 `cbor:"2,keyasint,omitempty"`

	// StdDev of an averaged reading.
	StdDev float64 `cbor:"3,keyasint,omitempty"`

	// Count is the number of raw samples taken.
	Count int `cbor:"4,keyasint"`

	// Unit is the display unit symbol.
	Unit string `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent records a session lifecycle transition.
type StateChangeEvent struct {
	// From is the previous state.
	From string `cbor:"1,keyasint"`

	// To is the new state.
	To string `cbor:"2,keyasint"`
}

// ErrorEvent records a failure.
type ErrorEvent struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`
}

// NewEvent creates an event with the timestamp set to now.
func NewEvent(category Category, sessionID, resource, op string) Event {
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Resource:  resource,
		Category:  category,
		Op:        op,
	}
}
