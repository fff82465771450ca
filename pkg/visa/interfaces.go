package visa

import (
	"context"
	"time"
)

// Session represents an open connection to a single instrument.
// Implemented by SocketSession.
type Session interface {
	// ID returns the unique identifier assigned to this session.
	ID() string

	// Resource returns the resource name the session was opened against.
	Resource() string

	// Write sends a command to the instrument. A line terminator is
	// appended automatically.
	Write(cmd string) error

	// Query sends a command and reads back a single response line with
	// the line terminator stripped.
	Query(cmd string) (string, error)

	// Close releases the connection. Close is idempotent.
	Close() error
}

// ResourceManager enumerates addressable instruments and opens sessions
// against them. Implemented by Manager.
type ResourceManager interface {
	// ListResources returns the resource names of all known instruments.
	// The result may be empty; that is not an error.
	ListResources(ctx context.Context) ([]string, error)

	// Open opens a session to the named resource. The timeout bounds the
	// connection attempt and every subsequent session operation.
	Open(ctx context.Context, name string, timeout time.Duration) (Session, error)
}

// Compile-time interface satisfaction checks.
var (
	_ Session         = (*SocketSession)(nil)
	_ ResourceManager = (*Manager)(nil)
)
