package visa

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionClosed is returned for operations on a closed session.
var ErrSessionClosed = errors.New("session closed")

// DefaultSessionTimeout bounds session operations when no timeout is given.
const DefaultSessionTimeout = 2 * time.Second

// SocketSession is a Session over a raw TCP connection speaking
// newline-terminated SCPI. It is safe for concurrent use; operations are
// serialized so a query's response cannot interleave with another write.
type SocketSession struct {
	mu       sync.Mutex
	conn     net.Conn
	reader   *bufio.Reader
	id       string
	resource string
	timeout  time.Duration
	closed   bool
}

// DialSocket opens a socket session to the named resource. The timeout
// bounds the dial and every subsequent Write/Query round-trip.
func DialSocket(ctx context.Context, name string, timeout time.Duration) (*SocketSession, error) {
	res, err := ParseResource(name)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", res.Addr())
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", res.Addr(), err)
	}

	return NewSocketSession(conn, res.String(), timeout), nil
}

// NewSocketSession wraps an established connection in a session. Used by
// DialSocket and by tests that supply a pipe instead of a real dial.
func NewSocketSession(conn net.Conn, resource string, timeout time.Duration) *SocketSession {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &SocketSession{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		id:       uuid.NewString(),
		resource: resource,
		timeout:  timeout,
	}
}

// ID returns the unique identifier assigned to this session.
func (s *SocketSession) ID() string {
	return s.id
}

// Resource returns the resource name the session was opened against.
func (s *SocketSession) Resource() string {
	return s.resource
}

// Write sends a command, appending the line terminator.
func (s *SocketSession) Write(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return err
	}
	if _, err := s.conn.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("write %q failed: %w", cmd, err)
	}
	return nil
}

// Query sends a command and reads one response line.
func (s *SocketSession) Query(cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrSessionClosed
	}
	deadline := time.Now().Add(s.timeout)
	if err := s.conn.SetDeadline(deadline); err != nil {
		return "", err
	}
	if _, err := s.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("write %q failed: %w", cmd, err)
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read response to %q failed: %w", cmd, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close releases the connection. It is safe to call Close multiple times.
func (s *SocketSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
