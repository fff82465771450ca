package visa

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is the conventional SCPI raw socket port.
const DefaultPort = 5025

// ErrInvalidResource indicates a resource name that could not be parsed.
var ErrInvalidResource = errors.New("invalid resource name")

// Resource is a parsed TCPIP SOCKET resource name.
type Resource struct {
	// Board is the interface board number (the digits after "TCPIP").
	Board int

	// Host is the instrument hostname or IP address.
	Host string

	// Port is the TCP port.
	Port int
}

// String formats the resource in VISA notation,
// e.g. "TCPIP0::192.168.1.50::5025::SOCKET".
func (r Resource) String() string {
	return fmt.Sprintf("TCPIP%d::%s::%d::SOCKET", r.Board, r.Host, r.Port)
}

// Addr returns the host:port dial address for the resource.
func (r Resource) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// ParseResource parses a resource name. Two forms are accepted:
//
//	TCPIP[board]::host[::port]::SOCKET   VISA notation, port defaults to 5025
//	host:port                            bare dial address shorthand
func ParseResource(name string) (Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resource{}, fmt.Errorf("%w: empty name", ErrInvalidResource)
	}

	if !strings.Contains(name, "::") {
		host, portStr, err := net.SplitHostPort(name)
		if err != nil {
			return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResource, name)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return Resource{}, fmt.Errorf("%w: bad port in %q", ErrInvalidResource, name)
		}
		return Resource{Host: host, Port: port}, nil
	}

	parts := strings.Split(name, "::")
	if len(parts) < 3 || len(parts) > 4 {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResource, name)
	}
	if !strings.EqualFold(parts[len(parts)-1], "SOCKET") {
		return Resource{}, fmt.Errorf("%w: %q is not a SOCKET resource", ErrInvalidResource, name)
	}

	head := strings.ToUpper(parts[0])
	if !strings.HasPrefix(head, "TCPIP") {
		return Resource{}, fmt.Errorf("%w: unsupported interface in %q", ErrInvalidResource, name)
	}
	board := 0
	if digits := head[len("TCPIP"):]; digits != "" {
		b, err := strconv.Atoi(digits)
		if err != nil || b < 0 {
			return Resource{}, fmt.Errorf("%w: bad board number in %q", ErrInvalidResource, name)
		}
		board = b
	}

	host := parts[1]
	if host == "" {
		return Resource{}, fmt.Errorf("%w: empty host in %q", ErrInvalidResource, name)
	}

	port := DefaultPort
	if len(parts) == 4 {
		p, err := strconv.Atoi(parts[2])
		if err != nil || p <= 0 || p > 65535 {
			return Resource{}, fmt.Errorf("%w: bad port in %q", ErrInvalidResource, name)
		}
		port = p
	}

	return Resource{Board: board, Host: host, Port: port}, nil
}
