// Package visa provides the instrument transport layer: VISA-style
// resource names, SCPI socket sessions, and a resource manager that
// enumerates instruments from static configuration and LXI mDNS
// discovery.
//
// Only TCPIP SOCKET resources are implemented. A socket session speaks
// newline-terminated SCPI over a plain TCP connection:
//
//	┌────────────────────────────────┐
//	│      SCPI commands             │
//	├────────────────────────────────┤
//	│   Newline-terminated lines     │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// Every session operation is a blocking round-trip bounded by the
// session timeout. There is no keep-alive; instruments drop idle
// connections on their own schedule.
package visa
