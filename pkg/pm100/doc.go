// Package pm100 implements the instrument driver for Thorlabs
// PM100-series optical power meters.
//
// The Driver interface exposes the meter's configuration subsystem as
// named capabilities so callers (and tests) never touch SCPI directly.
// Meter is the real implementation, speaking the PM100 SCPI command
// tree over a visa.Session.
package pm100
