// Package meter provides the power meter controller: resource
// discovery, connection lifecycle, and configuration/measurement
// operations against a single Thorlabs PM100-series instrument.
//
// A Controller owns at most one open session at a time. The lifecycle
// is construct -> Initialize -> operate -> Close; after Close the
// controller can be initialized again. Every operation returns a typed
// error; the caller decides whether to log and continue or abort.
package meter
