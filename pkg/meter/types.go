package meter

import (
	"errors"

	"github.com/smk-uk/pm100-go/pkg/pm100"
)

// Controller errors.
var (
	// ErrNoDevices indicates that resource enumeration found nothing to
	// connect to.
	ErrNoDevices = errors.New("no devices found")

	// ErrNotConnected indicates an operation that requires an open session.
	ErrNotConnected = errors.New("no device connected")

	// ErrAlreadyConnected indicates Initialize on an open controller.
	ErrAlreadyConnected = errors.New("device already connected")

	// ErrNoSelection indicates that several devices were found but none
	// was selected.
	ErrNoSelection = errors.New("no device selected")

	// ErrInvalidUnit indicates a unit symbol outside the unit table.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrInvalidBandwidth indicates a bandwidth outside {low, high}.
	ErrInvalidBandwidth = errors.New("invalid bandwidth state")

	// ErrInvalidSampleCount indicates a sample count below 1.
	ErrInvalidSampleCount = errors.New("sample count must be at least 1")
)

// Unit is a display unit symbol for power readings.
type Unit string

const (
	// UnitNanowatt displays readings in nanowatts.
	UnitNanowatt Unit = "nW"
	// UnitMicrowatt displays readings in microwatts.
	UnitMicrowatt Unit = "uW"
	// UnitMilliwatt displays readings in milliwatts.
	UnitMilliwatt Unit = "mW"
	// UnitWatt displays readings in watts.
	UnitWatt Unit = "W"
	// UnitDBM displays readings in dBm.
	UnitDBM Unit = "dBm"
)

// unitScale maps each display unit to the factor dividing a raw reading
// into that unit. dBm readings are logarithmic and pass through
// unscaled.
var unitScale = map[Unit]float64{
	UnitNanowatt:  1e-9,
	UnitMicrowatt: 1e-6,
	UnitMilliwatt: 1e-3,
	UnitWatt:      1,
	UnitDBM:       1,
}

// Units lists the valid display units in ascending magnitude order.
func Units() []Unit {
	return []Unit{UnitNanowatt, UnitMicrowatt, UnitMilliwatt, UnitWatt, UnitDBM}
}

// Valid reports whether the unit is in the unit table.
func (u Unit) Valid() bool {
	_, ok := unitScale[u]
	return ok
}

// Scale returns the unit's scale factor.
func (u Unit) Scale() (float64, bool) {
	s, ok := unitScale[u]
	return s, ok
}

// Native maps the display unit to the meter's two-valued native mode:
// dBm selects logarithmic mode, everything else linear watts.
func (u Unit) Native() pm100.Unit {
	if u == UnitDBM {
		return pm100.DBM
	}
	return pm100.Watts
}

// Bandwidth is the detector bandwidth setting.
type Bandwidth string

const (
	// BandwidthLow engages the low-pass filter for low-noise readings.
	BandwidthLow Bandwidth = "low"
	// BandwidthHigh disengages the filter for fast signals.
	BandwidthHigh Bandwidth = "high"
)

// bandwidthState maps the bandwidth setting to the filter state bit:
// low bandwidth means the low-pass filter is engaged.
var bandwidthState = map[Bandwidth]int{
	BandwidthLow:  1,
	BandwidthHigh: 0,
}

// Kind selects the measurement mode for Measure.
type Kind string

const (
	// Single takes one reading.
	Single Kind = "single"
	// Average takes a sequence of readings.
	Average Kind = "average"
)

// Config is the controller's measurement configuration. Scale and Mode
// are derived from Unit and are always updated together with it.
type Config struct {
	// Unit is the current display unit.
	Unit Unit

	// Scale divides raw readings into display units.
	Scale float64

	// Mode is the meter's native unit mode derived from Unit.
	Mode pm100.Unit

	// SampleRate is the per-read averaging count pushed to the meter.
	SampleRate int

	// Averages is the number of sequential reads taken by AverageRead.
	Averages int
}
