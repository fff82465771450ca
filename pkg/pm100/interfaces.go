package pm100

// Driver exposes the power meter's configuration and measurement
// capabilities. Implemented by Meter; substitute a fake in tests.
type Driver interface {
	// Identify returns the instrument identification string (*IDN?).
	Identify() (string, error)

	// SetAutoRange enables or disables automatic power-range selection.
	SetAutoRange(on bool) error

	// GetAutoRange reports whether auto-ranging is enabled.
	GetAutoRange() (bool, error)

	// SetUnit selects the meter's native measurement unit.
	SetUnit(u Unit) error

	// GetUnit returns the meter's native measurement unit.
	GetUnit() (Unit, error)

	// SetFilterState sets the photodiode low-pass filter state bit
	// (1 enables the filter, 0 disables it).
	SetFilterState(state int) error

	// GetFilterState returns the low-pass filter state bit.
	GetFilterState() (int, error)

	// SetWavelength sets the wavelength correction in nanometers.
	SetWavelength(nm float64) error

	// GetWavelength returns the wavelength correction in nanometers.
	GetWavelength() (float64, error)

	// SetAverageCount sets the number of samples averaged per reading.
	SetAverageCount(n int) error

	// GetAverageCount returns the number of samples averaged per reading.
	GetAverageCount() (int, error)

	// GetUpperRange returns the configured upper power range in watts.
	GetUpperRange() (float64, error)

	// ConfigureScalarPower configures the meter for scalar power
	// measurement.
	ConfigureScalarPower() error

	// ReadRaw triggers a measurement and returns the raw reading in the
	// meter's native unit.
	ReadRaw() (float64, error)
}

// Compile-time interface satisfaction check.
var _ Driver = (*Meter)(nil)
