package pm100

import (
	"fmt"

	"github.com/smk-uk/pm100-go/pkg/scpi"
	"github.com/smk-uk/pm100-go/pkg/visa"
)

// Unit is the meter's native measurement unit: linear watts or
// logarithmic dBm.
type Unit string

const (
	// Watts configures the meter to report linear power in watts.
	Watts Unit = "W"

	// DBM configures the meter to report logarithmic power in dBm.
	DBM Unit = "DBM"
)

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case DBM:
		return "dBm"
	case Watts:
		return "Watts"
	default:
		return string(u)
	}
}

// PM100 SCPI command tree.
const (
	cmdIdentify     = "*IDN?"
	cmdUnit         = "SENS:POW:DC:UNIT"
	cmdRangeAuto    = "SENS:POW:DC:RANG:AUTO"
	cmdRangeUpper   = "SENS:POW:DC:RANG:UPP?"
	cmdFilterState  = "INP:PDI:FILT:LPAS:STAT"
	cmdWavelength   = "SENS:CORR:WAV"
	cmdAverageCount = "SENS:AVER:COUN"
	cmdConfigPower  = "CONF:SCAL:POW"
	cmdRead         = "READ?"
)

// Meter is a Driver speaking the PM100 SCPI command tree over an open
// session.
type Meter struct {
	sess visa.Session
}

// New wraps an open session in a PM100 driver.
func New(sess visa.Session) *Meter {
	return &Meter{sess: sess}
}

// Identify returns the instrument identification string.
func (m *Meter) Identify() (string, error) {
	return m.sess.Query(cmdIdentify)
}

// SetAutoRange enables or disables automatic power-range selection.
func (m *Meter) SetAutoRange(on bool) error {
	return m.sess.Write(cmdRangeAuto + " " + scpi.OnOff(on))
}

// GetAutoRange reports whether auto-ranging is enabled.
func (m *Meter) GetAutoRange() (bool, error) {
	resp, err := m.sess.Query(cmdRangeAuto + "?")
	if err != nil {
		return false, err
	}
	return scpi.ParseBool(resp)
}

// SetUnit selects the meter's native measurement unit.
func (m *Meter) SetUnit(u Unit) error {
	return m.sess.Write(cmdUnit + " " + string(u))
}

// GetUnit returns the meter's native measurement unit.
func (m *Meter) GetUnit() (Unit, error) {
	resp, err := m.sess.Query(cmdUnit + "?")
	if err != nil {
		return "", err
	}
	switch resp {
	case "W":
		return Watts, nil
	case "DBM":
		return DBM, nil
	default:
		return "", fmt.Errorf("%w: unknown unit %q", scpi.ErrBadResponse, resp)
	}
}

// SetFilterState sets the photodiode low-pass filter state bit.
func (m *Meter) SetFilterState(state int) error {
	return m.sess.Write(fmt.Sprintf("%s %d", cmdFilterState, state))
}

// GetFilterState returns the low-pass filter state bit.
func (m *Meter) GetFilterState() (int, error) {
	resp, err := m.sess.Query(cmdFilterState + "?")
	if err != nil {
		return 0, err
	}
	return scpi.ParseInt(resp)
}

// SetWavelength sets the wavelength correction in nanometers.
func (m *Meter) SetWavelength(nm float64) error {
	return m.sess.Write(fmt.Sprintf("%s %g", cmdWavelength, nm))
}

// GetWavelength returns the wavelength correction in nanometers.
func (m *Meter) GetWavelength() (float64, error) {
	resp, err := m.sess.Query(cmdWavelength + "?")
	if err != nil {
		return 0, err
	}
	return scpi.ParseFloat(resp)
}

// SetAverageCount sets the number of samples averaged per reading.
func (m *Meter) SetAverageCount(n int) error {
	return m.sess.Write(fmt.Sprintf("%s %d", cmdAverageCount, n))
}

// GetAverageCount returns the number of samples averaged per reading.
func (m *Meter) GetAverageCount() (int, error) {
	resp, err := m.sess.Query(cmdAverageCount + "?")
	if err != nil {
		return 0, err
	}
	return scpi.ParseInt(resp)
}

// GetUpperRange returns the configured upper power range in watts.
func (m *Meter) GetUpperRange() (float64, error) {
	resp, err := m.sess.Query(cmdRangeUpper)
	if err != nil {
		return 0, err
	}
	return scpi.ParseFloat(resp)
}

// ConfigureScalarPower configures the meter for scalar power measurement.
func (m *Meter) ConfigureScalarPower() error {
	return m.sess.Write(cmdConfigPower)
}

// ReadRaw triggers a measurement and returns the raw reading.
func (m *Meter) ReadRaw() (float64, error) {
	resp, err := m.sess.Query(cmdRead)
	if err != nil {
		return 0, err
	}
	return scpi.ParseFloat(resp)
}

// SystemError pops one record from the instrument error queue.
func (m *Meter) SystemError() (scpi.Error, error) {
	resp, err := m.sess.Query("SYST:ERR?")
	if err != nil {
		return scpi.Error{}, err
	}
	return scpi.ParseError(resp)
}
