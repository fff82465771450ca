package meter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/smk-uk/pm100-go/pkg/log"
	"github.com/smk-uk/pm100-go/pkg/pm100"
	"github.com/smk-uk/pm100-go/pkg/visa"
)

const (
	// DefaultOpenTimeout bounds the connection attempt and every session
	// round-trip.
	DefaultOpenTimeout = 2500 * time.Millisecond

	// DefaultAverages is the number of reads taken by an averaged
	// measurement when none is given.
	DefaultAverages = 10
)

// Session lifecycle states, reported in state-change log events.
const (
	stateUnopened = "unopened"
	stateOpen     = "open"
)

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// ResourceManager enumerates instruments and opens sessions. Required.
	ResourceManager visa.ResourceManager

	// Chooser resolves ambiguous device lists and invalid unit entry.
	// Optional; without it those paths fail with a typed error instead
	// of prompting.
	Chooser Chooser

	// Logger receives session events. Optional.
	Logger log.Logger

	// Verbose enables reading and configuration log events. State
	// changes are always logged.
	Verbose bool

	// OpenTimeout overrides DefaultOpenTimeout.
	OpenTimeout time.Duration
}

// Controller drives a single PM100-series power meter. It is not safe
// for concurrent use; instrument I/O is strictly sequential.
type Controller struct {
	rm          visa.ResourceManager
	chooser     Chooser
	logger      log.Logger
	verbose     bool
	openTimeout time.Duration

	devices []string
	device  string
	sess    visa.Session
	drv     pm100.Driver
	cfg     Config

	// newDriver wraps an open session in a driver. Tests substitute a
	// fake here.
	newDriver func(visa.Session) pm100.Driver
}

// New creates a controller and enumerates available instruments through
// the resource manager. The device list may be empty; Initialize will
// report that. The default unit is watts.
func New(ctx context.Context, config ControllerConfig) (*Controller, error) {
	if config.ResourceManager == nil {
		return nil, fmt.Errorf("ResourceManager is required")
	}

	devices, err := config.ResourceManager.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("resource enumeration failed: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	timeout := config.OpenTimeout
	if timeout <= 0 {
		timeout = DefaultOpenTimeout
	}

	scale, _ := UnitWatt.Scale()
	return &Controller{
		rm:          config.ResourceManager,
		chooser:     config.Chooser,
		logger:      logger,
		verbose:     config.Verbose,
		openTimeout: timeout,
		devices:     devices,
		cfg: Config{
			Unit:       UnitWatt,
			Scale:      scale,
			Mode:       UnitWatt.Native(),
			SampleRate: 1,
			Averages:   1,
		},
		newDriver: func(sess visa.Session) pm100.Driver {
			return pm100.New(sess)
		},
	}, nil
}

// Refresh re-enumerates available instruments, replacing the device
// list used by Initialize. The open session, if any, is untouched.
func (c *Controller) Refresh(ctx context.Context) error {
	devices, err := c.rm.ListResources(ctx)
	if err != nil {
		return fmt.Errorf("resource enumeration failed: %w", err)
	}
	c.devices = devices
	return nil
}

// Devices returns the resource names found at the last enumeration.
func (c *Controller) Devices() []string {
	out := make([]string, len(c.devices))
	copy(out, c.devices)
	return out
}

// Device returns the resource name of the selected device, or "" before
// the first successful Initialize.
func (c *Controller) Device() string {
	return c.device
}

// Connected reports whether a session is open.
func (c *Controller) Connected() bool {
	return c.drv != nil
}

// Config returns a copy of the current measurement configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Initialize selects a device and opens a session to it.
//
// Selection policy: an explicit resource wins; otherwise a single
// discovered device is used as-is; several discovered devices are put
// to the chooser; none at all is ErrNoDevices.
func (c *Controller) Initialize(ctx context.Context, resource string) error {
	if c.Connected() {
		return ErrAlreadyConnected
	}

	name, err := c.selectResource(resource)
	if err != nil {
		return err
	}

	sess, err := c.rm.Open(ctx, name, c.openTimeout)
	if err != nil {
		return fmt.Errorf("connection to device %s failed: %w", name, err)
	}

	c.device = name
	c.sess = sess
	c.drv = c.newDriver(sess)
	c.logState(stateUnopened, stateOpen, "connected to "+name)
	return nil
}

// selectResource applies the device selection policy.
func (c *Controller) selectResource(resource string) (string, error) {
	if resource != "" {
		return resource, nil
	}
	switch len(c.devices) {
	case 0:
		return "", ErrNoDevices
	case 1:
		return c.devices[0], nil
	}
	if c.chooser == nil {
		return "", fmt.Errorf("%w: %d devices found and no chooser configured",
			ErrNoSelection, len(c.devices))
	}
	choice, err := c.chooser.ChooseOne("device", c.Devices())
	if err != nil {
		return "", fmt.Errorf("device selection failed: %w", err)
	}
	if choice == "" {
		return "", ErrNoSelection
	}
	return choice, nil
}

// Close releases the session. Closing an unconnected controller returns
// ErrNotConnected after logging; it never panics and the controller can
// be initialized again either way.
func (c *Controller) Close() error {
	if c.sess == nil {
		c.logState(stateUnopened, stateUnopened, "no device connected")
		return ErrNotConnected
	}

	err := c.sess.Close()
	c.logState(stateOpen, stateUnopened, "connection to device "+c.device+" ended")
	c.sess = nil
	c.drv = nil
	if err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return nil
}

// driver returns the open driver or ErrNotConnected.
func (c *Controller) driver() (pm100.Driver, error) {
	if c.drv == nil {
		return nil, ErrNotConnected
	}
	return c.drv, nil
}

// Identify returns the instrument identification string.
func (c *Controller) Identify() (string, error) {
	drv, err := c.driver()
	if err != nil {
		return "", err
	}
	return drv.Identify()
}

// SetUnits adopts the given display unit, pushes the derived native
// mode to the meter, and updates the scale factor. The empty unit keeps
// the current one. An invalid unit is re-prompted once through the
// chooser; if the re-entered value is still invalid, ErrInvalidUnit is
// returned and nothing is pushed. On a device failure the previous
// unit, scale, and mode remain in place.
func (c *Controller) SetUnits(unit Unit) error {
	if unit == "" {
		unit = c.cfg.Unit
	}
	if !unit.Valid() {
		reentered, err := c.repromptUnit(unit)
		if err != nil {
			return err
		}
		unit = reentered
	}

	drv, err := c.driver()
	if err != nil {
		return err
	}
	if err := drv.SetUnit(unit.Native()); err != nil {
		return fmt.Errorf("changing unit type failed: %w", err)
	}

	scale, _ := unit.Scale()
	c.cfg.Unit = unit
	c.cfg.Scale = scale
	c.cfg.Mode = unit.Native()
	c.logCommand("set_units", "units set to "+string(unit))
	return nil
}

// repromptUnit gives the operator one chance to re-enter a valid unit.
// The re-entered value is validated; there is no retry loop.
func (c *Controller) repromptUnit(invalid Unit) (Unit, error) {
	if c.chooser == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, invalid)
	}
	options := make([]string, 0, len(unitScale))
	for _, u := range Units() {
		options = append(options, string(u))
	}
	choice, err := c.chooser.ChooseOne("unit", options)
	if err != nil {
		return "", fmt.Errorf("unit selection failed: %w", err)
	}
	unit := Unit(choice)
	if !unit.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	return unit, nil
}

// SetWavelength pushes the wavelength correction in nanometers. The
// meter itself rejects values outside the sensor's range.
func (c *Controller) SetWavelength(nm float64) error {
	drv, err := c.driver()
	if err != nil {
		return err
	}
	if err := drv.SetWavelength(nm); err != nil {
		return fmt.Errorf("set wavelength failed: %w", err)
	}
	c.logCommand("set_wavelength", fmt.Sprintf("wavelength set to %g nm", nm))
	return nil
}

// SetBandwidth sets the detector bandwidth. An invalid state performs
// no device write.
func (c *Controller) SetBandwidth(state Bandwidth) error {
	bit, ok := bandwidthState[state]
	if !ok {
		return fmt.Errorf("%w: %q (use %q or %q)",
			ErrInvalidBandwidth, state, BandwidthLow, BandwidthHigh)
	}
	drv, err := c.driver()
	if err != nil {
		return err
	}
	if err := drv.SetFilterState(bit); err != nil {
		return fmt.Errorf("set bandwidth failed: %w", err)
	}
	c.logCommand("set_bandwidth", "bandwidth set to "+string(state))
	return nil
}

// SetSamples pushes the per-read averaging count to the meter.
func (c *Controller) SetSamples(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleCount, n)
	}
	drv, err := c.driver()
	if err != nil {
		return err
	}
	if err := drv.SetAverageCount(n); err != nil {
		return fmt.Errorf("set samples failed: %w", err)
	}
	c.cfg.SampleRate = n
	return nil
}

// AutoRange switches automatic power-range selection on or off.
func (c *Controller) AutoRange(on bool) error {
	drv, err := c.driver()
	if err != nil {
		return err
	}
	if err := drv.SetAutoRange(on); err != nil {
		return fmt.Errorf("set auto-range failed: %w", err)
	}
	if on {
		c.logCommand("auto_range", "auto-range ON")
	} else {
		c.logCommand("auto_range", "auto-range OFF")
	}
	return nil
}

// MaxPower returns the meter's configured upper power range.
func (c *Controller) MaxPower() (float64, error) {
	drv, err := c.driver()
	if err != nil {
		return 0, err
	}
	v, err := drv.GetUpperRange()
	if err != nil {
		return 0, fmt.Errorf("get max power failed: %w", err)
	}
	return v, nil
}

// Average takes the configured number of sequential readings, scales
// each into display units, and returns them. Each reading is one
// blocking round-trip; the context is checked between reads.
func (c *Controller) Average(ctx context.Context) ([]float64, error) {
	drv, err := c.driver()
	if err != nil {
		return nil, err
	}

	n := c.cfg.Averages
	if n < 1 {
		n = 1
	}
	data := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return data, err
		}
		raw, err := drv.ReadRaw()
		if err != nil {
			return data, fmt.Errorf("read %d of %d failed: %w", i+1, n, err)
		}
		data = append(data, raw/c.cfg.Scale)
	}

	if c.verbose {
		mean, stdDev := meanStdDev(data)
		c.logReading("average", log.ReadingEvent{
			Mean:   round2(mean),
			StdDev: round2(stdDev),
			Count:  len(data),
			Unit:   string(c.cfg.Unit),
		})
	}
	return data, nil
}

// Measure takes a power measurement. The sample rate is pushed first,
// then the meter is configured for scalar power. Average mode returns
// nAverages readings (DefaultAverages when nAverages < 1); single mode
// returns one reading in a one-element slice.
func (c *Controller) Measure(ctx context.Context, kind Kind, sampleRate, nAverages int) ([]float64, error) {
	if err := c.SetSamples(sampleRate); err != nil {
		return nil, err
	}
	if nAverages < 1 {
		nAverages = DefaultAverages
	}
	c.cfg.Averages = nAverages

	drv, err := c.driver()
	if err != nil {
		return nil, err
	}
	if err := drv.ConfigureScalarPower(); err != nil {
		return nil, fmt.Errorf("configure power measurement failed: %w", err)
	}

	if kind == Average {
		return c.Average(ctx)
	}

	raw, err := drv.ReadRaw()
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	value := raw / c.cfg.Scale
	if c.verbose {
		c.logReading("measure", log.ReadingEvent{
			Value: round2(value),
			Count: 1,
			Unit:  string(c.cfg.Unit),
		})
	}
	return []float64{value}, nil
}

func (c *Controller) logState(from, to, message string) {
	event := log.NewEvent(log.CategoryState, c.sessionID(), c.device, "")
	event.Message = message
	event.State = &log.StateChangeEvent{From: from, To: to}
	c.logger.Log(event)
}

func (c *Controller) logCommand(op, message string) {
	if !c.verbose {
		return
	}
	event := log.NewEvent(log.CategoryCommand, c.sessionID(), c.device, op)
	event.Message = message
	c.logger.Log(event)
}

func (c *Controller) logReading(op string, reading log.ReadingEvent) {
	event := log.NewEvent(log.CategoryReading, c.sessionID(), c.device, op)
	event.Reading = &reading
	c.logger.Log(event)
}

func (c *Controller) sessionID() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.ID()
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(data []float64) (mean, stdDev float64) {
	if len(data) == 0 {
		return 0, 0
	}
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	var sumSq float64
	for _, v := range data {
		d := v - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / float64(len(data)))
}

// round2 rounds to two decimal places for display.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
