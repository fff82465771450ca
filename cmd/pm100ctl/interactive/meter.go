// Package interactive provides the interactive command-line interface
// for pm100ctl.
package interactive

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/smk-uk/pm100-go/pkg/meter"
)

// Defaults are instrument settings applied after a successful open.
type Defaults struct {
	// Unit is the display unit to adopt; empty keeps the meter default.
	Unit meter.Unit

	// Wavelength is the wavelength correction in nm; 0 means untouched.
	Wavelength float64

	// Bandwidth is the detector bandwidth; empty means untouched.
	Bandwidth meter.Bandwidth

	// AutoRange sets auto-ranging; nil means untouched.
	AutoRange *bool
}

// Meter handles interactive mode for pm100ctl.
type Meter struct {
	ctrl     *meter.Controller
	rl       *readline.Instance
	defaults Defaults
}

// New creates a new interactive handler. The controller is attached
// later with SetController because the controller itself needs this
// handler as its selection chooser.
func New(defaults Defaults) (*Meter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pm100> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Meter{
		rl:       rl,
		defaults: defaults,
	}, nil
}

// SetController attaches the controller driven by this handler.
func (m *Meter) SetController(ctrl *meter.Controller) {
	m.ctrl = ctrl
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use this for log output to avoid clobbering the command line.
func (m *Meter) Stdout() io.Writer {
	return m.rl.Stdout()
}

// ChooseOne prompts the operator to pick one option by number or name.
// It implements meter.Chooser.
func (m *Meter) ChooseOne(prompt string, options []string) (string, error) {
	fmt.Fprintf(m.rl.Stdout(), "Select a %s:\n", prompt)
	for i, opt := range options {
		fmt.Fprintf(m.rl.Stdout(), "  %d. %s\n", i+1, opt)
	}

	saved := m.rl.Config.Prompt
	m.rl.SetPrompt(prompt + "? ")
	defer m.rl.SetPrompt(saved)

	line, err := m.rl.Readline()
	if err != nil {
		return "", err
	}
	input := strings.TrimSpace(line)

	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(options) {
		return options[idx-1], nil
	}
	return input, nil
}

// Compile-time interface satisfaction check.
var _ meter.Chooser = (*Meter)(nil)

// Run starts the interactive command loop.
func (m *Meter) Run(ctx context.Context, cancel context.CancelFunc) {
	defer m.rl.Close()

	m.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := m.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(m.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			m.printHelp()

		case "find", "discover":
			m.cmdFind(ctx)

		case "devices", "list", "ls":
			m.cmdDevices()

		case "open", "connect":
			m.cmdOpen(ctx, args)

		case "close", "disconnect":
			m.cmdClose()

		case "idn":
			m.cmdIdentify()

		case "units", "unit", "u":
			m.cmdUnits(args)

		case "wavelength", "wav":
			m.cmdWavelength(args)

		case "bandwidth", "bw":
			m.cmdBandwidth(args)

		case "samples":
			m.cmdSamples(args)

		case "autorange", "ar":
			m.cmdAutoRange(args)

		case "max":
			m.cmdMaxPower()

		case "read", "r":
			m.cmdRead(ctx, args)

		case "avg", "average":
			m.cmdAverage(ctx, args)

		case "status":
			m.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(m.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(m.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (m *Meter) printHelp() {
	fmt.Fprintln(m.rl.Stdout(), `
PM100 Controller Commands:
  Discovery & Connection:
    find                       - Search for instruments
    devices                    - List known instruments
    open [resource]            - Connect (prompts if several found)
    close                      - Disconnect
    idn                        - Show instrument identification

  Configuration:
    units <nW|uW|mW|W|dBm>     - Set display units
    wavelength <nm>            - Set wavelength correction
    bandwidth <low|high>       - Set detector bandwidth
    samples <n>                - Set per-read averaging count
    autorange <on|off>         - Toggle auto-ranging
    max                        - Show upper power range

  Measurement:
    read [sample-rate]         - Single power reading
    avg [n] [sample-rate]      - Averaged reading (n reads)

  General:
    status                     - Show controller status
    help                       - Show this help
    quit                       - Exit`)
}

// cmdFind handles the find command.
func (m *Meter) cmdFind(ctx context.Context) {
	fmt.Fprintln(m.rl.Stdout(), "Searching for instruments...")
	if err := m.ctrl.Refresh(ctx); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Search failed: %v\n", err)
		return
	}
	m.cmdDevices()
}

// cmdDevices handles the devices command.
func (m *Meter) cmdDevices() {
	devices := m.ctrl.Devices()
	if len(devices) == 0 {
		fmt.Fprintln(m.rl.Stdout(), "No instruments found")
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Found %d instrument(s):\n", len(devices))
	for i, d := range devices {
		marker := " "
		if d == m.ctrl.Device() && m.ctrl.Connected() {
			marker = "*"
		}
		fmt.Fprintf(m.rl.Stdout(), " %s%d. %s\n", marker, i+1, d)
	}
}

// cmdOpen handles the open command.
func (m *Meter) cmdOpen(ctx context.Context, args []string) {
	resource := ""
	if len(args) > 0 {
		resource = args[0]
	}

	if err := m.ctrl.Initialize(ctx, resource); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Connection failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Connected to %s\n", m.ctrl.Device())

	m.applyDefaults()
}

// applyDefaults pushes configured default settings after a successful open.
func (m *Meter) applyDefaults() {
	if m.defaults.Unit != "" {
		if err := m.ctrl.SetUnits(m.defaults.Unit); err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Default units not applied: %v\n", err)
		}
	}
	if m.defaults.Wavelength > 0 {
		if err := m.ctrl.SetWavelength(m.defaults.Wavelength); err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Default wavelength not applied: %v\n", err)
		}
	}
	if m.defaults.Bandwidth != "" {
		if err := m.ctrl.SetBandwidth(m.defaults.Bandwidth); err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Default bandwidth not applied: %v\n", err)
		}
	}
	if m.defaults.AutoRange != nil {
		if err := m.ctrl.AutoRange(*m.defaults.AutoRange); err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Default auto-range not applied: %v\n", err)
		}
	}
}

// cmdClose handles the close command.
func (m *Meter) cmdClose() {
	if err := m.ctrl.Close(); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "%v\n", err)
		return
	}
	fmt.Fprintln(m.rl.Stdout(), "Disconnected")
}

// cmdIdentify handles the idn command.
func (m *Meter) cmdIdentify() {
	idn, err := m.ctrl.Identify()
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Identify failed: %v\n", err)
		return
	}
	fmt.Fprintln(m.rl.Stdout(), idn)
}

// cmdUnits handles the units command.
func (m *Meter) cmdUnits(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(m.rl.Stdout(), "Usage: units <nW|uW|mW|W|dBm>")
		return
	}
	if err := m.ctrl.SetUnits(meter.Unit(args[0])); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Set units failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Units set to %s\n", m.ctrl.Config().Unit)
}

// cmdWavelength handles the wavelength command.
func (m *Meter) cmdWavelength(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(m.rl.Stdout(), "Usage: wavelength <nm>")
		return
	}
	nm, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Invalid wavelength: %v\n", err)
		return
	}
	if err := m.ctrl.SetWavelength(nm); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Set wavelength failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Wavelength set to %g nm\n", nm)
}

// cmdBandwidth handles the bandwidth command.
func (m *Meter) cmdBandwidth(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(m.rl.Stdout(), "Usage: bandwidth <low|high>")
		return
	}
	if err := m.ctrl.SetBandwidth(meter.Bandwidth(args[0])); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Set bandwidth failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Bandwidth set to %s\n", args[0])
}

// cmdSamples handles the samples command.
func (m *Meter) cmdSamples(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(m.rl.Stdout(), "Usage: samples <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Invalid sample count: %v\n", err)
		return
	}
	if err := m.ctrl.SetSamples(n); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Set samples failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Samples per read set to %d\n", n)
}

// cmdAutoRange handles the autorange command.
func (m *Meter) cmdAutoRange(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(m.rl.Stdout(), "Usage: autorange <on|off>")
		return
	}
	on, err := parseOnOff(args[0])
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "%v\n", err)
		return
	}
	if err := m.ctrl.AutoRange(on); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Set auto-range failed: %v\n", err)
		return
	}
	if on {
		fmt.Fprintln(m.rl.Stdout(), "Auto-range ON")
	} else {
		fmt.Fprintln(m.rl.Stdout(), "Auto-range OFF")
	}
}

// cmdMaxPower handles the max command.
func (m *Meter) cmdMaxPower() {
	v, err := m.ctrl.MaxPower()
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Get max power failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Upper power range: %g W\n", v)
}

// cmdRead handles the read command.
func (m *Meter) cmdRead(ctx context.Context, args []string) {
	rate := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Invalid sample rate: %v\n", err)
			return
		}
		rate = n
	}

	data, err := m.ctrl.Measure(ctx, meter.Single, rate, 0)
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Measurement failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "Power reading: %.2f %s\n", data[0], m.ctrl.Config().Unit)
}

// cmdAverage handles the avg command.
func (m *Meter) cmdAverage(ctx context.Context, args []string) {
	n, rate := 10, 10
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Invalid average count: %v\n", err)
			return
		}
		n = v
	}
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Invalid sample rate: %v\n", err)
			return
		}
		rate = v
	}

	data, err := m.ctrl.Measure(ctx, meter.Average, rate, n)
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Measurement failed: %v\n", err)
		return
	}
	mean, stdDev := stats(data)
	unit := m.ctrl.Config().Unit
	fmt.Fprintf(m.rl.Stdout(), "Average value      : %.2f %s\n", mean, unit)
	fmt.Fprintf(m.rl.Stdout(), "Standard deviation : %.2f %s\n", stdDev, unit)
}

// cmdStatus handles the status command.
func (m *Meter) cmdStatus() {
	cfg := m.ctrl.Config()
	status := "disconnected"
	if m.ctrl.Connected() {
		status = "connected"
	}
	fmt.Fprintln(m.rl.Stdout(), "\nController Status")
	fmt.Fprintln(m.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(m.rl.Stdout(), "  Status:           %s\n", status)
	if m.ctrl.Device() != "" {
		fmt.Fprintf(m.rl.Stdout(), "  Device:           %s\n", m.ctrl.Device())
	}
	fmt.Fprintf(m.rl.Stdout(), "  Units:            %s (scale %g, native %s)\n",
		cfg.Unit, cfg.Scale, cfg.Mode)
	fmt.Fprintf(m.rl.Stdout(), "  Samples per read: %d\n", cfg.SampleRate)
	fmt.Fprintf(m.rl.Stdout(), "  Averages:         %d\n", cfg.Averages)
	fmt.Fprintln(m.rl.Stdout())
}

// parseOnOff parses an on/off argument.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state %q (use on or off)", s)
	}
}

// stats returns the mean and population standard deviation.
func stats(data []float64) (mean, stdDev float64) {
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
