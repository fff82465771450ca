// Command pm100-example is a linear example of driving a PM100 power
// meter: connect, configure units, bandwidth, auto-range and
// wavelength, take a single and an averaged reading, disconnect.
//
// Usage:
//
//	pm100-example -resource TCPIP0::192.168.1.50::5025::SOCKET
//
// Without -resource the instrument is found via LXI mDNS discovery;
// the program exits with an error when nothing is found.
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"

	"github.com/smk-uk/pm100-go/pkg/log"
	"github.com/smk-uk/pm100-go/pkg/meter"
	"github.com/smk-uk/pm100-go/pkg/visa"
)

func main() {
	resource := flag.String("resource", "", "Instrument resource name (leave empty to discover)")
	flag.Parse()

	ctx := context.Background()

	ctrl, err := meter.New(ctx, meter.ControllerConfig{
		ResourceManager: visa.NewManager(visa.ManagerConfig{}),
		Logger:          log.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, nil))),
		Verbose:         true,
	})
	if err != nil {
		stdlog.Fatalf("Failed to start: %v", err)
	}

	// Connect; pass a resource name or let discovery find the meter.
	if err := ctrl.Initialize(ctx, *resource); err != nil {
		stdlog.Fatalf("Could not find device: %v", err)
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			stdlog.Printf("Close failed: %v", err)
		}
	}()

	// Set units for the device.
	if err := ctrl.SetUnits(meter.UnitMilliwatt); err != nil {
		stdlog.Fatalf("Set units failed: %v", err)
	}
	// Change the bandwidth of the device.
	if err := ctrl.SetBandwidth(meter.BandwidthHigh); err != nil {
		stdlog.Fatalf("Set bandwidth failed: %v", err)
	}
	// Set the device to auto-range.
	if err := ctrl.AutoRange(true); err != nil {
		stdlog.Fatalf("Auto-range failed: %v", err)
	}
	// Take a power reading at a given wavelength.
	if err := ctrl.SetWavelength(606); err != nil {
		stdlog.Fatalf("Set wavelength failed: %v", err)
	}

	single, err := ctrl.Measure(ctx, meter.Single, 5, 0)
	if err != nil {
		stdlog.Fatalf("Single measurement failed: %v", err)
	}
	fmt.Printf("Power reading: %.2f %s\n", single[0], ctrl.Config().Unit)

	// Take an averaged reading at the same wavelength.
	average, err := ctrl.Measure(ctx, meter.Average, 5, 100)
	if err != nil {
		stdlog.Fatalf("Averaged measurement failed: %v", err)
	}
	fmt.Printf("Averaged over %d reads\n", len(average))
}
