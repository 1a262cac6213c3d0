package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"stcgauge/internal/collector"
	"stcgauge/internal/config"
	"stcgauge/internal/sampler"
	"stcgauge/internal/server"
	"stcgauge/internal/stc3100"
)

func main() {
	log.Println("Starting stcgauge...")

	cfg := config.Default()
	if len(os.Args) > 1 {
		var err error
		if cfg, err = config.Load(os.Args[1]); err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	opts, err := cfg.Device.Opts()
	if err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	transport, closeTransport, err := openTransport(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, opts, transport); err != nil {
		closeTransport()
		log.Fatal(err)
	}
	closeTransport()
}

// run owns the gauge from construction to the final stop. Errors are
// returned so that the transport is always closed by main.
func run(cfg *config.Config, opts *stc3100.Opts, transport stc3100.Transport) error {
	gauge, err := stc3100.New(transport, opts)
	if err != nil {
		return fmt.Errorf("failed to init STC3100: %w", err)
	}
	if err := gauge.Probe(); err != nil {
		log.Printf("STC3100 probe: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Calibrate {
		if err := gauge.Calibrate(ctx); err != nil {
			return fmt.Errorf("failed to calibrate STC3100: %w", err)
		}
	}
	if err := gauge.Start(); err != nil {
		return fmt.Errorf("failed to start STC3100: %w", err)
	}

	log.Printf("Hardware Initialized: %s", gauge)

	// From here on the server and sampler share the gauge; every access,
	// including the final stop, goes through the guard.
	guard := stc3100.NewGuard(gauge)
	defer func() {
		if err := guard.Do(func(d *stc3100.STC3100) error { return d.Stop() }); err != nil {
			log.Printf("Failed to stop STC3100: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collector.New(fmt.Sprintf("0x%02X", opts.Addr), guard))

	interval, _ := cfg.SampleInterval()
	if interval > 0 {
		smp, err := sampler.New(guard, interval)
		if err != nil {
			return fmt.Errorf("sampler: %w", err)
		}
		out := make(chan sampler.Sample)
		go smp.Run(ctx, out)
		go logSamples(ctx, out)
	}

	errc := make(chan error, 1)
	go func() { errc <- server.Run(cfg.Server.Port, guard, reg) }()

	select {
	case err := <-errc:
		log.Printf("Server failed: %v", err)
	case <-ctx.Done():
		log.Println("Shutting down")
	}
	return nil
}

func openTransport(cfg *config.Config) (stc3100.Transport, func(), error) {
	switch cfg.Transport {
	case "smbus":
		t, err := stc3100.OpenSMBus(cfg.SMBusBus, cfg.Device.Address)
		if err != nil {
			return nil, nil, err
		}
		return t, func() { _ = t.Close() }, nil
	default:
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
		bus, err := i2creg.Open(cfg.Bus)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open I2C: %w", err)
		}
		return stc3100.NewI2CTransport(bus), func() { _ = bus.Close() }, nil
	}
}

func logSamples(ctx context.Context, in <-chan sampler.Sample) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-in:
			if s.Err != nil {
				log.Printf("Error reading STC3100: %v", s.Err)
				continue
			}
			r := s.Reading
			log.Printf("charge=%.1fmAh (%.1f%%) voltage=%s current=%s temp=%s",
				r.ChargeMilliampHours, r.ChargePercent, r.Potential(), r.Draw(), r.Temp())
		}
	}
}
