package service

// service is the daemon that connects the reader's pins, the decoder
// and pattern sequencer, the HTTP server, and MQTT.

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hive13/wiegand/device"
	"hive13/wiegand/gpio"
	"hive13/wiegand/mqtt"
	"hive13/wiegand/pattern"
	"hive13/wiegand/timer"
	"hive13/wiegand/wiegand"
)

type Config struct {
	// GPIO chip holding all four lines (e.g. "gpiochip0"):
	Chip string
	// Line number for Wiegand D0 of the badge reader (as GPIO/BCM pin):
	PinD0 int
	// Line number for Wiegand D1 of the badge reader (as GPIO/BCM pin):
	PinD1 int
	// Line number for the badge reader's beeper (as GPIO/BCM pin):
	PinBeeper int
	// Line number for the badge reader's LED (as GPIO/BCM pin):
	PinLED int
	// Driver for the LED and beeper: "gpiod" or "rpio"
	OutputDriver string
	// True if LED and beeper are on when driven low
	ActiveLow bool
	// Quiet time that ends a Wiegand frame
	IdleWindow time.Duration
	// Time each pattern bit is held on its output
	StepPeriod time.Duration
	// Pattern played on both LED and beeper at startup (0 for none)
	StartupPattern uint32
	// Pattern played on the LED when no badge was read for IdleInterval
	// (0 for none)
	IdlePattern  uint32
	IdleInterval time.Duration
	// Address for HTTP server to listen on (empty to disable)
	ListenAddr string
	// MQTT settings (disabled if BrokerAddr is empty)
	MQTT mqtt.Config
	// True to log more verbosely (e.g. every HTTP command)
	Verbose bool
}

func Run(cfg *Config) error {
	outs, err := gpio.OpenOutputs(gpio.OutputConfig{
		Chip:      cfg.Chip,
		Driver:    cfg.OutputDriver,
		PinLED:    cfg.PinLED,
		PinBeeper: cfg.PinBeeper,
		ActiveLow: cfg.ActiveLow,
	})
	if err != nil {
		return err
	}
	defer outs.Close()

	dev := device.New(timer.Real{}, device.Config{
		IdleWindow: cfg.IdleWindow,
		StepPeriod: cfg.StepPeriod,
	}, outs.LED, outs.Beeper)
	// Cancels both timers and turns LED and beeper off on the way out:
	defer dev.Close()

	log.Printf("Listening for badges on D0=%d D1=%d...", cfg.PinD0, cfg.PinD1)
	in, err := gpio.OpenInputs(gpio.InputConfig{
		Chip:  cfg.Chip,
		PinD0: cfg.PinD0,
		PinD1: cfg.PinD1,
	}, dev.Edge)
	if err != nil {
		return err
	}
	defer in.Close()

	if cfg.StartupPattern != 0 {
		dev.Sequencer.Start(cfg.StartupPattern, pattern.LED)
		dev.Sequencer.Start(cfg.StartupPattern, pattern.Beeper)
	}

	if cfg.ListenAddr != "" {
		srv := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      NewHandler(dev, cfg.Verbose),
			ReadTimeout:  20 * time.Second,
			WriteTimeout: 20 * time.Second,
		}
		go func() {
			log.Printf("Starting HTTP server on %s...", cfg.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("HTTP server: %s", err)
			}
		}()
		defer srv.Close()
	}

	var bridge *mqtt.Bridge
	if cfg.MQTT.BrokerAddr != "" {
		transport := mqtt.NewRealTransport(cfg.MQTT)
		defer transport.Close()
		bridge = mqtt.NewBridge(transport, cfg.MQTT, dev)
		bridge.Verbose = cfg.Verbose
		if err := bridge.Start(); err != nil {
			return err
		}
		log.Printf("Using MQTT broker %s", cfg.MQTT.BrokerAddr)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	log.Printf("Starting main loop...")
	runLoop(cfg, dev, bridge, sigs)
	return nil
}

// runLoop handles decoded badges and the idle blink until a signal
// arrives.  bridge may be nil.
func runLoop(cfg *Config, dev *device.Device, bridge *mqtt.Bridge, sigs <-chan os.Signal) {
	for {
		select {
		case c := <-dev.Decoder.Credentials():
			handleCredential(cfg, c, bridge)

		// Blink LED to indicate that we're idle:
		case <-idleAfter(cfg):
			dev.Sequencer.Start(cfg.IdlePattern, pattern.LED)

		case s := <-sigs:
			log.Printf("Main loop: received %v, shutting down", s)
			return
		}
	}
}

// idleAfter returns a channel that fires once the idle interval has
// passed, or nil if the idle blink is disabled.
func idleAfter(cfg *Config) <-chan time.Time {
	if cfg.IdlePattern == 0 || cfg.IdleInterval <= 0 {
		return nil
	}
	return time.After(cfg.IdleInterval)
}

func handleCredential(cfg *Config, c wiegand.Credential, bridge *mqtt.Bridge) {
	if c.Kind == wiegand.Unknown {
		if cfg.Verbose {
			log.Printf("Main loop: read #%d has %d bits, ignoring", c.ReadCount, c.Bits)
		}
		return
	}
	log.Printf("Main loop: read #%d: %s", c.ReadCount, c)

	if bridge == nil {
		return
	}
	if err := bridge.PublishCredential(c); err != nil {
		log.Printf("Main loop: failed to publish %s, %s", c, err)
	}
}
