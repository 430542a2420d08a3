package main

// Commandline for the Wiegand reader daemon. This turns arguments to a
// configuration, but is not responsible for any of the actual logic.

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"hive13/wiegand/gpio"
	"hive13/wiegand/pattern"
	"hive13/wiegand/service"
	"hive13/wiegand/wiegand"
)

var cfg *service.Config
var startup_pattern string
var idle_pattern string

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// Cobra boilerplate:
var rootCmd = &cobra.Command{
	Use:   "wiegand",
	Short: "Start Wiegand reader daemon (badge/keypad input, LED & beeper patterns)",
	RunE: func(_ *cobra.Command, args []string) error {

		if cfg == nil {
			log.Panic("Configuration never initialized")
		}

		// Patterns are given in hex, like the LED:/BEEP: commands:
		var err error
		if cfg.StartupPattern, err = parsePattern(startup_pattern); err != nil {
			return fmt.Errorf("--startup-pattern: %w", err)
		}
		if cfg.IdlePattern, err = parsePattern(idle_pattern); err != nil {
			return fmt.Errorf("--idle-pattern: %w", err)
		}

		log.Printf("%+v", cfg)

		// We have a configuration. Go run the daemon.
		return service.Run(cfg)
	},
}

func parsePattern(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}

func init() {
	cfg = &service.Config{}
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfg.Chip, "chip", gpio.DefaultChip,
		"GPIO chip for all reader lines")
	flags.IntVar(&cfg.PinD0, "d0", gpio.DefaultPinD0,
		"BCM/GPIO pin number for badge reader's Wiegand D0 pin")
	flags.IntVar(&cfg.PinD1, "d1", gpio.DefaultPinD1,
		"BCM/GPIO pin number for badge reader's Wiegand D1 pin")
	flags.IntVar(&cfg.PinBeeper, "beeper", gpio.DefaultPinBeeper,
		"BCM/GPIO pin number for badge reader's beeper pin")
	flags.IntVar(&cfg.PinLED, "led", gpio.DefaultPinLED,
		"BCM/GPIO pin number for badge reader's LED pin")
	flags.StringVar(&cfg.OutputDriver, "output-driver", gpio.DriverGpiod,
		"Driver for LED and beeper pins (gpiod or rpio)")
	flags.BoolVar(&cfg.ActiveLow, "active-low", false,
		"LED and beeper are on when driven low")

	flags.DurationVar(&cfg.IdleWindow, "idle-window", wiegand.DefaultWindow,
		"Quiet time that ends a Wiegand frame")
	flags.DurationVar(&cfg.StepPeriod, "step", pattern.DefaultPeriod,
		"Time each LED/beeper pattern bit is held")
	flags.StringVar(&startup_pattern, "startup-pattern", "AAA00000",
		"Hex pattern played on LED and beeper at startup (empty for none)")
	flags.StringVar(&idle_pattern, "idle-pattern", "",
		"Hex pattern played on LED when idle (empty for none)")
	flags.DurationVar(&cfg.IdleInterval, "idle-interval", 0,
		"Time without badges before the idle pattern is played")

	flags.StringVar(&cfg.ListenAddr, "addr",
		":9000", "Address for HTTP server to listen on (empty to disable)")

	flags.StringVar(&cfg.MQTT.BrokerAddr, "broker", "",
		"MQTT broker address, e.g. tcp://host:1883 (empty to disable)")
	flags.StringVar(&cfg.MQTT.Username, "mqtt-user", "", "MQTT username")
	flags.StringVar(&cfg.MQTT.Password, "mqtt-password", "", "MQTT password")
	flags.StringVar(&cfg.MQTT.ClientID, "mqtt-client-id", "wiegand",
		"MQTT client ID")
	flags.StringVar(&cfg.MQTT.TopicRead, "topic-read", "hive13/wiegand/read",
		"MQTT topic for decoded badges and keypad presses")
	flags.StringVar(&cfg.MQTT.TopicControl, "topic-control", "hive13/wiegand/control",
		"MQTT topic for LED:/BEEP: commands (empty to disable)")
	flags.StringVar(&cfg.MQTT.TopicStatus, "topic-status", "hive13/wiegand/status",
		"MQTT topic for pattern status (empty to disable)")

	flags.BoolVarP(&cfg.Verbose, "verbose", "v",
		false, "Enable more verbose logging")
}
