package main

// Manual check of a reader on real hardware: prints every frame the
// decoder completes, recognized or not.

import (
	"flag"
	"log"

	"hive13/wiegand/gpio"
	"hive13/wiegand/timer"
	"hive13/wiegand/wiegand"
)

func main() {
	chip := flag.String("chip", gpio.DefaultChip, "GPIO chip")
	d0 := flag.Int("d0", gpio.DefaultPinD0, "Wiegand D0 line")
	d1 := flag.Int("d1", gpio.DefaultPinD1, "Wiegand D1 line")
	flag.Parse()

	dec := wiegand.NewDecoder(timer.Real{}, wiegand.DefaultWindow)
	defer dec.Close()

	log.Printf("D0=%d D1=%d...", *d0, *d1)
	in, err := gpio.OpenInputs(gpio.InputConfig{Chip: *chip, PinD0: *d0, PinD1: *d1}, dec.Edge)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()
	log.Printf("Waiting")

	for c := range dec.Credentials() {
		log.Printf("Read #%d: %d bits, %s %q", c.ReadCount, c.Bits, c.Kind, c.String())
	}
}
