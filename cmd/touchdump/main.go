// Command touchdump prints chip identification and streams touch
// points from an FT6336 controller.
package main

import (
	"flag"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tactile.dev/ft6336"
)

func main() {
	bus := flag.String("bus", "", "i2c bus name, empty for the first available")
	hz := flag.Uint("hz", 10, "active mode scan rate in Hz")
	monitor := flag.Bool("monitor", true, "enter monitor mode when idle")
	poll := flag.Duration("poll", 50*time.Millisecond, "poll interval")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := i2creg.Open(*bus)
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	d := ft6336.New(b)
	if err := d.Init(); err != nil {
		log.Fatal(err)
	}
	low, mid, high, err := d.ChipCode()
	if err != nil {
		log.Fatal(err)
	}
	fw, err := d.FirmwareVersion()
	if err != nil {
		log.Fatal(err)
	}
	vlow, vhigh, err := d.AppLibVersion()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("chip code %02x%02x%02x firmware %#02x applib %d.%d", high, mid, low, fw, vhigh, vlow)

	if err := d.SetScanRate(uint8(*hz)); err != nil {
		log.Fatal(err)
	}
	if err := d.SetAutoMonitorMode(*monitor); err != nil {
		log.Fatal(err)
	}
	for {
		pts, err := d.TouchPoints()
		if err != nil {
			log.Fatal(err)
		}
		for pt := range pts.All() {
			log.Printf("touch %d: %s at (%d, %d)", pt.Index, pt.Action, pt.X, pt.Y)
		}
		time.Sleep(*poll)
	}
}
