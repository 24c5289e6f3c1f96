// Package touchevents delivers decoded touch points from an FT6336
// interrupt line.
package touchevents

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"tactile.dev/ft6336"
)

// Pump reads touch reports whenever the INT pin fires and forwards the
// decoded points. All chip access happens on the pump goroutine; the
// device must not be used elsewhere while the pump runs.
type Pump struct {
	d    *ft6336.Dev
	pin  gpio.PinIn
	ch   chan<- ft6336.Point
	stop chan struct{}
	done chan struct{}
}

// Open configures the named INT pin and the chip's pulse interrupt
// mode, then starts forwarding touch points to ch.
func Open(d *ft6336.Dev, pinName string, ch chan<- ft6336.Point) (*Pump, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("touchevents: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("touchevents: no pin named %q", pinName)
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("touchevents: %w", err)
	}
	if err := d.InterruptByPulse(); err != nil {
		return nil, err
	}
	p := &Pump{
		d:    d,
		pin:  pin,
		ch:   ch,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go p.run()
	return p, nil
}

func (p *Pump) run() {
	defer close(p.done)
	// Wake up periodically to notice Close while idle.
	const idleTimeout = 100 * time.Millisecond
	for {
		select {
		case <-p.stop:
			return
		default:
		}
		if !p.pin.WaitForEdge(idleTimeout) {
			continue
		}
		pts, err := p.d.TouchPoints()
		if err != nil {
			// Drop the report; the next interrupt refetches.
			continue
		}
		for {
			pt, ok := pts.Next()
			if !ok {
				break
			}
			select {
			case p.ch <- pt:
			case <-p.stop:
				return
			}
		}
	}
}

// Close stops the pump and waits for its goroutine to exit. The
// device handle is released back to the caller.
func (p *Pump) Close() {
	close(p.stop)
	<-p.done
}
