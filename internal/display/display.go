// Package display drives a multiplexed common-anode 7-segment display
// through a 74HC595 shift register.
//
// All digits share the register's segment outputs; exactly one digit-enable
// line is asserted at a time and each digit is held briefly so persistence
// of vision shows the whole number.
package display

import (
	"time"

	"github.com/sweeney/rep-counter/internal/gpio"
)

// Segments maps digits 0-9 to segment bytes (bit 7 = DP, active low).
var Segments = [10]byte{0xC0, 0xF9, 0xA4, 0xB0, 0x99, 0x92, 0x82, 0xF8, 0x80, 0x90}

// Blank turns every segment off.
const Blank byte = 0xFF

// DefaultHold is how long each digit stays enabled during a refresh.
const DefaultHold = 500 * time.Microsecond

// DefaultRefresh is the period of the background Refresher.
const DefaultRefresh = 5 * time.Millisecond

// Order fixes which enable line shows which decimal place.
type Order int

const (
	// MSBFirst: enable line 0 shows the most significant digit.
	MSBFirst Order = iota
	// LSBFirst: enable line 0 shows the units digit.
	LSBFirst
)

// ParseOrder converts "msb-first" or "lsb-first".
func ParseOrder(s string) (Order, bool) {
	switch s {
	case "msb-first", "":
		return MSBFirst, true
	case "lsb-first":
		return LSBFirst, true
	}
	return MSBFirst, false
}

// Lines are the output lines the driver owns.
type Lines struct {
	Data   gpio.OutputLine // SDI
	Clock  gpio.OutputLine // SRCLK
	Latch  gpio.OutputLine // RCLK
	Digits []gpio.OutputLine
}

// Config controls rendering.
type Config struct {
	Order Order
	// BlankLeadingZeros switches off zero digits above the highest non-zero
	// digit. The units digit is always shown.
	BlankLeadingZeros bool
	// Hold is the per-digit dwell; 0 selects DefaultHold.
	Hold time.Duration
}

// Driver renders non-negative integers.
type Driver struct {
	lines Lines
	cfg   Config
	sleep func(time.Duration)
}

// New creates a driver. The number of digit-enable lines is the display width.
func New(lines Lines, cfg Config) *Driver {
	if cfg.Hold <= 0 {
		cfg.Hold = DefaultHold
	}
	return &Driver{lines: lines, cfg: cfg, sleep: time.Sleep}
}

// Width returns the number of digit positions.
func (d *Driver) Width() int {
	return len(d.lines.Digits)
}

// Digits decomposes count into one decimal digit per enable line, in enable
// line order. Places beyond the display width are dropped silently.
func (d *Driver) Digits(count int) []int {
	if count < 0 {
		count = 0
	}
	n := d.Width()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		digit := count % 10
		count /= 10
		out[d.position(i)] = digit
	}
	return out
}

// Frame returns the segment byte for each enable line.
func (d *Driver) Frame(count int) []byte {
	digits := d.Digits(count)
	frame := make([]byte, len(digits))
	for p, digit := range digits {
		frame[p] = Segments[digit]
	}
	if d.cfg.BlankLeadingZeros {
		for place := d.Width() - 1; place > 0; place-- {
			p := d.position(place)
			if digits[p] != 0 {
				break
			}
			frame[p] = Blank
		}
	}
	return frame
}

// position maps decimal place (0 = units) to enable line index.
func (d *Driver) position(place int) int {
	if d.cfg.Order == LSBFirst {
		return place
	}
	return d.Width() - 1 - place
}

// Render paints one full frame, one digit at a time.
func (d *Driver) Render(count int) {
	for p, b := range d.Frame(count) {
		d.clear()
		d.pick(p)
		d.shift(b)
		d.sleep(d.cfg.Hold)
	}
}

// Off blanks the segments and deselects every digit.
func (d *Driver) Off() {
	d.clear()
	for _, l := range d.lines.Digits {
		l.Write(false)
	}
}

// clear shifts all-high bits in and latches them, blanking residual segments.
func (d *Driver) clear() {
	for i := 0; i < 8; i++ {
		d.lines.Data.Write(true)
		d.pulse(d.lines.Clock)
	}
	d.pulse(d.lines.Latch)
}

// pick asserts exactly one digit-enable line.
func (d *Driver) pick(p int) {
	for _, l := range d.lines.Digits {
		l.Write(false)
	}
	d.lines.Digits[p].Write(true)
}

// shift clocks b out MSB first and latches it.
func (d *Driver) shift(b byte) {
	for i := 0; i < 8; i++ {
		d.lines.Data.Write(b&(0x80>>i) != 0)
		d.pulse(d.lines.Clock)
	}
	d.pulse(d.lines.Latch)
}

func (d *Driver) pulse(l gpio.OutputLine) {
	l.Write(true)
	l.Write(false)
}
