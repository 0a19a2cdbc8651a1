// Package gpio provides digital line access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// OutputLine drives one digital output.
// Write has no error path: line-level failures are handled (logged) by the
// implementation, and callers repaint on their next cycle anyway.
type OutputLine interface {
	Write(high bool)
}

// InputLine reads one digital input.
type InputLine interface {
	// Level returns true when the line is high.
	Level() (bool, error)

	// Close releases the line.
	Close() error
}

// Edge is a level change reported by the driver.
type Edge struct {
	Rising bool
	// Time is the driver timestamp (monotonic, arbitrary epoch).
	Time time.Duration
}

// Default BCM pin assignments for the 74HC595 + 4-digit board and PIR sensor.
const (
	DefaultPinData  = 17 // SDI
	DefaultPinClock = 27 // SRCLK
	DefaultPinLatch = 4  // RCLK
	DefaultPinPIR   = 22
)

// DefaultDigitPins are the digit-enable lines, leftmost digit first.
var DefaultDigitPins = []int{23, 24, 25, 12}
