//go:build linux

package gpio

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
)

// Chip is an opened Linux GPIO character device.
type Chip struct {
	chip *gpiocdev.Chip
}

// OpenChip opens the named chip, e.g. "gpiochip0".
func OpenChip(name string) (*Chip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &Chip{chip: chip}, nil
}

// Output requests offset as an output driven low.
func (c *Chip) Output(offset int) (*RealOutput, error) {
	line, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request output pin %d: %w", offset, err)
	}
	return &RealOutput{line: line, offset: offset}, nil
}

// Input requests offset as an input with pull-down. When edges is non-nil,
// both edges are watched and pushed into the queue from the driver's
// event goroutine.
func (c *Chip) Input(offset int, edges *EdgeQueue) (*RealInput, error) {
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullDown}
	if edges != nil {
		opts = append(opts, gpiocdev.WithBothEdges, gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			edges.Push(Edge{
				Rising: evt.Type == gpiocdev.LineEventRisingEdge,
				Time:   evt.Timestamp,
			})
		}))
	}
	line, err := c.chip.RequestLine(offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("request input pin %d: %w", offset, err)
	}
	return &RealInput{line: line}, nil
}

// Close releases the chip. Lines must be closed first.
func (c *Chip) Close() error {
	return c.chip.Close()
}

// RealOutput drives a line on actual hardware.
type RealOutput struct {
	line   *gpiocdev.Line
	offset int
	fails  atomic.Uint64
}

// Write sets the line level. Failures are logged (first, then every 1000th)
// and otherwise ignored.
func (o *RealOutput) Write(high bool) {
	v := 0
	if high {
		v = 1
	}
	if err := o.line.SetValue(v); err != nil {
		if n := o.fails.Add(1); n == 1 || n%1000 == 0 {
			log.Printf("gpio: write pin %d failed (%d total): %v", o.offset, n, err)
		}
	}
}

// Close drives the line low and reconfigures it to input with pull-down
// (Pi boot default) before releasing it.
func (o *RealOutput) Close() error {
	var errs []error
	if err := o.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("drive pin %d low: %w", o.offset, err))
	}
	if err := o.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", o.offset, err))
	}
	if err := o.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pin %d: %w", o.offset, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealInput reads a line on actual hardware.
type RealInput struct {
	line *gpiocdev.Line
}

// Level returns true when the line is high.
func (i *RealInput) Level() (bool, error) {
	v, err := i.line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin: %w", err)
	}
	return v == 1, nil
}

// Close releases the line.
func (i *RealInput) Close() error {
	return i.line.Close()
}
