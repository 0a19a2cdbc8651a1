package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sweeney/rep-counter/internal/config"
	"github.com/sweeney/rep-counter/internal/display"
	"github.com/sweeney/rep-counter/internal/gpio"
	"github.com/sweeney/rep-counter/internal/sensor"
)

// edgeQueueSize bounds PIR edges buffered between two ticks.
const edgeQueueSize = 64

// hardware owns every opened line and bus. Close releases them in reverse
// order of acquisition.
type hardware struct {
	chip    *gpio.Chip
	closers []io.Closer
	// edges is set when the PIR source is open.
	edges *gpio.EdgeQueue
}

func (h *hardware) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		errs = append(errs, h.closers[i].Close())
	}
	h.closers = nil
	if h.chip != nil {
		errs = append(errs, h.chip.Close())
		h.chip = nil
	}
	return errors.Join(errs...)
}

// gpioChip opens the chip on first use.
func (h *hardware) gpioChip(name string) (*gpio.Chip, error) {
	if h.chip == nil {
		chip, err := gpio.OpenChip(name)
		if err != nil {
			return nil, err
		}
		h.chip = chip
	}
	return h.chip, nil
}

func (h *hardware) output(cfg config.Config, pin int) (gpio.OutputLine, error) {
	chip, err := h.gpioChip(cfg.GPIO.Chip)
	if err != nil {
		return nil, err
	}
	out, err := chip.Output(pin)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, out)
	return out, nil
}

// openDisplay requests the shift register and digit-enable lines.
func (h *hardware) openDisplay(cfg config.Config) (*display.Driver, error) {
	pins := cfg.Display.Pins
	if len(pins.Digits) == 0 {
		return nil, errors.New("display.pins.digits is empty")
	}
	var lines display.Lines
	var err error
	if lines.Data, err = h.output(cfg, pins.Data); err != nil {
		return nil, fmt.Errorf("display data line: %w", err)
	}
	if lines.Clock, err = h.output(cfg, pins.Clock); err != nil {
		return nil, fmt.Errorf("display clock line: %w", err)
	}
	if lines.Latch, err = h.output(cfg, pins.Latch); err != nil {
		return nil, fmt.Errorf("display latch line: %w", err)
	}
	for i, pin := range pins.Digits {
		l, err := h.output(cfg, pin)
		if err != nil {
			return nil, fmt.Errorf("display digit %d line: %w", i, err)
		}
		lines.Digits = append(lines.Digits, l)
	}
	return display.New(lines, cfg.DisplayOptions()), nil
}

// openSource opens the configured sensor wrapped in range validation.
func (h *hardware) openSource(cfg config.Config) (sensor.Source, error) {
	var src sensor.Source
	switch cfg.Sensor.Kind {
	case config.SensorMPU6050:
		axis, err := sensor.ParseAxis(cfg.Sensor.Axis)
		if err != nil {
			return nil, err
		}
		m, err := sensor.OpenMPU6050(cfg.Sensor.I2CBus, uint16(cfg.Sensor.I2CAddr), axis)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, m)
		src = m
	case config.SensorPIR:
		chip, err := h.gpioChip(cfg.GPIO.Chip)
		if err != nil {
			return nil, err
		}
		edges := gpio.NewEdgeQueue(edgeQueueSize)
		in, err := chip.Input(cfg.Sensor.Pin, edges)
		if err != nil {
			return nil, err
		}
		h.edges = edges
		l := sensor.NewLevelSource(in, edges)
		h.closers = append(h.closers, l)
		src = l
	default:
		return nil, fmt.Errorf("unknown sensor kind %q", cfg.Sensor.Kind)
	}
	return sensor.Validate(src, cfg.Sensor.Min, cfg.Sensor.Max), nil
}
