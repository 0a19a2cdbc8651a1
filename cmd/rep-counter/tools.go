package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/sweeney/rep-counter/internal/config"
	"github.com/sweeney/rep-counter/internal/display"
	"github.com/sweeney/rep-counter/internal/pacer"
	"github.com/sweeney/rep-counter/internal/sensor"
)

// runRead prints samples from the configured sensor.
func runRead(ctx context.Context, w io.Writer, cfg config.Config, samples int, interval time.Duration) error {
	hw := &hardware{}
	defer hw.Close()
	src, err := hw.openSource(cfg)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	return printSamples(ctx, w, src, samples, clock.New(), interval)
}

func printSamples(ctx context.Context, w io.Writer, src sensor.Source, samples int, clk clock.Clock, interval time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for i := 0; i < samples; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-clk.After(interval):
			}
		}
		raw, err := src.Read()
		if err != nil {
			fmt.Fprintf(w, "read error: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "%.3f\n", raw)
	}
	return nil
}

// runDisplay shows n until hold elapses or ctx is cancelled.
func runDisplay(ctx context.Context, cfg config.Config, n int, hold, refresh time.Duration) error {
	if refresh <= 0 {
		return fmt.Errorf("refresh must be positive, got %v", refresh)
	}
	if _, ok := display.ParseOrder(cfg.Display.Order); !ok {
		return fmt.Errorf("display.order %q must be msb-first or lsb-first", cfg.Display.Order)
	}

	hw := &hardware{}
	defer hw.Close()
	driver, err := hw.openDisplay(cfg)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, hold)
	defer cancel()
	showFor(ctx, driver, n, pacer.New(clock.New(), refresh))
	return nil
}

// showFor repaints n from p's ticks until ctx is done.
func showFor(ctx context.Context, driver *display.Driver, n int, p *pacer.Pacer) {
	r := display.NewRefresher(driver)
	r.Render(n)
	go p.Run(ctx)
	r.Run(ctx, p.C())
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("number must be a non-negative integer, got %q", s)
	}
	return n, nil
}
