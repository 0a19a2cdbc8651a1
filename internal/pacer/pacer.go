// Package pacer produces fixed-period ticks whose deadlines are accumulated
// (next = previous deadline + period) so timing does not drift over a long
// run. Slots missed because the consumer or the host stalled are skipped,
// never replayed in a burst.
package pacer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Pacer emits ticks on C.
type Pacer struct {
	clk     clock.Clock
	period  time.Duration
	c       chan time.Time
	skipped atomic.Uint64
}

// New creates a pacer. Ticks are not produced until Run is called.
func New(clk clock.Clock, period time.Duration) *Pacer {
	if clk == nil {
		clk = clock.New()
	}
	return &Pacer{
		clk:    clk,
		period: period,
		c:      make(chan time.Time, 1),
	}
}

// C returns the tick channel. It is closed when Run returns.
func (p *Pacer) C() <-chan time.Time {
	return p.c
}

// Skipped returns how many deadlines were missed or dropped.
func (p *Pacer) Skipped() uint64 {
	return p.skipped.Load()
}

// Run produces ticks until ctx is done. A tick is dropped when the
// previous one has not been consumed yet.
func (p *Pacer) Run(ctx context.Context) {
	defer close(p.c)
	deadline := p.clk.Now().Add(p.period)
	for {
		timer := p.clk.Timer(deadline.Sub(p.clk.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case t := <-timer.C:
			select {
			case p.c <- t:
			default:
				p.skipped.Add(1)
			}
			next := Next(deadline, p.clk.Now(), p.period)
			if missed := next.Sub(deadline)/p.period - 1; missed > 0 {
				p.skipped.Add(uint64(missed))
			}
			deadline = next
		}
	}
}

// Next returns the first deadline on the grid deadline + k*period (k >= 1)
// that is after now.
func Next(deadline, now time.Time, period time.Duration) time.Time {
	next := deadline.Add(period)
	if next.After(now) {
		return next
	}
	missed := now.Sub(deadline) / period
	return deadline.Add((missed + 1) * period)
}
