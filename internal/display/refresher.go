package display

import (
	"context"
	"sync/atomic"
	"time"
)

// Refresher repaints the display on its own schedule from the last
// published count, so display refresh never waits on a slow sensor read.
// Render is the single-writer publish side; Run is the only reader that
// touches the lines.
type Refresher struct {
	driver *Driver
	count  atomic.Int64
	frames atomic.Uint64
}

// NewRefresher wraps driver.
func NewRefresher(driver *Driver) *Refresher {
	return &Refresher{driver: driver}
}

// Render publishes count for the next frame. It never blocks.
func (r *Refresher) Render(count int) {
	r.count.Store(int64(count))
}

// Count returns the last published count.
func (r *Refresher) Count() int {
	return int(r.count.Load())
}

// Frames returns how many frames have been painted.
func (r *Refresher) Frames() uint64 {
	return r.frames.Load()
}

// Run paints one frame per tick until ctx is done or tick is closed, then
// switches the display off.
func (r *Refresher) Run(ctx context.Context, tick <-chan time.Time) {
	defer r.driver.Off()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-tick:
			if !ok {
				return
			}
			r.driver.Render(r.Count())
			r.frames.Add(1)
		}
	}
}
