package sensor

import "errors"

// Reading is one scripted FakeSource result.
type Reading struct {
	Value float64
	Err   error
}

// FakeSource is a test double that returns scripted readings.
// Each Read consumes one; when exhausted the last reading repeats.
type FakeSource struct {
	Readings []Reading
	index    int
	// Reads counts calls to Read.
	Reads int
}

// NewFakeSource creates a FakeSource returning values in order.
func NewFakeSource(values ...float64) *FakeSource {
	f := &FakeSource{}
	for _, v := range values {
		f.Readings = append(f.Readings, Reading{Value: v})
	}
	return f
}

// Read returns the next scripted reading.
func (f *FakeSource) Read() (float64, error) {
	f.Reads++
	if len(f.Readings) == 0 {
		return 0, errors.New("no readings configured")
	}
	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return r.Value, r.Err
}
