// Package sensor provides analog sample sources for the counting engine.
// Every source reads a single scalar in the sensor's native scale.
package sensor

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSample marks a reading that cannot be trusted, e.g. an
// out-of-range value from a disconnected sensor. The engine skips the tick.
var ErrInvalidSample = errors.New("sensor: invalid sample")

// Source reads one sample. Reads are expected to return promptly.
type Source interface {
	Read() (float64, error)
}

// Validated wraps a source and rejects NaN, infinite and out-of-range values.
type Validated struct {
	src      Source
	min, max float64
}

// Validate wraps src. min >= max disables the range check; NaN and
// infinities are always rejected.
func Validate(src Source, min, max float64) *Validated {
	return &Validated{src: src, min: min, max: max}
}

// Read returns the wrapped source's value, or an error wrapping
// ErrInvalidSample.
func (v *Validated) Read() (float64, error) {
	raw, err := v.src.Read()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSample, raw)
	}
	if v.min < v.max && (raw < v.min || raw > v.max) {
		return 0, fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidSample, raw, v.min, v.max)
	}
	return raw, nil
}
