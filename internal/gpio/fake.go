package gpio

import (
	"errors"
	"sync"
)

// WriteRecord is one recorded output write.
type WriteRecord struct {
	Line string
	High bool
}

// Recorder hands out fake output lines that share a single ordered write log,
// so tests can replay the exact bit sequence across lines.
type Recorder struct {
	mu     sync.Mutex
	writes []WriteRecord
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Line returns a fake output line with the given name.
func (r *Recorder) Line(name string) *FakeOutput {
	return &FakeOutput{name: name, rec: r}
}

// Writes returns a copy of the write log.
func (r *Recorder) Writes() []WriteRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]WriteRecord, len(r.writes))
	copy(out, r.writes)
	return out
}

// Reset clears the write log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.writes = nil
	r.mu.Unlock()
}

// FakeOutput is a test double for OutputLine.
type FakeOutput struct {
	name string
	rec  *Recorder

	mu   sync.Mutex
	high bool
}

// Write records the level.
func (f *FakeOutput) Write(high bool) {
	f.mu.Lock()
	f.high = high
	f.mu.Unlock()
	if f.rec != nil {
		f.rec.mu.Lock()
		f.rec.writes = append(f.rec.writes, WriteRecord{Line: f.name, High: high})
		f.rec.mu.Unlock()
	}
}

// High returns the last written level.
func (f *FakeOutput) High() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.high
}

// Name returns the line name given to the recorder.
func (f *FakeOutput) Name() string {
	return f.name
}

// FakeInput is a test double for InputLine that returns scripted levels.
type FakeInput struct {
	// Levels contains scripted values; each Level() consumes one.
	// When exhausted the last value repeats.
	Levels []bool

	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Level()
	ReadError error
}

// NewFakeInput creates a FakeInput with the given levels.
func NewFakeInput(levels ...bool) *FakeInput {
	return &FakeInput{Levels: levels}
}

// Level returns the next scripted level.
func (f *FakeInput) Level() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Levels) == 0 {
		return false, errors.New("no levels configured")
	}
	v := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return v, nil
}

// Close marks the line as closed.
func (f *FakeInput) Close() error {
	f.Closed = true
	return nil
}
