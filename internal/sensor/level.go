package sensor

import "github.com/sweeney/rep-counter/internal/gpio"

// LevelSource presents a digital line (e.g. a PIR motion sensor) as a 0/1
// analog source. Rising edges queued by the driver since the previous read
// latch the reading to 1, so a pulse shorter than the tick period still
// reaches the detector.
type LevelSource struct {
	line  gpio.InputLine
	edges *gpio.EdgeQueue
}

// NewLevelSource wraps line. edges may be nil for plain polling.
func NewLevelSource(line gpio.InputLine, edges *gpio.EdgeQueue) *LevelSource {
	return &LevelSource{line: line, edges: edges}
}

// Read returns 1 if the line is high or rose since the last read, else 0.
func (s *LevelSource) Read() (float64, error) {
	rose := false
	if s.edges != nil {
		for _, e := range s.edges.Drain() {
			if e.Rising {
				rose = true
			}
		}
	}
	high, err := s.line.Level()
	if err != nil {
		return 0, err
	}
	if high || rose {
		return 1, nil
	}
	return 0, nil
}

// Close releases the line.
func (s *LevelSource) Close() error {
	return s.line.Close()
}
