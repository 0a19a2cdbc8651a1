package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2CMPU6050 is an MPU6050 opened on a host I2C bus.
type I2CMPU6050 struct {
	*MPU6050
	bus i2c.BusCloser
}

// OpenMPU6050 initializes the host drivers and opens the sensor on the
// named bus ("" selects the first bus).
func OpenMPU6050(busName string, addr uint16, axis Axis) (*I2CMPU6050, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	m, err := NewMPU6050(&i2c.Dev{Bus: bus, Addr: addr}, axis)
	if err != nil {
		bus.Close()
		return nil, err
	}
	return &I2CMPU6050{MPU6050: m, bus: bus}, nil
}

// Close releases the bus.
func (s *I2CMPU6050) Close() error {
	return s.bus.Close()
}
