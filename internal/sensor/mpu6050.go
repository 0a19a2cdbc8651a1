package sensor

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3"
)

// MPU6050 register map (subset).
const (
	mpuRegAccelConfig = 0x1C
	mpuRegAccelXOutH  = 0x3B
	mpuRegPwrMgmt1    = 0x6B
	mpuRegWhoAmI      = 0x75

	// DefaultMPU6050Addr is the address with AD0 low.
	DefaultMPU6050Addr = 0x68

	// +-2g full scale
	mpuLSBPerG = 16384.0
	standardG  = 9.80665
)

// Axis selects which accelerometer axis a source reports.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis converts "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// MPU6050 reads one acceleration axis in m/s^2 from an MPU6050 over I2C.
type MPU6050 struct {
	dev  conn.Conn
	axis Axis
}

// mpuIdentities lists WHO_AM_I values of register-compatible parts.
var mpuIdentities = map[byte]string{
	0x68: "MPU6050",
	0x70: "MPU6500",
	0x71: "MPU9250",
}

// NewMPU6050 checks the identity register, wakes the device on dev and
// configures the +-2g range.
func NewMPU6050(dev conn.Conn, axis Axis) (*MPU6050, error) {
	m := &MPU6050{dev: dev, axis: axis}
	id, err := m.WhoAmI()
	if err != nil {
		return nil, err
	}
	if _, ok := mpuIdentities[id]; !ok {
		return nil, fmt.Errorf("mpu6050: unexpected WHO_AM_I %#x on %s", id, dev)
	}
	if err := dev.Tx([]byte{mpuRegPwrMgmt1, 0x00}, nil); err != nil {
		return nil, fmt.Errorf("mpu6050 wake: %w", err)
	}
	if err := dev.Tx([]byte{mpuRegAccelConfig, 0x00}, nil); err != nil {
		return nil, fmt.Errorf("mpu6050 accel config: %w", err)
	}
	return m, nil
}

// WhoAmI returns the identity register (0x68 on genuine parts).
func (m *MPU6050) WhoAmI() (byte, error) {
	var b [1]byte
	if err := m.dev.Tx([]byte{mpuRegWhoAmI}, b[:]); err != nil {
		return 0, fmt.Errorf("mpu6050 whoami: %w", err)
	}
	return b[0], nil
}

// Read returns the configured axis acceleration in m/s^2.
func (m *MPU6050) Read() (float64, error) {
	var buf [6]byte
	if err := m.dev.Tx([]byte{mpuRegAccelXOutH}, buf[:]); err != nil {
		return 0, fmt.Errorf("mpu6050 read: %w", err)
	}
	off := int(m.axis) * 2
	raw := int16(binary.BigEndian.Uint16(buf[off : off+2]))
	return float64(raw) / mpuLSBPerG * standardG, nil
}
