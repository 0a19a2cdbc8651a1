package sensor

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"periph.io/x/conn/v3"
)

// fakeConn emulates the MPU6050 register file over conn.Conn.
type fakeConn struct {
	regs   [128]byte
	writes [][]byte
	err    error
}

func (f *fakeConn) String() string      { return "fake-mpu6050" }
func (f *fakeConn) Duplex() conn.Duplex { return conn.Half }
func (f *fakeConn) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, append([]byte(nil), w...))
	if len(w) == 0 {
		return nil
	}
	reg := int(w[0])
	if len(w) > 1 {
		copy(f.regs[reg:], w[1:])
	}
	copy(r, f.regs[reg:])
	return nil
}

// newFakeConn returns a register file that identifies as a genuine MPU6050.
func newFakeConn() *fakeConn {
	c := &fakeConn{}
	c.regs[mpuRegWhoAmI] = 0x68
	return c
}

func (f *fakeConn) setAccel(x, y, z int16) {
	for i, v := range []int16{x, y, z} {
		f.regs[mpuRegAccelXOutH+2*i] = byte(uint16(v) >> 8)
		f.regs[mpuRegAccelXOutH+2*i+1] = byte(uint16(v))
	}
}

func TestMPU6050Init(t *testing.T) {
	c := newFakeConn()
	c.regs[mpuRegPwrMgmt1] = 0x40 // sleep bit set at power-on
	if _, err := NewMPU6050(c, AxisZ); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.regs[mpuRegPwrMgmt1] != 0 {
		t.Errorf("PWR_MGMT_1: got %#x, want 0", c.regs[mpuRegPwrMgmt1])
	}
	if len(c.writes) != 3 || !bytes.Equal(c.writes[2], []byte{mpuRegAccelConfig, 0}) {
		t.Errorf("unexpected init writes: %v", c.writes)
	}
}

func TestMPU6050ReadAxes(t *testing.T) {
	c := newFakeConn()
	c.setAccel(-16384, 8192, 16384)

	tests := []struct {
		axis Axis
		want float64
	}{
		{AxisX, -standardG},
		{AxisY, standardG / 2},
		{AxisZ, standardG},
	}
	for _, tt := range tests {
		m, err := NewMPU6050(c, tt.axis)
		if err != nil {
			t.Fatalf("init: %v", err)
		}
		got, err := m.Read()
		if err != nil {
			t.Fatalf("axis %d: %v", tt.axis, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("axis %d: got %v, want %v", tt.axis, got, tt.want)
		}
	}
}

func TestMPU6050WhoAmI(t *testing.T) {
	c := newFakeConn()
	m, err := NewMPU6050(c, AxisZ)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	id, err := m.WhoAmI()
	if err != nil || id != 0x68 {
		t.Errorf("whoami: got %#x (%v)", id, err)
	}
}

func TestMPU6050RejectsUnknownDevice(t *testing.T) {
	c := &fakeConn{}
	c.regs[mpuRegWhoAmI] = 0x19
	if _, err := NewMPU6050(c, AxisZ); err == nil || !strings.Contains(err.Error(), "WHO_AM_I") {
		t.Errorf("error: got %v, want identity failure", err)
	}
	if len(c.writes) != 1 {
		t.Errorf("device must not be configured: writes %v", c.writes)
	}
}

func TestMPU6050BusError(t *testing.T) {
	c := &fakeConn{err: errors.New("nack")}
	if _, err := NewMPU6050(c, AxisZ); err == nil {
		t.Error("expected init error")
	}
	m := &MPU6050{dev: c, axis: AxisZ}
	if _, err := m.Read(); err == nil {
		t.Error("expected read error")
	}
}

func TestParseAxis(t *testing.T) {
	for in, want := range map[string]Axis{"x": AxisX, "Y": AxisY, "z": AxisZ} {
		got, err := ParseAxis(in)
		if err != nil || got != want {
			t.Errorf("ParseAxis(%q): got %v (%v), want %v", in, got, err, want)
		}
	}
	if _, err := ParseAxis("w"); err == nil {
		t.Error("expected error for unknown axis")
	}
}
