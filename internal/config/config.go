// Package config loads daemon settings from an optional file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sweeney/rep-counter/internal/display"
	"github.com/sweeney/rep-counter/internal/engine"
	"github.com/sweeney/rep-counter/internal/gpio"
	"github.com/sweeney/rep-counter/internal/logging"
	"github.com/sweeney/rep-counter/internal/mqtt"
	"github.com/sweeney/rep-counter/internal/sensor"
)

// EnvPrefix is prepended to environment overrides, e.g.
// REPCOUNTER_SESSION_IDLE_TIMEOUT=30s.
const EnvPrefix = "REPCOUNTER"

// Sensor kinds.
const (
	SensorMPU6050 = "mpu6050"
	SensorPIR     = "pir"
)

// Detector thresholds used when none are configured. An MPU6050 reports
// m/s² so the band sits just above gravity; a PIR reports levels 0 and 1.
var defaultThresholds = map[string]DetectorConfig{
	SensorMPU6050: {ThresholdUp: 11, ThresholdDown: 8},
	SensorPIR:     {ThresholdUp: 0.5, ThresholdDown: 0.25},
}

// Config holds all daemon settings.
type Config struct {
	Detector DetectorConfig `mapstructure:"detector"`
	Session  SessionConfig  `mapstructure:"session"`
	Tick     time.Duration  `mapstructure:"tick"`
	Sensor   SensorConfig   `mapstructure:"sensor"`
	Display  DisplayConfig  `mapstructure:"display"`
	GPIO     GPIOConfig     `mapstructure:"gpio"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	HTTP     string         `mapstructure:"http"`
	Log      logging.Config `mapstructure:"log"`
}

type DetectorConfig struct {
	ThresholdUp   float64 `mapstructure:"threshold_up"`
	ThresholdDown float64 `mapstructure:"threshold_down"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	MaxEvents   int           `mapstructure:"max_events"`
}

type SensorConfig struct {
	Kind    string  `mapstructure:"kind"`
	I2CBus  string  `mapstructure:"i2c_bus"`
	I2CAddr int     `mapstructure:"i2c_addr"`
	Axis    string  `mapstructure:"axis"`
	Pin     int     `mapstructure:"pin"`
	Min     float64 `mapstructure:"min"`
	Max     float64 `mapstructure:"max"`
}

type DisplayConfig struct {
	Digits            int           `mapstructure:"digits"`
	Order             string        `mapstructure:"order"`
	BlankLeadingZeros bool          `mapstructure:"blank_leading_zeros"`
	Hold              time.Duration `mapstructure:"hold"`
	Refresh           time.Duration `mapstructure:"refresh"`
	Pins              PinConfig     `mapstructure:"pins"`
}

type PinConfig struct {
	Data   int   `mapstructure:"data"`
	Clock  int   `mapstructure:"clock"`
	Latch  int   `mapstructure:"latch"`
	Digits []int `mapstructure:"digits"`
}

type GPIOConfig struct {
	Chip string `mapstructure:"chip"`
}

type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// SetDefaults registers every default value on v. session.idle_timeout has
// no default and must be supplied. The detector thresholds depend on
// sensor.kind and are filled in by Read.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("session.max_events", 100)
	v.SetDefault("tick", 200*time.Millisecond)
	v.SetDefault("sensor.kind", SensorMPU6050)
	v.SetDefault("sensor.i2c_bus", "")
	v.SetDefault("sensor.i2c_addr", sensor.DefaultMPU6050Addr)
	v.SetDefault("sensor.axis", "z")
	v.SetDefault("sensor.pin", gpio.DefaultPinPIR)
	v.SetDefault("sensor.min", 0.0)
	v.SetDefault("sensor.max", 0.0)
	v.SetDefault("display.digits", len(gpio.DefaultDigitPins))
	v.SetDefault("display.order", "msb-first")
	v.SetDefault("display.blank_leading_zeros", false)
	v.SetDefault("display.hold", display.DefaultHold)
	v.SetDefault("display.refresh", display.DefaultRefresh)
	v.SetDefault("display.pins.data", gpio.DefaultPinData)
	v.SetDefault("display.pins.clock", gpio.DefaultPinClock)
	v.SetDefault("display.pins.latch", gpio.DefaultPinLatch)
	v.SetDefault("display.pins.digits", gpio.DefaultDigitPins)
	v.SetDefault("gpio.chip", "gpiochip0")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "rep-counter")
	v.SetDefault("mqtt.topic_prefix", mqtt.DefaultTopicPrefix)
	v.SetDefault("http", ":8080")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", logging.DefaultMaxSizeMB)
	v.SetDefault("log.max_backups", logging.DefaultMaxBackups)
	v.SetDefault("log.max_age_days", logging.DefaultMaxAgeDays)
	v.SetDefault("log.compress", false)
}

// Load reads path (when non-empty) into v, applies environment overrides and
// returns the validated result.
func Load(v *viper.Viper, path string) (Config, error) {
	cfg, err := Read(v, path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for tools that only need part of the
// settings.
func Read(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// no defaults, so AutomaticEnv alone would not surface them to Unmarshal
	for _, key := range []string{"session.idle_timeout", "detector.threshold_up", "detector.threshold_down"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	def, ok := defaultThresholds[cfg.Sensor.Kind]
	if !ok {
		def = defaultThresholds[SensorMPU6050]
	}
	if !v.IsSet("detector.threshold_up") {
		cfg.Detector.ThresholdUp = def.ThresholdUp
	}
	if !v.IsSet("detector.threshold_down") {
		cfg.Detector.ThresholdDown = def.ThresholdDown
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	var errs []error
	if !(c.Detector.ThresholdDown < c.Detector.ThresholdUp) {
		errs = append(errs, fmt.Errorf("detector.threshold_down (%v) must be below detector.threshold_up (%v)",
			c.Detector.ThresholdDown, c.Detector.ThresholdUp))
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, errors.New("session.idle_timeout must be set and positive"))
	}
	if c.Session.MaxEvents < 1 {
		errs = append(errs, fmt.Errorf("session.max_events must be at least 1, got %d", c.Session.MaxEvents))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %v", c.Tick))
	}
	switch c.Sensor.Kind {
	case SensorMPU6050:
		if _, err := sensor.ParseAxis(c.Sensor.Axis); err != nil {
			errs = append(errs, fmt.Errorf("sensor.axis: %w", err))
		}
		if c.Sensor.I2CAddr <= 0 || c.Sensor.I2CAddr > 0x7F {
			errs = append(errs, fmt.Errorf("sensor.i2c_addr %#x out of range", c.Sensor.I2CAddr))
		}
	case SensorPIR:
		if c.Sensor.Pin < 0 {
			errs = append(errs, fmt.Errorf("sensor.pin must not be negative, got %d", c.Sensor.Pin))
		}
		// levels are 0 and 1; both must be able to leave the band
		if !(c.Detector.ThresholdDown > 0 && c.Detector.ThresholdUp < 1) {
			errs = append(errs, fmt.Errorf("pir thresholds %v/%v must satisfy 0 < threshold_down < threshold_up < 1",
				c.Detector.ThresholdDown, c.Detector.ThresholdUp))
		}
	default:
		errs = append(errs, fmt.Errorf("sensor.kind %q must be %s or %s", c.Sensor.Kind, SensorMPU6050, SensorPIR))
	}
	if c.Display.Digits < 1 || c.Display.Digits > 8 {
		errs = append(errs, fmt.Errorf("display.digits must be 1..8, got %d", c.Display.Digits))
	}
	if len(c.Display.Pins.Digits) != c.Display.Digits {
		errs = append(errs, fmt.Errorf("display.pins.digits has %d entries, want %d",
			len(c.Display.Pins.Digits), c.Display.Digits))
	}
	if _, ok := display.ParseOrder(c.Display.Order); !ok {
		errs = append(errs, fmt.Errorf("display.order %q must be msb-first or lsb-first", c.Display.Order))
	}
	if c.Display.Hold < 0 || c.Display.Refresh < 0 {
		errs = append(errs, errors.New("display.hold and display.refresh must not be negative"))
	}
	return errors.Join(errs...)
}

// Engine returns the counting parameters.
func (c Config) Engine() engine.Config {
	return engine.Config{
		ThresholdUp:   c.Detector.ThresholdUp,
		ThresholdDown: c.Detector.ThresholdDown,
		IdleTimeout:   c.Session.IdleTimeout,
		MaxEvents:     c.Session.MaxEvents,
	}
}

// DisplayOptions returns the driver options. Call after Validate.
func (c Config) DisplayOptions() display.Config {
	order, _ := display.ParseOrder(c.Display.Order)
	return display.Config{
		Order:             order,
		BlankLeadingZeros: c.Display.BlankLeadingZeros,
		Hold:              c.Display.Hold,
	}
}

// Axis returns the accelerometer axis. Call after Validate.
func (c Config) Axis() sensor.Axis {
	a, _ := sensor.ParseAxis(c.Sensor.Axis)
	return a
}
