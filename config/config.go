package config

import (
	"fmt"
	"os"
	"time"

	"github.com/calmh/baropi/bmp280"
	"github.com/calmh/baropi/i2c"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration shared by the commands.
type Config struct {
	Bus        BusConfig        `yaml:"bus"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Sample     SampleConfig     `yaml:"sample"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
}

// BusConfig selects the I2C stack and the sensor address.
type BusConfig struct {
	Backend string `yaml:"backend"` // "sysfs" (gobot) or "periph"
	Device  string `yaml:"device"`  // /dev/i2c-N for sysfs, bus name for periph ("" = first)
	Address uint8  `yaml:"address"`
}

// SensorConfig holds oversampling as sample counts (1, 2, 4, 8, 16).
type SensorConfig struct {
	PressureOversampling    int `yaml:"pressure_oversampling"`
	TemperatureOversampling int `yaml:"temperature_oversampling"`
}

// SampleConfig controls the measurement loop.
type SampleConfig struct {
	Interval time.Duration `yaml:"interval"`
	Decimals int           `yaml:"decimals"` // rounding of printed values
}

type PrometheusConfig struct {
	Listen string `yaml:"listen"`
}

// MQTTConfig enables publishing when Broker is set.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

const (
	BackendSysfs  = i2c.BackendSysfs
	BackendPeriph = i2c.BackendPeriph
)

// DefaultSysfsDevice is used when the sysfs backend is selected without a
// device. The periph backend leaves it empty to open the first bus.
const DefaultSysfsDevice = "/dev/i2c-1"

// Default returns a default configuration with sensible values. The bus
// device is filled in by Load once the backend is known.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Backend: BackendSysfs,
			Address: bmp280.Address,
		},
		Sensor: SensorConfig{
			PressureOversampling:    8,
			TemperatureOversampling: 1,
		},
		Sample: SampleConfig{
			Interval: time.Second,
			Decimals: 2,
		},
		Prometheus: PrometheusConfig{
			Listen: ":9120",
		},
		MQTT: MQTTConfig{
			ClientID: "baropi",
			Topic:    "sensors/bmp280",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults, as do missing fields.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ensureDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults fills in zero values. Zero oversampling counts as unset:
// skipping either measurement leaves nothing to compensate.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Bus.Backend == "" {
		c.Bus.Backend = def.Bus.Backend
	}
	if c.Bus.Device == "" && c.Bus.Backend == BackendSysfs {
		c.Bus.Device = DefaultSysfsDevice
	}
	if c.Bus.Address == 0 {
		c.Bus.Address = def.Bus.Address
	}

	if c.Sensor.PressureOversampling == 0 {
		c.Sensor.PressureOversampling = def.Sensor.PressureOversampling
	}
	if c.Sensor.TemperatureOversampling == 0 {
		c.Sensor.TemperatureOversampling = def.Sensor.TemperatureOversampling
	}

	if c.Sample.Interval == 0 {
		c.Sample.Interval = def.Sample.Interval
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = def.MQTT.Topic
	}
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Bus.Backend {
	case BackendSysfs, BackendPeriph:
	default:
		return fmt.Errorf("bus.backend must be %q or %q, got %q", BackendSysfs, BackendPeriph, c.Bus.Backend)
	}
	if c.Bus.Address != bmp280.Address && c.Bus.Address != bmp280.AlternateAddress {
		return fmt.Errorf("bus.address must be 0x%02x or 0x%02x, got 0x%02x", bmp280.Address, bmp280.AlternateAddress, c.Bus.Address)
	}
	if _, err := c.Opts(); err != nil {
		return err
	}
	if c.Sample.Interval < 0 {
		return fmt.Errorf("sample.interval must be positive, got %v", c.Sample.Interval)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0-2, got %d", c.MQTT.QoS)
	}
	return nil
}

// Opts returns the driver options described by the configuration.
func (c *Config) Opts() (*bmp280.Opts, error) {
	p, err := bmp280.ParseOversampling(c.Sensor.PressureOversampling)
	if err != nil {
		return nil, fmt.Errorf("sensor.pressure_oversampling: %w", err)
	}
	t, err := bmp280.ParseOversampling(c.Sensor.TemperatureOversampling)
	if err != nil {
		return nil, fmt.Errorf("sensor.temperature_oversampling: %w", err)
	}
	return &bmp280.Opts{Address: c.Bus.Address, Pressure: p, Temperature: t}, nil
}
