package config

import (
	"fmt"
	"mesh_flood/internal/dataType"
	"mesh_flood/internal/utils"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type MainConfig struct {
	NodeCount   int            `yaml:"node_count" validate:"gt=0"`
	Topology    string         `yaml:"topology" validate:"oneof=line ring grid full"`
	Seed        int64          `yaml:"seed"`
	Duration    string         `yaml:"duration" validate:"required"`
	LogPath     string         `yaml:"log_path"`
	LogDebug    bool           `yaml:"log_debug"`
	MetricsPath string         `yaml:"metrics_path"`
	Protocol    ProtocolConfig `yaml:"protocol"`
}

type ProtocolConfig struct {
	MaxTTL           int     `yaml:"max_ttl" validate:"gt=0"`
	RelayProbability float64 `yaml:"relay_probability" validate:"gte=0,lte=1"`
	BeaconInterval   string  `yaml:"beacon_interval" validate:"required"`
	RouteTimeout     string  `yaml:"route_timeout" validate:"required"`
	CacheCapacity    int     `yaml:"cache_capacity" validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() MainConfig {
	return MainConfig{
		NodeCount:   10,
		Topology:    "grid",
		Seed:        1,
		Duration:    "10m",
		LogPath:     "",
		MetricsPath: "",
		Protocol: ProtocolConfig{
			MaxTTL:           5,
			RelayProbability: 0.8,
			BeaconInterval:   "5s",
			RouteTimeout:     "60s",
			CacheCapacity:    dataType.DefaultCacheCapacity,
		},
	}
}

// LoadMainConfig Read the configuration file and return the configuration object.
// Values missing from the file keep their defaults.
func LoadMainConfig(basePath string) (*MainConfig, error) {
	defaultCfg := DefaultConfig()

	if basePath == "" {
		exePath, err := os.Executable()
		if err != nil {
			return nil, err
		}
		basePath = filepath.Dir(exePath)
	}
	configPath := filepath.Join(basePath, "config", "mesh.yml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return &defaultCfg, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &defaultCfg, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and interval syntax. A config that fails here must
// not start the simulation.
func (c *MainConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Horizon(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Params converts the protocol section into engine parameters.
func (c *MainConfig) Params() (dataType.ProtocolParams, error) {
	beacon, err := utils.ParseInterval(c.Protocol.BeaconInterval)
	if err != nil {
		return dataType.ProtocolParams{}, fmt.Errorf("beacon_interval: %w", err)
	}
	timeout, err := utils.ParseInterval(c.Protocol.RouteTimeout)
	if err != nil {
		return dataType.ProtocolParams{}, fmt.Errorf("route_timeout: %w", err)
	}

	p := dataType.ProtocolParams{
		MaxTTL:           c.Protocol.MaxTTL,
		RelayProbability: c.Protocol.RelayProbability,
		BeaconInterval:   dataType.SimTime(beacon),
		RouteTimeout:     dataType.SimTime(timeout),
		CacheCapacity:    c.Protocol.CacheCapacity,
	}
	if err := p.Validate(); err != nil {
		return dataType.ProtocolParams{}, err
	}
	return p, nil
}

// Horizon is the logical time at which the simulation stops.
func (c *MainConfig) Horizon() (dataType.SimTime, error) {
	d, err := utils.ParseInterval(c.Duration)
	if err != nil {
		return 0, fmt.Errorf("duration: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be greater than 0")
	}
	return dataType.SimTime(d), nil
}
