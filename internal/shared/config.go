package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Leasing  LeasingConfig  `toml:"leasing"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
}

// StorageConfig selects the backing store for every entity kind.
type StorageConfig struct {
	UseDatabase bool   `toml:"use_database"`
	DataDir     string `toml:"data_dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	URL          string `toml:"url"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LeasingConfig contains the commercial terms applied to new leasing contracts.
type LeasingConfig struct {
	AdminFee         float64 `toml:"admin_fee"`
	TaxRate          float64 `toml:"tax_rate"`
	LoyaltyThreshold int     `toml:"loyalty_threshold"`
	LoyaltyDiscount  float64 `toml:"loyalty_discount"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// ServerConfig contains HTTP server settings for the read-only listing API.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr joins Host and Port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports the first setting that cannot be used, wrapped in [ErrInvalidConfig].
func (c *Config) Validate() error {
	if c.Storage.UseDatabase {
		if _, err := DriverName(c.Database.Driver); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is empty", ErrInvalidConfig)
		}
	} else if c.Storage.DataDir == "" {
		return fmt.Errorf("%w: storage.data_dir is empty", ErrInvalidConfig)
	}

	switch {
	case c.Leasing.AdminFee < 0:
		return fmt.Errorf("%w: leasing.admin_fee is negative", ErrInvalidConfig)
	case c.Leasing.TaxRate < 0:
		return fmt.Errorf("%w: leasing.tax_rate is negative", ErrInvalidConfig)
	case c.Leasing.LoyaltyDiscount < 0 || c.Leasing.LoyaltyDiscount > 100:
		return fmt.Errorf("%w: leasing.loyalty_discount must be within 0..100", ErrInvalidConfig)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be within 0..65535", ErrInvalidConfig)
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
