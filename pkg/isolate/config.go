package isolate

import (
	"fmt"
	"strings"

	"github.com/johnjamespj/corelib/pkg/logger"
	"github.com/spf13/viper"
)

const EnvPrefix = "CORELIB"

type Config struct {
	// QueueSize bounds the number of undelivered messages per isolate.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"`
	// MaxIsolates bounds the number of isolates running at once. Further
	// spawns wait for a slot.
	MaxIsolates       int           `yaml:"max_isolates" mapstructure:"max_isolates"`
	Compression       string        `yaml:"compression" mapstructure:"compression"`
	FunctionCacheSize int           `yaml:"function_cache_size" mapstructure:"function_cache_size"`
	Logging           logger.Config `yaml:"logging" mapstructure:"logging"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.QueueSize == 0 {
		c.QueueSize = 1024
	}
	if c.MaxIsolates == 0 {
		c.MaxIsolates = 16
	}
	if c.Compression == "" {
		c.Compression = CompressionNone
	}
	if c.FunctionCacheSize == 0 {
		c.FunctionCacheSize = 128
	}
	c.Logging.ApplyDefaults()
}

func (c *Config) Validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive (got: %d)", c.QueueSize)
	}
	if c.MaxIsolates < 1 {
		return fmt.Errorf("max_isolates must be positive (got: %d)", c.MaxIsolates)
	}
	if _, err := CompressionByName(c.Compression); err != nil {
		return err
	}
	if c.FunctionCacheSize < 1 {
		return fmt.Errorf("function_cache_size must be positive (got: %d)", c.FunctionCacheSize)
	}
	return c.Logging.Validate()
}

// LoadConfig reads the YAML file at path, if any, and applies CORELIB_
// environment overrides (CORELIB_QUEUE_SIZE, CORELIB_LOGGING_LEVEL, ...).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("queue_size", cfg.QueueSize)
	v.SetDefault("max_isolates", cfg.MaxIsolates)
	v.SetDefault("compression", cfg.Compression)
	v.SetDefault("function_cache_size", cfg.FunctionCacheSize)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
	v.SetDefault("logging.no_color", cfg.Logging.NoColor)
	v.SetDefault("logging.timestamp", cfg.Logging.Timestamp)
	v.SetDefault("logging.caller", cfg.Logging.Caller)
}
