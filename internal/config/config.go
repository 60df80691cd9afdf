package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPhoneKeys are the tag keys inspected on every node, in order.
var DefaultPhoneKeys = []string{"phone", "contact:phone", "contact:mobile", "fax", "contact:fax"}

// Config holds the full application configuration.
type Config struct {
	Area     AreaConfig     `yaml:"area" mapstructure:"area"`
	Phone    PhoneConfig    `yaml:"phone" mapstructure:"phone"`
	Overpass OverpassConfig `yaml:"overpass" mapstructure:"overpass"`
	OSM      OSMConfig      `yaml:"osm" mapstructure:"osm"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// AreaConfig selects the boundary area and the tag a node must carry.
type AreaConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Value     string `yaml:"value" mapstructure:"value"`
	FilterTag string `yaml:"filter_tag" mapstructure:"filter_tag"`
}

// PhoneConfig configures number parsing and the tags that get rewritten.
type PhoneConfig struct {
	Region string   `yaml:"region" mapstructure:"region"`
	Keys   []string `yaml:"keys" mapstructure:"keys"`
}

// OverpassConfig holds Overpass API settings.
type OverpassConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// OSMConfig holds OpenStreetMap API settings for bulk node lookups.
type OSMConfig struct {
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	MaxStringLength int     `yaml:"max_string_length" mapstructure:"max_string_length"`
	MaxIDs          int     `yaml:"max_ids" mapstructure:"max_ids"`
	Concurrency     int     `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit       float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PHONEFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("area.key", "ISO3166-2")
	v.SetDefault("area.value", "NL-GR")
	v.SetDefault("area.filter_tag", "phone")
	v.SetDefault("phone.region", "NL")
	v.SetDefault("phone.keys", DefaultPhoneKeys)
	v.SetDefault("overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.timeout_secs", 180)
	v.SetDefault("osm.base_url", "https://api.openstreetmap.org/api/0.6")
	v.SetDefault("osm.max_string_length", 8000)
	v.SetDefault("osm.max_ids", 725)
	v.SetDefault("osm.concurrency", 1)
	v.SetDefault("osm.rate_limit", 2.0)
	v.SetDefault("osm.timeout_secs", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.Area.Key == "" || c.Area.Value == "" {
		errs = append(errs, "area.key and area.value are required")
	}
	if c.Area.FilterTag == "" {
		errs = append(errs, "area.filter_tag is required")
	}
	if c.Phone.Region == "" {
		errs = append(errs, "phone.region is required")
	}
	if len(c.Phone.Keys) == 0 {
		errs = append(errs, "phone.keys must list at least one tag key")
	}
	if c.Overpass.URL == "" {
		errs = append(errs, "overpass.url is required")
	}
	if c.OSM.BaseURL == "" {
		errs = append(errs, "osm.base_url is required")
	}
	if c.OSM.MaxStringLength <= 0 {
		errs = append(errs, fmt.Sprintf("osm.max_string_length must be > 0, got %d", c.OSM.MaxStringLength))
	}
	if c.OSM.MaxIDs <= 1 {
		errs = append(errs, fmt.Sprintf("osm.max_ids must be > 1, got %d", c.OSM.MaxIDs))
	}
	if c.OSM.Concurrency < 1 {
		errs = append(errs, "osm.concurrency must be >= 1")
	}
	if c.OSM.RateLimit < 0 {
		errs = append(errs, "osm.rate_limit must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
