package config

import (
	"errors"
	"fmt"
	"time"

	"filmmap/internal/geocoder"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// Values are read from app.env in the config directory and overridden by environment variables.
type Config struct {
	DatasetPath      string `mapstructure:"DATASET_PATH"`
	DatasetDelimiter string `mapstructure:"DATASET_DELIMITER"`
	OutputPath       string `mapstructure:"OUTPUT_PATH"`
	DBSource         string `mapstructure:"DB_SOURCE"`
	ServerAddress    string `mapstructure:"SERVER_ADDRESS"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	MapZoom          int    `mapstructure:"MAP_ZOOM"`

	GeocoderBaseURL   string        `mapstructure:"GEOCODER_BASE_URL"`
	GeocoderUserAgent string        `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderLanguage  string        `mapstructure:"GEOCODER_LANGUAGE"`
	GeocoderTimeout   time.Duration `mapstructure:"GEOCODER_TIMEOUT"`

	ReverseMinDelay   time.Duration `mapstructure:"REVERSE_MIN_DELAY"`
	ReverseMaxRetries int           `mapstructure:"REVERSE_MAX_RETRIES"`
	ForwardMinDelay   time.Duration `mapstructure:"FORWARD_MIN_DELAY"`
	ForwardMaxRetries int           `mapstructure:"FORWARD_MAX_RETRIES"`
}

var defaults = map[string]any{
	"DATASET_PATH":        "locations.csv",
	"DATASET_DELIMITER":   ",",
	"OUTPUT_PATH":         "map.html",
	"DB_SOURCE":           "",
	"SERVER_ADDRESS":      "0.0.0.0:8080",
	"LOG_LEVEL":           "info",
	"MAP_ZOOM":            12,
	"GEOCODER_BASE_URL":   "https://nominatim.openstreetmap.org",
	"GEOCODER_USER_AGENT": "filmmap",
	"GEOCODER_LANGUAGE":   "en-GB",
	"GEOCODER_TIMEOUT":    "10s",
	"REVERSE_MIN_DELAY":   "1s",
	"REVERSE_MAX_RETRIES": 100,
	"FORWARD_MIN_DELAY":   "1s",
	"FORWARD_MAX_RETRIES": 10,
}

// LoadConfig reads configuration from path/app.env and the environment.
// A missing app.env is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err = config.validate(); err != nil {
		return config, err
	}

	return config, nil
}

func (c Config) validate() error {
	if c.DatasetDelimiter == "" || len([]rune(c.DatasetDelimiter)) != 1 {
		return fmt.Errorf("config: DATASET_DELIMITER must be a single character, got %q", c.DatasetDelimiter)
	}
	if c.GeocoderUserAgent == "" {
		return errors.New("config: GEOCODER_USER_AGENT cannot be empty")
	}
	if c.ReverseMaxRetries < 0 || c.ForwardMaxRetries < 0 {
		return errors.New("config: max retries cannot be negative")
	}
	return nil
}

// Delimiter returns the dataset field separator.
func (c Config) Delimiter() rune {
	return []rune(c.DatasetDelimiter)[0]
}

// ProviderMinDelay is the spacing between any two provider requests of the process.
func (c Config) ProviderMinDelay() time.Duration {
	return max(c.ReverseMinDelay, c.ForwardMinDelay)
}

// ReverseGeocoder returns the provider settings used for coordinate to address lookups.
func (c Config) ReverseGeocoder() geocoder.Config {
	return c.geocoder(c.ReverseMinDelay, c.ReverseMaxRetries)
}

// ForwardGeocoder returns the provider settings used for place name to coordinate lookups.
func (c Config) ForwardGeocoder() geocoder.Config {
	return c.geocoder(c.ForwardMinDelay, c.ForwardMaxRetries)
}

func (c Config) geocoder(minDelay time.Duration, maxRetries int) geocoder.Config {
	return geocoder.Config{
		BaseURL:    c.GeocoderBaseURL,
		UserAgent:  c.GeocoderUserAgent,
		Language:   c.GeocoderLanguage,
		Timeout:    c.GeocoderTimeout,
		MinDelay:   minDelay,
		MaxRetries: maxRetries,
	}
}
