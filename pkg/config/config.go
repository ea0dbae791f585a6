// Package config reads the sensor configuration from the environment.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/spencer-p/tidesensor/pkg/kartverket"
)

// Prefix of every environment variable, e.g. TIDE_LATITUDE.
const Prefix = "TIDE"

// defaultKey is the placeholder for both session keys. It is public, so
// cookies signed with it can be forged.
const defaultKey = "deadbeef"

type Config struct {
	Latitude  float64 `required:"true"`
	Longitude float64 `required:"true"`
	Name      string  `default:"Kartverket Tides"`
	Interval  int     `default:"10"`
	Language  string  `default:"en"`
	// EnableUTC shows attribute times in UTC instead of Timezone.
	EnableUTC    bool          `split_words:"true" default:"false"`
	Timezone     string        `default:"Europe/Oslo"`
	ScanInterval time.Duration `split_words:"true" default:"2h"`
	BaseURL      string        `split_words:"true" default:"https://api.sehavniva.no/tideapi.php"`

	Port          string `envconfig:"PORT" default:"8080"`
	RoutePrefix   string `envconfig:"PREFIX" default:"/"`
	SessionKey    string `split_words:"true" default:"deadbeef"`
	EncryptionKey string `split_words:"true" default:"deadbeef"`

	location *time.Location
}

// Load reads a .env file if there is one, then the environment, and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the tide API would otherwise reject, and
// resolves the time zone.
func (c *Config) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %f", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %f", c.Longitude)
	}
	if _, err := kartverket.ParseInterval(c.Interval); err != nil {
		return err
	}
	if _, err := kartverket.ParseLanguage(c.Language); err != nil {
		return err
	}
	if !strings.HasPrefix(c.RoutePrefix, "/") {
		return fmt.Errorf("route prefix must start with /, got %q", c.RoutePrefix)
	}
	if c.InsecureKeys() {
		log.Printf("Warning: session keys are the default %q, set %s_SESSION_KEY and %s_ENCRYPTION_KEY", defaultKey, Prefix, Prefix)
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive, got %s", c.ScanInterval)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// InsecureKeys reports whether either session key is left at its default.
func (c *Config) InsecureKeys() bool {
	return c.SessionKey == defaultKey || c.EncryptionKey == defaultKey
}

// Location is the resolved Timezone. It is nil until Validate succeeds.
func (c *Config) Location() *time.Location {
	return c.location
}
