package analytics

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the analytics helper configuration.
//
// An empty WriteKey is allowed and puts the helper into degraded mode: every
// operation becomes a no-op instead of failing.
type Config struct {
	// WriteKey is the vendor SDK project API key.
	WriteKey string
	// Endpoint is the vendor ingestion endpoint.
	Endpoint string `validate:"required,url"`
	// Debug marks this process as a debug build. Validation defaults, error
	// logging, and the fail-on-validation flag are scoped to debug builds.
	Debug bool
	// FlushInterval is the maximum time the vendor SDK buffers events before
	// dispatching a batch.
	FlushInterval time.Duration `validate:"min=1ms"`
	// BatchSize is the maximum number of events per dispatched batch.
	BatchSize int `validate:"min=1"`
}

// DefaultConfig returns the default analytics configuration.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:      "https://app.posthog.com",
		FlushInterval: 30 * time.Second,
		BatchSize:     100,
	}
}

// LoadConfigFromEnv builds a Config from environment variables, falling back
// to defaults for anything unset.
//
//	ANALYTICS_WRITE_KEY  vendor project API key (empty disables forwarding)
//	ANALYTICS_ENDPOINT   vendor ingestion endpoint
//	ANALYTICS_DEBUG      "true" marks this process as a debug build
//	ANALYTICS_BATCH_SIZE maximum events per dispatched batch
func LoadConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.WriteKey = os.Getenv("ANALYTICS_WRITE_KEY")

	if endpoint := os.Getenv("ANALYTICS_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
	}

	if debug, err := strconv.ParseBool(os.Getenv("ANALYTICS_DEBUG")); err == nil {
		cfg.Debug = debug
	}

	if size, err := strconv.Atoi(os.Getenv("ANALYTICS_BATCH_SIZE")); err == nil && size > 0 {
		cfg.BatchSize = size
	}

	return cfg
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	vld := validator.New(validator.WithRequiredStructEnabled())
	if err := vld.Struct(c); err != nil {
		return fmt.Errorf("invalid analytics config: %w", err)
	}
	return nil
}
