package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml"
)

const (
	DefaultListenAddress = "0.0.0.0:8545"
	DefaultECBURL        = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidProviderChain = errors.New("invalid default provider chain")
	ErrInvalidFixedRate     = errors.New("invalid fixed rate")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the base-level server configuration
type Config struct {
	// The associated CORS config, if any.
	// Omitting it from the config file disables CORS
	CORSConfig *CORS `toml:"cors_config"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address" default:"0.0.0.0:8545"`

	// The ECB daily reference rates URL.
	// Empty disables ECB ingestion
	ECBURL string `toml:"ecb_url" default:"https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"`

	// The BCV official rates page URL.
	// Empty disables BCV ingestion
	BCVURL string `toml:"bcv_url"`

	// The provider chain used when requests name no providers
	DefaultProviderChain []string `toml:"default_provider_chain"`

	// Statically configured rates, served by the fixed provider
	FixedRates []FixedRate `toml:"fixed_rates"`
}

// FixedRate is a single statically configured rate
type FixedRate struct {
	Base   string  `toml:"base"`
	Target string  `toml:"target"`
	Rate   float64 `toml:"rate"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress:        DefaultListenAddress,
		CORSConfig:           DefaultCORSConfig(),
		ECBURL:               DefaultECBURL,
		DefaultProviderChain: []string{"ECB", "FIXED"},
		FixedRates:           []FixedRate{},
	}
}

// ValidateConfig validates the server configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	// Validate the default provider chain
	for i, name := range config.DefaultProviderChain {
		if name == "" {
			return fmt.Errorf("%w: empty provider name at position %d", ErrInvalidProviderChain, i)
		}
	}

	// Validate the fixed rates
	for _, r := range config.FixedRates {
		if r.Base == "" || r.Target == "" || r.Rate <= 0 {
			return fmt.Errorf("%w: %s/%s %f", ErrInvalidFixedRate, r.Base, r.Target, r.Rate)
		}
	}

	return nil
}

// Read reads the configuration from the given path.
// Missing scalar values and a missing provider chain keep their defaults
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultProviderChain == nil {
		cfg.DefaultProviderChain = DefaultConfig().DefaultProviderChain
	}

	return &cfg, nil
}
