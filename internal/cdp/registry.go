package cdp

import (
	"strings"
	"time"

	"github.com/malyszg/lms-sub001/internal/config"
)

// SystemConfig is the static per-system record resolved from environment
// configuration. EnabledRaw keeps the raw env value; only the literal "true"
// counts as enabled.
type SystemConfig struct {
	EnabledRaw string
	APIURL     string
	APIKey     string
	Retry      RetryPolicy
}

// Enabled reports whether the raw flag value means true.
func (c SystemConfig) Enabled() bool {
	return strings.TrimSpace(strings.ToLower(c.EnabledRaw)) == "true"
}

// Registry resolves per-system CDP configuration. Built once at process start
// and read-only afterwards, so concurrent reads need no synchronization.
type Registry struct {
	systems map[System]SystemConfig
}

// NewRegistry builds the registry from loaded environment configuration.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		systems: map[System]SystemConfig{
			SalesManago: {
				EnabledRaw: cfg.SalesManagoEnabled,
				APIURL:     cfg.SalesManagoURL,
				APIKey:     cfg.SalesManagoAPIKey,
				Retry: RetryPolicy{
					MaxRetries:        cfg.SalesManagoRetryMax,
					InitialDelay:      time.Duration(cfg.SalesManagoRetryInitialDelaySec) * time.Second,
					BackoffMultiplier: cfg.SalesManagoRetryMultiplier,
				},
			},
			Murapol: {
				EnabledRaw: cfg.MurapolEnabled,
				APIURL:     cfg.MurapolURL,
				APIKey:     cfg.MurapolAPIKey,
				Retry: RetryPolicy{
					MaxRetries:        cfg.MurapolRetryMax,
					InitialDelay:      time.Duration(cfg.MurapolRetryInitialDelaySec) * time.Second,
					BackoffMultiplier: cfg.MurapolRetryMultiplier,
				},
			},
			DomDevelopment: {
				EnabledRaw: cfg.DomDevelopmentEnabled,
				APIURL:     cfg.DomDevelopmentURL,
				APIKey:     cfg.DomDevelopmentAPIKey,
				Retry: RetryPolicy{
					MaxRetries:        cfg.DomDevelopmentRetryMax,
					InitialDelay:      time.Duration(cfg.DomDevelopmentRetryInitialDelaySec) * time.Second,
					BackoffMultiplier: cfg.DomDevelopmentRetryMultiplier,
				},
			},
		},
	}
}

// Config resolves the configuration for one system.
func (r *Registry) Config(name System) (SystemConfig, error) {
	cfg, ok := r.systems[name]
	if !ok {
		_, err := ParseSystem(string(name))
		return SystemConfig{}, err
	}
	return cfg, nil
}

// IsEnabled reports whether the system is switched on in configuration.
func (r *Registry) IsEnabled(name System) (bool, error) {
	cfg, err := r.Config(name)
	if err != nil {
		return false, err
	}
	return cfg.Enabled(), nil
}

// RetryConfig resolves the retry policy for one system.
func (r *Registry) RetryConfig(name System) (RetryPolicy, error) {
	cfg, err := r.Config(name)
	if err != nil {
		return RetryPolicy{}, err
	}
	return cfg.Retry, nil
}

// EnabledSystems returns the systems currently switched on, in stable order.
func (r *Registry) EnabledSystems() []System {
	var enabled []System
	for _, sys := range AllSystems() {
		if cfg, ok := r.systems[sys]; ok && cfg.Enabled() {
			enabled = append(enabled, sys)
		}
	}
	return enabled
}
