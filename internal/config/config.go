package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceEnvironment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	ServiceAPIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	DebugErrors        bool   `envconfig:"DEBUG_ERRORS" default:"false"`

	SQSEndpoint string `envconfig:"SQS_ENDPOINT"`
	SQSQueueURL string `envconfig:"SQS_QUEUE_URL" required:"true"`
	SQSRegion   string `envconfig:"SQS_REGION" required:"true"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`

	ClickHouseHost               string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	ClickHousePort               string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	ClickHouseDB                 string `envconfig:"CLICKHOUSE_DB" required:"true"`
	ClickHouseUser               string `envconfig:"CLICKHOUSE_USER" default:""`
	ClickHousePassword           string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	ClickHouseUseTLS             bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	ClickHouseMaxOpenConns       int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	ClickHouseMaxIdleConns       int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ClickHouseConnMaxLifetimeSec int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`

	DispatcherHealthCheckPort string `envconfig:"DISPATCHER_HEALTH_CHECK_PORT" default:"8081"`
	CDPHTTPTimeoutSec         int    `envconfig:"CDP_HTTP_TIMEOUT_SEC" default:"10"`

	SalesManagoEnabled              string  `envconfig:"SALESMANAGO_ENABLED" default:"false"`
	SalesManagoURL                  string  `envconfig:"SALESMANAGO_URL" default:""`
	SalesManagoAPIKey               string  `envconfig:"SALESMANAGO_API_KEY" default:""`
	SalesManagoRetryMax             int     `envconfig:"SALESMANAGO_RETRY_MAX" default:"3"`
	SalesManagoRetryInitialDelaySec int     `envconfig:"SALESMANAGO_RETRY_INITIAL_DELAY_SEC" default:"60"`
	SalesManagoRetryMultiplier      float64 `envconfig:"SALESMANAGO_RETRY_MULTIPLIER" default:"2.0"`

	MurapolEnabled              string  `envconfig:"MURAPOL_ENABLED" default:"false"`
	MurapolURL                  string  `envconfig:"MURAPOL_URL" default:""`
	MurapolAPIKey               string  `envconfig:"MURAPOL_API_KEY" default:""`
	MurapolRetryMax             int     `envconfig:"MURAPOL_RETRY_MAX" default:"3"`
	MurapolRetryInitialDelaySec int     `envconfig:"MURAPOL_RETRY_INITIAL_DELAY_SEC" default:"60"`
	MurapolRetryMultiplier      float64 `envconfig:"MURAPOL_RETRY_MULTIPLIER" default:"2.0"`

	DomDevelopmentEnabled              string  `envconfig:"DOMDEVELOPMENT_ENABLED" default:"false"`
	DomDevelopmentURL                  string  `envconfig:"DOMDEVELOPMENT_URL" default:""`
	DomDevelopmentAPIKey               string  `envconfig:"DOMDEVELOPMENT_API_KEY" default:""`
	DomDevelopmentRetryMax             int     `envconfig:"DOMDEVELOPMENT_RETRY_MAX" default:"3"`
	DomDevelopmentRetryInitialDelaySec int     `envconfig:"DOMDEVELOPMENT_RETRY_INITIAL_DELAY_SEC" default:"60"`
	DomDevelopmentRetryMultiplier      float64 `envconfig:"DOMDEVELOPMENT_RETRY_MULTIPLIER" default:"2.0"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// CDPHTTPTimeout returns the per-call timeout for outbound CDP requests.
func (c *Config) CDPHTTPTimeout() time.Duration {
	return time.Duration(c.CDPHTTPTimeoutSec) * time.Second
}
