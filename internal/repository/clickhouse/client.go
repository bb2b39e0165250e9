package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/config"
)

// Client wraps the ClickHouse connection used for the audit event store.
type Client struct {
	connection driver.Conn
	log        *zap.Logger
}

// NewClient creates a new ClickHouse client with the given configuration.
func NewClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.ClickHouseHost, cfg.ClickHousePort)

	log.Info("Connecting to ClickHouse",
		zap.String("host", cfg.ClickHouseHost),
		zap.String("port", cfg.ClickHousePort),
		zap.String("database", cfg.ClickHouseDB),
		zap.Bool("useTLS", cfg.ClickHouseUseTLS))

	var tlsConfig *tls.Config
	if cfg.ClickHouseUseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	connection, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDB,
			Username: cfg.ClickHouseUser,
			Password: cfg.ClickHousePassword,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		TLS:              tlsConfig,
		DialTimeout:      5 * time.Second,
		MaxOpenConns:     cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:     cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime:  time.Duration(cfg.ClickHouseConnMaxLifetimeSec) * time.Second,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})

	if err != nil {
		log.Error("Failed to connect to ClickHouse", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := connection.Ping(ctx); err != nil {
		log.Error("Failed to ping ClickHouse", zap.Error(err))
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Info("ClickHouse connection established")

	return &Client{connection: connection, log: log}, nil
}

// Conn returns the underlying ClickHouse connection.
func (c *Client) Conn() driver.Conn {
	return c.connection
}

// Close closes the ClickHouse connection.
func (c *Client) Close() error {
	if err := c.connection.Close(); err != nil {
		c.log.Error("Error closing ClickHouse connection", zap.Error(err))
		return err
	}
	return nil
}
