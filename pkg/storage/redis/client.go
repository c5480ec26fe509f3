/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package redis connects the custodian to Redis, which backs the replay guard and the shared record lock.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 15 * time.Second

// Config describes a Redis deployment. A MasterName selects sentinel failover; two or more Addrs select
// a cluster; otherwise a single node is used.
type Config struct {
	Addrs      []string
	MasterName string
	Password   string
	TLSConfig  *tls.Config
	// Timeout bounds the initial ping and every Ping afterwards. Zero means 15 seconds.
	Timeout time.Duration
	// TraceProvider, when set, records a span for every command.
	TraceProvider trace.TracerProvider
}

// Client wraps a redis.UniversalClient.
type Client struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// New connects to Redis and verifies the connection with a ping.
func New(cfg *Config) (*Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: no address configured")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		client: redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:                 cfg.Addrs,
			MasterName:            cfg.MasterName,
			Password:              cfg.Password,
			TLSConfig:             cfg.TLSConfig,
			ContextTimeoutEnabled: true,
		}),
		timeout: timeout,
	}

	if cfg.TraceProvider != nil {
		if err := redisotel.InstrumentTracing(c.client, redisotel.WithTracerProvider(cfg.TraceProvider)); err != nil {
			_ = c.client.Close()

			return nil, fmt.Errorf("instrument with tracing: %w", err)
		}
	}

	if err := c.Ping(context.Background()); err != nil {
		_ = c.client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return c, nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.Ping(ctx).Err()
}

// API returns the underlying client for the stores and the locker.
func (c *Client) API() redis.UniversalClient {
	return c.client
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
