/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	cmdutils "github.com/trustbloc/batterypass/internal/pkg/utils/cmd"
	"github.com/trustbloc/batterypass/pkg/restapi/v1/healthcheck"
	"github.com/trustbloc/batterypass/pkg/storage"
	"github.com/trustbloc/batterypass/pkg/storage/memstore"
	"github.com/trustbloc/batterypass/pkg/storage/mongodb"
	"github.com/trustbloc/batterypass/pkg/storage/mongodb/recordstore"
	"github.com/trustbloc/batterypass/pkg/storage/redis"
	"github.com/trustbloc/batterypass/pkg/storage/redis/noncestore"
)

const (
	commonEnvVarUsageText = " Alternatively, this can be set with the following environment variable: "

	// DatabaseTypeFlagName is the record store type.
	DatabaseTypeFlagName = "database-type"
	// DatabaseTypeEnvKey is the record store type.
	DatabaseTypeEnvKey = "DATABASE_TYPE"
	// DatabaseTypeFlagUsage describes the usage.
	DatabaseTypeFlagUsage = "The type of database used for battery passport records. Supported options: mem, mongodb." +
		" Defaults to mem." + commonEnvVarUsageText + DatabaseTypeEnvKey

	// DatabaseURLFlagName is the database url.
	DatabaseURLFlagName = "database-url"
	// DatabaseURLFlagUsage describes the usage.
	DatabaseURLFlagUsage = "Database connection string with credentials if required." +
		" Example: 'mongodb://mongodb.example.com:27017'. Not needed for mem." +
		commonEnvVarUsageText + DatabaseURLEnvKey
	// DatabaseURLEnvKey is the database url.
	DatabaseURLEnvKey = "DATABASE_URL"

	// DatabaseTimeoutFlagName is the database timeout.
	DatabaseTimeoutFlagName = "database-timeout"
	// DatabaseTimeoutFlagUsage describes the usage.
	DatabaseTimeoutFlagUsage = "Total time in seconds to wait until the datasource is available before giving up." +
		" Default: 30 seconds." + commonEnvVarUsageText + DatabaseTimeoutEnvKey
	// DatabaseTimeoutEnvKey is the database timeout.
	DatabaseTimeoutEnvKey = "DATABASE_TIMEOUT"

	// DatabasePrefixFlagName is the storage prefix.
	DatabasePrefixFlagName = "database-prefix"
	// DatabasePrefixEnvKey is the storage prefix.
	DatabasePrefixEnvKey = "DATABASE_PREFIX"
	// DatabasePrefixFlagUsage describes the usage.
	DatabasePrefixFlagUsage = "An optional prefix to be used when creating and retrieving underlying databases." +
		commonEnvVarUsageText + DatabasePrefixEnvKey

	// RedisURLFlagName is the replay guard address list.
	RedisURLFlagName = "redis-url"
	// RedisURLEnvKey is the replay guard address list.
	RedisURLEnvKey = "REDIS_URL"
	// RedisURLFlagUsage describes the usage.
	RedisURLFlagUsage = "Comma-separated Redis addresses used to reject replayed envelopes." +
		" If not set, an in-process replay guard is used." + commonEnvVarUsageText + RedisURLEnvKey

	// RedisMasterNameFlagName selects a sentinel deployment.
	RedisMasterNameFlagName = "redis-master-name"
	// RedisMasterNameEnvKey selects a sentinel deployment.
	RedisMasterNameEnvKey = "REDIS_MASTER_NAME"
	// RedisMasterNameFlagUsage describes the usage.
	RedisMasterNameFlagUsage = "Redis sentinel master name." + commonEnvVarUsageText + RedisMasterNameEnvKey

	// RedisPasswordFlagName is the Redis password.
	RedisPasswordFlagName = "redis-password"
	// RedisPasswordEnvKey is the Redis password.
	RedisPasswordEnvKey = "REDIS_PASSWORD" //nolint:gosec
	// RedisPasswordFlagUsage describes the usage.
	RedisPasswordFlagUsage = "Redis password." + commonEnvVarUsageText + RedisPasswordEnvKey

	// RedisTLSFlagName enables TLS towards Redis.
	RedisTLSFlagName = "redis-tls"
	// RedisTLSEnvKey enables TLS towards Redis.
	RedisTLSEnvKey = "REDIS_TLS"
	// RedisTLSFlagUsage describes the usage.
	RedisTLSFlagUsage = "Connect to Redis over TLS. Defaults to false." + commonEnvVarUsageText + RedisTLSEnvKey

	// DatabaseTimeoutDefault is the default storage timeout.
	DatabaseTimeoutDefault = 30

	databaseName = "batterypass"
)

// DBParameters holds record store configuration.
type DBParameters struct {
	Type    string
	URL     string
	Prefix  string
	Timeout uint64
}

// RedisParameters holds replay guard configuration. An empty Addrs selects the in-process guard.
type RedisParameters struct {
	Addrs      []string
	MasterName string
	Password   string
	TLS        bool
}

// Flags registers storage flags.
func Flags(cmd *cobra.Command) {
	cmd.Flags().StringP(DatabaseTypeFlagName, "t", "", DatabaseTypeFlagUsage)
	cmd.Flags().StringP(DatabaseURLFlagName, "v", "", DatabaseURLFlagUsage)
	cmd.Flags().StringP(DatabasePrefixFlagName, "", "", DatabasePrefixFlagUsage)
	cmd.Flags().StringP(DatabaseTimeoutFlagName, "", "", DatabaseTimeoutFlagUsage)
	cmd.Flags().StringSliceP(RedisURLFlagName, "", nil, RedisURLFlagUsage)
	cmd.Flags().StringP(RedisMasterNameFlagName, "", "", RedisMasterNameFlagUsage)
	cmd.Flags().StringP(RedisPasswordFlagName, "", "", RedisPasswordFlagUsage)
	cmd.Flags().StringP(RedisTLSFlagName, "", "", RedisTLSFlagUsage)
}

// DBParams fetches the record store parameters configured for this command.
func DBParams(cmd *cobra.Command) (*DBParameters, error) {
	var err error

	params := &DBParameters{
		Type:   strings.ToLower(cmdutils.GetUserSetOptionalVarFromString(cmd, DatabaseTypeFlagName, DatabaseTypeEnvKey)),
		Prefix: cmdutils.GetUserSetOptionalVarFromString(cmd, DatabasePrefixFlagName, DatabasePrefixEnvKey),
	}

	if params.Type == "" {
		params.Type = storage.TypeMem
	}

	switch params.Type {
	case storage.TypeMem:
	case storage.TypeMongoDB:
		params.URL, err = cmdutils.GetUserSetVarFromString(cmd, DatabaseURLFlagName, DatabaseURLEnvKey, false)
		if err != nil {
			return nil, fmt.Errorf("failed to configure dbURL: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", params.Type)
	}

	params.Timeout, err = cmdutils.GetUserSetOptionalUint(cmd, DatabaseTimeoutFlagName, DatabaseTimeoutEnvKey,
		DatabaseTimeoutDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to configure dbTimeout: %w", err)
	}

	return params, nil
}

// RedisParams fetches the replay guard parameters configured for this command.
func RedisParams(cmd *cobra.Command) (*RedisParameters, error) {
	useTLS, err := cmdutils.GetUserSetOptionalBool(cmd, RedisTLSFlagName, RedisTLSEnvKey, false)
	if err != nil {
		return nil, err
	}

	return &RedisParameters{
		Addrs:      cmdutils.GetUserSetOptionalCSVVar(cmd, RedisURLFlagName, RedisURLEnvKey),
		MasterName: cmdutils.GetUserSetOptionalVarFromString(cmd, RedisMasterNameFlagName, RedisMasterNameEnvKey),
		Password:   cmdutils.GetUserSetOptionalVarFromString(cmd, RedisPasswordFlagName, RedisPasswordEnvKey),
		TLS:        useTLS,
	}, nil
}

// Stores bundles the record store and replay guard used by the custodian.
type Stores struct {
	Records storage.RecordStore
	Nonces  storage.NonceStore
	// Redis is set when a Redis backend is configured.
	Redis *redis.Client
	// Checks are the health checks of the external backends.
	Checks  map[string]healthcheck.Checker
	closers []func() error
}

// Close releases every backend connection.
func (s *Stores) Close() error {
	var errs []error

	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// InitStores opens the record store and the replay guard.
func InitStores(
	db *DBParameters,
	redisParams *RedisParameters,
	replayTTL time.Duration,
	tlsConfig *tls.Config,
	tracerProvider trace.TracerProvider,
	logger *log.Log,
) (*Stores, error) {
	stores := &Stores{Checks: map[string]healthcheck.Checker{}}

	switch db.Type {
	case storage.TypeMongoDB:
		var client *mongodb.Client

		err := retry(
			func() error {
				var openErr error
				client, openErr = mongodb.New(db.URL, db.Prefix+databaseName, mongoOpts(tracerProvider)...)
				return openErr
			},
			db.Timeout,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to init MongoDB record store: %w", err)
		}

		stores.Records = recordstore.NewStore(client)
		stores.Checks["mongodb"] = client.Ping
		stores.closers = append(stores.closers, client.Close)
	default:
		stores.Records = memstore.NewRecordStore()
	}

	if len(redisParams.Addrs) == 0 {
		stores.Nonces = memstore.NewNonceStore(replayTTL)

		return stores, nil
	}

	redisConfig := &redis.Config{
		Addrs:         redisParams.Addrs,
		MasterName:    redisParams.MasterName,
		Password:      redisParams.Password,
		TraceProvider: tracerProvider,
	}

	if redisParams.TLS {
		redisConfig.TLSConfig = tlsConfig
	}

	var redisClient *redis.Client

	err := retry(
		func() error {
			var openErr error
			redisClient, openErr = redis.New(redisConfig)
			return openErr
		},
		db.Timeout,
		logger,
	)
	if err != nil {
		_ = stores.Close() //nolint:errcheck

		return nil, fmt.Errorf("failed to init Redis replay guard: %w", err)
	}

	stores.Redis = redisClient
	stores.Nonces = noncestore.New(redisClient.API(), replayTTL)
	stores.Checks["redis"] = redisClient.Ping
	stores.closers = append(stores.closers, redisClient.Close)

	return stores, nil
}

func retry(task func() error, numRetries uint64, logger *log.Log) error {
	const sleep = 1 * time.Second

	return backoff.RetryNotify(
		task,
		backoff.WithMaxRetries(backoff.NewConstantBackOff(sleep), numRetries),
		func(retryErr error, t time.Duration) {
			logger.Warn("Failed to connect to storage, will sleep before trying again.",
				log.WithDuration(t), log.WithError(retryErr))
		},
	)
}

func mongoOpts(tracerProvider trace.TracerProvider) []mongodb.ClientOpt {
	if tracerProvider == nil {
		return nil
	}

	return []mongodb.ClientOpt{mongodb.WithTraceProvider(tracerProvider)}
}
