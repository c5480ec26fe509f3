/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/trustbloc/batterypass/cmd/common"
	"github.com/trustbloc/batterypass/internal/pkg/log"
	tlsutil "github.com/trustbloc/batterypass/internal/pkg/utils/tls"
	"github.com/trustbloc/batterypass/pkg/dataprotect"
	"github.com/trustbloc/batterypass/pkg/disclosure"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/locker"
	"github.com/trustbloc/batterypass/pkg/observability/metrics"
	"github.com/trustbloc/batterypass/pkg/observability/metrics/noop"
	metricsProvider "github.com/trustbloc/batterypass/pkg/observability/metrics/prometheus"
	"github.com/trustbloc/batterypass/pkg/observability/tracing"
	custodianwrapper "github.com/trustbloc/batterypass/pkg/observability/tracing/wrappers/custodian"
	"github.com/trustbloc/batterypass/pkg/registry"
	"github.com/trustbloc/batterypass/pkg/restapi/resterr"
	custodianrest "github.com/trustbloc/batterypass/pkg/restapi/v1/custodian"
	"github.com/trustbloc/batterypass/pkg/restapi/v1/healthcheck"
	"github.com/trustbloc/batterypass/pkg/restapi/v1/logapi"
	"github.com/trustbloc/batterypass/pkg/restapi/v1/mw"
	"github.com/trustbloc/batterypass/pkg/restapi/v1/version"
	"github.com/trustbloc/batterypass/pkg/service/custodian"
)

var logger = log.New("custodian-rest")

const (
	bodyLimit         = "2M"
	readHeaderTimeout = 10 * time.Second
	httpClientTimeout = 30 * time.Second
)

type server interface {
	ListenAndServe() error
	ListenAndServeTLS(certFile, keyFile string) error
}

type startOpts struct {
	server        server
	version       string
	serverVersion string
}

// StartOpts configures the start command.
type StartOpts func(opts *startOpts)

// WithHTTPServer replaces the HTTP server.
func WithHTTPServer(srv server) StartOpts {
	return func(opts *startOpts) {
		opts.server = srv
	}
}

// WithVersion sets the release version reported on /version.
func WithVersion(version string) StartOpts {
	return func(opts *startOpts) {
		opts.version = version
	}
}

// WithServerVersion sets the build version reported on /version/system.
func WithServerVersion(version string) StartOpts {
	return func(opts *startOpts) {
		opts.serverVersion = version
	}
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(opts ...StartOpts) *cobra.Command {
	startCmd := createStartCmd(opts...)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(opts ...StartOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start custodian-rest",
		Long:  "Start custodian-rest, the battery passport record custodian",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := getStartupParameters(cmd)
			if err != nil {
				return fmt.Errorf("failed to get startup parameters: %w", err)
			}

			common.SetLogLevel(logger, params.logLevel)

			return startServer(params, opts...)
		},
	}
}

func startServer(params *startupParameters, opts ...StartOpts) error {
	o := &startOpts{}

	for _, opt := range opts {
		opt(o)
	}

	shutdownTracing, tracerProvider, err := tracing.Initialize(params.tracingParameters)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	defer shutdownTracing()

	e, stores, err := buildEchoHandler(params, o, tracerProvider)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := stores.Close(); closeErr != nil {
			logger.Warn("failed to close stores", log.WithError(closeErr))
		}
	}()

	if o.server == nil {
		o.server = &http.Server{
			Addr:              params.hostURL,
			Handler:           e,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	logger.Info("Starting custodian-rest server", log.WithHostURL(params.hostURL),
		log.WithDID(params.custodianDID))

	if params.tlsParameters.serveCertPath != "" && params.tlsParameters.serveKeyPath != "" {
		err = o.server.ListenAndServeTLS(params.tlsParameters.serveCertPath, params.tlsParameters.serveKeyPath)
	} else {
		err = o.server.ListenAndServe()
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server closed unexpectedly: %w", err)
	}

	return nil
}

//nolint:funlen
func buildEchoHandler(
	params *startupParameters,
	o *startOpts,
	tracerProvider trace.TracerProvider,
) (*echo.Echo, *common.Stores, error) {
	tlsConfig, err := tlsutil.ClientConfig(params.tlsParameters.systemCertPool, params.tlsParameters.caCerts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tls config: %w", err)
	}

	m, gatherer := metricsFor(params.metricsProvider)

	keyManager, err := kms.New(&kms.Config{
		KMSType:         params.kmsParameters.kmsType,
		DID:             params.custodianDID,
		KeyPath:         params.kmsParameters.keyPath,
		CreateIfMissing: params.kmsParameters.createKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init kms: %w", err)
	}

	policy := disclosure.DefaultPolicy()

	if params.disclosurePolicy != "" {
		policy, err = disclosure.LoadPolicy(params.disclosurePolicy)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load disclosure policy: %w", err)
		}
	}

	compressor, err := dataprotect.NewCompressor(params.recordCompression)
	if err != nil {
		return nil, nil, err
	}

	traced := params.tracingParameters.Provider != tracing.ProviderNone

	var storeTracing trace.TracerProvider
	if traced {
		storeTracing = tracerProvider
	}

	stores, err := common.InitStores(params.dbParameters, params.redisParameters, params.replayTTL, tlsConfig,
		storeTracing, logger)
	if err != nil {
		return nil, nil, err
	}

	registryClient := registry.NewClient(&registry.Config{
		URL: params.registryURL,
		HTTPClient: &http.Client{
			Timeout:   httpClientTimeout,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		MaxRetries: params.registryMaxRetries,
		Metrics:    m,
	})

	recordLocker := newRecordLocker(params.recordLocking, stores)

	channel := envelope.NewChannel(envelope.WithMetrics(m))

	svc, err := custodian.New(&custodian.Config{
		KeyManager:    keyManager,
		Registry:      registryClient,
		Records:       stores.Records,
		Nonces:        stores.Nonces,
		Protector:     dataprotect.NewDataProtector(channel, keyManager, compressor),
		Channel:       channel,
		Policy:        policy,
		Locker:        recordLocker,
		RootAuthority: params.rootAuthority,
		Metrics:       m,
	})
	if err != nil {
		_ = stores.Close()

		return nil, nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = resterr.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))

	if params.apiKey != "" {
		e.Use(mw.APIKeyAuth(params.apiKey))
	}

	healthcheck.NewController(e, stores.Checks)
	logapi.NewController(e)
	version.NewController(e, version.Config{
		Version:       o.version,
		ServerVersion: o.serverVersion,
		Components: map[string]string{
			"database":          params.dbParameters.Type,
			"replayGuard":       replayGuardName(stores),
			"recordCompression": params.recordCompression,
			"recordLocking":     lockingName(params.recordLocking, stores),
			"tracing":           tracingName(params.tracingParameters.Provider),
		},
	})
	var api custodianService = svc
	if traced {
		api = custodianwrapper.Wrap(svc, tracerProvider.Tracer(tracing.TracerName))
	}

	custodianrest.NewController(e, &custodianrest.Config{Service: api})

	newReadinessController(e).Ready(true)

	if gatherer != nil {
		h := metricsProvider.NewHandler(gatherer)
		e.Add(h.Method(), h.Path(), h.Handler())
	}

	logger.Info("custodian ready", log.WithDID(keyManager.DID()),
		zap.String("databaseType", params.dbParameters.Type),
		zap.String("compression", params.recordCompression))

	return e, stores, nil
}

type custodianService = custodianwrapper.Service

func tracingName(provider tracing.ProviderType) string {
	if provider == tracing.ProviderNone {
		return "off"
	}

	return strings.ToLower(provider)
}

func metricsFor(provider string) (metrics.Metrics, prometheus.Gatherer) {
	if provider != metricsProviderPrometheus {
		return noop.GetMetrics(), nil
	}

	return metricsProvider.GetMetrics(), prometheus.DefaultGatherer
}

func newRecordLocker(enabled bool, stores *common.Stores) locker.Locker {
	switch lockingName(enabled, stores) {
	case lockingRedis:
		return locker.NewRedisLocker(stores.Redis.API())
	case lockingLocal:
		return locker.NewKeyedMutex()
	default:
		return locker.NoopLocker{}
	}
}

const (
	lockingOff   = "off"
	lockingLocal = "local"
	lockingRedis = "redis"
)

func lockingName(enabled bool, stores *common.Stores) string {
	switch {
	case !enabled:
		return lockingOff
	case stores.Redis != nil:
		return lockingRedis
	default:
		return lockingLocal
	}
}

func replayGuardName(stores *common.Stores) string {
	if stores.Redis != nil {
		return "redis"
	}

	return "memory"
}
