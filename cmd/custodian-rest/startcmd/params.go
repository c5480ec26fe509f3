/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/trustbloc/batterypass/cmd/common"
	cmdutils "github.com/trustbloc/batterypass/internal/pkg/utils/cmd"
	"github.com/trustbloc/batterypass/pkg/dataprotect"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/observability/tracing"
)

const (
	commonEnvVarUsageText = "Alternatively, this can be set with the following environment variable: "

	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "URL to run the custodian instance on. Format: HostName:Port. " +
		commonEnvVarUsageText + hostURLEnvKey
	hostURLEnvKey = "CUSTODIAN_HOST_URL"

	custodianDIDFlagName  = "custodian-did"
	custodianDIDEnvKey    = "CUSTODIAN_DID"
	custodianDIDFlagUsage = "The cloud identifier of this custodian, for example did:batterypass:cloud.central. " +
		commonEnvVarUsageText + custodianDIDEnvKey

	kmsTypeFlagName  = "custodian-kms-type"
	kmsTypeEnvKey    = "CUSTODIAN_KMS_TYPE"
	kmsTypeFlagUsage = "Where the custodian key lives (local, ephemeral). Defaults to local. " +
		commonEnvVarUsageText + kmsTypeEnvKey

	keyPathFlagName  = "custodian-key-path"
	keyPathEnvKey    = "CUSTODIAN_KEY_PATH"
	keyPathFlagUsage = "Path to the PEM encoded P-256 private key of the custodian. Required for the local kms. " +
		commonEnvVarUsageText + keyPathEnvKey

	keyCreateFlagName  = "custodian-key-create"
	keyCreateEnvKey    = "CUSTODIAN_KEY_CREATE"
	keyCreateFlagUsage = "Generate the custodian key when the key file does not exist. Defaults to false. " +
		commonEnvVarUsageText + keyCreateEnvKey

	registryURLFlagName  = "registry-url"
	registryURLEnvKey    = "REGISTRY_URL"
	registryURLFlagUsage = "Base URL of the identity registry. Format: http://<HOST>:<PORT>. " +
		commonEnvVarUsageText + registryURLEnvKey

	registryMaxRetriesFlagName  = "registry-max-retries"
	registryMaxRetriesEnvKey    = "REGISTRY_MAX_RETRIES"
	registryMaxRetriesFlagUsage = "Number of retries of a failed registry request. Defaults to 3. " +
		commonEnvVarUsageText + registryMaxRetriesEnvKey

	rootAuthorityFlagName  = "root-authority-did"
	rootAuthorityEnvKey    = "ROOT_AUTHORITY_DID"
	rootAuthorityFlagUsage = "The self-controlled identifier that controls every OEM. Defaults to " +
		did.DefaultRootAuthority + ". " + commonEnvVarUsageText + rootAuthorityEnvKey

	disclosurePolicyFlagName  = "disclosure-policy-path"
	disclosurePolicyEnvKey    = "DISCLOSURE_POLICY_PATH"
	disclosurePolicyFlagUsage = "Path to a JSON disclosure policy. Defaults to the built-in policy. " +
		commonEnvVarUsageText + disclosurePolicyEnvKey

	recordCompressionFlagName  = "record-compression"
	recordCompressionEnvKey    = "RECORD_COMPRESSION"
	recordCompressionFlagUsage = "Compression of records at rest (zstd, gzip, none). Defaults to zstd. " +
		commonEnvVarUsageText + recordCompressionEnvKey

	replayTTLFlagName  = "replay-ttl"
	replayTTLEnvKey    = "REPLAY_TTL"
	replayTTLFlagUsage = "How long a used envelope is remembered, for example 24h. Defaults to 24h. " +
		commonEnvVarUsageText + replayTTLEnvKey

	recordLockingFlagName  = "record-locking"
	recordLockingEnvKey    = "RECORD_LOCKING"
	recordLockingFlagUsage = "Serialize writes to the same record. The lock is held in Redis and shared by all " +
		"instances when redis-url is set, in process otherwise. Defaults to false. " +
		commonEnvVarUsageText + recordLockingEnvKey

	apiKeyFlagName  = "api-key"
	apiKeyEnvKey    = "CUSTODIAN_API_KEY" //nolint:gosec
	apiKeyFlagUsage = "API key required in the X-API-Key header of operator endpoints (optional). " +
		commonEnvVarUsageText + apiKeyEnvKey

	metricsProviderFlagName  = "metrics-provider-name"
	metricsProviderEnvKey    = "CUSTODIAN_METRICS_PROVIDER_NAME"
	metricsProviderFlagUsage = "The metrics provider name (prometheus). Metrics are disabled if not set. " +
		commonEnvVarUsageText + metricsProviderEnvKey

	tracingProviderFlagName  = "tracing-provider"
	tracingProviderEnvKey    = "CUSTODIAN_TRACING_PROVIDER"
	tracingProviderFlagUsage = "The tracing provider (JAEGER, STDOUT). Tracing is disabled if not set. " +
		commonEnvVarUsageText + tracingProviderEnvKey

	tracingCollectorURLFlagName  = "tracing-collector-url"
	tracingCollectorURLEnvKey    = "CUSTODIAN_TRACING_COLLECTOR_URL"
	tracingCollectorURLFlagUsage = "The URL of the Jaeger collector. Defaults to the OTEL_EXPORTER_JAEGER_* " +
		"environment variables. " + commonEnvVarUsageText + tracingCollectorURLEnvKey

	tracingServiceNameFlagName  = "tracing-service-name"
	tracingServiceNameEnvKey    = "CUSTODIAN_TRACING_SERVICE_NAME"
	tracingServiceNameFlagUsage = "The name of the tracing service. Default: custodian. " +
		commonEnvVarUsageText + tracingServiceNameEnvKey

	tlsSystemCertPoolFlagName  = "tls-systemcertpool"
	tlsSystemCertPoolEnvKey    = "CUSTODIAN_TLS_SYSTEMCERTPOOL"
	tlsSystemCertPoolFlagUsage = "Use system certificate pool. Possible values [true] [false]. " +
		"Defaults to false if not set. " + commonEnvVarUsageText + tlsSystemCertPoolEnvKey

	tlsCACertsFlagName  = "tls-cacerts"
	tlsCACertsEnvKey    = "CUSTODIAN_TLS_CACERTS"
	tlsCACertsFlagUsage = "Comma-Separated list of ca certs path. " + commonEnvVarUsageText + tlsCACertsEnvKey

	tlsCertificateFlagName  = "tls-certificate"
	tlsCertificateEnvKey    = "CUSTODIAN_TLS_CERTIFICATE"
	tlsCertificateFlagUsage = "TLS certificate for the custodian server. " + commonEnvVarUsageText +
		tlsCertificateEnvKey

	tlsKeyFlagName  = "tls-key"
	tlsKeyEnvKey    = "CUSTODIAN_TLS_KEY"
	tlsKeyFlagUsage = "TLS key for the custodian server. " + commonEnvVarUsageText + tlsKeyEnvKey

	metricsProviderPrometheus = "prometheus"
	defaultReplayTTL          = 24 * time.Hour
	defaultRegistryRetries    = 3
	defaultTracingServiceName = "custodian"
)

type tlsParameters struct {
	systemCertPool bool
	caCerts        []string
	serveCertPath  string
	serveKeyPath   string
}

type kmsParameters struct {
	kmsType   kms.Type
	keyPath   string
	createKey bool
}

type startupParameters struct {
	hostURL            string
	custodianDID       string
	kmsParameters      *kmsParameters
	registryURL        string
	registryMaxRetries uint64
	rootAuthority      string
	disclosurePolicy   string
	recordCompression  string
	replayTTL          time.Duration
	recordLocking      bool
	apiKey             string
	metricsProvider    string
	tracingParameters  *tracing.Config
	logLevel           string
	dbParameters       *common.DBParameters
	redisParameters    *common.RedisParameters
	tlsParameters      *tlsParameters
}

//nolint:funlen
func getStartupParameters(cmd *cobra.Command) (*startupParameters, error) {
	hostURL, err := cmdutils.GetUserSetVarFromString(cmd, hostURLFlagName, hostURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	custodianDID, err := cmdutils.GetUserSetVarFromString(cmd, custodianDIDFlagName, custodianDIDEnvKey, false)
	if err != nil {
		return nil, err
	}

	if !did.IsActor(custodianDID) {
		return nil, fmt.Errorf("invalid %s: %s", custodianDIDFlagName, custodianDID)
	}

	kmsParams, err := getKMSParameters(cmd)
	if err != nil {
		return nil, err
	}

	registryURL, err := cmdutils.GetUserSetVarFromString(cmd, registryURLFlagName, registryURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	registryMaxRetries, err := cmdutils.GetUserSetOptionalUint(cmd, registryMaxRetriesFlagName,
		registryMaxRetriesEnvKey, defaultRegistryRetries)
	if err != nil {
		return nil, err
	}

	rootAuthority := cmdutils.GetUserSetOptionalVarFromString(cmd, rootAuthorityFlagName, rootAuthorityEnvKey)
	if rootAuthority == "" {
		rootAuthority = did.DefaultRootAuthority
	}

	recordCompression := cmdutils.GetUserSetOptionalVarFromString(cmd, recordCompressionFlagName,
		recordCompressionEnvKey)
	if recordCompression == "" {
		recordCompression = dataprotect.CompressionZstd
	}

	replayTTL, err := cmdutils.GetUserSetOptionalDuration(cmd, replayTTLFlagName, replayTTLEnvKey, defaultReplayTTL)
	if err != nil {
		return nil, err
	}

	recordLocking, err := cmdutils.GetUserSetOptionalBool(cmd, recordLockingFlagName, recordLockingEnvKey, false)
	if err != nil {
		return nil, err
	}

	metricsProvider := cmdutils.GetUserSetOptionalVarFromString(cmd, metricsProviderFlagName, metricsProviderEnvKey)
	if metricsProvider != "" && metricsProvider != metricsProviderPrometheus {
		return nil, fmt.Errorf("unsupported metrics provider: %s", metricsProvider)
	}

	tracingParams, err := getTracingParameters(cmd)
	if err != nil {
		return nil, err
	}

	dbParams, err := common.DBParams(cmd)
	if err != nil {
		return nil, err
	}

	redisParams, err := common.RedisParams(cmd)
	if err != nil {
		return nil, err
	}

	tlsParams, err := getTLS(cmd)
	if err != nil {
		return nil, err
	}

	return &startupParameters{
		hostURL:            hostURL,
		custodianDID:       custodianDID,
		kmsParameters:      kmsParams,
		registryURL:        registryURL,
		registryMaxRetries: registryMaxRetries,
		rootAuthority:      rootAuthority,
		disclosurePolicy: cmdutils.GetUserSetOptionalVarFromString(cmd, disclosurePolicyFlagName,
			disclosurePolicyEnvKey),
		recordCompression: strings.ToLower(recordCompression),
		replayTTL:         replayTTL,
		recordLocking:     recordLocking,
		apiKey:            cmdutils.GetUserSetOptionalVarFromString(cmd, apiKeyFlagName, apiKeyEnvKey),
		metricsProvider:   metricsProvider,
		tracingParameters: tracingParams,
		logLevel:          cmdutils.GetUserSetOptionalVarFromString(cmd, common.LogLevelFlagName, common.LogLevelEnvKey),
		dbParameters:      dbParams,
		redisParameters:   redisParams,
		tlsParameters:     tlsParams,
	}, nil
}

func getKMSParameters(cmd *cobra.Command) (*kmsParameters, error) {
	kmsType := kms.Type(cmdutils.GetUserSetOptionalVarFromString(cmd, kmsTypeFlagName, kmsTypeEnvKey))
	if kmsType == "" {
		kmsType = kms.Local
	}

	params := &kmsParameters{kmsType: kmsType}

	switch kmsType {
	case kms.Ephemeral:
		return params, nil
	case kms.Local:
	default:
		return nil, fmt.Errorf("unsupported kms type: %s", kmsType)
	}

	var err error

	params.keyPath, err = cmdutils.GetUserSetVarFromString(cmd, keyPathFlagName, keyPathEnvKey, false)
	if err != nil {
		return nil, err
	}

	params.createKey, err = cmdutils.GetUserSetOptionalBool(cmd, keyCreateFlagName, keyCreateEnvKey, false)
	if err != nil {
		return nil, err
	}

	return params, nil
}

func getTracingParameters(cmd *cobra.Command) (*tracing.Config, error) {
	serviceName := cmdutils.GetUserSetOptionalVarFromString(cmd, tracingServiceNameFlagName, tracingServiceNameEnvKey)
	if serviceName == "" {
		serviceName = defaultTracingServiceName
	}

	provider := cmdutils.GetUserSetOptionalVarFromString(cmd, tracingProviderFlagName, tracingProviderEnvKey)

	params := &tracing.Config{
		Provider:     strings.ToUpper(provider),
		ServiceName:  serviceName,
		CollectorURL: cmdutils.GetUserSetOptionalVarFromString(cmd, tracingCollectorURLFlagName, tracingCollectorURLEnvKey),
	}

	if !tracing.IsProviderSupported(params.Provider) {
		return nil, fmt.Errorf("unsupported tracing provider: %s", params.Provider)
	}

	return params, nil
}

func getTLS(cmd *cobra.Command) (*tlsParameters, error) {
	systemCertPool, err := cmdutils.GetUserSetOptionalBool(cmd, tlsSystemCertPoolFlagName,
		tlsSystemCertPoolEnvKey, false)
	if err != nil {
		return nil, err
	}

	return &tlsParameters{
		systemCertPool: systemCertPool,
		caCerts:        cmdutils.GetUserSetOptionalCSVVar(cmd, tlsCACertsFlagName, tlsCACertsEnvKey),
		serveCertPath:  cmdutils.GetUserSetOptionalVarFromString(cmd, tlsCertificateFlagName, tlsCertificateEnvKey),
		serveKeyPath:   cmdutils.GetUserSetOptionalVarFromString(cmd, tlsKeyFlagName, tlsKeyEnvKey),
	}, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().StringP(custodianDIDFlagName, "", "", custodianDIDFlagUsage)
	startCmd.Flags().StringP(kmsTypeFlagName, "", "", kmsTypeFlagUsage)
	startCmd.Flags().StringP(keyPathFlagName, "", "", keyPathFlagUsage)
	startCmd.Flags().StringP(keyCreateFlagName, "", "", keyCreateFlagUsage)
	startCmd.Flags().StringP(registryURLFlagName, "", "", registryURLFlagUsage)
	startCmd.Flags().StringP(registryMaxRetriesFlagName, "", "", registryMaxRetriesFlagUsage)
	startCmd.Flags().StringP(rootAuthorityFlagName, "", "", rootAuthorityFlagUsage)
	startCmd.Flags().StringP(disclosurePolicyFlagName, "", "", disclosurePolicyFlagUsage)
	startCmd.Flags().StringP(recordCompressionFlagName, "", "", recordCompressionFlagUsage)
	startCmd.Flags().StringP(replayTTLFlagName, "", "", replayTTLFlagUsage)
	startCmd.Flags().StringP(recordLockingFlagName, "", "", recordLockingFlagUsage)
	startCmd.Flags().StringP(apiKeyFlagName, "", "", apiKeyFlagUsage)
	startCmd.Flags().StringP(metricsProviderFlagName, "", "", metricsProviderFlagUsage)
	startCmd.Flags().StringP(tracingProviderFlagName, "", "", tracingProviderFlagUsage)
	startCmd.Flags().StringP(tracingCollectorURLFlagName, "", "", tracingCollectorURLFlagUsage)
	startCmd.Flags().StringP(tracingServiceNameFlagName, "", "", tracingServiceNameFlagUsage)
	startCmd.Flags().StringP(tlsSystemCertPoolFlagName, "", "", tlsSystemCertPoolFlagUsage)
	startCmd.Flags().StringSliceP(tlsCACertsFlagName, "", nil, tlsCACertsFlagUsage)
	startCmd.Flags().StringP(tlsCertificateFlagName, "", "", tlsCertificateFlagUsage)
	startCmd.Flags().StringP(tlsKeyFlagName, "", "", tlsKeyFlagUsage)
	startCmd.Flags().StringP(common.LogLevelFlagName, common.LogLevelFlagShorthand, "",
		common.LogLevelPrefixFlagUsage)

	common.Flags(startCmd)
}
