/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package clicmd holds the passport-cli commands.
package clicmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trustbloc/batterypass/cmd/common"
	"github.com/trustbloc/batterypass/internal/pkg/log"
	cmdutils "github.com/trustbloc/batterypass/internal/pkg/utils/cmd"
	tlsutil "github.com/trustbloc/batterypass/internal/pkg/utils/tls"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/registry"
	"github.com/trustbloc/batterypass/pkg/restapiclient"
)

var logger = log.New("passport-cli")

const (
	commonEnvVarUsageText = "Alternatively, this can be set with the following environment variable: "

	registryURLFlagName  = "registry-url"
	registryURLEnvKey    = "REGISTRY_URL"
	registryURLFlagUsage = "Base URL of the identity registry. " + commonEnvVarUsageText + registryURLEnvKey

	custodianURLFlagName  = "custodian-url"
	custodianURLEnvKey    = "CUSTODIAN_URL"
	custodianURLFlagUsage = "Base URL of the custodian holding the record. " + commonEnvVarUsageText +
		custodianURLEnvKey

	didFlagName  = "did"
	didEnvKey    = "PASSPORT_DID"
	didFlagUsage = "The identifier the command acts on. " + commonEnvVarUsageText + didEnvKey

	senderDIDFlagName  = "sender-did"
	senderDIDEnvKey    = "SENDER_DID"
	senderDIDFlagUsage = "Identifier of the actor signing the request. " + commonEnvVarUsageText + senderDIDEnvKey

	senderKeyPathFlagName  = "sender-key-path"
	senderKeyPathEnvKey    = "SENDER_KEY_PATH"
	senderKeyPathFlagUsage = "PEM private key of the signing actor. " + commonEnvVarUsageText + senderKeyPathEnvKey

	timeoutFlagName  = "timeout"
	timeoutEnvKey    = "PASSPORT_CLI_TIMEOUT"
	timeoutFlagUsage = "Timeout of each remote request, for example 30s. Defaults to 30s. " +
		commonEnvVarUsageText + timeoutEnvKey

	tlsSystemCertPoolFlagName  = "tls-systemcertpool"
	tlsSystemCertPoolEnvKey    = "PASSPORT_CLI_TLS_SYSTEMCERTPOOL"
	tlsSystemCertPoolFlagUsage = "Use system certificate pool. Possible values [true] [false]. " +
		"Defaults to false if not set. " + commonEnvVarUsageText + tlsSystemCertPoolEnvKey

	tlsCACertsFlagName  = "tls-cacerts"
	tlsCACertsEnvKey    = "PASSPORT_CLI_TLS_CACERTS"
	tlsCACertsFlagUsage = "Comma-Separated list of ca certs path. " + commonEnvVarUsageText + tlsCACertsEnvKey

	defaultTimeout = 30 * time.Second
)

// GetRootCmd returns the passport-cli root command.
func GetRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "passport-cli",
		Short: "Battery passport command line tool",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringP(common.LogLevelFlagName, common.LogLevelFlagShorthand, "",
		common.LogLevelPrefixFlagUsage)
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		common.SetLogLevel(logger,
			cmdutils.GetUserSetOptionalVarFromString(cmd, common.LogLevelFlagName, common.LogLevelEnvKey))
	}

	rootCmd.AddCommand(
		GetKeygenCmd(),
		GetIdentityCmd(),
		GetCredentialCmd(),
		GetRecordCmd(),
	)

	return rootCmd
}

func addHTTPFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(timeoutFlagName, "", "", timeoutFlagUsage)
	cmd.Flags().StringP(tlsSystemCertPoolFlagName, "", "", tlsSystemCertPoolFlagUsage)
	cmd.Flags().StringSliceP(tlsCACertsFlagName, "", nil, tlsCACertsFlagUsage)
}

func addSenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(senderDIDFlagName, "", "", senderDIDFlagUsage)
	cmd.Flags().StringP(senderKeyPathFlagName, "", "", senderKeyPathFlagUsage)
}

func httpClient(cmd *cobra.Command) (*http.Client, error) {
	timeout, err := cmdutils.GetUserSetOptionalDuration(cmd, timeoutFlagName, timeoutEnvKey, defaultTimeout)
	if err != nil {
		return nil, err
	}

	systemCertPool, err := cmdutils.GetUserSetOptionalBool(cmd, tlsSystemCertPoolFlagName,
		tlsSystemCertPoolEnvKey, false)
	if err != nil {
		return nil, err
	}

	tlsConfig, err := tlsutil.ClientConfig(systemCertPool,
		cmdutils.GetUserSetOptionalCSVVar(cmd, tlsCACertsFlagName, tlsCACertsEnvKey))
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{TLSClientConfig: tlsConfig},
	}, nil
}

func registryClient(cmd *cobra.Command) (*registry.Client, error) {
	registryURL, err := cmdutils.GetUserSetVarFromString(cmd, registryURLFlagName, registryURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	client, err := httpClient(cmd)
	if err != nil {
		return nil, err
	}

	return registry.NewClient(&registry.Config{URL: registryURL, HTTPClient: client}), nil
}

func custodianClient(cmd *cobra.Command) (*restapiclient.Client, error) {
	custodianURL, err := cmdutils.GetUserSetVarFromString(cmd, custodianURLFlagName, custodianURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	client, err := httpClient(cmd)
	if err != nil {
		return nil, err
	}

	return restapiclient.NewClient(custodianURL, client), nil
}

// loadActor reads an identifier and the PEM key it signs with.
func loadActor(cmd *cobra.Command, didFlag, didEnv, keyFlag, keyEnv string) (*kms.KeyManager, error) {
	id, err := cmdutils.GetUserSetVarFromString(cmd, didFlag, didEnv, false)
	if err != nil {
		return nil, err
	}

	keyPath, err := cmdutils.GetUserSetVarFromString(cmd, keyFlag, keyEnv, false)
	if err != nil {
		return nil, err
	}

	return kms.New(&kms.Config{KMSType: kms.Local, DID: id, KeyPath: keyPath})
}

func readJSONFile(path string, v interface{}) error {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err = json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
