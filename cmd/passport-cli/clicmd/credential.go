/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clicmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cmdutils "github.com/trustbloc/batterypass/internal/pkg/utils/cmd"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/service/issuance"
)

const (
	issuerDIDFlagName  = "issuer-did"
	issuerDIDEnvKey    = "ISSUER_DID"
	issuerDIDFlagUsage = "Identifier of the credential issuer. " + commonEnvVarUsageText + issuerDIDEnvKey

	issuerKeyPathFlagName  = "issuer-key-path"
	issuerKeyPathEnvKey    = "ISSUER_KEY_PATH"
	issuerKeyPathFlagUsage = "PEM private key of the issuer. " + commonEnvVarUsageText + issuerKeyPathEnvKey

	holderDIDFlagName  = "holder-did"
	holderDIDFlagUsage = "Identifier of the credential holder."

	bmsDIDFlagName  = "bms-did"
	bmsDIDFlagUsage = "Identifier of the battery management system the credential is about."

	accessLevelFlagName  = "access-level"
	accessLevelFlagUsage = "Granted access levels (read, write). Defaults to read."

	validityFlagName  = "validity"
	validityFlagUsage = "Lifetime of the credential, for example 720h. Defaults to one year."

	lotNumberFlagName  = "lot-number"
	lotNumberFlagUsage = "Production lot of the BMS."

	outFlagName  = "out"
	outFlagUsage = "Also write the signed credential to this file."

	credentialFileFlagName  = "credential"
	credentialFileFlagUsage = "Path to a signed credential JSON file."

	credentialFileMode = 0o600
)

// VerifyResult is printed by credential verify.
type VerifyResult struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// GetCredentialCmd returns the credential command group.
func GetCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Issue and verify credentials",
	}

	cmd.AddCommand(getGrantCmd(), getProductionCmd(), getVerifyCmd())

	return cmd
}

func getGrantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant a service access to the record of a BMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := requiredString(cmd, holderDIDFlagName)
			if err != nil {
				return err
			}

			bms, err := requiredString(cmd, bmsDIDFlagName)
			if err != nil {
				return err
			}

			levels, err := cmd.Flags().GetStringSlice(accessLevelFlagName)
			if err != nil {
				return err
			}

			if len(levels) == 0 {
				levels = []string{vc.AccessRead}
			}

			validity, err := cmdutils.GetUserSetOptionalDuration(cmd, validityFlagName, "", vc.DefaultValidity)
			if err != nil {
				return err
			}

			return issueCredential(cmd, func(issuer string) *vc.Template {
				return vc.ServiceAccess(issuer, holder, bms, levels, time.Now(), validity)
			})
		},
	}

	cmd.Flags().StringP(holderDIDFlagName, "", "", holderDIDFlagUsage)
	cmd.Flags().StringP(bmsDIDFlagName, "", "", bmsDIDFlagUsage)
	cmd.Flags().StringSliceP(accessLevelFlagName, "", nil, accessLevelFlagUsage)
	cmd.Flags().StringP(validityFlagName, "", "", validityFlagUsage)
	addIssuerFlags(cmd)

	return cmd
}

func getProductionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "production",
		Short: "Attest, as OEM, that a BMS was produced",
		RunE: func(cmd *cobra.Command, args []string) error {
			bms, err := requiredString(cmd, bmsDIDFlagName)
			if err != nil {
				return err
			}

			lot, err := cmd.Flags().GetString(lotNumberFlagName)
			if err != nil {
				return err
			}

			return issueCredential(cmd, func(issuer string) *vc.Template {
				return vc.BMSProduction(issuer, bms, lot, time.Now())
			})
		},
	}

	cmd.Flags().StringP(bmsDIDFlagName, "", "", bmsDIDFlagUsage)
	cmd.Flags().StringP(lotNumberFlagName, "", "", lotNumberFlagUsage)
	addIssuerFlags(cmd)

	return cmd
}

func getVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a credential against the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requiredString(cmd, credentialFileFlagName)
			if err != nil {
				return err
			}

			cred := &vc.Credential{}
			if err = readJSONFile(path, cred); err != nil {
				return err
			}

			reg, err := registryClient(cmd)
			if err != nil {
				return err
			}

			result := &VerifyResult{ID: cred.ID, Valid: true}

			if verifyErr := reg.VerifyCredential(context.Background(), cred); verifyErr != nil {
				result.Valid = false
				result.Error = verifyErr.Error()
			}

			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringP(credentialFileFlagName, "", "", credentialFileFlagUsage)
	cmd.Flags().StringP(registryURLFlagName, "", "", registryURLFlagUsage)
	addHTTPFlags(cmd)

	return cmd
}

func addIssuerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(issuerDIDFlagName, "", "", issuerDIDFlagUsage)
	cmd.Flags().StringP(issuerKeyPathFlagName, "", "", issuerKeyPathFlagUsage)
	cmd.Flags().StringP(outFlagName, "", "", outFlagUsage)
	cmd.Flags().StringP(registryURLFlagName, "", "", registryURLFlagUsage)
	addHTTPFlags(cmd)
}

func issueCredential(cmd *cobra.Command, template func(issuer string) *vc.Template) error {
	issuer, err := loadActor(cmd, issuerDIDFlagName, issuerDIDEnvKey, issuerKeyPathFlagName, issuerKeyPathEnvKey)
	if err != nil {
		return err
	}

	reg, err := registryClient(cmd)
	if err != nil {
		return err
	}

	cred, err := vc.New(template(issuer.DID()))
	if err != nil {
		return err
	}

	cred, err = issuance.New(&issuance.Config{Registry: reg}).IssueCredential(context.Background(), cred,
		issuer.PrivateKey())
	if err != nil {
		return err
	}

	out, err := cmd.Flags().GetString(outFlagName)
	if err != nil {
		return err
	}

	if out != "" {
		raw, marshalErr := json.Marshal(cred)
		if marshalErr != nil {
			return marshalErr
		}

		if err = os.WriteFile(out, raw, credentialFileMode); err != nil {
			return fmt.Errorf("write credential: %w", err)
		}
	}

	return printJSON(cmd, cred)
}

func requiredString(cmd *cobra.Command, flagName string) (string, error) {
	value, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return "", err
	}

	if value == "" {
		return "", fmt.Errorf("%s value is empty", flagName)
	}

	return value, nil
}
