/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clicmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdutils "github.com/trustbloc/batterypass/internal/pkg/utils/cmd"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/service/issuance"
)

const (
	controllerDIDFlagName  = "controller-did"
	controllerDIDEnvKey    = "CONTROLLER_DID"
	controllerDIDFlagUsage = "Identifier of the controller signing the document. " + commonEnvVarUsageText +
		controllerDIDEnvKey

	controllerKeyPathFlagName  = "controller-key-path"
	controllerKeyPathEnvKey    = "CONTROLLER_KEY_PATH"
	controllerKeyPathFlagUsage = "PEM private key of the controller. " + commonEnvVarUsageText +
		controllerKeyPathEnvKey

	keyOutFlagName  = "key-out"
	keyOutEnvKey    = "PASSPORT_KEY_OUT"
	keyOutFlagUsage = "Where to write the private key of a newly registered identity. " + commonEnvVarUsageText +
		keyOutEnvKey

	serviceEndpointFlagName  = "service-endpoint"
	serviceEndpointFlagUsage = "Advertise an API endpoint in the document, for example the URL of a custodian."

	serviceFragment = "api"
)

// RegisterResult is printed by identity register.
type RegisterResult struct {
	Created  bool          `json:"created"`
	Document *did.Document `json:"document"`
}

// GetIdentityCmd returns the identity command group.
func GetIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Register, resolve and revoke identities",
	}

	cmd.AddCommand(getRegisterCmd(), getResolveCmd(), getRevokeCmd())

	return cmd
}

func getRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an identity under its controller",
		Long: "Generates a key pair for the identity, signs its document with the controller key and " +
			"submits it to the registry. An identity that already exists is printed and left unchanged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.GetUserSetVarFromString(cmd, didFlagName, didEnvKey, false)
			if err != nil {
				return err
			}

			keyOut, err := cmdutils.GetUserSetVarFromString(cmd, keyOutFlagName, keyOutEnvKey, false)
			if err != nil {
				return err
			}

			if _, statErr := os.Stat(keyOut); statErr == nil {
				return fmt.Errorf("key file %s already exists", keyOut)
			} else if !errors.Is(statErr, os.ErrNotExist) {
				return statErr
			}

			controller, err := loadActor(cmd, controllerDIDFlagName, controllerDIDEnvKey,
				controllerKeyPathFlagName, controllerKeyPathEnvKey)
			if err != nil {
				return err
			}

			reg, err := registryClient(cmd)
			if err != nil {
				return err
			}

			var opts []did.BuildOpt

			endpoint, err := cmd.Flags().GetString(serviceEndpointFlagName)
			if err != nil {
				return err
			}

			if endpoint != "" {
				opts = append(opts, did.WithService(serviceFragment, did.ServiceTypeAPIEndpoint, endpoint))
			}

			identity, err := issuance.New(&issuance.Config{Registry: reg}).IssueIdentity(context.Background(),
				&issuance.IdentityRequest{ID: id, Controller: controller, Options: opts})
			if err != nil {
				return err
			}

			if identity.Created {
				if err = kms.WriteKey(keyOut, identity.Key.PrivateKey()); err != nil {
					return err
				}
			}

			return printJSON(cmd, &RegisterResult{Created: identity.Created, Document: identity.Document})
		},
	}

	cmd.Flags().StringP(didFlagName, "", "", didFlagUsage)
	cmd.Flags().StringP(controllerDIDFlagName, "", "", controllerDIDFlagUsage)
	cmd.Flags().StringP(controllerKeyPathFlagName, "", "", controllerKeyPathFlagUsage)
	cmd.Flags().StringP(keyOutFlagName, "", "", keyOutFlagUsage)
	cmd.Flags().StringP(serviceEndpointFlagName, "", "", serviceEndpointFlagUsage)
	cmd.Flags().StringP(registryURLFlagName, "", "", registryURLFlagUsage)
	addHTTPFlags(cmd)

	return cmd
}

func getResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the registered document of an identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.GetUserSetVarFromString(cmd, didFlagName, didEnvKey, false)
			if err != nil {
				return err
			}

			reg, err := registryClient(cmd)
			if err != nil {
				return err
			}

			doc, err := reg.Lookup(context.Background(), id)
			if err != nil {
				return err
			}

			return printJSON(cmd, doc)
		},
	}

	cmd.Flags().StringP(didFlagName, "", "", didFlagUsage)
	cmd.Flags().StringP(registryURLFlagName, "", "", registryURLFlagUsage)
	addHTTPFlags(cmd)

	return cmd
}

func getRevokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke an identity on behalf of its controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.GetUserSetVarFromString(cmd, didFlagName, didEnvKey, false)
			if err != nil {
				return err
			}

			controller, err := loadActor(cmd, controllerDIDFlagName, controllerDIDEnvKey,
				controllerKeyPathFlagName, controllerKeyPathEnvKey)
			if err != nil {
				return err
			}

			reg, err := registryClient(cmd)
			if err != nil {
				return err
			}

			doc, err := reg.Lookup(context.Background(), id)
			if err != nil {
				return err
			}

			if doc.Controller != controller.DID() {
				return fmt.Errorf("%s is controlled by %s, not %s", id, doc.Controller, controller.DID())
			}

			revoked, err := issuance.New(&issuance.Config{Registry: reg}).RevokeIdentity(context.Background(),
				doc, controller.PrivateKey())
			if err != nil {
				return err
			}

			return printJSON(cmd, revoked)
		},
	}

	cmd.Flags().StringP(didFlagName, "", "", didFlagUsage)
	cmd.Flags().StringP(controllerDIDFlagName, "", "", controllerDIDFlagUsage)
	cmd.Flags().StringP(controllerKeyPathFlagName, "", "", controllerKeyPathFlagUsage)
	cmd.Flags().StringP(registryURLFlagName, "", "", registryURLFlagUsage)
	addHTTPFlags(cmd)

	return cmd
}
