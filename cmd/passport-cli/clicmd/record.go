/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clicmd

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	cmdutils "github.com/trustbloc/batterypass/internal/pkg/utils/cmd"
	"github.com/trustbloc/batterypass/pkg/doc/multikey"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/restapiclient"
	"github.com/trustbloc/batterypass/pkg/service/issuance"
)

const (
	recordFileFlagName  = "file"
	recordFileFlagUsage = "Path to the full battery passport JSON."

	patchFileFlagName  = "patch"
	patchFileFlagUsage = "Path to a JSON list of single-key patches, e.g. [{\"performance.batteryCondition." +
		"stateOfCharge.stateOfChargeValue\": 64.2}]."
)

// GetRecordCmd returns the record command group.
func GetRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Create, update, read and delete battery passports held by a custodian",
	}

	cmd.AddCommand(getCreateRecordCmd(), getUpdateRecordCmd(), getReadRecordCmd(), getDeleteRecordCmd())

	return cmd
}

func getCreateRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record as the OEM controlling its BMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requiredString(cmd, recordFileFlagName)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(path) //nolint:gosec
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}

			return sendSealed(cmd, payload, func(ctx context.Context, c *restapiclient.Client, id string,
				env *envelope.Envelope) (interface{}, error) {
				return c.CreateRecord(ctx, id, env)
			})
		},
	}

	cmd.Flags().StringP(recordFileFlagName, "", "", recordFileFlagUsage)
	addRecordFlags(cmd)

	return cmd
}

func getUpdateRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Patch a record as its BMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requiredString(cmd, patchFileFlagName)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(path) //nolint:gosec
			if err != nil {
				return fmt.Errorf("read patch: %w", err)
			}

			return sendSealed(cmd, payload, func(ctx context.Context, c *restapiclient.Client, id string,
				env *envelope.Envelope) (interface{}, error) {
				return c.UpdateRecord(ctx, id, env)
			})
		},
	}

	cmd.Flags().StringP(patchFileFlagName, "", "", patchFileFlagUsage)
	addRecordFlags(cmd)

	return cmd
}

func getDeleteRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a record as the OEM controlling its BMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendSealed(cmd, nil, func(ctx context.Context, c *restapiclient.Client, id string,
				env *envelope.Envelope) (interface{}, error) {
				return c.DeleteRecord(ctx, id, env)
			})
		},
	}

	addRecordFlags(cmd)

	return cmd
}

func getReadRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a record",
		Long: "Without a sender the public view is returned. A BMS reading its own record passes its " +
			"sender flags. A service passes its sender flags and the access credential it holds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.GetUserSetVarFromString(cmd, didFlagName, didEnvKey, false)
			if err != nil {
				return err
			}

			client, err := custodianClient(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()

			env, reader, err := readEnvelope(ctx, cmd, client)
			if err != nil {
				return err
			}

			var resp *restapiclient.ReadRecordResponse

			if env == nil {
				resp, err = client.ReadRecord(ctx, id, nil)
			} else {
				resp, err = client.ReadSealedRecord(ctx, id, env, reader)
			}

			if err != nil {
				return err
			}

			return printJSON(cmd, resp)
		},
	}

	cmd.Flags().StringP(credentialFileFlagName, "", "", credentialFileFlagUsage)
	addRecordFlags(cmd)

	return cmd
}

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(didFlagName, "", "", didFlagUsage)
	cmd.Flags().StringP(custodianURLFlagName, "", "", custodianURLFlagUsage)
	addSenderFlags(cmd)
	addHTTPFlags(cmd)
}

type recordCall func(ctx context.Context, c *restapiclient.Client, id string, env *envelope.Envelope) (interface{}, error)

// sendSealed seals payload, or a fresh challenge when payload is nil, from the sender to the custodian.
func sendSealed(cmd *cobra.Command, payload []byte, call recordCall) error {
	id, err := cmdutils.GetUserSetVarFromString(cmd, didFlagName, didEnvKey, false)
	if err != nil {
		return err
	}

	sender, err := loadActor(cmd, senderDIDFlagName, senderDIDEnvKey, senderKeyPathFlagName, senderKeyPathEnvKey)
	if err != nil {
		return err
	}

	client, err := custodianClient(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()

	custodianKey, err := custodianPublicKey(ctx, client)
	if err != nil {
		return err
	}

	svc := issuance.New(&issuance.Config{})

	var env *envelope.Envelope

	if payload == nil {
		env, err = svc.SealChallenge(sender, custodianKey)
	} else {
		env, err = svc.Seal(sender, custodianKey, payload)
	}

	if err != nil {
		return err
	}

	resp, err := call(ctx, client, id, env)
	if err != nil {
		return err
	}

	logger.Debug("record request accepted", log.WithRecordID(id), log.WithSender(sender.DID()))

	return printJSON(cmd, resp)
}

// readEnvelope seals a read request from the sender flags. Without a sender both results are nil.
func readEnvelope(
	ctx context.Context,
	cmd *cobra.Command,
	client *restapiclient.Client,
) (*envelope.Envelope, *kms.KeyManager, error) {
	if cmdutils.GetUserSetOptionalVarFromString(cmd, senderDIDFlagName, senderDIDEnvKey) == "" {
		return nil, nil, nil
	}

	sender, err := loadActor(cmd, senderDIDFlagName, senderDIDEnvKey, senderKeyPathFlagName, senderKeyPathEnvKey)
	if err != nil {
		return nil, nil, err
	}

	custodianKey, err := custodianPublicKey(ctx, client)
	if err != nil {
		return nil, nil, err
	}

	svc := issuance.New(&issuance.Config{})

	credPath, err := cmd.Flags().GetString(credentialFileFlagName)
	if err != nil {
		return nil, nil, err
	}

	var env *envelope.Envelope

	if credPath == "" {
		env, err = svc.SealChallenge(sender, custodianKey)
	} else {
		env, err = sealPresentation(ctx, svc, sender, custodianKey, credPath)
	}

	if err != nil {
		return nil, nil, err
	}

	return env, sender, nil
}

func sealPresentation(
	ctx context.Context,
	svc *issuance.Service,
	holder *kms.KeyManager,
	custodianKey *ecdsa.PublicKey,
	credPath string,
) (*envelope.Envelope, error) {
	cred := &vc.Credential{}
	if err := readJSONFile(credPath, cred); err != nil {
		return nil, err
	}

	vp, err := svc.IssuePresentation(ctx, holder.DID(), holder.PrivateKey(), cred)
	if err != nil {
		return nil, err
	}

	return svc.SealPresentation(holder, custodianKey, vp)
}

func custodianPublicKey(ctx context.Context, client *restapiclient.Client) (*ecdsa.PublicKey, error) {
	identity, err := client.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch custodian identity: %w", err)
	}

	return multikey.DecodeP256(identity.PublicKeyMultibase)
}
