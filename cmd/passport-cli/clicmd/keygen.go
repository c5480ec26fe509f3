/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clicmd

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdutils "github.com/trustbloc/batterypass/internal/pkg/utils/cmd"
	"github.com/trustbloc/batterypass/pkg/doc/multikey"
	"github.com/trustbloc/batterypass/pkg/kms"
)

const (
	keyPathFlagName  = "key-path"
	keyPathEnvKey    = "PASSPORT_KEY_PATH"
	keyPathFlagUsage = "Where to write the PEM encoded P-256 private key. " + commonEnvVarUsageText + keyPathEnvKey

	forceFlagName  = "force"
	forceFlagUsage = "Overwrite an existing key file."
)

// PublicKey is the printed form of a public key.
type PublicKey struct {
	PublicKeyMultibase string `json:"publicKeyMultibase"`
	PublicKeyPEM       string `json:"publicKeyPem"`
}

// GetKeygenCmd returns the command generating an actor key pair.
func GetKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a P-256 key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPath, err := cmdutils.GetUserSetVarFromString(cmd, keyPathFlagName, keyPathEnvKey, false)
			if err != nil {
				return err
			}

			force, err := cmd.Flags().GetBool(forceFlagName)
			if err != nil {
				return err
			}

			if _, statErr := os.Stat(keyPath); statErr == nil && !force {
				return fmt.Errorf("key file %s already exists", keyPath)
			} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
				return statErr
			}

			key, err := kms.GenerateKey()
			if err != nil {
				return err
			}

			if err = kms.WriteKey(keyPath, key); err != nil {
				return err
			}

			pub, err := describeKey(&key.PublicKey)
			if err != nil {
				return err
			}

			return printJSON(cmd, pub)
		},
	}

	cmd.Flags().StringP(keyPathFlagName, "", "", keyPathFlagUsage)
	cmd.Flags().Bool(forceFlagName, false, forceFlagUsage)

	return cmd
}

func describeKey(pub *ecdsa.PublicKey) (*PublicKey, error) {
	mb, err := multikey.Encode(pub)
	if err != nil {
		return nil, err
	}

	pemKey, err := kms.EncodePublicKeyPEM(pub)
	if err != nil {
		return nil, err
	}

	return &PublicKey{PublicKeyMultibase: mb, PublicKeyPEM: pemKey}, nil
}
