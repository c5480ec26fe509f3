/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is the battery passport record custodian.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/trustbloc/batterypass/cmd/custodian-rest/startcmd"
	"github.com/trustbloc/batterypass/internal/pkg/log"
)

var logger = log.New("custodian-rest")

// Version is set at build time.
var Version string

func main() {
	rootCmd := &cobra.Command{
		Use: "custodian-rest",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(startcmd.GetStartCmd(
		startcmd.WithVersion(Version),
		startcmd.WithServerVersion(os.Getenv("CUSTODIAN_SERVER_VERSION")),
	))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to run custodian-rest", log.WithError(err))
	}
}
