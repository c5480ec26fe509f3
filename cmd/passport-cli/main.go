/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is the operator and actor tool for battery passports: key generation, identity and
// credential issuance against the registry, and sealed record requests to a custodian.
package main

import (
	"github.com/trustbloc/batterypass/cmd/passport-cli/clicmd"
	"github.com/trustbloc/batterypass/internal/pkg/log"
)

var logger = log.New("passport-cli")

func main() {
	if err := clicmd.GetRootCmd().Execute(); err != nil {
		logger.Fatal("Failed to run passport-cli", log.WithError(err))
	}
}
