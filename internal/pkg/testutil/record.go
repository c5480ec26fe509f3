/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testutil

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/batterypass/pkg/record"
)

//go:embed testdata/batterypass.json
var batteryPass []byte

// BatteryPassJSON returns the sample battery passport.
func BatteryPassJSON() []byte {
	return append([]byte(nil), batteryPass...)
}

// BatteryPass returns the sample battery passport decoded.
func BatteryPass(t *testing.T) record.Record {
	t.Helper()

	rec, err := record.Parse(batteryPass)
	require.NoError(t, err)

	return rec
}
