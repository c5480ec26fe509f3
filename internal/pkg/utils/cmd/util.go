/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// GetUserSetOptionalVarFromString returns values either command line flag or environment variable.
func GetUserSetOptionalVarFromString(cmd *cobra.Command, flagName, envKey string) string {
	//nolint // the error will not happen for optional var
	v, _ := GetUserSetVarFromString(cmd, flagName, envKey, true)

	return v
}

// GetUserSetVarFromString returns values either command line flag or environment variable.
func GetUserSetVarFromString(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		if value == "" {
			return "", fmt.Errorf("%s value is empty", flagName)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		if !isOptional && value == "" {
			return "", fmt.Errorf("%s value is empty", envKey)
		}

		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

// GetUserSetOptionalCSVVar returns the variables set via either command line flag or environment variable.
// If both are set, then the command line flag takes precedence.
// The variables are parsed as comma-separated-values (CSV) and returned as a slice.
// The command line flag must be set as a StringSlice.
// If the variable isn't set, then a nil slice will be returned.
func GetUserSetOptionalCSVVar(cmd *cobra.Command, flagName, envKey string) []string {
	//nolint // For an optional variable, no error will happen (or we don't care about the error)
	v, _ := GetUserSetCSVVar(cmd, flagName, envKey, true)

	return v
}

// GetUserSetCSVVar returns the variables set via either command line flag or environment variable.
// If both are set, then the command line flag takes precedence.
// The variables are parsed as comma-separated-values (CSV) and returned as a slice.
// The command line flag must be set as a StringSlice.
// If the variable isn't set, then an error will be returned.
func GetUserSetCSVVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) ([]string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetStringSlice(flagName)
		if err != nil {
			return nil, fmt.Errorf(flagName+" flag not found: %s", err)
		}

		if len(value) == 0 {
			return nil, fmt.Errorf("%s value is empty", flagName)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		if !isOptional && value == "" {
			return nil, fmt.Errorf("%s value is empty", envKey)
		}

		if value == "" {
			return nil, nil
		}

		return strings.Split(value, ","), nil
	}

	return nil, errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

// GetUserSetOptionalBool parses an optional boolean flag or environment variable. Unset yields defaultValue.
func GetUserSetOptionalBool(cmd *cobra.Command, flagName, envKey string, defaultValue bool) (bool, error) {
	v := GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if v == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return b, nil
}

// GetUserSetOptionalDuration parses an optional duration such as "24h". Unset yields defaultValue.
func GetUserSetOptionalDuration(
	cmd *cobra.Command, flagName, envKey string, defaultValue time.Duration,
) (time.Duration, error) {
	v := GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if v == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return d, nil
}

// GetUserSetOptionalUint parses an optional unsigned integer. Unset yields defaultValue.
func GetUserSetOptionalUint(cmd *cobra.Command, flagName, envKey string, defaultValue uint64) (uint64, error) {
	v := GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if v == "" {
		return defaultValue, nil
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return n, nil
}
