/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package record

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

//go:embed schema/batterypass.schema.json
var defaultSchema []byte

// Validator checks records against a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles schema.
func NewValidator(schema []byte) (*Validator, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal JSON schema: %w", err)
	}

	compiled, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile JSON schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// DefaultValidator returns a validator for the built-in battery passport schema.
func DefaultValidator() *Validator {
	v, err := NewValidator(defaultSchema)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate reports MalformedInput when rec does not conform.
func (v *Validator) Validate(rec Record) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(map[string]interface{}(rec)))
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, "validate record", fmt.Errorf("loader error: %w", err))
	}

	if !result.Valid() {
		return trusterr.New(trusterr.MalformedInput, "validate record", validationErrors(result.Errors()))
	}

	return nil
}

type validationErrors []gojsonschema.ResultError

func (e validationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, msg := range e {
		msgs[i] = msg.String()
	}

	return fmt.Sprintf("validation error: [%s]", strings.Join(msgs, "; "))
}
