/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package record holds the canonical battery passport record and the field patches a battery management
// system sends to update it.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// Record is a decoded battery passport. Top-level keys are submodels such as materialComposition.
type Record map[string]interface{}

// Parse decodes a record. Numbers keep their textual form so that large integers survive a round trip.
func Parse(raw []byte) (Record, error) {
	v, err := decode(raw)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, "parse record", err)
	}

	rec, ok := v.(map[string]interface{})
	if !ok {
		return nil, trusterr.Newf(trusterr.MalformedInput, "parse record", "record must be a JSON object")
	}

	return rec, nil
}

// Bytes encodes the record.
func (r Record) Bytes() ([]byte, error) {
	return json.Marshal(map[string]interface{}(r))
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}

	return Clone(map[string]interface{}(r)).(map[string]interface{}) //nolint:forcetypeassert
}

// Clone deep copies a decoded JSON value.
func Clone(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		cp := make(map[string]interface{}, len(t))
		for k, e := range t {
			cp[k] = Clone(e)
		}

		return cp
	case Record:
		return Record(Clone(map[string]interface{}(t)).(map[string]interface{})) //nolint:forcetypeassert
	case []interface{}:
		cp := make([]interface{}, len(t))
		for i, e := range t {
			cp[i] = Clone(e)
		}

		return cp
	default:
		return t
	}
}

func decode(raw []byte) (interface{}, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()

	var v interface{}
	if err := d.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}

	return v, nil
}
