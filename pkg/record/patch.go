/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

var segmentPattern = regexp.MustCompile(`^(\w+)(?:\[(\d+)\])?$`)

type step struct {
	key   string
	index int
}

func (s step) isIndex() bool {
	return s.key == ""
}

// Patch sets the value at a dot path such as "performance.batteryCondition.negativeEvents[0].lastUpdate".
type Patch struct {
	Path  string
	Value interface{}

	steps []step
}

// NewPatch validates path and returns a patch.
func NewPatch(path string, value interface{}) (*Patch, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, "parse patch", err)
	}

	return &Patch{Path: path, Value: value, steps: steps}, nil
}

// ParsePatches decodes a JSON list of single-key objects, each mapping a dot path to its new value.
func ParsePatches(raw []byte) ([]*Patch, error) {
	const op = "parse patches"

	v, err := decode(raw)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, op, err)
	}

	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return nil, trusterr.Newf(trusterr.MalformedInput, op, "patches must be a non-empty list")
	}

	patches := make([]*Patch, 0, len(list))

	for i, e := range list {
		obj, ok := e.(map[string]interface{})
		if !ok || len(obj) != 1 {
			return nil, trusterr.Newf(trusterr.MalformedInput, op, "patch %d must have exactly one key", i)
		}

		for path, value := range obj {
			p, err := NewPatch(path, value)
			if err != nil {
				return nil, err
			}

			patches = append(patches, p)
		}
	}

	return patches, nil
}

// Apply returns a copy of rec with every patch applied in order. rec is left untouched.
// Intermediate path elements must exist; the last element of an object path may be new.
func Apply(rec Record, patches []*Patch) (Record, error) {
	out := rec.Clone()

	for _, p := range patches {
		if p.steps == nil {
			steps, err := parsePath(p.Path)
			if err != nil {
				return nil, trusterr.New(trusterr.MalformedInput, "apply patch", err)
			}

			p.steps = steps
		}

		if err := set(map[string]interface{}(out), p.steps, Clone(p.Value)); err != nil {
			return nil, trusterr.Newf(trusterr.MalformedInput, "apply patch", "%s: %w", p.Path, err)
		}
	}

	return out, nil
}

func set(root interface{}, steps []step, value interface{}) error {
	cur := root

	for i, s := range steps {
		last := i == len(steps)-1

		switch node := cur.(type) {
		case map[string]interface{}:
			if s.isIndex() {
				return fmt.Errorf("index on object")
			}

			if last {
				node[s.key] = value

				return nil
			}

			next, ok := node[s.key]
			if !ok {
				return fmt.Errorf("%q does not exist", s.key)
			}

			cur = next
		case []interface{}:
			if !s.isIndex() {
				return fmt.Errorf("field %q on array", s.key)
			}

			if s.index >= len(node) {
				return fmt.Errorf("index %d out of range", s.index)
			}

			if last {
				node[s.index] = value

				return nil
			}

			cur = node[s.index]
		default:
			return fmt.Errorf("cannot descend into a scalar")
		}
	}

	return nil
}

func parsePath(path string) ([]step, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}

	var steps []step

	for _, segment := range strings.Split(path, ".") {
		m := segmentPattern.FindStringSubmatch(segment)
		if m == nil {
			return nil, fmt.Errorf("invalid path segment %q", segment)
		}

		steps = append(steps, step{key: m[1]})

		if m[2] != "" {
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("invalid index in %q", segment)
			}

			steps = append(steps, step{index: idx})
		}
	}

	return steps, nil
}
