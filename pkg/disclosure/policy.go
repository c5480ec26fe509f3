/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package disclosure

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
)

//go:embed policy.json
var defaultPolicy []byte

// Node selects the part of a record visible at one level. A node without fields keeps its value verbatim.
type Node struct {
	Fields map[string]*Node
}

// Verbatim returns a node that keeps its value unchanged.
func Verbatim() *Node {
	return &Node{}
}

// Object returns a node that descends into the given fields.
func Object(fields map[string]*Node) *Node {
	if fields == nil {
		fields = map[string]*Node{}
	}

	return &Node{Fields: fields}
}

// IsVerbatim reports whether the node keeps its value unchanged.
func (n *Node) IsVerbatim() bool {
	return n.Fields == nil
}

// UnmarshalJSON accepts true (verbatim), a list of field names kept verbatim, or an object of child nodes.
func (n *Node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("true")):
		n.Fields = nil

		return nil
	case len(data) > 0 && data[0] == '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("policy list: %w", err)
		}

		n.Fields = lo.SliceToMap(names, func(name string) (string, *Node) { return name, Verbatim() })

		return nil
	case len(data) > 0 && data[0] == '{':
		fields := map[string]*Node{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}

		for k, child := range fields {
			if child == nil {
				return fmt.Errorf("policy field %q is null", k)
			}
		}

		n.Fields = fields

		return nil
	default:
		return fmt.Errorf("unsupported policy node %s", data)
	}
}

// MarshalJSON writes verbatim nodes as true and list nodes as sorted field lists.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.IsVerbatim() {
		return []byte("true"), nil
	}

	if len(n.Fields) > 0 && lo.EveryBy(lo.Values(n.Fields), (*Node).IsVerbatim) {
		names := lo.Keys(n.Fields)
		sort.Strings(names)

		return json.Marshal(names)
	}

	return json.Marshal(n.Fields)
}

// Merge returns the union of a and b. A verbatim node absorbs any descent on the other side.
func Merge(a, b *Node) *Node {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.IsVerbatim() || b.IsVerbatim():
		return Verbatim()
	}

	fields := make(map[string]*Node, len(a.Fields)+len(b.Fields))

	for k, child := range a.Fields {
		fields[k] = Merge(child, b.Fields[k])
	}

	for k, child := range b.Fields {
		if _, ok := fields[k]; !ok {
			fields[k] = Merge(nil, child)
		}
	}

	return &Node{Fields: fields}
}

// Exclusions drop whole entries of one submodel when they concern a protected component.
type Exclusions struct {
	Section string   `json:"section"`
	Field   string   `json:"field"`
	Values  []string `json:"values"`
}

// Policy is the visibility policy of records.
type Policy struct {
	Public             *Node      `json:"public"`
	LegitimateInterest *Node      `json:"legitimate_interest"`
	Exclusions         Exclusions `json:"exclusions"`
}

// DefaultExclusions protect anode, cathode and electrolyte material entries.
func DefaultExclusions() Exclusions {
	return Exclusions{
		Section: "materialComposition",
		Field:   "componentName",
		Values:  []string{"Anode", "Cathode", "Electrolyte"},
	}
}

// ParsePolicy decodes a policy. Missing tiers keep nothing; missing exclusions take the defaults.
func ParsePolicy(raw []byte) (*Policy, error) {
	p := &Policy{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse disclosure policy: %w", err)
	}

	if p.Public == nil {
		p.Public = Object(nil)
	}

	if p.LegitimateInterest == nil {
		p.LegitimateInterest = Object(nil)
	}

	if p.Exclusions.Section == "" && p.Exclusions.Field == "" && len(p.Exclusions.Values) == 0 {
		p.Exclusions = DefaultExclusions()
	}

	if p.Exclusions.Section == "" || p.Exclusions.Field == "" {
		return nil, errors.New("parse disclosure policy: exclusions need a section and a field")
	}

	return p, nil
}

// LoadPolicy reads a policy file.
func LoadPolicy(path string) (*Policy, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read disclosure policy: %w", err)
	}

	return ParsePolicy(raw)
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() *Policy {
	p, err := ParsePolicy(defaultPolicy)
	if err != nil {
		panic(err)
	}

	return p
}
