/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package disclosure redacts a battery passport to what a requester may see.
package disclosure

import (
	"github.com/samber/lo"

	"github.com/trustbloc/batterypass/pkg/record"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// Scope is a disclosure tier.
type Scope string

const (
	// Public is visible to anyone.
	Public Scope = "public"
	// LegitimateInterest is visible to holders of a read grant.
	LegitimateInterest Scope = "legitimate_interest"
	// Full is visible to the battery management system that owns the record.
	Full Scope = "bms"
)

// ParseScope validates s.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(s); sc {
	case Public, LegitimateInterest, Full:
		return sc, nil
	default:
		return "", trusterr.Newf(trusterr.MalformedInput, "parse scope", "unknown scope %q", s)
	}
}

// Tree returns the node applied for scope. The full scope has no tree.
func (p *Policy) Tree(scope Scope) (*Node, error) {
	switch scope {
	case Public:
		return p.Public, nil
	case LegitimateInterest:
		return Merge(p.Public, p.LegitimateInterest), nil
	case Full:
		return Verbatim(), nil
	default:
		return nil, trusterr.Newf(trusterr.MalformedInput, "disclosure tree", "unknown scope %q", scope)
	}
}

// Filter returns the part of rec visible under scope. rec is never modified and the result shares
// no memory with it.
func Filter(scope Scope, policy *Policy, rec record.Record) (record.Record, error) {
	if scope == Full {
		return rec.Clone(), nil
	}

	tree, err := policy.Tree(scope)
	if err != nil {
		return nil, err
	}

	pruned := policy.Exclusions.apply(rec)

	out, ok := walk(tree, map[string]interface{}(pruned))
	if !ok {
		return record.Record{}, nil
	}

	return out.(map[string]interface{}), nil //nolint:forcetypeassert
}

// walk keeps the parts of v selected by n. Arrays apply n to each element; scalars survive only
// verbatim nodes.
func walk(n *Node, v interface{}) (interface{}, bool) {
	if n.IsVerbatim() {
		return record.Clone(v), true
	}

	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(n.Fields))

		for k, child := range n.Fields {
			value, present := t[k]
			if !present {
				continue
			}

			if kept, ok := walk(child, value); ok {
				out[k] = kept
			}
		}

		return out, true
	case []interface{}:
		out := make([]interface{}, 0, len(t))

		for _, e := range t {
			if kept, ok := walk(n, e); ok {
				out = append(out, kept)
			}
		}

		return out, true
	default:
		return nil, false
	}
}

// apply returns a copy of rec without the protected entries of the excluded section.
func (e Exclusions) apply(rec record.Record) record.Record {
	out := rec.Clone()

	section, ok := out[e.Section].(map[string]interface{})
	if !ok {
		return out
	}

	for k, v := range section {
		switch t := v.(type) {
		case []interface{}:
			section[k] = lo.Reject(t, func(entry interface{}, _ int) bool { return e.matches(entry) })
		case map[string]interface{}:
			if e.matches(t) {
				delete(section, k)
			}
		}
	}

	return out
}

// matches reports whether v holds the protected field with a protected value at any depth.
func (e Exclusions) matches(v interface{}) bool {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if s, ok := child.(string); ok && k == e.Field && lo.Contains(e.Values, s) {
				return true
			}

			if e.matches(child) {
				return true
			}
		}
	case []interface{}:
		return lo.SomeBy(t, e.matches)
	}

	return false
}
