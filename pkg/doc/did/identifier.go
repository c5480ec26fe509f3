/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"fmt"
	"regexp"
)

// Role is the actor class encoded in an identifier.
type Role string

// Actor roles.
const (
	RoleOEM     Role = "oem"
	RoleCloud   Role = "cloud"
	RoleBMS     Role = "bms"
	RoleService Role = "service"
	RoleUser    Role = "user"
)

const (
	// DefaultNamespace is the DID method used by the battery passport network.
	DefaultNamespace = "batterypass"
	// DefaultRootAuthority is the self-controlled identifier that controls every OEM.
	DefaultRootAuthority = "did:batterypass:eu"
)

var (
	identifierPattern = regexp.MustCompile(`^did:([a-z0-9]+):(oem|cloud|bms|service|user)\.([A-Za-z0-9][A-Za-z0-9-]+)$`)
	rootPattern       = regexp.MustCompile(`^did:[a-z0-9]+:[A-Za-z0-9._-]+$`)
)

// Identifier is a parsed did:<namespace>:<role>.<label>.
type Identifier struct {
	Namespace string
	Role      Role
	Label     string
}

// Parse parses an actor identifier. Root authorities do not match.
func Parse(s string) (Identifier, error) {
	m := identifierPattern.FindStringSubmatch(s)
	if m == nil {
		return Identifier{}, fmt.Errorf("invalid identifier %q", s)
	}

	return Identifier{Namespace: m[1], Role: Role(m[2]), Label: m[3]}, nil
}

// New builds an identifier in the default namespace.
func New(role Role, label string) (Identifier, error) {
	return Parse(fmt.Sprintf("did:%s:%s.%s", DefaultNamespace, role, label))
}

func (i Identifier) String() string {
	return fmt.Sprintf("did:%s:%s.%s", i.Namespace, i.Role, i.Label)
}

// IsActor reports whether s is a well formed actor identifier.
func IsActor(s string) bool {
	return identifierPattern.MatchString(s)
}

// IsWellFormed reports whether s is an actor identifier or has the shape of a root authority.
func IsWellFormed(s string) bool {
	return identifierPattern.MatchString(s) || rootPattern.MatchString(s)
}
