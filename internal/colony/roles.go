package colony

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned for a role code outside the colony role set.
var ErrUnknownRole = errors.New("unknown colony role")

// Role is a colony permission code as emitted in ColonyRoleSet.
type Role uint8

const (
	RoleRecovery Role = iota
	RoleRoot
	RoleArbitration
	RoleArchitecture
	RoleArchitectureSubdomain
	RoleFunding
	RoleAdministration
)

var roleNames = [...]string{
	RoleRecovery:              "Recovery",
	RoleRoot:                  "Root",
	RoleArbitration:           "Arbitration",
	RoleArchitecture:          "Architecture",
	RoleArchitectureSubdomain: "ArchitectureSubdomain",
	RoleFunding:               "Funding",
	RoleAdministration:        "Administration",
}

// RoleName resolves a role code to its name.
func RoleName(code uint8) (string, error) {
	if int(code) >= len(roleNames) {
		return "", fmt.Errorf("%w: %d", ErrUnknownRole, code)
	}
	return roleNames[code], nil
}

func (r Role) String() string {
	name, err := RoleName(uint8(r))
	if err != nil {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return name
}
