package domain

import (
	"fmt"
	"strings"
)

// Role enumerates account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
	RoleUser   Role = "user"
)

// ParseRole normalizes and validates a role name.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleAdmin, RoleVendor, RoleUser:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// RoleStrings converts roles for storage and wire payloads.
func RoleStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// ParseRoles converts stored role names, dropping duplicates.
func ParseRoles(raw []string) ([]Role, error) {
	seen := make(map[Role]struct{}, len(raw))
	out := make([]Role, 0, len(raw))
	for _, r := range raw {
		role, err := ParseRole(r)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out, nil
}
