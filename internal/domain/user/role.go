package user

import (
	"errors"
	"regexp"
	"strings"
)

type RoleCode string

const (
	RoleCodeSuperAdmin RoleCode = "SUPER_ADMIN"
	RoleCodeAdmin      RoleCode = "ADMIN"
	RoleCodeCustomer   RoleCode = "CUSTOMER"
)

var roleCodeRegexp = regexp.MustCompile(`^[A-Z0-9_]{3,64}$`)

func (c RoleCode) IsValid() bool {
	if !roleCodeRegexp.MatchString(string(c)) {
		return false
	}
	switch c {
	case RoleCodeSuperAdmin, RoleCodeAdmin, RoleCodeCustomer:
		return true
	default:
		return false
	}
}

func (c RoleCode) IsSuperAdmin() bool {
	return c == RoleCodeSuperAdmin
}

func (c RoleCode) IsAdmin() bool {
	return c == RoleCodeAdmin || c == RoleCodeSuperAdmin
}

var ErrInvalidRoleCode = errors.New("invalid role code")

// ParseRoleCode normalizes s and rejects unknown roles.
func ParseRoleCode(s string) (RoleCode, error) {
	c := RoleCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidRoleCode
	}
	return c, nil
}

// CanAssignRole reports whether executorRole may grant targetRole.
// Only SUPER_ADMIN hands out ADMIN or SUPER_ADMIN.
func CanAssignRole(executorRole RoleCode, targetRole RoleCode) bool {
	if targetRole == RoleCodeAdmin || targetRole == RoleCodeSuperAdmin {
		return executorRole == RoleCodeSuperAdmin
	}
	return executorRole.IsAdmin()
}
