package user

import (
	"strings"

	"car-rental-backend/internal/pkg/errs"
)

var ErrInvalidRole = errs.New("invalid role")

// Role mirrors the account roles managed by the external identity system.
// The booking core only needs them for endpoint authorization.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func NewRole(value string) (Role, error) {
	switch Role(strings.ToLower(value)) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleManager:
		return RoleManager, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

var roleRank = map[Role]int{
	RoleCustomer: 1,
	RoleManager:  2,
	RoleAdmin:    3,
}

// AtLeast reports whether the role meets the given floor. Unknown roles
// rank below every known role.
func (r Role) AtLeast(floor Role) bool {
	return roleRank[r] >= roleRank[floor]
}
