package auth

import (
	"github.com/google/uuid"

	"assetverse/internal/model"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}

// Rule is a composable authorization predicate over the caller.
type Rule func(p Principal) bool

// HasRole allows callers holding any of the given roles.
func HasRole(roles ...model.Role) Rule {
	return func(p Principal) bool {
		for _, r := range roles {
			if p.Role == r {
				return true
			}
		}
		return false
	}
}

// IsEmail allows the caller whose email matches the resource owner.
func IsEmail(email string) Rule {
	return func(p Principal) bool {
		return email != "" && p.Email == email
	}
}

// AnyOf passes when at least one rule passes.
func AnyOf(rules ...Rule) Rule {
	return func(p Principal) bool {
		for _, r := range rules {
			if r(p) {
				return true
			}
		}
		return false
	}
}

// AllOf passes when every rule passes.
func AllOf(rules ...Rule) Rule {
	return func(p Principal) bool {
		for _, r := range rules {
			if !r(p) {
				return false
			}
		}
		return len(rules) > 0
	}
}

// Can evaluates every rule against the principal.
func (p Principal) Can(rules ...Rule) bool {
	return AllOf(rules...)(p)
}

// IsHR reports whether the caller holds the HR role.
func (p Principal) IsHR() bool {
	return p.Role == model.RoleHR
}
