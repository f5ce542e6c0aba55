package domain

import "time"

type Role string

const (
	RoleBasic  Role = "BASIC"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// roleRank orders roles for permission checks.
var roleRank = map[Role]int{
	RoleBasic:  1,
	RoleSeller: 2,
	RoleAdmin:  3,
}

// IsValid reports whether the role is a known role.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// HasPermission reports whether the role grants at least minRole's access.
func (r Role) HasPermission(minRole Role) bool {
	return roleRank[r] >= roleRank[minRole]
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
