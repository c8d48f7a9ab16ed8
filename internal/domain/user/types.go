package user

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidIdentity = errors.New("invalid identity")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleClubOwner Role = "club_owner"
	RoleAdmin     Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleClubOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Identity is the caller as asserted by the identity provider. It is trusted as-is.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

func NewIdentity(id uuid.UUID, email string, role string) (Identity, error) {
	if id == uuid.Nil {
		return Identity{}, ErrInvalidIdentity
	}
	r, err := NewRole(role)
	if err != nil {
		return Identity{}, err
	}
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return Identity{}, ErrInvalidEmail
	}
	return Identity{ID: id, Email: email, Role: r}, nil
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) IsClubOwner() bool {
	return i.Role == RoleClubOwner
}

func (i Identity) IsCustomer() bool {
	return i.Role == RoleCustomer
}
