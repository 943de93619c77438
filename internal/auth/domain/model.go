package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of roles a profile can carry. The wire/storage form
// is lower-case; the in-memory form is capitalized. ParseRole is the single
// place where external role strings enter the system.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleVolunteer Role = "Volunteer"
	RoleParent    Role = "Parent"
)

// Roles lists every valid role. Gating tables must carry an explicit entry
// for each of these.
var Roles = []Role{RoleAdmin, RoleVolunteer, RoleParent}

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("a profile with this email already exists")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileWrite       = errors.New("profile write failed")
	ErrNoSession          = errors.New("no active session")
	ErrValidation         = errors.New("validation failed")
)

// ParseRole normalizes an external role token into the closed set.
// Unrecognized tokens are rejected; they never fall through to a default
// role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "volunteer":
		return RoleVolunteer, nil
	case "parent":
		return RoleParent, nil
	default:
		return "", ErrUnknownRole
	}
}

// Wire returns the lower-case storage form of the role.
func (r Role) Wire() string {
	return strings.ToLower(string(r))
}

// User is the in-memory representation of an authenticated identity plus its
// profile attributes.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	Phone      string    `json:"phone,omitempty"`
	HasConsent bool      `json:"has_consent,omitempty"`
	Children   []string  `json:"children,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DisplayName falls back to the email local-part when the stored name is
// blank.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Profile is the stored profiles row. Role is kept in wire form here; it is
// normalized into User.Role by the service layer.
type Profile struct {
	ID           string
	Email        string
	PasswordHash []byte
	FullName     string
	Role         string
	Phone        string
	HasConsent   bool
	Children     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the durable record behind a bearer token. RoleCheckedAt tracks
// when the role was last confirmed against the profiles table.
type Session struct {
	Token         string    `json:"token"`
	User          User      `json:"user"`
	RoleCheckedAt time.Time `json:"role_checked_at"`
}
