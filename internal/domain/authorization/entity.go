package authorization

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure. Unknown emails and
	// wrong passwords both map here so responses cannot be used to probe
	// for registered addresses.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists signals a duplicate email registration.
	ErrUserAlreadyExists = errors.New("user with that email already exists")
	// ErrUserNotFound indicates the user behind a token no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordHash means the hashing subsystem failed.
	ErrPasswordHash = errors.New("password hashing failed")
	// ErrTokenEncoding means a token could not be signed.
	ErrTokenEncoding = errors.New("token encoding failed")
	// ErrTokenDecoding means a supplied token cannot be validated.
	ErrTokenDecoding = errors.New("token invalid or expired")
	// ErrInternal covers storage and other infrastructure faults.
	ErrInternal = errors.New("internal error")
)

// UserRole identifies the privileges assigned to a user.
type UserRole string

const (
	// RoleUser represents a standard application user.
	RoleUser UserRole = "user"
	// RoleAdmin represents an administrative user.
	RoleAdmin UserRole = "admin"
)

// DefaultPhoto is assigned to newly registered users.
const DefaultPhoto = "default.png"

// User models the authentication entity persisted in storage.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Photo        string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filtered projects the user into its client-safe representation.
func (u *User) Filtered() *FilteredUser {
	return &FilteredUser{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Photo:    u.Photo,
		Verified: u.Verified,
	}
}

// FilteredUser is the projection of User returned to clients. It never
// carries the password hash.
type FilteredUser struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	Photo    string   `json:"photo"`
	Verified bool     `json:"verified"`
}

// Credentials captures raw credential input for login. The plaintext
// password lives only for the duration of a single request.
type Credentials struct {
	Email    string
	Password string
}

// TokenClaims is the payload carried inside a signed token.
type TokenClaims struct {
	Subject   string
	Role      UserRole
	IssuedAt  int64
	ExpiresAt int64
}
