package authorization

import "context"

// UserRepository is the outgoing storage port consumed by the
// authorization services. The concrete adapter owns the durable record
// and enforces email uniqueness.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
