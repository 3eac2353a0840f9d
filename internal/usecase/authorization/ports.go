package authorization

import domain "foodie/backend/internal/domain/authorization"

// TokenManager abstracts token issuance and verification.
type TokenManager interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*domain.TokenClaims, error)
}

// PasswordHasher abstracts the password hashing scheme, keeping the
// service free of algorithm detail.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, encodedHash string) (bool, error)
}
