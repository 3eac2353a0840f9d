// Package password implements the Argon2id hashing scheme behind the
// authorization service's PasswordHasher port.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	usecase "foodie/backend/internal/usecase/authorization"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash indicates a stored hash that cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Default Argon2id cost parameters (RFC 9106 second recommended option).
const (
	defaultMemory      = 64 * 1024
	defaultIterations  = 1
	defaultParallelism = 4
	saltLength         = 16
	keyLength          = 32
)

// Argon2Hasher hashes passwords with Argon2id and encodes them in the
// PHC string format, salt and parameters embedded.
type Argon2Hasher struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// NewArgon2Hasher constructs a hasher with the default cost parameters.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		memory:      defaultMemory,
		iterations:  defaultIterations,
		parallelism: defaultParallelism,
	}
}

// Ensure Argon2Hasher implements the PasswordHasher port.
var _ usecase.PasswordHasher = (*Argon2Hasher)(nil)

// Hash derives a key from the password over a fresh random salt.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memory, h.parallelism, keyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory,
		h.iterations,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Compare recomputes the derivation with the parameters embedded in the
// stored hash and checks the result in constant time.
func (h *Argon2Hasher) Compare(password, encodedHash string) (bool, error) {
	memory, iterations, parallelism, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

func decodeHash(encoded string) (memory, iterations uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &p); err != nil {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	return memory, iterations, p, salt, key, nil
}
