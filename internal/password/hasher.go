// Package password hashes and verifies user credentials.
//
// Hashes are self-describing: bcrypt hashes start with "$2", argon2id hashes
// use the PHC string format. Verify picks the algorithm from the stored hash,
// so switching PASSWORD_HASHER does not lock out existing users.
package password

import (
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// Hasher is safe for concurrent use.
type Hasher struct {
	algorithm  string
	bcryptCost int
	argon      argon2.Config
}

// NewHasher returns a Hasher producing hashes with algorithm. bcryptCost is
// ignored for argon2id.
func NewHasher(algorithm string, bcryptCost int) (*Hasher, error) {
	switch algorithm {
	case AlgorithmBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
	case AlgorithmArgon2id:
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
	return &Hasher{algorithm: algorithm, bcryptCost: bcryptCost, argon: argon2.DefaultConfig()}, nil
}

func (h *Hasher) Hash(plain string) (string, error) {
	if h.algorithm == AlgorithmArgon2id {
		encoded, err := h.argon.HashEncoded([]byte(plain))
		if err != nil {
			return "", fmt.Errorf("argon2id: %w", err)
		}
		return string(encoded), nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches encoded. Malformed hashes never match.
func (h *Hasher) Verify(plain, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain)) == nil
	case strings.HasPrefix(encoded, "$argon2id$"):
		ok, err := argon2.VerifyEncoded([]byte(plain), []byte(encoded))
		return err == nil && ok
	default:
		return false
	}
}
