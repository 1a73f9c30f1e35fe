// Package crypto provides password hashing and verification.
package crypto

import (
	"strconv"
	"strings"

	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/userdesk/userdesk/util/random"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultRounds = 535000
	MinRounds     = 1000
	saltLength    = 16
)

// Hasher produces and checks SHA-256-crypt digests.
type Hasher struct {
	Rounds int
}

// NewHasher returns a Hasher using the given number of rounds, or
// DefaultRounds when rounds is below the algorithm minimum.
func NewHasher(rounds int) *Hasher {
	if rounds < MinRounds {
		rounds = DefaultRounds
	}
	return &Hasher{Rounds: rounds}
}

// Hash returns a salted digest of password in the "$5$rounds=N$salt$hash" form.
func (h *Hasher) Hash(password string) (string, error) {
	salt := sha256_crypt.MagicPrefix + "rounds=" + strconv.Itoa(h.Rounds) + "$" + random.Salt(saltLength)
	return sha256_crypt.New().Generate([]byte(password), []byte(salt))
}

// Verify reports whether password matches digest. Legacy bcrypt digests are
// accepted as well.
func (h *Hasher) Verify(password, digest string) bool {
	switch {
	case strings.HasPrefix(digest, sha256_crypt.MagicPrefix):
		return sha256_crypt.New().Verify(digest, []byte(password)) == nil
	case isBcrypt(digest):
		return CheckPasswordHash(digest, password)
	default:
		return false
	}
}

// HashPasswordAsBcrypt generates a bcrypt hash of the given password.
func HashPasswordAsBcrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash verifies if the given password matches the bcrypt hash.
func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}
