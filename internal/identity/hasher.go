package identity

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is the bcrypt cost factor. Tuned so a single verification
// takes tens of milliseconds: the latency floor is the throttle against
// offline and online brute-force guessing.
const DefaultHashCost = 12

// Hasher hashes and verifies passwords with bcrypt. Each Hash call salts
// independently, so hashing the same password twice yields different strings
// that both verify.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the default cost.
func NewHasher() *Hasher {
	return &Hasher{cost: DefaultHashCost}
}

// NewHasherWithCost creates a Hasher with an explicit cost. Used by tests to
// keep hashing fast.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash returns the salted bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed hashes verify as
// false; the comparison itself is constant-time.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
