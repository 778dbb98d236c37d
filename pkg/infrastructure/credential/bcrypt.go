package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier hashes secrets with bcrypt. A zero Cost uses
// bcrypt.DefaultCost.
type BcryptVerifier struct {
	Cost int
}

func NewBcryptVerifier(cost int) BcryptVerifier {
	return BcryptVerifier{Cost: cost}
}

func (v BcryptVerifier) Hash(secret string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether secret matches digest. A malformed digest never
// matches.
func (v BcryptVerifier) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
