// AngelaMos | 2026
// security.go

package core

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a configured work factor. The cost is
// fixed at construction; every hash carries its own random salt, so two
// hashes of the same password never match.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < 12 || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf(
			"bcrypt cost must be between 12 and %d, got %d",
			bcrypt.MaxCost,
			cost,
		)
	}

	return &PasswordHasher{cost: cost}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether password matches the stored hash. A hash that
// cannot be parsed is reported as a mismatch wrapping ErrCorruptCredential;
// callers log it as an operational anomaly and must not surface it.
func (h *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("verify password: %w: %w", ErrCorruptCredential, err)
}

// dummyHash is compared against when no user matches the presented email,
// so login latency does not reveal whether the account exists.
var dummyHash = func() string {
	hash, err := bcrypt.GenerateFromPassword(
		[]byte("timing-equalization-dummy-password"),
		bcrypt.DefaultCost,
	)
	if err != nil {
		panic(fmt.Sprintf("security: generate dummy hash: %v", err))
	}
	return string(hash)
}()

// VerifyTimingSafe behaves like Verify but accepts a missing stored hash.
// When encodedHash is nil or empty it still burns a full bcrypt comparison
// and returns false. Corrupt hashes are logged and treated as mismatches.
func (h *PasswordHasher) VerifyTimingSafe(
	password string,
	encodedHash *string,
) bool {
	hashToVerify := dummyHash
	if encodedHash != nil && *encodedHash != "" {
		hashToVerify = *encodedHash
	}

	valid, err := h.Verify(password, hashToVerify)
	if err != nil {
		slog.Error("stored password hash unreadable", "error", err)
		return false
	}

	if encodedHash == nil || *encodedHash == "" {
		return false
	}

	return valid
}
