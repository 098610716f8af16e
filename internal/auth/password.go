package auth

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/shop-service/pkg/util/errorutil"
)

var (
	passwordAllowed = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,100}$`)
	passwordLetter  = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
)

// PasswordHasher hashes credentials with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher; out-of-range costs fall back to the bcrypt default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted, self-describing bcrypt hash.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches hashed.
func (h *PasswordHasher) Verify(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(password string) error {
	if !passwordAllowed.MatchString(password) ||
		!passwordLetter.MatchString(password) ||
		!passwordDigit.MatchString(password) ||
		!passwordSpecial.MatchString(password) {
		return apperrors.NewValidationError(
			"password must have at least 8 characters, including a letter, a number and one of @$!%*?&",
			nil,
		)
	}
	return nil
}
