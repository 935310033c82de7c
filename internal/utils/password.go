package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// specialChars is the set of characters accepted by the special-character
// password rule.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// passwordRule pairs a predicate with the message reported when the
// predicate fails.
type passwordRule struct {
	ok  func(string) bool
	msg string
}

// passwordRules are checked in order; the first unmet rule's message is
// returned. The order is part of the contract: callers and tests rely on
// length being reported before character-class violations.
var passwordRules = []passwordRule{
	{func(s string) bool { return len(s) >= 8 }, "Password must be at least 8 characters long"},
	{containsFunc(unicode.IsLower), "Password must contain at least one lowercase character"},
	{containsFunc(unicode.IsUpper), "Password must contain at least one uppercase character"},
	{containsFunc(unicode.IsDigit), "Password must contain at least one digit character"},
	{func(s string) bool { return strings.ContainsAny(s, specialChars) }, "Password must contain at least one special character"},
}

func containsFunc(f func(rune) bool) func(string) bool {
	return func(s string) bool {
		return strings.IndexFunc(s, f) >= 0
	}
}

// ValidatePassword checks a candidate password against the policy. It
// returns true when every rule passes, otherwise false plus the message
// of the first violated rule. Pure function, no side effects.
func ValidatePassword(password string) (bool, string) {
	for _, rule := range passwordRules {
		if !rule.ok(password) {
			return false, rule.msg
		}
	}
	return true, "Password is valid"
}

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
