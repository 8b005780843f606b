package handler

import "strings"

// specialChars is the accepted special-character set for passwords.
const specialChars = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// checkPasswordPolicy enforces the password acceptance policy at the
// boundary, before the reset workflow runs: length 8-25 and at least one
// digit, one lowercase letter, one uppercase letter and one special
// character. It returns a human-readable reason or "" when the password
// passes.
func checkPasswordPolicy(password string) string {
	if len(password) < 8 {
		return "Password should have at least 8 symbols"
	}
	if len(password) > 25 {
		return "Password can't be bigger than 25 symbols"
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	switch {
	case !hasDigit:
		return "Password must contain at least one digit"
	case !hasLower:
		return "Password must contain at least one lowercase letter"
	case !hasUpper:
		return "Password must contain at least one uppercase letter"
	case !strings.ContainsAny(password, specialChars):
		return "Password must contain at least one special character"
	}
	return ""
}
