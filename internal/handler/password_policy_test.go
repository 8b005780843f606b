package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantPass bool
		contains string
	}{
		{"valid", "Abcdef1!", true, ""},
		{"valid max length", "Aa1!" + "abcdefghijklmnopqrstu", true, ""}, // 25 chars
		{"too short", "Aa1!x", false, "at least 8 symbols"},
		{"too long", "Aa1!" + "abcdefghijklmnopqrstuv", false, "bigger than 25 symbols"},
		{"no digit", "Abcdefg!", false, "digit"},
		{"no lowercase", "ABCDEF1!", false, "lowercase"},
		{"no uppercase", "abcdef1!", false, "uppercase"},
		{"no special", "Abcdefg1", false, "special character"},
		{"all special chars accepted", "Aa1;'\":|", true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reason := checkPasswordPolicy(tc.password)
			if tc.wantPass {
				assert.Empty(t, reason)
			} else {
				assert.Contains(t, reason, tc.contains)
			}
		})
	}
}
