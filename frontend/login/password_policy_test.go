package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name string
		pwd  string
		err  string
	}{
		{name: "valid", pwd: "Riverside#2024"},
		{name: "short", pwd: "Ab1!", err: "password must be at least 12 characters"},
		{name: "letters only", pwd: "abcdefghijklmnop", err: "password must include an upper case letter, a digit, a symbol"},
		{name: "no symbol", pwd: "Riverside2024x", err: "password must include a symbol"},
		{name: "no upper", pwd: "riverside#2024", err: "password must include an upper case letter"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tc.pwd)
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.err)
		})
	}
}
