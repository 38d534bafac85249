package login

import (
	"fmt"
	"strings"
	"unicode"
)

const minPasswordLength = 12

type characterClass struct {
	name  string
	match func(rune) bool
}

var requiredClasses = []characterClass{
	{name: "an upper case letter", match: unicode.IsUpper},
	{name: "a lower case letter", match: unicode.IsLower},
	{name: "a digit", match: unicode.IsDigit},
	{name: "a symbol", match: func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }},
}

// ValidatePasswordPolicy checks the minimum length and that every required
// character class is present. The error names what is missing.
func ValidatePasswordPolicy(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	var missing []string
	for _, class := range requiredClasses {
		if !strings.ContainsFunc(password, class.match) {
			missing = append(missing, class.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("password must include %s", strings.Join(missing, ", "))
	}
	return nil
}
