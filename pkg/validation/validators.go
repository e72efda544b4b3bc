package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, digits and . _ - (the upstream API accepts nothing else in usernames)
	usernameRegex = regexp.MustCompile(`^[\p{L}0-9._-]+$`)

	// Comma-separated list entries, e.g. "go, kubernetes, sql"
	skillRegex = regexp.MustCompile(`^[\p{L}0-9 .+#/&()-]+$`)
)

// New returns a validator with the dashboard's custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_username", ValidUsername)
	_ = v.RegisterValidation("skill_list", SkillList)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// ValidUsername validates the characters of a username
func ValidUsername(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return usernameRegex.MatchString(val)
}

// SkillList validates a comma-separated skills filter. Empty entries ("go,,sql") are rejected.
func SkillList(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	for _, skill := range strings.Split(val, ",") {
		skill = strings.TrimSpace(skill)
		if skill == "" || !skillRegex.MatchString(skill) {
			return false
		}
	}
	return true
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		// Supplementary planes are mostly emoji/symbols
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) { // Symbol, other / Symbol, modifier
			return false
		}
	}
	return true
}
