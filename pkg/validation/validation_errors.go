package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown on dashboard forms
var FieldLabels = map[string]string{
	// Auth forms
	"Username": "Username",
	"Email":    "Email",
	"Password": "Password",
	"UserType": "User Type",

	// Job form
	"Title":              "Job Title",
	"Company":            "Company",
	"Location":           "Location",
	"RequiredExperience": "Required Experience (years)",
	"Description":        "Job Description",

	// Search / ranking filters
	"Skills":     "Skills",
	"Experience": "Minimum Experience (years)",
	"JobID":      "Job ID",
	"MinScore":   "Minimum Score",
	"Limit":      "Limit",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: This field is required", label)

	case "min", "gte":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: Must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: Must be at least %s", label, param)

	case "max", "lte":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: Must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: Must be at most %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s: Must be one of: %s", label, strings.Join(strings.Fields(param), ", "))

	case "email":
		return fmt.Sprintf("%s: Invalid email format", label)

	case "valid_username":
		return fmt.Sprintf("%s: Only letters, digits and . _ - are allowed", label)

	case "skill_list":
		return fmt.Sprintf("%s: Use a comma-separated list such as \"python, sql\"", label)

	case "no_emoji":
		return fmt.Sprintf("%s: Emoji and special symbols are not allowed", label)

	default:
		return fmt.Sprintf("%s: Invalid value (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
