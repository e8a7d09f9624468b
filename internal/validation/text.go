package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength        = 100
	MaxTitleLength       = 120
	MaxDescriptionLength = 1000
)

// ValidateName validates a group name
func ValidateName(name string) error {
	return required("name", name, MaxNameLength)
}

// ValidateTitle validates event and goal titles
func ValidateTitle(title string) error {
	return required("title", title, MaxTitleLength)
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > MaxDescriptionLength {
		return fmt.Errorf("description is too long (max %d characters)", MaxDescriptionLength)
	}
	return nil
}

// ValidatePositive validates target values and contribution amounts
func ValidatePositive(field string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be greater than zero", field)
	}
	return nil
}

func required(field, value string, max int) error {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return errors.New(field + " is required")
	}

	if utf8.RuneCountInString(trimmed) > max {
		return fmt.Errorf("%s is too long (max %d characters)", field, max)
	}

	return nil
}
