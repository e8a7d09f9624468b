package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("Morning ride"))
	assert.EqualError(t, ValidateTitle("   "), "title is required")
	assert.EqualError(t, ValidateTitle(strings.Repeat("a", MaxTitleLength+1)), "title is too long (max 120 characters)")
	// Length counts characters, not bytes
	assert.NoError(t, ValidateTitle(strings.Repeat("é", MaxTitleLength)))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Trail Runners"))
	assert.EqualError(t, ValidateName(""), "name is required")
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription(""))
	assert.Error(t, ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)))
}

func TestValidatePositive(t *testing.T) {
	assert.NoError(t, ValidatePositive("target", 1))
	assert.EqualError(t, ValidatePositive("target", 0), "target must be greater than zero")
	assert.Error(t, ValidatePositive("amount", -3))
}
