package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "Password.123", false},
		{"Exactly Min Length", "Abcdef1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Sm1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"All Lowercase", "password", true},
		{"No Upper", "securepass12!", true},
		{"No Lower", "SECUREPASS12!", true},
		{"No Digit", "SecurePass!!", true},
		{"No Symbol", "SecurePass123", true},
		{"Unicode Characters", "ÅngstromPass12!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Jim Parsons", false},
		{"Dots And Hyphens", "J.R. Smith-Jones", false},
		{"Empty", "", true},
		{"Blank", "   ", true},
		{"Too Long", strings.Repeat("a", 51), true},
		{"Illegal Chars", "jim@home", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "jimparsons@gmail.com", false},
		{"Subdomain", "a.b@mail.example.org", false},
		{"Missing At", "jimparsons.gmail.com", true},
		{"Missing TLD", "jim@gmail", true},
		{"Too Short", "a@b.c", true},
		{"Too Long", strings.Repeat("a", 35) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "jim@gmail.com", NormalizeEmail("  Jim@GMail.com "))
}
