package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUsername(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "Valid", value: "jane_doe", expected: true},
		{name: "With dots", value: "jane.doe-42", expected: true},
		{name: "Too short", value: "ab", expected: false},
		{name: "Spaces", value: "jane doe", expected: false},
		{name: "Empty", value: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUsername(tt.value))
		})
	}
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "Valid", value: "jane@example.com", expected: true},
		{name: "Subdomain", value: "jane@mail.example.co", expected: true},
		{name: "No at sign", value: "jane.example.com", expected: false},
		{name: "No domain", value: "jane@", expected: false},
		{name: "Empty", value: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEmail(tt.value))
		})
	}
}

func TestIsPassword(t *testing.T) {
	assert.True(t, IsPassword("12345678"))
	assert.False(t, IsPassword("1234567"))
	assert.False(t, IsPassword(""))
}
