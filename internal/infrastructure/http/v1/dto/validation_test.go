package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGSTINPattern(t *testing.T) {
	valid := []string{
		"27AAPFU0939F1ZV",
		"07ABCDE1234F1Z5",
	}
	for _, g := range valid {
		assert.True(t, gstinPattern.MatchString(g), g)
	}

	invalid := []string{
		"",
		"27AAPFU0939F1Z",   // too short
		"27aapfu0939f1zv",  // lowercase
		"27AAPFU0939F1XV",  // missing literal Z
		"AB27AAPFU0939F1Z", // state code not numeric
	}
	for _, g := range invalid {
		assert.False(t, gstinPattern.MatchString(g), g)
	}
}
