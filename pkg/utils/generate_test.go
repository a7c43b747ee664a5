package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingReference(t *testing.T) {
	pattern := regexp.MustCompile(`^BK\d{6}[A-Z0-9]{4}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := GenerateBookingReference()
		assert.Regexp(t, pattern, ref)
		seen[ref] = true
	}

	// The random suffix keeps references distinct within one second
	assert.Greater(t, len(seen), 1)
}

func TestGenerateTransactionID(t *testing.T) {
	pattern := regexp.MustCompile(`^txn_[0-9a-f]{12}$`)

	first := GenerateTransactionID()
	second := GenerateTransactionID()

	assert.Regexp(t, pattern, first)
	assert.Regexp(t, pattern, second)
	assert.NotEqual(t, first, second)
}
