package sqlauth_test

import (
	"testing"

	sqlauth "github.com/goliatone/go-sqlauth"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeHash(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "Vendor prefixed bcrypt hash",
			raw:      "bcrypt$$2b$10$N9qo8uLOickgx2ZMRZoMye",
			expected: "$2b$10$N9qo8uLOickgx2ZMRZoMye",
		},
		{
			name:     "Already canonical hash",
			raw:      "$2b$10$N9qo8uLOickgx2ZMRZoMye",
			expected: "$2b$10$N9qo8uLOickgx2ZMRZoMye",
		},
		{
			name:     "Prefix alone",
			raw:      "bcrypt$$",
			expected: "$",
		},
		{
			name:     "Single delimiter is not the vendor prefix",
			raw:      "bcrypt$2b$10$N9qo8uLOickgx2ZMRZoMye",
			expected: "bcrypt$2b$10$N9qo8uLOickgx2ZMRZoMye",
		},
		{
			name:     "Unrelated scheme passes through",
			raw:      "argon2id$v=19$m=65536",
			expected: "argon2id$v=19$m=65536",
		},
		{
			name:     "Empty string",
			raw:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sqlauth.NormalizeHash(tt.raw))
		})
	}
}

func TestNormalizeHashPreservesSuffixBytes(t *testing.T) {
	suffix := "2y$14$abcdefghijklmnopqrstuvAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	assert.Equal(t, "$"+suffix, sqlauth.NormalizeHash("bcrypt$$"+suffix))
}
