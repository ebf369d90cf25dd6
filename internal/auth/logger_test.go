package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPairs(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"no args", nil, ""},
		{"one pair", []any{"username", "admin"}, " username=admin"},
		{"two pairs", []any{"username", "admin", "role", "staff"}, " username=admin role=staff"},
		{"dangling key", []any{"username"}, " username"},
		{"non string values", []any{"attempts", 3, "active", true}, " attempts=3 active=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatPairs(tt.args)
			assert.Equal(t, tt.want, got)
			// key-value pairs must never leak printf artifacts
			assert.False(t, strings.Contains(got, "%!"))
		})
	}
}
