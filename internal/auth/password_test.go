package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtside/stringdesk/internal/auth"
)

// low cost keeps tests fast; production uses the configured cost
const testBcryptCost = 4

func TestHashPassword(t *testing.T) {
	hasher := auth.NewHasher(testBcryptCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, hasher.ComparePasswordAndHash(tt.password, hash))
		})
	}
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	hasher := auth.NewHasher(testBcryptCost)

	first, err := hasher.HashPassword("same-input")
	assert.NoError(t, err)

	second, err := hasher.HashPassword("same-input")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, hasher.ComparePasswordAndHash("same-input", first))
	assert.NoError(t, hasher.ComparePasswordAndHash("same-input", second))
}

func TestComparePasswordAndHash(t *testing.T) {
	hasher := auth.NewHasher(testBcryptCost)

	hash, err := hasher.HashPassword("testPassword123!")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  bool
	}{
		{
			name:     "matching password",
			password: "testPassword123!",
			hash:     hash,
			wantErr:  false,
		},
		{
			name:     "wrong password",
			password: "wrongPassword",
			hash:     hash,
			wantErr:  true,
		},
		{
			name:     "garbage hash",
			password: "testPassword123!",
			hash:     "not-a-bcrypt-hash",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.ComparePasswordAndHash(tt.password, tt.hash)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestComparePasswordMismatchSentinel(t *testing.T) {
	hasher := auth.NewHasher(testBcryptCost)

	hash, err := hasher.HashPassword("original")
	assert.NoError(t, err)

	err = hasher.ComparePasswordAndHash("different", hash)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}
