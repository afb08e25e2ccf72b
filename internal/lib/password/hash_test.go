package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		wantErr   error
	}{
		{name: "ascii", plaintext: "supersecret"},
		{name: "unicode", plaintext: "пароль-длиннее-8"},
		{name: "exactly max length", plaintext: strings.Repeat("a", MaxLength)},
		{name: "too long", plaintext: strings.Repeat("a", MaxLength+1), wantErr: ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.plaintext)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.plaintext, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$"), "unexpected hash format %q", hash)

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, bcrypt.DefaultCost, cost)
			assert.True(t, Verify(tt.plaintext, hash))
		})
	}
}

func TestVerify(t *testing.T) {
	hash, err := GetHash("correct horse")
	require.NoError(t, err)
	other, err := GetHash("battery staple")
	require.NoError(t, err)

	tests := []struct {
		name      string
		hash      string
		plaintext string
		want      bool
	}{
		{name: "match", hash: hash, plaintext: "correct horse", want: true},
		{name: "wrong password", hash: hash, plaintext: "correct horsE"},
		{name: "suffix appended", hash: hash, plaintext: "correct horse!"},
		{name: "hash of other password", hash: other, plaintext: "correct horse"},
		{name: "empty password", hash: hash, plaintext: ""},
		{name: "empty hash", hash: "", plaintext: "correct horse"},
		{name: "corrupted hash", hash: "not-a-bcrypt-hash", plaintext: "correct horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.plaintext, tt.hash))
			if tt.want {
				assert.NoError(t, CompareHash(tt.hash, tt.plaintext))
			} else {
				assert.Error(t, CompareHash(tt.hash, tt.plaintext))
			}
		})
	}
}

func TestGetHash_Salted(t *testing.T) {
	first, err := GetHash("samepassword")
	require.NoError(t, err)
	second, err := GetHash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
