package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotpro/internal/apperr"
)

func TestGenerateUserKey(t *testing.T) {
	k1, err := GenerateUserKey()
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)

	k2, err := GenerateUserKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	master, err := GenerateUserKey()
	require.NoError(t, err)
	userKey, err := GenerateUserKey()
	require.NoError(t, err)

	blob, err := Wrap(userKey, master)
	require.NoError(t, err)
	assert.NotEqual(t, userKey, blob)

	got, err := Unwrap(blob, master)
	require.NoError(t, err)
	assert.Equal(t, userKey, got)
}

func TestUnwrapWrongMasterKey(t *testing.T) {
	m1, _ := GenerateUserKey()
	m2, _ := GenerateUserKey()
	userKey, _ := GenerateUserKey()

	blob, err := Wrap(userKey, m1)
	require.NoError(t, err)

	_, err = Unwrap(blob, m2)
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
}

func TestUnwrapTamperedBlob(t *testing.T) {
	master, _ := GenerateUserKey()
	userKey, _ := GenerateUserKey()

	blob, err := Wrap(userKey, master)
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0x01
	_, err = Unwrap(blob, master)
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
}

func TestDetailRoundTrip(t *testing.T) {
	key, _ := GenerateUserKey()

	tests := []string{"", "Alice Smith", "многобайтовый текст", "a\nb\tc"}
	for _, plaintext := range tests {
		blob, err := EncryptDetail(plaintext, key)
		require.NoError(t, err)

		got, err := DecryptDetail(blob, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestDecryptDetailWrongKey(t *testing.T) {
	k1, _ := GenerateUserKey()
	k2, _ := GenerateUserKey()

	blob, err := EncryptDetail("secret", k1)
	require.NoError(t, err)

	_, err = DecryptDetail(blob, k2)
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
}

func TestRejectsUndersizedKeys(t *testing.T) {
	_, err := Wrap([]byte("short"), make([]byte, KeySize))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = Wrap(make([]byte, KeySize), nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = EncryptDetail("x", []byte{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
