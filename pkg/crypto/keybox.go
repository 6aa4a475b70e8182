// Package crypto implements the key lifecycle used by the credential store:
// per-user symmetric keys wrapped under a master key, and authenticated
// encryption of individual profile fields with the per-user key.
//
// All blobs are AES-GCM with the random nonce prefixed to the ciphertext.
// The master key is used only to wrap and unwrap per-user keys, never to
// encrypt user data directly.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"pilotpro/internal/apperr"
)

// KeySize is the size of generated per-user keys (AES-256).
const KeySize = 32

const minKeySize = 16

// GenerateUserKey produces a fresh random symmetric key.
func GenerateUserKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate user key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) < minKeySize {
		return nil, fmt.Errorf("%w: key shorter than %d bytes", apperr.ErrValidation, minKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return cipher.NewGCM(block)
}

func seal(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func open(blob, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(blob) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: blob too short", apperr.ErrIntegrity)
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrIntegrity, err)
	}
	return plaintext, nil
}

// Wrap encrypts a per-user key under the master key.
func Wrap(userKey, masterKey []byte) ([]byte, error) {
	if len(userKey) < minKeySize {
		return nil, fmt.Errorf("%w: user key shorter than %d bytes", apperr.ErrValidation, minKeySize)
	}
	return seal(userKey, masterKey)
}

// Unwrap recovers a per-user key wrapped by Wrap. It fails with
// apperr.ErrIntegrity if the blob was tampered with or wrapped under a
// different master key.
func Unwrap(blob, masterKey []byte) ([]byte, error) {
	return open(blob, masterKey)
}

// EncryptDetail encrypts a single field value with the per-user key.
func EncryptDetail(plaintext string, key []byte) ([]byte, error) {
	return seal([]byte(plaintext), key)
}

// DecryptDetail reverses EncryptDetail. It fails with apperr.ErrIntegrity on
// tamper or wrong key.
func DecryptDetail(blob, key []byte) (string, error) {
	plaintext, err := open(blob, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
