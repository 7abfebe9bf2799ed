package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// tokenSealer encrypts upstream bearer tokens before they reach a Store.
// With no key configured it passes tokens through unchanged.
type tokenSealer struct {
	aead cipher.AEAD
}

func newTokenSealer(key string) (*tokenSealer, error) {
	if key == "" {
		return &tokenSealer{}, nil
	}
	raw := []byte(key)
	switch len(raw) {
	case 16, 24, 32:
	default:
		return nil, errors.New("session encryption key must be 16, 24, or 32 bytes")
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &tokenSealer{aead: gcm}, nil
}

func (t *tokenSealer) seal(plaintext string) (string, error) {
	if t.aead == nil || plaintext == "" {
		return plaintext, nil
	}
	nonce := make([]byte, t.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := t.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (t *tokenSealer) open(encoded string) (string, error) {
	if t.aead == nil || encoded == "" {
		return encoded, nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	nonceSize := t.aead.NonceSize()
	if len(payload) < nonceSize {
		return "", errors.New("invalid token payload")
	}
	plaintext, err := t.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
