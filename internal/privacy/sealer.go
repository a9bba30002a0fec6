package privacy

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	dErrors "wellbuddie/pkg/domain-errors"
)

// Sealer encrypts payloads at rest with XChaCha20-Poly1305. The random
// 24-byte nonce is prefixed to the ciphertext.
type Sealer struct {
	key []byte
}

// NewSealer requires a 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("sealer key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Sealer{key: append([]byte(nil), key...)}, nil
}

// Seal encrypts plaintext, binding it to aad.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "init cipher")
	}
	out := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(out); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generate nonce")
	}
	return aead.Seal(out, out, plaintext, aad), nil
}

// Open reverses Seal. Truncated or tampered input, or a different aad, yields
// CodeInvalidInput.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "init cipher")
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "sealed payload too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "sealed payload failed authentication")
	}
	return plaintext, nil
}
