package encryption

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// NewChaCha20Poly1305WithRandomNonceGenerator creates a Crypter that seals cassettes
// with XChaCha20-Poly1305 and a random nonce per cassette.
func NewChaCha20Poly1305WithRandomNonceGenerator(key []byte) (*Crypter, error) {
	return NewChaCha20Poly1305(key, nil)
}

// NewChaCha20Poly1305 creates a Crypter that seals cassettes with XChaCha20-Poly1305.
// key must be 32 bytes long; Argon2 can derive one from a passphrase.
// Its 24-byte nonce makes random nonces safe for a large number of cassettes.
func NewChaCha20Poly1305(key []byte, nonceGenerator NonceGenerator) (*Crypter, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "XChaCha20-Poly1305 cipher")
	}

	return newCrypterWithNonce(aead, KindChaCha20Poly1305, nonceGenerator)
}
