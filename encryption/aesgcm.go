package encryption

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/pkg/errors"

	cryptoerr "github.com/seborama/k7/encryption/errors"
)

// NewAESGCMWithRandomNonceGenerator creates a Crypter that seals cassettes with
// AES-GCM and a random nonce per cassette.
func NewAESGCMWithRandomNonceGenerator(key []byte) (*Crypter, error) {
	return NewAESGCM(key, nil)
}

// NewAESGCM creates a Crypter that seals cassettes with AES-GCM.
// key must be 16 bytes (AES-128) or 32 bytes (AES-256) long. Derive it with
// scrypt or similar when starting from a passphrase.
//
// A nil nonceGenerator uses a RandomNonceGenerator.
func NewAESGCM(key []byte, nonceGenerator NonceGenerator) (*Crypter, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, cryptoerr.NewErrCrypto("AES-GCM key must be 16 or 32 bytes long")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "AES cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "GCM mode")
	}

	return newCrypterWithNonce(aead, KindAESGCM, nonceGenerator)
}

// newCrypterWithNonce checks nonceGenerator, or builds a random one sized for aead.
func newCrypterWithNonce(aead cipher.AEAD, kind string, nonceGenerator NonceGenerator) (*Crypter, error) {
	if nonceGenerator == nil {
		nonceGenerator = NewRandomNonceGenerator(aead.NonceSize())
	}

	if err := validateNonceGenerator(nonceGenerator); err != nil {
		return nil, errors.Wrapf(err, "%s nonce generator is not valid", kind)
	}

	return NewCrypter(aead, kind, nonceGenerator), nil
}
