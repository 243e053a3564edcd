package encryption

import (
	"bytes"
	"crypto/cipher"

	"github.com/pkg/errors"

	cryptoerr "github.com/seborama/k7/encryption/errors"
)

// SealedHeader marks the start of a sealed cassette.
// It is followed by the nonce length (1 byte), the nonce and the ciphertext.
const SealedHeader = "$ENC:V2$"

// Crypter contains the AEAD cipher to use for encryption and decryption.
type Crypter struct {
	aead           cipher.AEAD
	nonceGenerator NonceGenerator
	kind           string
}

// NonceGenerator defines the behaviour of a Nonce Generator type.
type NonceGenerator interface {
	Generate() ([]byte, error)
}

// NewCrypter creates a new initialised Crypter.
func NewCrypter(aead cipher.AEAD, kind string, nonceGenerator NonceGenerator) *Crypter {
	return &Crypter{
		aead:           aead,
		kind:           kind,
		nonceGenerator: nonceGenerator,
	}
}

// Kind returns the name of the cipher.
func (c Crypter) Kind() string {
	return c.kind
}

// Encrypt performs the encryption of the provided plaintext with the key
// associated with this Crypter and a nonce from c.nonceGenerator.
func (c Crypter) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce, err = c.nonceGenerator.Generate()
	if err != nil {
		return nil, nil, errors.Wrap(err, "nonce")
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Decrypt performs the decryption of the provided ciphertext with the key
// associated with this Crypter and the nonce used to encrypt it.
func (c Crypter) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	text, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return text, nil
}

// Seal encrypts plaintext into a self-describing sealed payload.
func (c Crypter) Seal(plaintext []byte) ([]byte, error) {
	ciphertext, nonce, err := c.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	if len(nonce) > 255 {
		return nil, cryptoerr.NewErrCrypto("nonce longer than 255 bytes")
	}

	var out bytes.Buffer

	out.Grow(len(SealedHeader) + 1 + len(nonce) + len(ciphertext))
	out.WriteString(SealedHeader)
	out.WriteByte(byte(len(nonce)))
	out.Write(nonce)
	out.Write(ciphertext)

	return out.Bytes(), nil
}

// Open decrypts a payload produced by Seal.
func (c Crypter) Open(sealed []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, cryptoerr.NewErrCrypto("data is not sealed")
	}

	data := sealed[len(SealedHeader):]
	if len(data) < 1 {
		return nil, cryptoerr.NewErrCrypto("sealed data is truncated")
	}

	nonceLen := int(data[0])
	if len(data) < 1+nonceLen {
		return nil, cryptoerr.NewErrCrypto("sealed data is truncated")
	}

	nonce := data[1 : 1+nonceLen]
	ciphertext := data[1+nonceLen:]

	return c.Decrypt(ciphertext, nonce)
}

// IsSealed returns true when data carries the SealedHeader.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(SealedHeader))
}
