package encryption

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
)

// RandomNonceGenerator is a random generator of nonce of the specified size.
type RandomNonceGenerator struct {
	size int
}

// NewRandomNonceGenerator creates a new initialised RandomNonceGenerator of specified size.
func NewRandomNonceGenerator(size int) *RandomNonceGenerator {
	return &RandomNonceGenerator{
		size: size,
	}
}

// Generate returns a new random nonce.
// For a 12-byte nonce, never use more than 2^32 random nonces with a given key
// because of the risk of a repeat.
func (ng RandomNonceGenerator) Generate() ([]byte, error) {
	nonce := make([]byte, ng.size)

	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return nonce, nil
}

// validateNonceGenerator samples nonceGenerator and rejects one that fails or
// repeats itself.
func validateNonceGenerator(nonceGenerator NonceGenerator) error {
	const samples = 16

	var seen [][]byte

	for i := 0; i < samples; i++ {
		nonce, err := nonceGenerator.Generate()
		if err != nil {
			return errors.Wrap(err, "nonceGenerator failure")
		}

		for _, s := range seen {
			if bytes.Equal(s, nonce) {
				return errors.New("nonceGenerator produces frequent duplicates")
			}
		}

		seen = append(seen, nonce)
	}

	return nil
}
