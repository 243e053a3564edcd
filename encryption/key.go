package encryption

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// KindAESGCM names the AES-GCM cipher.
	KindAESGCM = "aesgcm"

	// KindChaCha20Poly1305 names the XChaCha20-Poly1305 cipher.
	KindChaCha20Poly1305 = "chacha20poly1305"
)

// KeyFromFile reads a raw key from a file.
// The key is sensitive, never share it openly.
func KeyFromFile(keyFile string) ([]byte, error) {
	key, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, errors.Wrap(err, "key file")
	}

	return key, nil
}

// KeyFromBase64 decodes a standard base64 encoded key.
func KeyFromBase64(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "base64 key")
	}

	return key, nil
}

// NewCrypterOfKind creates a Crypter of the named kind with a random nonce generator.
func NewCrypterOfKind(kind string, key []byte) (*Crypter, error) {
	switch kind {
	case KindAESGCM, "":
		return NewAESGCMWithRandomNonceGenerator(key)
	case KindChaCha20Poly1305:
		return NewChaCha20Poly1305WithRandomNonceGenerator(key)
	default:
		return nil, errors.Errorf("unknown cipher '%s'", kind)
	}
}
