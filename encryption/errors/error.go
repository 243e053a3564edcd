// Package errors holds the errors of the encryption package.
package errors

// ErrCrypto reports a cryptographic misconfiguration or failure.
type ErrCrypto struct {
	message string
}

// NewErrCrypto creates a new ErrCrypto.
func NewErrCrypto(message string) *ErrCrypto {
	return &ErrCrypto{message: message}
}

func (e *ErrCrypto) Error() string {
	return "crypto: " + e.message
}

// Is matches any *ErrCrypto, so errors.Is(err, &ErrCrypto{}) detects the kind.
func (e *ErrCrypto) Is(target error) bool {
	_, ok := target.(*ErrCrypto)
	return ok
}
