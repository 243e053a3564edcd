package k7

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// RequestKey identifies an HTTP request on a cassette.
// Two requests match when their keys are equal: same method, same URL and same body.
type RequestKey struct {
	Method     string `json:"method" msgpack:"method"`
	URL        string `json:"url" msgpack:"url"`
	BodySHA256 string `json:"body_sha256,omitempty" msgpack:"body_sha256,omitempty"`
}

// NewRequestKey returns the key of httpRequest.
// The request body remains readable afterwards.
func NewRequestKey(httpRequest *http.Request) (RequestKey, error) {
	body, err := readRequestBody(httpRequest)
	if err != nil {
		return RequestKey{}, err
	}

	key := RequestKey{
		Method: httpRequest.Method,
		URL:    httpRequest.URL.String(),
	}

	if len(body) > 0 {
		sum := sha256.Sum256(body)
		key.BodySHA256 = hex.EncodeToString(sum[:])
	}

	return key, nil
}

func (k RequestKey) String() string {
	return k.Method + " " + k.URL
}

// readRequestBody returns a copy of the request body without consuming it.
func readRequestBody(httpRequest *http.Request) ([]byte, error) {
	if httpRequest.Body == nil || httpRequest.Body == http.NoBody {
		return nil, nil
	}

	if httpRequest.GetBody != nil {
		rc, err := httpRequest.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "request GetBody")
		}
		defer func() { _ = rc.Close() }()

		body, err := io.ReadAll(rc)
		return body, errors.Wrap(err, "read request body")
	}

	body, err := io.ReadAll(httpRequest.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}

	_ = httpRequest.Body.Close()
	httpRequest.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
