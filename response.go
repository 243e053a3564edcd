package k7

import (
	"bytes"
	"io"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// Response is a recorded HTTP response.
type Response struct {
	Status        string      `json:"status" msgpack:"status"`
	StatusCode    int         `json:"status_code" msgpack:"status_code"`
	Proto         string      `json:"proto" msgpack:"proto"`
	ProtoMajor    int         `json:"proto_major" msgpack:"proto_major"`
	ProtoMinor    int         `json:"proto_minor" msgpack:"proto_minor"`
	Header        http.Header `json:"header" msgpack:"header"`
	Body          []byte      `json:"body" msgpack:"body"`
	ContentLength int64       `json:"content_length" msgpack:"content_length"`
	Trailer       http.Header `json:"trailer,omitempty" msgpack:"trailer,omitempty"`
}

// ToResponse transcodes an HTTP response to a recorded Response.
// The body of httpResponse remains readable afterwards.
func ToResponse(httpResponse *http.Response) (*Response, error) {
	var body []byte

	// deal with body first because Trailers are sent after Body.Read returns io.EOF.
	if httpResponse.Body != nil {
		var err error

		body, err = io.ReadAll(httpResponse.Body)
		if err != nil {
			return nil, errors.Wrap(err, "read response body")
		}

		_ = httpResponse.Body.Close()
		httpResponse.Body = io.NopCloser(bytes.NewReader(body))
	}

	return &Response{
		Status:        httpResponse.Status,
		StatusCode:    httpResponse.StatusCode,
		Proto:         httpResponse.Proto,
		ProtoMajor:    httpResponse.ProtoMajor,
		ProtoMinor:    httpResponse.ProtoMinor,
		Header:        httpResponse.Header.Clone(),
		Body:          body,
		ContentLength: httpResponse.ContentLength,
		Trailer:       httpResponse.Trailer.Clone(),
	}, nil
}

// ToHTTPResponse creates an HTTP response for httpRequest from a deep copy of r,
// so that the caller cannot alter the recorded response.
func (r *Response) ToHTTPResponse(httpRequest *http.Request) (*http.Response, error) {
	var clone Response
	if err := copier.CopyWithOption(&clone, r, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "copy recorded response")
	}

	if clone.Header == nil {
		clone.Header = http.Header{}
	}

	return &http.Response{
		Status:        clone.Status,
		StatusCode:    clone.StatusCode,
		Proto:         clone.Proto,
		ProtoMajor:    clone.ProtoMajor,
		ProtoMinor:    clone.ProtoMinor,
		Header:        clone.Header,
		Body:          io.NopCloser(bytes.NewReader(clone.Body)),
		ContentLength: clone.ContentLength,
		Trailer:       clone.Trailer,
		Request:       httpRequest,
	}, nil
}
