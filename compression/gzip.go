// Package compression shrinks cassettes before they are stored.
package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Compress returns data as a gzip stream.
// Cassettes are written at the end of each test so speed wins over ratio.
func Compress(data []byte) ([]byte, error) {
	var out bytes.Buffer

	w, err := gzip.NewWriterLevel(&out, gzip.BestSpeed)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if _, err = w.Write(data); err != nil {
		return nil, errors.Wrap(err, "gzip cassette")
	}

	if err = w.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip cassette")
	}

	return out.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "gunzip cassette")
	}
	defer func() { _ = r.Close() }()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "gunzip cassette")
	}

	return out, nil
}
