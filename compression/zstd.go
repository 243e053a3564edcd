package compression

import (
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// CompressZstd compresses data in zstd format and returns the result.
func CompressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() { _ = enc.Close() }()

	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// DecompressZstd decompresses zstd data and returns the result.
func DecompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return out, nil
}
