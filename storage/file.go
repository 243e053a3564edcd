// Package storage persists cassettes.
package storage

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/seborama/k7/cassette"
	k7err "github.com/seborama/k7/cassette/errors"
	"github.com/seborama/k7/compression"
	"github.com/seborama/k7/encryption"
	"github.com/seborama/k7/fileio"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// File stores cassettes as files.
//
// The location of a cassette decides its format:
//   - a ".gz" suffix compresses with gzip, a ".zst" suffix with zstd;
//   - a ".msgpack" extension (before any compression suffix) encodes with msgpack,
//     anything else with indented JSON.
//
// When a Crypter is set, the content is sealed after compression. A plain
// cassette can still be loaded and is sealed the next time it is saved.
type File[Req comparable, Resp any] struct {
	fs      fileio.FileIO
	crypter *encryption.Crypter
	logger  *slog.Logger
}

// Option configures a File storage.
type Option func(*options)

type options struct {
	fs      fileio.FileIO
	crypter *encryption.Crypter
	logger  *slog.Logger
}

// WithFileIO sets the file system. The default is the local file system.
func WithFileIO(fs fileio.FileIO) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithCrypter seals cassettes with crypter.
func WithCrypter(crypter *encryption.Crypter) Option {
	return func(o *options) {
		o.crypter = crypter
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewFile creates a File storage.
func NewFile[Req comparable, Resp any](opts ...Option) *File[Req, Resp] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.fs == nil {
		o.fs = fileio.NewOSFile()
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &File[Req, Resp]{
		fs:      o.fs,
		crypter: o.crypter,
		logger:  o.logger,
	}
}

// Load reads the records of the cassette at location.
func (f *File[Req, Resp]) Load(location string) ([]cassette.Record[Req, Resp], error) {
	data, err := f.read(location)
	if err != nil {
		return nil, err
	}

	var records []cassette.Record[Req, Resp]

	if isMsgpack(location) {
		err = msgpack.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to interpret cassette data in '%s'", location)
	}

	return records, nil
}

// Save replaces the cassette at location with records.
func (f *File[Req, Resp]) Save(location string, records []cassette.Record[Req, Resp]) error {
	if records == nil {
		records = []cassette.Record[Req, Resp]{}
	}

	var (
		data []byte
		err  error
	)

	if isMsgpack(location) {
		data, err = msgpack.Marshal(records)
	} else {
		data, err = json.MarshalIndent(records, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode cassette")
	}

	data, err = compress(location, data)
	if err != nil {
		return err
	}

	if f.crypter != nil {
		data, err = f.crypter.Seal(data)
		if err != nil {
			return errors.Wrap(err, "failed to encrypt cassette")
		}
	}

	if err = f.fs.MkdirAll(filepath.Dir(location), dirPerm); err != nil {
		return errors.Wrap(err, "failed to create cassette directory")
	}

	if err = f.fs.WriteFile(location, data, filePerm); err != nil {
		return errors.Wrap(err, "failed to write cassette")
	}

	f.logger.Debug("cassette written", slog.String("location", location), slog.Int("bytes", len(data)))

	return nil
}

// Dump returns the content of the cassette at location as indented JSON,
// decrypted and decompressed.
func (f *File[Req, Resp]) Dump(location string) ([]byte, error) {
	data, err := f.read(location)
	if err != nil {
		return nil, err
	}

	if !isMsgpack(location) {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return nil, errors.Wrapf(err, "failed to interpret cassette data in '%s'", location)
		}
		return out.Bytes(), nil
	}

	var content any
	if err := msgpack.Unmarshal(data, &content); err != nil {
		return nil, errors.Wrapf(err, "failed to interpret cassette data in '%s'", location)
	}

	out, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to render cassette as JSON")
	}

	return out, nil
}

// read returns the decrypted and decompressed content at location.
func (f *File[Req, Resp]) read(location string) ([]byte, error) {
	notExist, err := f.fs.NotExist(location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to access cassette '%s'", location)
	}
	if notExist {
		return nil, errors.Wrap(k7err.ErrNotFoundInStorage, location)
	}

	data, err := f.fs.ReadFile(location)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cassette data from file")
	}

	if encryption.IsSealed(data) {
		if f.crypter == nil {
			return nil, errors.Errorf("cassette '%s' is encrypted but no crypter was provided", location)
		}

		data, err = f.crypter.Open(data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decrypt cassette '%s'", location)
		}
	}

	return decompress(location, data)
}

func compress(location string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(location, ".gz"):
		return compression.Compress(data)
	case strings.HasSuffix(location, ".zst"):
		return compression.CompressZstd(data)
	default:
		return data, nil
	}
}

func decompress(location string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(location, ".gz"):
		return compression.Decompress(data)
	case strings.HasSuffix(location, ".zst"):
		return compression.DecompressZstd(data)
	default:
		return data, nil
	}
}

func isMsgpack(location string) bool {
	name := strings.TrimSuffix(strings.TrimSuffix(location, ".gz"), ".zst")
	return strings.HasSuffix(name, ".msgpack")
}
