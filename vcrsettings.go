package k7

import (
	"log/slog"
	"net/http"

	"github.com/seborama/k7/cassette"
	"github.com/seborama/k7/encryption"
	"github.com/seborama/k7/fileio"
	"github.com/seborama/k7/storage"
)

// Setting defines an optional functional parameter as received by NewVCR().
type Setting func(vcrSettings *VCRSettings)

// VCRSettings holds a set of options for the VCR.
type VCRSettings struct {
	client           *http.Client
	transportOptions []TransportOption
}

// WithClient is an optional functional parameter to provide a VCR with
// a custom HTTP client. Its Transport, if any, performs the live calls.
func WithClient(httpClient *http.Client) Setting {
	return func(vcrSettings *VCRSettings) {
		vcrSettings.client = httpClient
	}
}

// WithOfflineVCR sets the VCR to replay responses from cassette but never make
// live calls. A request with no recorded response fails, as does any request
// made while no cassette is inserted.
func WithOfflineVCR() Setting {
	return func(vcrSettings *VCRSettings) {
		vcrSettings.transportOptions = append(vcrSettings.transportOptions, WithOfflineMode())
	}
}

// WithVCRLogger sets the logger of the VCR transport.
func WithVCRLogger(logger *slog.Logger) Setting {
	return func(vcrSettings *VCRSettings) {
		vcrSettings.transportOptions = append(vcrSettings.transportOptions, WithTransportLogger(logger))
	}
}

// CassetteConfig contains various configurable elements of an HTTP cassette.
type CassetteConfig struct {
	storageOptions  []storage.Option
	cassetteOptions []cassette.Option
	crypto          func() (*encryption.Crypter, error)
}

// CassetteOption allows to modify a cassette config.
type CassetteOption func(cfg *CassetteConfig)

// WithCassetteCrypto encrypts the cassette with AES-GCM and the key held in keyFile.
func WithCassetteCrypto(keyFile string) CassetteOption {
	return WithCassetteCryptoKind(encryption.KindAESGCM, keyFile)
}

// WithCassetteCryptoKind encrypts the cassette with the named cipher and the key held in keyFile.
func WithCassetteCryptoKind(kind, keyFile string) CassetteOption {
	return func(cfg *CassetteConfig) {
		cfg.crypto = func() (*encryption.Crypter, error) {
			key, err := encryption.KeyFromFile(keyFile)
			if err != nil {
				return nil, err
			}

			return encryption.NewCrypterOfKind(kind, key)
		}
	}
}

// WithCassetteFileIO stores the cassette on fs, e.g. fileio.NewAWS() for S3.
func WithCassetteFileIO(fs fileio.FileIO) CassetteOption {
	return func(cfg *CassetteConfig) {
		cfg.storageOptions = append(cfg.storageOptions, storage.WithFileIO(fs))
	}
}

// WithCassetteReadOnly never saves the cassette.
func WithCassetteReadOnly() CassetteOption {
	return func(cfg *CassetteConfig) {
		cfg.cassetteOptions = append(cfg.cassetteOptions, cassette.WithReadOnly())
	}
}

// WithCassetteLogger sets the logger of the cassette and of its storage.
func WithCassetteLogger(logger *slog.Logger) CassetteOption {
	return func(cfg *CassetteConfig) {
		cfg.storageOptions = append(cfg.storageOptions, storage.WithLogger(logger))
		cfg.cassetteOptions = append(cfg.cassetteOptions, cassette.WithLogger(logger))
	}
}
