package k7

import (
	goerrors "errors"
	"net/http"

	"github.com/pkg/errors"

	"github.com/seborama/k7/cassette"
	"github.com/seborama/k7/stats"
	"github.com/seborama/k7/storage"
)

// Cassette is a cassette of HTTP interactions.
type Cassette = cassette.Cassette[RequestKey, Response]

// NewFileStorage creates the file storage of HTTP cassettes.
func NewFileStorage(opts ...storage.Option) *storage.File[RequestKey, Response] {
	return storage.NewFile[RequestKey, Response](opts...)
}

// LoadCassette loads the HTTP cassette stored at path.
// A path with no cassette yet produces an empty cassette.
func LoadCassette(path string, opts ...CassetteOption) (*Cassette, error) {
	cfg := &CassetteConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	storageOpts := cfg.storageOptions

	if cfg.crypto != nil {
		crypter, err := cfg.crypto()
		if err != nil {
			return nil, errors.Wrap(err, "cassette cryptographer")
		}

		storageOpts = append(storageOpts, storage.WithCrypter(crypter))
	}

	return cassette.Load[RequestKey, Response](path, NewFileStorage(storageOpts...), cfg.cassetteOptions...)
}

// ControlPanel holds the parts of a VCR that can be interacted with.
type ControlPanel struct {
	// client is the HTTP client associated with the VCR.
	client    *http.Client
	transport *Transport
	cassette  *Cassette
}

// NewVCR creates a new VCR. Insert a cassette to start recording and replaying.
func NewVCR(settings ...Setting) *ControlPanel {
	vcrSettings := &VCRSettings{}
	for _, setting := range settings {
		setting(vcrSettings)
	}

	// use a default client if none provided
	client := &http.Client{}
	if vcrSettings.client != nil {
		clientCopy := *vcrSettings.client
		client = &clientCopy
	}

	transport := NewTransport(client.Transport, vcrSettings.transportOptions...)
	client.Transport = transport

	return &ControlPanel{
		client:    client,
		transport: transport,
	}
}

// HTTPClient returns the http.Client that contains the VCR.
func (controlPanel *ControlPanel) HTTPClient() *http.Client {
	return controlPanel.client
}

// InsertCassette activates k7 on the VCR.
func (controlPanel *ControlPanel) InsertCassette(k7 *Cassette) error {
	if err := k7.Insert(controlPanel.transport); err != nil {
		return err
	}

	controlPanel.cassette = k7

	return nil
}

// EjectCassette saves the cassette and removes it from the VCR.
func (controlPanel *ControlPanel) EjectCassette() error {
	if controlPanel.cassette == nil {
		return nil
	}

	k7 := controlPanel.cassette
	controlPanel.cassette = nil

	return k7.Eject()
}

// UseCassette inserts k7 for the duration of fn and ejects it on every exit
// path of fn, including panics. Errors from fn and from ejecting are both returned.
// When k7 cannot be inserted, the cassette already on the VCR, if any, stays in place.
func (controlPanel *ControlPanel) UseCassette(k7 *Cassette, fn func(*http.Client) error) (err error) {
	if err = controlPanel.InsertCassette(k7); err != nil {
		return err
	}

	defer func() {
		err = goerrors.Join(err, controlPanel.EjectCassette())
	}()

	return fn(controlPanel.client)
}

// Stats returns Stats about the inserted cassette, nil if none is inserted.
// A cassette ejected directly with Cassette.Eject no longer counts as inserted.
func (controlPanel *ControlPanel) Stats() *stats.Stats {
	if controlPanel.cassette == nil || !controlPanel.cassette.IsActive() {
		return nil
	}

	return controlPanel.cassette.Stats()
}
