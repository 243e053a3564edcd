package cassette

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	k7err "github.com/seborama/k7/cassette/errors"
	"github.com/seborama/k7/stats"
)

// Storage is the durable storage a cassette is loaded from and saved to.
type Storage[Req comparable, Resp any] interface {
	// Load returns the records stored at location.
	// It fails with k7err.ErrNotFoundInStorage when location holds no cassette.
	Load(location string) ([]Record[Req, Resp], error)

	// Save replaces the content at location with records.
	Save(location string, records []Record[Req, Resp]) error
}

// Cassette contains the recorded responses of a set of requests.
//
// A cassette is inactive until it is inserted into a Binding. While inserted, it
// serves recorded responses and records new ones. Ejecting it saves its records
// and deactivates the binding.
type Cassette[Req comparable, Resp any] struct {
	path     string
	storage  Storage[Req, Resp]
	logger   *slog.Logger
	readOnly bool

	mu            sync.Mutex
	store         *Store[Req, Resp]
	playCounts    *PlayCounts[Req]
	recordsLoaded int
	binding       Binding[Req, Resp]
}

type config struct {
	logger   *slog.Logger
	readOnly bool
}

// Option defines a signature for options that can be passed
// to create a new Cassette.
type Option func(*config)

// WithLogger sets the logger of the cassette. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithReadOnly prevents the cassette from being saved.
// New records are still kept in memory and replayed for the life of the cassette.
func WithReadOnly() Option {
	return func(cfg *config) {
		cfg.readOnly = true
	}
}

// New creates an empty, inactive cassette that will be saved to path in storage.
func New[Req comparable, Resp any](path string, storage Storage[Req, Resp], opts ...Option) *Cassette[Req, Resp] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Cassette[Req, Resp]{
		path:       path,
		storage:    storage,
		logger:     cfg.logger.With(slog.String("cassette", path)),
		readOnly:   cfg.readOnly,
		store:      NewStore[Req, Resp](),
		playCounts: NewPlayCounts[Req](),
	}
}

// Load creates an inactive cassette hydrated with the records found at path in storage.
// A path that holds no cassette yet produces an empty cassette.
func Load[Req comparable, Resp any](path string, storage Storage[Req, Resp], opts ...Option) (*Cassette[Req, Resp], error) {
	k7 := New(path, storage, opts...)

	records, err := storage.Load(path)
	if errors.Is(err, k7err.ErrNotFoundInStorage) {
		k7.logger.Debug("no cassette in storage, starting blank")
		return k7, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load cassette '%s'", path)
	}

	k7.store = Deserialize(records)
	k7.recordsLoaded = k7.store.Len()

	k7.logger.Debug("cassette loaded", slog.Int("records", k7.recordsLoaded))

	return k7, nil
}

// Insert activates binding with this cassette as its handler.
func (k7 *Cassette[Req, Resp]) Insert(binding Binding[Req, Resp]) error {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	if k7.binding != nil {
		return errors.WithStack(k7err.ErrCassetteActive)
	}

	if err := binding.Activate(k7); err != nil {
		return errors.Wrapf(err, "failed to insert cassette '%s'", k7.path)
	}

	k7.binding = binding

	k7.logger.Debug("cassette inserted")

	return nil
}

// Eject saves the cassette and then deactivates its binding.
// The binding is deactivated even when saving fails, in which case the
// error is a *k7err.StorageWriteError.
// Ejecting an inactive cassette does nothing.
func (k7 *Cassette[Req, Resp]) Eject() error {
	k7.mu.Lock()
	binding := k7.binding
	k7.mu.Unlock()

	if binding == nil {
		return nil
	}

	defer func() {
		binding.Deactivate()

		k7.mu.Lock()
		k7.binding = nil
		k7.mu.Unlock()

		k7.logger.Debug("cassette ejected")
	}()

	return k7.Save()
}

// Use inserts the cassette into binding for the duration of fn.
// The cassette is ejected on every exit path of fn, including panics.
// Errors from fn and from ejecting are both returned.
func (k7 *Cassette[Req, Resp]) Use(binding Binding[Req, Resp], fn func(*Cassette[Req, Resp]) error) (err error) {
	if err = k7.Insert(binding); err != nil {
		return err
	}

	defer func() {
		err = goerrors.Join(err, k7.Eject())
	}()

	return fn(k7)
}

// IsActive returns true while the cassette is inserted in a binding.
func (k7 *Cassette[Req, Resp]) IsActive() bool {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	return k7.binding != nil
}

// Save writes the records of the cassette to storage.
func (k7 *Cassette[Req, Resp]) Save() error {
	if k7.readOnly {
		k7.logger.Debug("cassette is read-only, not saving")
		return nil
	}

	records := k7.Records()

	if err := k7.storage.Save(k7.path, records); err != nil {
		k7.logger.Error("failed to save cassette", slog.String("error", err.Error()))
		return k7err.NewStorageWriteError(k7.path, err)
	}

	k7.logger.Debug("cassette saved", slog.Int("records", len(records)))

	return nil
}

// LookupOrMiss returns the recorded response for req and marks it played.
// It returns false when req was never recorded: the caller should perform the
// real call and Record its outcome.
func (k7 *Cassette[Req, Resp]) LookupOrMiss(req Req) (Resp, bool) {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	resp, err := k7.store.Response(req)
	if err != nil {
		if !errors.Is(err, k7err.ErrNotFoundInStore) {
			k7.logger.Error("unexpected cassette lookup failure", slog.String("error", err.Error()))
		}

		k7.logger.Debug("no recorded response", slog.Any("request", req))

		var zero Resp
		return zero, false
	}

	k7.playCounts.MarkPlayed(req)

	k7.logger.Debug("replaying recorded response", slog.Any("request", req))

	return resp, true
}

// Record adds the outcome of a real call to the cassette.
func (k7 *Cassette[Req, Resp]) Record(req Req, resp Resp) {
	k7.Append(req, resp)

	k7.logger.Debug("recorded new response", slog.Any("request", req))
}

// Append adds resp for req, replacing any previously recorded response.
func (k7 *Cassette[Req, Resp]) Append(req Req, resp Resp) {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	k7.store.Append(req, resp)
}

// Response returns the recorded response for req, or an error
// matching k7err.ErrNotFoundInStore.
func (k7 *Cassette[Req, Resp]) Response(req Req) (Resp, error) {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	return k7.store.Response(req)
}

// Contains returns true when req has a recorded response.
func (k7 *Cassette[Req, Resp]) Contains(req Req) bool {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	return k7.store.Contains(req)
}

// Len returns the number of recorded requests.
func (k7 *Cassette[Req, Resp]) Len() int {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	return k7.store.Len()
}

// MarkPlayed counts a replay of req.
func (k7 *Cassette[Req, Resp]) MarkPlayed(req Req) {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	k7.playCounts.MarkPlayed(req)
}

// PlayCount returns the number of replays across all requests.
func (k7 *Cassette[Req, Resp]) PlayCount() int {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	return k7.playCounts.Total()
}

// PlayCountFor returns the number of replays of req.
func (k7 *Cassette[Req, Resp]) PlayCountFor(req Req) int {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	return k7.playCounts.CountFor(req)
}

// Records returns the serialised form of the cassette.
func (k7 *Cassette[Req, Resp]) Records() []Record[Req, Resp] {
	k7.mu.Lock()
	defer k7.mu.Unlock()

	return Serialize(k7.store)
}

// Path returns the storage location of the cassette.
func (k7 *Cassette[Req, Resp]) Path() string {
	return k7.path
}

// Stats returns the cassette's Stats.
func (k7 *Cassette[Req, Resp]) Stats() *stats.Stats {
	if k7 == nil {
		return nil
	}

	k7.mu.Lock()
	defer k7.mu.Unlock()

	return &stats.Stats{
		TotalRecords:    k7.store.Len(),
		RecordsLoaded:   k7.recordsLoaded,
		RecordsRecorded: k7.store.Len() - k7.recordsLoaded,
		RecordsPlayed:   k7.playCounts.Total(),
	}
}

func (k7 *Cassette[Req, Resp]) String() string {
	return fmt.Sprintf("Cassette containing %d recorded response(s)", k7.Len())
}
