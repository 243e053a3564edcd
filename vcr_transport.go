package k7

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/seborama/k7/cassette"
	k7err "github.com/seborama/k7/cassette/errors"
)

// Handler is a cassette of HTTP interactions as seen by a Transport.
type Handler = cassette.Handler[RequestKey, Response]

// Transport is the heart of the VCR. It implements http.RoundTripper
// that wraps over the default one provided by Go's http package or a
// custom one.
//
// While a cassette is inserted, each request is offered to it first: a recorded
// response is replayed, otherwise the request is performed live and its response
// recorded. With no cassette inserted, requests go straight to the wrapped
// RoundTripper, except in offline mode.
type Transport struct {
	next    http.RoundTripper
	offline bool
	logger  *slog.Logger

	mu      sync.RWMutex
	handler Handler
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithOfflineMode replays recorded responses but never performs live calls.
// A request with no recorded response fails, and so does any request made
// while no cassette is inserted.
func WithOfflineMode() TransportOption {
	return func(t *Transport) {
		t.offline = true
	}
}

// WithTransportLogger sets the logger. The default is slog.Default().
func WithTransportLogger(logger *slog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport creates a Transport over next. A nil next means http.DefaultTransport.
func NewTransport(next http.RoundTripper, opts ...TransportOption) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}

	t := &Transport{
		next:   next,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Activate routes requests through handler.
func (t *Transport) Activate(handler Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handler != nil {
		return errors.WithStack(k7err.ErrBindingInUse)
	}

	t.handler = handler

	return nil
}

// Deactivate stops routing requests through the handler.
func (t *Transport) Deactivate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.handler = nil
}

// Client returns an HTTP client that uses this Transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip is an implementation of http.RoundTripper.
func (t *Transport) RoundTrip(httpRequest *http.Request) (*http.Response, error) {
	t.mu.RLock()
	handler := t.handler
	t.mu.RUnlock()

	if handler == nil {
		if t.offline {
			return nil, errors.Errorf("offline mode: no cassette inserted for %s %s", httpRequest.Method, httpRequest.URL)
		}
		return t.next.RoundTrip(httpRequest)
	}

	key, err := NewRequestKey(httpRequest)
	if err != nil {
		return nil, err
	}

	if response, ok := handler.LookupOrMiss(key); ok {
		return response.ToHTTPResponse(httpRequest)
	}

	if t.offline {
		return nil, errors.Errorf("offline mode: no recorded response for %s", key)
	}

	t.logger.Info("executing request to live server", slog.String("method", key.Method), slog.String("url", key.URL))

	// Note: by convention resp should be nil if an error occurs with HTTP.
	// Failed calls are not recorded.
	httpResponse, err := t.next.RoundTrip(httpRequest)
	if err != nil {
		return nil, err
	}

	response, err := ToResponse(httpResponse)
	if err != nil {
		return nil, err
	}

	handler.Record(key, *response)

	return httpResponse, nil
}
