package cassette

import (
	"github.com/pkg/errors"

	k7err "github.com/seborama/k7/cassette/errors"
)

// Store maps recorded requests to their responses.
// A request holds at most one response: appending an existing request
// overwrites its response in place.
// Store is not safe for concurrent use, Cassette serialises access to it.
type Store[Req comparable, Resp any] struct {
	responses map[Req]Resp

	// keys remembers first-insertion order so that serialisation is deterministic.
	keys []Req
}

// NewStore creates an empty Store.
func NewStore[Req comparable, Resp any]() *Store[Req, Resp] {
	return &Store[Req, Resp]{
		responses: map[Req]Resp{},
	}
}

// Append records resp against req, replacing any previous response.
func (s *Store[Req, Resp]) Append(req Req, resp Resp) {
	if _, ok := s.responses[req]; !ok {
		s.keys = append(s.keys, req)
	}

	s.responses[req] = resp
}

// Response returns the response recorded for req.
// Callers that expect a miss should check Contains first: an unknown request
// is a usage error reported as k7err.ErrNotFoundInStore.
func (s *Store[Req, Resp]) Response(req Req) (Resp, error) {
	resp, ok := s.responses[req]
	if !ok {
		var zero Resp
		return zero, errors.WithStack(k7err.NewNotFoundInStoreError(req))
	}

	return resp, nil
}

// Contains returns true when req has a recorded response.
func (s *Store[Req, Resp]) Contains(req Req) bool {
	_, ok := s.responses[req]
	return ok
}

// Len returns the number of distinct recorded requests.
func (s *Store[Req, Resp]) Len() int {
	return len(s.responses)
}

// Keys returns the recorded requests in the order they were first appended.
func (s *Store[Req, Resp]) Keys() []Req {
	keys := make([]Req, len(s.keys))
	copy(keys, s.keys)

	return keys
}
