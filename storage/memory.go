package storage

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/seborama/k7/cassette"
	k7err "github.com/seborama/k7/cassette/errors"
)

// Memory keeps cassettes in memory. It is useful for tests that must not touch disk.
type Memory[Req comparable, Resp any] struct {
	mu        sync.RWMutex
	cassettes map[string][]cassette.Record[Req, Resp]
}

// NewMemory creates an empty Memory storage.
func NewMemory[Req comparable, Resp any]() *Memory[Req, Resp] {
	return &Memory[Req, Resp]{
		cassettes: map[string][]cassette.Record[Req, Resp]{},
	}
}

// Load returns a copy of the records saved at location.
func (m *Memory[Req, Resp]) Load(location string) ([]cassette.Record[Req, Resp], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records, ok := m.cassettes[location]
	if !ok {
		return nil, errors.Wrap(k7err.ErrNotFoundInStorage, location)
	}

	return append([]cassette.Record[Req, Resp](nil), records...), nil
}

// Save replaces the records at location with a copy of records.
func (m *Memory[Req, Resp]) Save(location string, records []cassette.Record[Req, Resp]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cassettes[location] = append([]cassette.Record[Req, Resp]{}, records...)

	return nil
}

// Delete removes the cassette at location, if any.
func (m *Memory[Req, Resp]) Delete(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.cassettes, location)
}
