package cassette_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seborama/k7/cassette"
	k7err "github.com/seborama/k7/cassette/errors"
)

const cassettePath = "fixtures/TestCassette.json"

func TestCassette_ScenarioA_RecordsOnMiss(t *testing.T) {
	s := newStorageMock()
	b := &bindingMock{}

	k7, err := cassette.Load[string, string](cassettePath, s)
	require.NoError(t, err)
	require.Zero(t, k7.Len())

	require.NoError(t, k7.Insert(b))
	require.True(t, b.active())

	got := b.call("GET /x", func() string { return "200 OK" })
	assert.Equal(t, "200 OK", got)
	assert.Equal(t, 1, b.liveCalls)

	require.NoError(t, k7.Eject())
	assert.False(t, b.active())

	assert.Equal(t, []cassette.Record[string, string]{{Request: "GET /x", Response: "200 OK"}}, s.data[cassettePath])
}

func TestCassette_ScenarioB_ReplaysLoadedRecord(t *testing.T) {
	s := newStorageMock()
	s.data[cassettePath] = []cassette.Record[string, string]{{Request: "GET /x", Response: "200 OK"}}
	b := &bindingMock{}

	k7, err := cassette.Load[string, string](cassettePath, s)
	require.NoError(t, err)
	require.True(t, k7.Contains("GET /x"))

	err = k7.Use(b, func(k7 *cassette.Cassette[string, string]) error {
		got := b.call("GET /x", func() string { return "live" })
		assert.Equal(t, "200 OK", got)
		return nil
	})
	require.NoError(t, err)

	assert.Zero(t, b.liveCalls)
	assert.Equal(t, 1, k7.PlayCountFor("GET /x"))
	assert.Equal(t, 1, k7.PlayCount())
}

func TestCassette_ScenarioC_LoadFromNowhere(t *testing.T) {
	k7, err := cassette.Load[string, string]("does/not/exist.json", newStorageMock())
	require.NoError(t, err)

	assert.Zero(t, k7.Len())
	assert.False(t, k7.IsActive())
	assert.Equal(t, "Cassette containing 0 recorded response(s)", k7.String())
}

func TestCassette_ScenarioD_RecordedNotReplayed(t *testing.T) {
	s := newStorageMock()
	b := &bindingMock{}

	k7, err := cassette.Load[string, string](cassettePath, s)
	require.NoError(t, err)

	err = k7.Use(b, func(*cassette.Cassette[string, string]) error {
		b.call("GET /a", func() string { return "a" })
		b.call("GET /b", func() string { return "b" })
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, s.data[cassettePath], 2)
	assert.Zero(t, k7.PlayCount())
	assert.Zero(t, k7.PlayCountFor("GET /a"))
	assert.Zero(t, k7.PlayCountFor("GET /b"))
	assert.Equal(t, "Cassette containing 2 recorded response(s)", k7.String())
}

func TestCassette_ReplayAfterRecordInSameScope(t *testing.T) {
	b := &bindingMock{}
	k7 := cassette.New[string, string](cassettePath, newStorageMock())

	err := k7.Use(b, func(*cassette.Cassette[string, string]) error {
		b.call("GET /a", func() string { return "a" })
		b.call("GET /a", func() string { return "not called" })
		b.call("GET /a", func() string { return "not called" })
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, b.liveCalls)
	assert.Equal(t, 2, k7.PlayCountFor("GET /a"))
	assert.Equal(t, 2, k7.PlayCount())

	st := k7.Stats()
	assert.Equal(t, 1, st.TotalRecords)
	assert.Equal(t, 0, st.RecordsLoaded)
	assert.Equal(t, 1, st.RecordsRecorded)
	assert.Equal(t, 2, st.RecordsPlayed)
}

func TestCassette_LoadFailure(t *testing.T) {
	s := newStorageMock()
	s.loadErr = errors.New("corrupt cassette")

	k7, err := cassette.Load[string, string](cassettePath, s)
	require.Error(t, err)
	assert.Nil(t, k7)
	assert.Contains(t, err.Error(), "corrupt cassette")
}

func TestCassette_EjectDeactivatesWhenSaveFails(t *testing.T) {
	s := newStorageMock()
	s.saveErr = errors.New("disk full")
	b := &bindingMock{}

	k7 := cassette.New[string, string](cassettePath, s)
	require.NoError(t, k7.Insert(b))

	err := k7.Eject()
	require.Error(t, err)
	assert.True(t, errors.Is(err, k7err.ErrStorageWrite))
	assert.Contains(t, err.Error(), "disk full")

	assert.False(t, b.active())
	assert.Equal(t, 1, b.deactivations)
	assert.False(t, k7.IsActive())
}

func TestCassette_EjectInactiveIsNoop(t *testing.T) {
	s := newStorageMock()

	k7 := cassette.New[string, string](cassettePath, s)
	require.NoError(t, k7.Eject())

	assert.Zero(t, s.saves)
}

func TestCassette_InsertTwice(t *testing.T) {
	b := &bindingMock{}
	k7 := cassette.New[string, string](cassettePath, newStorageMock())

	require.NoError(t, k7.Insert(b))
	err := k7.Insert(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, k7err.ErrCassetteActive))
}

func TestCassette_BindingInUse(t *testing.T) {
	b := &bindingMock{}
	k7a := cassette.New[string, string]("a.json", newStorageMock())
	k7b := cassette.New[string, string]("b.json", newStorageMock())

	require.NoError(t, k7a.Insert(b))

	err := k7b.Insert(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, k7err.ErrBindingInUse))
	assert.False(t, k7b.IsActive())
}

func TestCassette_UseReturnsBothErrors(t *testing.T) {
	s := newStorageMock()
	s.saveErr = errors.New("disk full")
	b := &bindingMock{}

	k7 := cassette.New[string, string](cassettePath, s)

	err := k7.Use(b, func(*cassette.Cassette[string, string]) error {
		return errors.New("test failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test failure")
	assert.True(t, errors.Is(err, k7err.ErrStorageWrite))
	assert.False(t, b.active())
}

func TestCassette_UseEjectsOnPanic(t *testing.T) {
	s := newStorageMock()
	b := &bindingMock{}

	k7 := cassette.New[string, string](cassettePath, s)

	require.PanicsWithValue(t, "boom", func() {
		_ = k7.Use(b, func(*cassette.Cassette[string, string]) error {
			b.call("GET /x", func() string { return "200 OK" })
			panic("boom")
		})
	})

	assert.False(t, b.active())
	assert.False(t, k7.IsActive())
	assert.Len(t, s.data[cassettePath], 1)
}

func TestCassette_ReadOnly(t *testing.T) {
	s := newStorageMock()
	b := &bindingMock{}

	k7 := cassette.New[string, string](cassettePath, s, cassette.WithReadOnly())

	err := k7.Use(b, func(*cassette.Cassette[string, string]) error {
		b.call("GET /x", func() string { return "200 OK" })
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, k7.Len())
	assert.Zero(t, s.saves)
	assert.NotContains(t, s.data, cassettePath)
}

func TestCassette_LookupOrMiss(t *testing.T) {
	k7 := cassette.New[string, string](cassettePath, newStorageMock())

	resp, ok := k7.LookupOrMiss("GET /x")
	assert.False(t, ok)
	assert.Empty(t, resp)
	assert.Zero(t, k7.PlayCount())

	k7.Record("GET /x", "200 OK")

	resp, ok = k7.LookupOrMiss("GET /x")
	assert.True(t, ok)
	assert.Equal(t, "200 OK", resp)
	assert.Equal(t, 1, k7.PlayCount())

	_, err := k7.Response("GET /y")
	assert.True(t, errors.Is(err, k7err.ErrNotFoundInStore))
}

func TestCassette_StatsNil(t *testing.T) {
	var k7 *cassette.Cassette[string, string]
	assert.Nil(t, k7.Stats())
}

type storageMock struct {
	data    map[string][]cassette.Record[string, string]
	loadErr error
	saveErr error
	saves   int
}

func newStorageMock() *storageMock {
	return &storageMock{data: map[string][]cassette.Record[string, string]{}}
}

func (s *storageMock) Load(location string) ([]cassette.Record[string, string], error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	records, ok := s.data[location]
	if !ok {
		return nil, errors.WithStack(k7err.ErrNotFoundInStorage)
	}

	return records, nil
}

func (s *storageMock) Save(location string, records []cassette.Record[string, string]) error {
	s.saves++

	if s.saveErr != nil {
		return s.saveErr
	}

	s.data[location] = records

	return nil
}

// bindingMock stands in for an interception layer: call offers a request to the
// active handler and performs the "live" call on a miss.
type bindingMock struct {
	handler       cassette.Handler[string, string]
	liveCalls     int
	deactivations int
}

func (b *bindingMock) Activate(handler cassette.Handler[string, string]) error {
	if b.handler != nil {
		return errors.WithStack(k7err.ErrBindingInUse)
	}

	b.handler = handler

	return nil
}

func (b *bindingMock) Deactivate() {
	b.handler = nil
	b.deactivations++
}

func (b *bindingMock) active() bool {
	return b.handler != nil
}

func (b *bindingMock) call(req string, live func() string) string {
	if b.handler == nil {
		b.liveCalls++
		return live()
	}

	if resp, ok := b.handler.LookupOrMiss(req); ok {
		return resp
	}

	b.liveCalls++
	resp := live()
	b.handler.Record(req, resp)

	return resp
}
