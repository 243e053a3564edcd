package cassette

// Record is the persisted form of a request and its response.
type Record[Req comparable, Resp any] struct {
	Request  Req  `json:"request" msgpack:"request"`
	Response Resp `json:"response" msgpack:"response"`
}

// Serialize returns one Record per entry in store, in first-insertion order.
func Serialize[Req comparable, Resp any](store *Store[Req, Resp]) []Record[Req, Resp] {
	records := make([]Record[Req, Resp], 0, store.Len())

	for _, req := range store.keys {
		records = append(records, Record[Req, Resp]{
			Request:  req,
			Response: store.responses[req],
		})
	}

	return records
}

// Deserialize rebuilds a Store by appending records in sequence.
// When a request appears more than once, the last record wins.
func Deserialize[Req comparable, Resp any](records []Record[Req, Resp]) *Store[Req, Resp] {
	store := NewStore[Req, Resp]()

	for _, r := range records {
		store.Append(r.Request, r.Response)
	}

	return store
}
