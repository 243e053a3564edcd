package cassette

// PlayCounts tracks how many times each request was replayed.
// It knows nothing of the Store.
type PlayCounts[Req comparable] struct {
	counts map[Req]int
	total  int
}

// NewPlayCounts creates a PlayCounts with every count at zero.
func NewPlayCounts[Req comparable]() *PlayCounts[Req] {
	return &PlayCounts[Req]{
		counts: map[Req]int{},
	}
}

// MarkPlayed increments the play count of req.
func (pc *PlayCounts[Req]) MarkPlayed(req Req) {
	pc.counts[req]++
	pc.total++
}

// CountFor returns the play count of req, 0 if it was never played.
func (pc *PlayCounts[Req]) CountFor(req Req) int {
	count, ok := pc.counts[req]
	if !ok {
		return 0
	}

	return count
}

// Total returns the number of plays across all requests.
func (pc *PlayCounts[Req]) Total() int {
	return pc.total
}
