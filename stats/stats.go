package stats

import "fmt"

// Stats holds information about a cassette session.
type Stats struct {
	// TotalRecords is the number of distinct requests currently on the cassette.
	TotalRecords int

	// RecordsLoaded is the number of records hydrated from storage when the cassette was loaded.
	RecordsLoaded int

	// RecordsRecorded is the number of requests recorded during this session.
	// A request recorded again over a loaded record does not count.
	RecordsRecorded int

	// RecordsPlayed is the number of responses served straight from the cassette.
	// A record replayed three times counts three times.
	RecordsPlayed int
}

func (s Stats) String() string {
	return fmt.Sprintf("total=%d loaded=%d recorded=%d played=%d",
		s.TotalRecords, s.RecordsLoaded, s.RecordsRecorded, s.RecordsPlayed)
}
