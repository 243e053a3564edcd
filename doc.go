/*
Package k7 records and replays HTTP interactions for offline unit / behavioural / integration tests
thereby acting as an HTTP mock.

The first time a request is made, it is performed live and its response is recorded on a cassette.
When the cassette is saved and later loaded again, the recorded response is replayed instead.

The cassette itself lives in package cassette and is not tied to HTTP. This package provides the
net/http interception binding: a Transport that offers every request to the inserted cassette.
*/
package k7
