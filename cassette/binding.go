package cassette

// Handler is what a Binding routes intercepted calls to while a cassette is inserted.
type Handler[Req comparable, Resp any] interface {
	// LookupOrMiss returns the recorded response for req and true, or false when
	// the real call must proceed.
	LookupOrMiss(req Req) (Resp, bool)

	// Record stores the outcome of a real call performed after a miss.
	Record(req Req, resp Resp)
}

// Binding is an interception mechanism that offers every outbound call to a Handler.
type Binding[Req comparable, Resp any] interface {
	// Activate starts routing calls through handler.
	// It fails with k7err.ErrBindingInUse if another handler is already active.
	Activate(handler Handler[Req, Resp]) error

	// Deactivate stops routing calls. It is safe to call when not active.
	Deactivate()
}
