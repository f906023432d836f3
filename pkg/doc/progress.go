package doc

// Reporter receives progress events as an operation advances. Events are
// delivered synchronously and in order on the operation's own goroutine,
// inside the engine critical section, so implementations must return
// promptly and must not call back into the assembler.
type Reporter interface {
	Report(current, total int, context string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(current, total int, context string)

func (f ReporterFunc) Report(current, total int, context string) {
	f(current, total, context)
}

// report forwards to r when present. A nil reporter is a no-op, never an
// error.
func report(r Reporter, current, total int, context string) {
	if r != nil {
		r.Report(current, total, context)
	}
}
