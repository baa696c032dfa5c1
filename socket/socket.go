package socket

import "github.com/barepipe/barepipe/pipe"

// Socket is the handle thread.Thread works with, independent of which
// concrete pattern (socket/rep.Rep, socket/req.Req, ...) backs it.
type Socket interface {
	pipe.Endpoint

	// Kind reports the socket's stable type code.
	Kind() SockType

	// Stats snapshots the socket's pipe-set for introspection.
	Stats() Stats
}

// Kind implements Socket for any pattern embedding *Base.
func (b *Base) Kind() SockType {
	return b.Type
}
