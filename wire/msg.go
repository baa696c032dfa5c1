// Package wire defines the message descriptor that moves through pipes.
package wire

import "sync"

// Flag holds per-frame bits carried alongside a Msg.
type Flag byte

const (
	// MORE marks a frame as a non-final part of a multi-part message.
	MORE Flag = 1 << iota
)

// Has returns true iff f is set in fl.
func (fl Flag) Has(f Flag) bool {
	return fl&f != 0
}

// Msg is a single frame moving through a pipe. Msgs are moved, never
// copied, across pipe boundaries: once written, the caller must not
// touch Data again.
type Msg struct {
	Data  []byte
	Flags Flag

	// delim marks this Msg as the DELIMITER sentinel written by
	// Writer.Term to signal end-of-stream; it carries no payload and
	// is never surfaced to API callers.
	delim bool
}

// Delimiter returns a new DELIMITER sentinel frame.
func Delimiter() *Msg {
	return &Msg{delim: true}
}

// IsDelimiter reports whether m is the DELIMITER sentinel.
func (m *Msg) IsDelimiter() bool {
	return m != nil && m.delim
}

// More reports whether m has the MORE flag set.
func (m *Msg) More() bool {
	return m.Flags.Has(MORE)
}

// reset clears m so it can be reused from the pool.
func (m *Msg) reset() {
	m.Data = m.Data[:0]
	m.Flags = 0
	m.delim = false
}

// pool backs Get/Put; a single process-wide pool is enough since Msg
// carries no pipe-specific state.
var pool sync.Pool

// Get returns an empty Msg from the pool, or a new one.
func Get() *Msg {
	if m, ok := pool.Get().(*Msg); ok {
		return m
	}
	return new(Msg)
}

// Put resets m and returns it to the pool. Put(nil) is a no-op.
// Never Put a Msg that is still reachable from a pipe or reader.
func Put(m *Msg) {
	if m == nil {
		return
	}
	m.reset()
	pool.Put(m)
}

// Close releases m's payload. Pipes call this when discarding a frame
// that was never handed to a reader (e.g. on pipe teardown).
func Close(m *Msg) {
	Put(m)
}
