// Package ypipe implements the batched single-producer/single-consumer
// queue shared by a pipe.Reader/pipe.Writer pair. Writes are staged locally by the writer and
// only become visible to the reader once Flush publishes them; the reader
// only ever sees complete, previously-flushed batches.
//
// The writer side (Write, Unwrite, Flush) must only ever be called from
// one goroutine; the reader side (CheckRead, Read) must only ever be
// called from a single, possibly different, goroutine. Cross-goroutine
// visibility is established through atomic.Pointer, not a mutex.
package ypipe

import (
	"sync/atomic"

	"github.com/barepipe/barepipe/wire"
)

type node struct {
	msg  *wire.Msg
	next atomic.Pointer[node]
}

// Ypipe is the lock-free SPSC ring described in spec.md §3/§4.1 as "Q".
type Ypipe struct {
	// writer-owned: frames written but not yet flushed
	staged []*wire.Msg

	// writer-owned: tail of the published chain
	last *node

	// reader-owned, but read by the writer in Flush to detect whether
	// the reader had already drained everything up to last
	readCur atomic.Pointer[node]
}

// New returns an empty Ypipe.
func New() *Ypipe {
	sentinel := &node{}
	p := &Ypipe{last: sentinel}
	p.readCur.Store(sentinel)
	return p
}

// Write stages m. It is not visible to the reader until Flush.
func (p *Ypipe) Write(m *wire.Msg) {
	p.staged = append(p.staged, m)
}

// Unwrite pops the most recently staged, not-yet-flushed frame.
// Used by Writer.Rollback to discard an incomplete multi-part tail.
func (p *Ypipe) Unwrite() (*wire.Msg, bool) {
	n := len(p.staged)
	if n == 0 {
		return nil, false
	}
	m := p.staged[n-1]
	p.staged = p.staged[:n-1]
	return m, true
}

// Flush publishes all staged frames in one atomic step (the linearization
// point from spec.md §5). It returns false iff the reader had already
// drained the pipe before this flush (i.e. it was "asleep"), in which case
// the caller (Writer.Flush) must send an out-of-band revive.
func (p *Ypipe) Flush() (awake bool) {
	if len(p.staged) == 0 {
		return true
	}

	wasAsleep := p.readCur.Load() == p.last

	first := &node{msg: p.staged[0]}
	cur := first
	for _, m := range p.staged[1:] {
		next := &node{msg: m}
		cur.next.Store(next)
		cur = next
	}
	p.last.next.Store(first)
	p.last = cur
	p.staged = p.staged[:0]

	return !wasAsleep
}

// CheckRead reports whether a frame is currently visible to the reader.
func (p *Ypipe) CheckRead() bool {
	cur := p.readCur.Load()
	return cur.next.Load() != nil
}

// Read dequeues the next visible frame, if any.
func (p *Ypipe) Read() (*wire.Msg, bool) {
	cur := p.readCur.Load()
	next := cur.next.Load()
	if next == nil {
		return nil, false
	}
	p.readCur.Store(next)
	return next.msg, true
}

// Drain closes every frame still visible to the reader. Called once, by
// the pipe's destructor, after the termination handshake completes.
func (p *Ypipe) Drain() {
	for {
		m, ok := p.Read()
		if !ok {
			return
		}
		wire.Close(m)
	}
}
