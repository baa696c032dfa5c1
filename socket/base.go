// Package socket implements the pipe-set management shared by every
// socket pattern (spec.md §4.4): two parallel, equal-length sequences of
// peer pipe endpoints, partitioned by an `Active` cursor into a ready
// prefix and a stalled/passive suffix, with O(1) swap-based transitions
// between the two.
package socket

import (
	"fmt"

	"github.com/barepipe/barepipe/pipe"
	"github.com/rs/zerolog"
)

// Base holds the pipe-set common to every socket pattern. Concrete
// patterns (e.g. socket/rep.Rep) embed *Base and implement
// pipe.Endpoint, delegating the generic bookkeeping below and adding
// their own routing/FSM rules on top.
type Base struct {
	Logger *zerolog.Logger
	Type   SockType

	// InPipes[i] and OutPipes[i] refer to the same peer. A slot may
	// hold nil in one sequence if that half has been detached while
	// the other half is still live.
	InPipes  []*pipe.Reader
	OutPipes []*pipe.Writer
	peerIDs  []int

	// Active is the length of the ready prefix; Current is the next
	// peer index considered for round-robin, always in [0, Active).
	Active  int
	Current int
}

// NewBase returns an empty pipe-set for a socket of the given type.
func NewBase(typ SockType, logger *zerolog.Logger) *Base {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Base{Type: typ, Logger: logger}
}

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

func (b *Base) swap(i, j int) {
	b.InPipes[i], b.InPipes[j] = b.InPipes[j], b.InPipes[i]
	b.OutPipes[i], b.OutPipes[j] = b.OutPipes[j], b.OutPipes[i]
	b.peerIDs[i], b.peerIDs[j] = b.peerIDs[j], b.peerIDs[i]
}

func (b *Base) indexOfIn(r *pipe.Reader) int {
	for i, in := range b.InPipes {
		if in == r {
			return i
		}
	}
	assertf(false, "socket: reader not found in pipe-set")
	return -1
}

func (b *Base) indexOfOut(w *pipe.Writer) int {
	for i, out := range b.OutPipes {
		if out == w {
			return i
		}
	}
	assertf(false, "socket: writer not found in pipe-set")
	return -1
}

// XAttachPipes appends a newly attached peer's pipe pair and promotes it
// straight into the active prefix. self is bound as the Endpoint both
// halves report back to; it is normally the concrete pattern embedding
// Base, not Base itself, since ReviveWriter is pattern-specific.
func (b *Base) XAttachPipes(self pipe.Endpoint, in *pipe.Reader, out *pipe.Writer, peerID int) {
	assertf(len(b.InPipes) == len(b.OutPipes), "pipe-set length mismatch")

	b.InPipes = append(b.InPipes, in)
	b.OutPipes = append(b.OutPipes, out)
	b.peerIDs = append(b.peerIDs, peerID)

	idx := len(b.InPipes) - 1
	b.swap(idx, b.Active)
	b.Active++

	in.SetEndpoint(self)
	out.SetEndpoint(self)
}

// XKill moves the active reader at index(r) into the passive suffix.
// A reader that is already passive is left where it is.
func (b *Base) XKill(r *pipe.Reader) {
	idx := b.indexOfIn(r)
	if idx >= b.Active {
		return
	}
	b.Active--
	b.swap(idx, b.Active)
	b.fixCurrent()
}

// XReviveIn moves reader r back into the active prefix. A reader that is
// already active is left where it is.
func (b *Base) XReviveIn(r *pipe.Reader) {
	idx := b.indexOfIn(r)
	if idx < b.Active {
		return
	}
	b.swap(idx, b.Active)
	b.Active++
}

// fixCurrent resets Current to 0 if it fell off the active prefix after
// a shrink, per the invariant in spec.md §4.4.
func (b *Base) fixCurrent() {
	if b.Current == b.Active {
		b.Current = 0
	}
}

// XDetachInPipe implements spec.md §4.4's xdetach_inpipe: if the twin
// out-pipe is still live, only the in-pipe half is nulled (and demoted
// if it was active); otherwise both halves are gone and the slot is
// erased entirely. The index is cached once at entry, before any swap
// can move r, per the open question noted in spec.md §9.
func (b *Base) XDetachInPipe(r *pipe.Reader) {
	idx := b.indexOfIn(r)
	assertf(len(b.InPipes) == len(b.OutPipes), "pipe-set length mismatch")

	if b.OutPipes[idx] != nil {
		b.InPipes[idx] = nil
		if idx < b.Active {
			b.Active--
			b.swap(idx, b.Active)
			b.fixCurrent()
		}
		return
	}

	if idx < b.Active {
		b.Active--
		b.fixCurrent()
	}
	b.erase(idx)
}

// XDetachOutPipe is the symmetric counterpart of XDetachInPipe.
func (b *Base) XDetachOutPipe(w *pipe.Writer) {
	idx := b.indexOfOut(w)
	assertf(len(b.InPipes) == len(b.OutPipes), "pipe-set length mismatch")

	if b.InPipes[idx] != nil {
		b.OutPipes[idx] = nil
		if idx < b.Active {
			b.Active--
			b.swap(idx, b.Active)
			b.fixCurrent()
		}
		return
	}

	if idx < b.Active {
		b.Active--
		b.fixCurrent()
	}
	b.erase(idx)
}

func (b *Base) erase(idx int) {
	b.InPipes = append(b.InPipes[:idx], b.InPipes[idx+1:]...)
	b.OutPipes = append(b.OutPipes[:idx], b.OutPipes[idx+1:]...)
	b.peerIDs = append(b.peerIDs[:idx], b.peerIDs[idx+1:]...)
}
