// Package rep implements the REP socket pattern (spec.md §4.5): strict
// request/reply alternation, round-robin receive across peers, and
// replies routed back to the exact peer a request came from.
package rep

import (
	"github.com/barepipe/barepipe/pipe"
	"github.com/barepipe/barepipe/socket"
	"github.com/barepipe/barepipe/wire"
	"github.com/rs/zerolog"
)

// Rep is a REP socket. The zero value is not usable; use New.
type Rep struct {
	*socket.Base

	sendingReply bool
	more         bool
	replyPipe    *pipe.Writer
}

// New returns a new, empty REP socket.
func New(logger *zerolog.Logger) *Rep {
	return &Rep{Base: socket.NewBase(socket.REP, logger)}
}

// AttachPipes wires a newly connected peer's pipe pair into the
// pipe-set (spec.md §4.4's xattach_pipes), binding this Rep as the
// Endpoint both halves will call back into.
func (s *Rep) AttachPipes(in *pipe.Reader, out *pipe.Writer, peerID int) {
	s.XAttachPipes(s, in, out, peerID)
}

// SetOption always fails: REP exposes no tunables (spec.md §6).
func (s *Rep) SetOption(name string, value any) error {
	return socket.ErrInvalid
}

// Kill implements pipe.Endpoint.
func (s *Rep) Kill(r *pipe.Reader) {
	s.XKill(r)
}

// ReviveReader implements pipe.Endpoint.
func (s *Rep) ReviveReader(r *pipe.Reader) {
	s.XReviveIn(r)
}

// ReviveWriter implements pipe.Endpoint. It is intentionally empty: REP
// only ever consults writer readiness through replyPipe at Send time, so
// HWM stalls on the reply path simply surface as ErrWouldBlock to the
// caller rather than flipping any pipe-set state (spec.md §9).
func (s *Rep) ReviveWriter(w *pipe.Writer) {}

// DetachInPipe implements pipe.Endpoint. The FSM-consistency assertion
// guards against a peer disconnecting mid-multi-part-request on the
// pipe the socket is currently mid-read from.
func (s *Rep) DetachInPipe(r *pipe.Reader) {
	assertf(s.sendingReply || !s.more || s.currentIn() != r,
		"rep: inpipe detached while mid-receive from it")
	s.XDetachInPipe(r)
}

// DetachOutPipe implements pipe.Endpoint. If the detached writer is the
// socket's pending reply pipe, the reply target is forgotten: a later
// Send to a gone peer becomes a silent drop (spec.md §4.4, §7.4).
func (s *Rep) DetachOutPipe(w *pipe.Writer) {
	assertf(!s.sendingReply || !s.more || s.replyPipe != w,
		"rep: reply pipe detached mid-reply")
	if s.sendingReply && w == s.replyPipe {
		s.replyPipe = nil
	}
	s.XDetachOutPipe(w)
}

func (s *Rep) currentIn() *pipe.Reader {
	if s.Active == 0 {
		return nil
	}
	return s.InPipes[s.Current]
}

func assertf(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// XRecv implements the receive half of the REP state machine.
//
// It fails with socket.ErrFSM if a reply is in progress. Otherwise it
// walks at most Active peers starting at Current (inclusive) in
// round-robin order; the first peer that yields a frame wins. On a
// non-MORE frame it latches replyPipe to that peer's writer and advances
// Current. If no peer has anything to read, it fails with
// socket.ErrWouldBlock.
func (s *Rep) XRecv() (*wire.Msg, error) {
	if s.sendingReply {
		return nil, socket.ErrFSM
	}

	for count := s.Active; count > 0; count-- {
		cur := s.Current
		m, ok := s.InPipes[cur].Read()
		assertf(!(s.more && !ok), "rep: reader failed mid-multi-part message")

		if ok {
			s.more = m.More()
			if !s.more {
				s.replyPipe = s.OutPipes[cur]
				s.sendingReply = true
				s.Current++
				if s.Current >= s.Active {
					s.Current = 0
				}
			}
			return m, nil
		}

		s.Current++
		if s.Current >= s.Active {
			s.Current = 0
		}
	}

	return nil, socket.ErrWouldBlock
}

// XSend implements the send half of the REP state machine.
//
// It fails with socket.ErrFSM unless a reply is in progress. If the
// request's peer has since disappeared (replyPipe == nil), the frame is
// dropped silently and the MORE state machine still advances, but no
// flush is attempted on the gone pipe (spec.md §9's guarded-null rule).
// Otherwise it writes to replyPipe, failing with socket.ErrWouldBlock on
// HWM so the caller retries the same frame. On the final frame of the
// reply, it flushes and clears the pending-reply state.
func (s *Rep) XSend(m *wire.Msg) error {
	if !s.sendingReply {
		return socket.ErrFSM
	}

	if s.replyPipe != nil {
		written := s.replyPipe.Write(m)
		assertf(!s.more || written, "rep: reply write failed mid-multi-part reply")
		if !written {
			return socket.ErrWouldBlock
		}
	} else {
		wire.Close(m)
	}

	s.more = m.More()
	if !s.more {
		if s.replyPipe != nil {
			s.replyPipe.Flush()
		}
		s.sendingReply = false
		s.replyPipe = nil
	}
	return nil
}

// XHasIn reports whether a receivable frame is currently available.
func (s *Rep) XHasIn() bool {
	if !s.sendingReply && s.more {
		return true
	}

	for count := s.Active; count > 0; count-- {
		if s.InPipes[s.Current].CheckRead() {
			return !s.sendingReply
		}
		s.Current++
		if s.Current >= s.Active {
			s.Current = 0
		}
	}
	return false
}

// XHasOut reports whether the socket is ready to send a reply frame.
func (s *Rep) XHasOut() bool {
	if s.sendingReply && s.more {
		return true
	}
	return s.sendingReply
}
