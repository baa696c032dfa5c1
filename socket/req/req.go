// Package req implements a minimal REQ socket: the strict request/reply
// mirror image of socket/rep.Rep, used here mainly as a test peer to
// exercise REP end-to-end. Requests round-robin across peers exactly as
// REP's receives do; a reply is only accepted from the peer the
// outstanding request was sent to.
package req

import (
	"github.com/barepipe/barepipe/pipe"
	"github.com/barepipe/barepipe/socket"
	"github.com/barepipe/barepipe/wire"
	"github.com/rs/zerolog"
)

// Req is a REQ socket. The zero value is not usable; use New.
type Req struct {
	*socket.Base

	expectingReply bool
	more           bool
	replyIn        *pipe.Reader // peer the outstanding request was sent to
}

// New returns a new, empty REQ socket.
func New(logger *zerolog.Logger) *Req {
	return &Req{Base: socket.NewBase(socket.REQ, logger)}
}

// AttachPipes wires a newly connected peer's pipe pair into the
// pipe-set, binding this Req as the Endpoint both halves call back into.
func (s *Req) AttachPipes(in *pipe.Reader, out *pipe.Writer, peerID int) {
	s.XAttachPipes(s, in, out, peerID)
}

// SetOption always fails: REQ exposes no tunables.
func (s *Req) SetOption(name string, value any) error {
	return socket.ErrInvalid
}

// Kill implements pipe.Endpoint.
func (s *Req) Kill(r *pipe.Reader) {
	s.XKill(r)
}

// ReviveReader implements pipe.Endpoint.
func (s *Req) ReviveReader(r *pipe.Reader) {
	s.XReviveIn(r)
}

// ReviveWriter implements pipe.Endpoint. Like REP, a stalled request
// write simply surfaces as ErrWouldBlock to the caller; there is no
// pipe-set state to flip on recovery.
func (s *Req) ReviveWriter(w *pipe.Writer) {}

// DetachInPipe implements pipe.Endpoint.
func (s *Req) DetachInPipe(r *pipe.Reader) {
	if s.expectingReply && r == s.replyIn {
		s.replyIn = nil
	}
	s.XDetachInPipe(r)
}

// DetachOutPipe implements pipe.Endpoint.
func (s *Req) DetachOutPipe(w *pipe.Writer) {
	s.XDetachOutPipe(w)
}

// XSend implements the request half of the REQ state machine. It fails
// with socket.ErrFSM if a reply is still outstanding.
func (s *Req) XSend(m *wire.Msg) error {
	if s.expectingReply {
		return socket.ErrFSM
	}
	if s.Active == 0 {
		return socket.ErrWouldBlock
	}

	out := s.OutPipes[s.Current]
	if !out.Write(m) {
		return socket.ErrWouldBlock
	}

	more := m.More()
	if !more {
		out.Flush()
		s.replyIn = s.InPipes[s.Current]
		s.expectingReply = true
		s.Current++
		if s.Current >= s.Active {
			s.Current = 0
		}
	}
	return nil
}

// XRecv implements the reply half of the REQ state machine. It fails
// with socket.ErrFSM unless a request is outstanding, and with
// socket.ErrWouldBlock if the reply hasn't arrived yet. If the peer that
// owed the reply is gone, the request is abandoned silently and the
// socket returns to the ready-to-send state.
func (s *Req) XRecv() (*wire.Msg, error) {
	if !s.expectingReply {
		return nil, socket.ErrFSM
	}
	if s.replyIn == nil {
		s.expectingReply = false
		s.more = false
		return nil, socket.ErrWouldBlock
	}

	m, ok := s.replyIn.Read()
	if !ok {
		return nil, socket.ErrWouldBlock
	}

	s.more = m.More()
	if !s.more {
		s.expectingReply = false
		s.replyIn = nil
	}
	return m, nil
}

// XHasIn reports whether the outstanding reply is available.
func (s *Req) XHasIn() bool {
	return s.expectingReply && s.replyIn != nil && s.replyIn.CheckRead()
}

// XHasOut reports whether the socket is ready to send a request frame.
func (s *Req) XHasOut() bool {
	if s.expectingReply {
		return false
	}
	return s.Active > 0
}
