package pipe

import (
	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/wire"
	"github.com/barepipe/barepipe/ypipe"
	"github.com/rs/zerolog"
)

// Reader is the read-side endpoint of a pipe (spec.md §4.1).
type Reader struct {
	Logger *zerolog.Logger

	q *ypipe.Ypipe

	hwm, lwm uint64
	msgsRead uint64

	peer       *Writer
	endpoint   Endpoint // nil once terminated
	terminated bool

	disp               *command.Dispatcher
	selfSlot, peerSlot command.Slot
}

// CheckRead reports whether a frame is visible. If not, this reader is
// killed (demoted to the passive suffix) in the owning pipe-set.
func (r *Reader) CheckRead() bool {
	if r.q.CheckRead() {
		return true
	}
	if r.endpoint != nil {
		r.endpoint.Kill(r)
	}
	return false
}

// Read dequeues one frame. A DELIMITER frame is intercepted here: it
// detaches this reader from the pipe-set and begins reader-side
// termination; callers never see DELIMITER.
func (r *Reader) Read() (*wire.Msg, bool) {
	m, ok := r.q.Read()
	if !ok {
		if r.endpoint != nil {
			r.endpoint.Kill(r)
		}
		return nil, false
	}

	if m.IsDelimiter() {
		if r.endpoint != nil {
			r.endpoint.DetachInPipe(r)
		}
		r.Term()
		return nil, false
	}

	if !m.More() {
		r.msgsRead++
		if r.lwm > 0 && r.msgsRead%r.lwm == 0 {
			r.disp.Send(r.selfSlot, r.peerSlot, command.ReaderInfo(r.peer, r.msgsRead))
		}
	}

	return m, true
}

// Term sends PipeTerm to the peer writer and clears the endpoint
// binding. Idempotent: a second call is a no-op.
func (r *Reader) Term() {
	if r.terminated {
		return
	}
	r.terminated = true
	r.endpoint = nil
	if r.Logger != nil {
		r.Logger.Debug().Uint64("msgs_read", r.msgsRead).Msg("pipe: reader terminating")
	}
	if r.peer != nil {
		r.disp.Send(r.selfSlot, r.peerSlot, command.PipeTerm(r.peer))
	}
}

// ProcessRevive re-activates this reader in the pipe-set. A Revive that
// arrives after this reader already began termination (endpoint == nil)
// is a no-op, per spec.md §4.2's reordering-safety note.
func (r *Reader) ProcessRevive() {
	if r.endpoint != nil {
		r.endpoint.ReviveReader(r)
	}
}

// ProcessPipeTermAck is the last step of the handshake: it nulls the
// peer pointer and destroys the pipe by draining any frames the reader
// never consumed, releasing their payload references (spec.md §4.3).
func (r *Reader) ProcessPipeTermAck() {
	r.peer = nil
	r.q.Drain()
}

// ProcessCommand implements command.Target.
func (r *Reader) ProcessCommand(cmd command.Command) {
	switch cmd.Kind {
	case command.KindRevive:
		r.ProcessRevive()
	case command.KindPipeTermAck:
		r.ProcessPipeTermAck()
	}
}

// SetEndpoint binds r to the socket's pipe-set. Called once, from
// xattach_pipes.
func (r *Reader) SetEndpoint(e Endpoint) {
	r.endpoint = e
}
