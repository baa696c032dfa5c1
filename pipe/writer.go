package pipe

import (
	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/wire"
	"github.com/barepipe/barepipe/ypipe"
	"github.com/rs/zerolog"
)

// Writer is the write-side endpoint of a pipe (spec.md §4.1).
type Writer struct {
	Logger *zerolog.Logger

	q *ypipe.Ypipe

	hwm, lwm uint64

	msgsWritten uint64 // count of fully-written messages
	msgsRead    uint64 // mirror of the reader's msgs_read, via ReaderInfo
	stalled     bool

	peer       *Reader
	endpoint   Endpoint // nil once terminated
	terminated bool

	disp               *command.Dispatcher
	selfSlot, peerSlot command.Slot
}

func (w *Writer) full() bool {
	return w.hwm > 0 && w.msgsWritten-w.msgsRead == w.hwm
}

// CheckWrite reports whether the pipe currently has room for another
// message. It has the side effect of marking the writer stalled if not.
func (w *Writer) CheckWrite() bool {
	if w.full() {
		w.stalled = true
		return false
	}
	return true
}

// Write stages m. It is not visible to the reader until Flush. Returns
// false (and marks the writer stalled) if the pipe is at HWM.
func (w *Writer) Write(m *wire.Msg) bool {
	if w.full() {
		w.stalled = true
		return false
	}
	w.q.Write(m)
	if !m.More() {
		w.msgsWritten++
	}
	return true
}

// Flush makes staged frames visible to the reader. If the pipe's own
// queue reports the reader was already asleep, a Revive command is sent
// so the owning socket re-checks this pipe on its next command drain.
func (w *Writer) Flush() {
	if !w.q.Flush() {
		w.disp.Send(w.selfSlot, w.peerSlot, command.Revive(w.peer))
	}
}

// Rollback discards the trailing, not-yet-terminated part of a
// multi-part message: it pops frames with MORE set, and once it pops a
// frame without MORE, pushes that one back and stops. Complete messages
// already staged are never touched.
func (w *Writer) Rollback() {
	for {
		m, ok := w.q.Unwrite()
		if !ok {
			break
		}
		if !m.More() {
			w.q.Write(m)
			break
		}
		wire.Close(m)
	}

	if w.stalled && w.endpoint != nil && !w.full() {
		w.stalled = false
		w.endpoint.ReviveWriter(w)
	}
}

// Term clears the endpoint binding, rolls back any in-progress message,
// writes the DELIMITER sentinel and flushes it. After Term, no further
// Write calls are permitted. Unlike Reader.Term, this does not itself
// send a command: the peer reader discovers termination by reading the
// DELIMITER frame through the pipe (spec.md §4.2 step 1).
func (w *Writer) Term() {
	if w.terminated {
		return // idempotent
	}
	w.terminated = true
	w.endpoint = nil
	if w.Logger != nil {
		w.Logger.Debug().Uint64("msgs_written", w.msgsWritten).Msg("pipe: writer terminating")
	}
	w.Rollback()
	w.q.Write(wire.Delimiter())
	w.q.Flush()
}

// ProcessReaderInfo applies a returned credit count from the reader. If
// the writer was stalled, it is unstalled and the pipe-set is notified.
func (w *Writer) ProcessReaderInfo(n uint64) {
	w.msgsRead = n
	if w.stalled && w.endpoint != nil {
		w.stalled = false
		w.endpoint.ReviveWriter(w)
	}
}

// ProcessPipeTerm is step 2 of the termination handshake, run on the
// writer's thread when the reader (possibly on another thread) has
// initiated termination.
func (w *Writer) ProcessPipeTerm() {
	if w.endpoint != nil {
		w.endpoint.DetachOutPipe(w)
	}
	peer := w.peer
	w.peer = nil
	if peer != nil {
		w.disp.Send(w.selfSlot, w.peerSlot, command.PipeTermAck(peer))
	}
}

// ProcessCommand implements command.Target.
func (w *Writer) ProcessCommand(cmd command.Command) {
	switch cmd.Kind {
	case command.KindReaderInfo:
		w.ProcessReaderInfo(cmd.MsgsRead)
	case command.KindPipeTerm:
		w.ProcessPipeTerm()
	}
}

// SetEndpoint binds w to the socket's pipe-set. Called once, from
// xattach_pipes.
func (w *Writer) SetEndpoint(e Endpoint) {
	w.endpoint = e
}
