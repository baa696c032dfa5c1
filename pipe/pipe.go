// Package pipe implements the lock-free uni-directional message queue and
// its two endpoints (Reader, Writer), including credit-based flow
// control and the asynchronous termination handshake, per spec.md §3,
// §4.1, §4.2 and §4.3.
package pipe

import (
	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/ypipe"
	"github.com/rs/zerolog"
)

// Endpoint is the back-reference each Reader/Writer holds into the owning
// socket's pipe-set (spec.md §9, "non-owning back-pointers"). It is a
// use-only handle, nulled during termination, never ownership.
type Endpoint interface {
	// Kill demotes a reader that found nothing to read into the
	// passive suffix of the pipe-set.
	Kill(r *Reader)

	// ReviveReader promotes a reader back into the active prefix
	// after a Revive command tells it new data may be available.
	ReviveReader(r *Reader)

	// ReviveWriter is notified when a stalled writer regains credit.
	ReviveWriter(w *Writer)

	// DetachInPipe removes a reader from routing once its peer has
	// begun termination.
	DetachInPipe(r *Reader)

	// DetachOutPipe removes a writer from routing once its peer has
	// begun termination.
	DetachOutPipe(w *Writer)
}

// New creates a pipe and returns its two endpoints. reader and writer
// live on readerSlot and writerSlot respectively, and exchange commands
// through disp. logger defaults to zerolog.Nop() when nil, per the
// ambient logging convention thread.New/socket.NewBase also follow.
func New(disp *command.Dispatcher, readerSlot, writerSlot command.Slot, hwm, lwm uint64, logger *zerolog.Logger) (*Reader, *Writer) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	if lwm == 0 || lwm > hwm {
		lwm = hwm
	}

	q := ypipe.New()

	r := &Reader{
		Logger:   logger,
		q:        q,
		hwm:      hwm,
		lwm:      lwm,
		disp:     disp,
		selfSlot: readerSlot,
		peerSlot: writerSlot,
	}
	w := &Writer{
		Logger:   logger,
		q:        q,
		hwm:      hwm,
		lwm:      lwm,
		disp:     disp,
		selfSlot: writerSlot,
		peerSlot: readerSlot,
	}
	r.peer = w
	w.peer = r
	return r, w
}
