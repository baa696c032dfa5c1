// Package thread implements the per-application-thread runtime (spec.md
// §6): a Signaler, a command.Slot identity on the shared Dispatcher, and
// the socket factory that binds newly created sockets to this thread's
// identity.
package thread

import (
	"time"

	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/signaler"
	"github.com/barepipe/barepipe/socket"
	"github.com/barepipe/barepipe/socket/rep"
	"github.com/barepipe/barepipe/socket/req"
	"github.com/klauspost/cpuid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Flag holds thread-creation bits.
type Flag int

// POLL selects the file-descriptor-backed Signaler over the default
// semaphore-backed one, so an external reactor can multiplex this
// thread's wakeups alongside its own fds.
const POLL Flag = 1 << iota

// delayCommands mirrors the ZMQ_DELAY_COMMANDS compile-time branch: the
// throttled non-blocking poll only pays off where a cheap, monotonic
// timestamp is actually available. klauspost/cpuid/v2 gives us that
// check without inline assembly.
var delayCommands = cpuid.CPU.Supports(cpuid.TSC, cpuid.TSCINVARIANT)

// Thread is one application thread's runtime context: its Signaler, its
// identity as a Dispatcher source/destination slot, and the sockets it
// owns.
type Thread struct {
	Logger *zerolog.Logger

	disp *command.Dispatcher
	slot command.Slot
	sig  signaler.Signaler

	sockets  []socket.Socket
	throttle rate.Sometimes
}

// New returns a new Thread registered as slot on disp. flags selects the
// Signaler variant (POLL for the fd-backed one, otherwise the
// semaphore-backed one).
func New(disp *command.Dispatcher, slot command.Slot, flags Flag, logger *zerolog.Logger) (*Thread, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	var sig signaler.Signaler
	var err error
	if flags&POLL != 0 {
		sig, err = signaler.NewFD()
	} else {
		sig = signaler.NewSem()
	}
	if err != nil {
		return nil, err
	}

	t := &Thread{
		Logger:   logger,
		disp:     disp,
		slot:     slot,
		sig:      sig,
		throttle: rate.Sometimes{Interval: time.Millisecond},
	}
	disp.Register(slot, func(src command.Slot) { sig.Raise(int(src)) })
	return t, nil
}

// Slot reports this thread's identity on the shared Dispatcher.
func (t *Thread) Slot() command.Slot {
	return t.slot
}

// Signaler returns the Signaler backing this thread, e.g. for an
// external poller to register its fd via Signaler.FD.
func (t *Thread) Signaler() signaler.Signaler {
	return t.sig
}

// ProcessCommands drains every command addressed to this thread (spec.md
// §6's process_commands). If block is true, it waits for at least one
// command to arrive. Otherwise it is a non-blocking check; if throttle is
// also true and the platform exposes a cheap monotonic clock, the check
// itself is skipped unless roughly a millisecond has elapsed since the
// last one, mirroring the RDTSC-gated optimization in the original
// implementation.
func (t *Thread) ProcessCommands(block, throttle bool) {
	var signals uint64
	if block {
		signals = t.sig.Wait()
	} else {
		if throttle && delayCommands {
			ran := false
			t.throttle.Do(func() { ran = true })
			if !ran {
				return
			}
		}
		signals = t.sig.Check()
	}

	if signals == 0 {
		return
	}

	for i := 0; i < 64; i++ {
		if signals&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		src := command.Slot(i)
		t.disp.Drain(src, t.slot, func(cmd command.Command) {
			cmd.Dest.ProcessCommand(cmd)
		})
	}
}

// CreateSocket builds a new socket of the given type, bound to this
// thread, and tracks it for RemoveSocket. Only the socket patterns this
// module implements (REP, REQ) are supported; anything else fails with
// socket.ErrInvalid, matching the original's EINVAL default case.
func (t *Thread) CreateSocket(typ socket.SockType) (socket.Socket, error) {
	var s socket.Socket
	switch typ {
	case socket.REP:
		s = rep.New(t.Logger)
	case socket.REQ:
		s = req.New(t.Logger)
	default:
		return nil, socket.ErrInvalid
	}

	t.sockets = append(t.sockets, s)
	return s, nil
}

// RemoveSocket unregisters s from this thread. It does not touch s's
// pipe-set.
func (t *Thread) RemoveSocket(s socket.Socket) {
	for i, x := range t.sockets {
		if x == s {
			t.sockets = append(t.sockets[:i], t.sockets[i+1:]...)
			return
		}
	}
}

// Sockets returns the sockets currently owned by this thread.
func (t *Thread) Sockets() []socket.Socket {
	return t.sockets
}

// Close releases this thread's Dispatcher registration and Signaler.
func (t *Thread) Close() error {
	t.disp.Unregister(t.slot)
	return t.sig.Close()
}
