package command

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Slot identifies an application thread inside a Dispatcher.
type Slot int

// SlotPair keys a per-(source,destination) command queue.
type SlotPair struct {
	Src, Dst Slot
}

// Queue is a per-(source,destination) FIFO of commands. It is safe for
// one producer (Src) and one consumer (Dst) to use concurrently.
type Queue struct {
	ch chan Command
}

func newQueue() *Queue {
	return &Queue{ch: make(chan Command, 256)}
}

// Send enqueues cmd; it never blocks indefinitely on a healthy consumer
// since Dispatcher queues are generously buffered and drained by
// thread.Thread.ProcessCommands on every pass.
func (q *Queue) Send(cmd Command) {
	q.ch <- cmd
}

// Drain delivers every currently queued command to fn, without blocking
// once the queue is empty.
func (q *Queue) Drain(fn func(Command)) {
	for {
		select {
		case cmd := <-q.ch:
			fn(cmd)
		default:
			return
		}
	}
}

// Dispatcher is the process-wide bus of per-slot-pair command queues.
// Sockets and pipe endpoints never touch these queues directly; they
// call Dispatcher.Send, and the destination thread calls Drain via its
// process-commands loop (thread.Thread.ProcessCommands).
type Dispatcher struct {
	queues *xsync.MapOf[SlotPair, *Queue]

	// notify is called (with the sending slot) whenever a command is
	// enqueued for dst, so the destination's Signaler can raise the bit
	// for that specific source. It is set by the thread package at
	// registration time.
	notify *xsync.MapOf[Slot, func(src Slot)]
}

// NewDispatcher returns a fresh, empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		queues: xsync.NewMapOf[SlotPair, *Queue](),
		notify: xsync.NewMapOf[Slot, func(src Slot)](),
	}
}

// Register associates wake with slot: it is invoked after every Send
// whose destination is slot, so the owning thread's Signaler learns
// there is work to drain.
func (d *Dispatcher) Register(slot Slot, wake func(src Slot)) {
	d.notify.Store(slot, wake)
}

// Unregister drops slot's wake callback. Existing queues involving slot
// are left in place; a thread that already drained its queues and shut
// down should not receive further commands.
func (d *Dispatcher) Unregister(slot Slot) {
	d.notify.Delete(slot)
}

func (d *Dispatcher) queue(pair SlotPair) *Queue {
	q, _ := d.queues.LoadOrCompute(pair, func() *Queue { return newQueue() })
	return q
}

// Send enqueues cmd from src to dst and raises dst's signaler bit, if
// dst is still registered.
func (d *Dispatcher) Send(src, dst Slot, cmd Command) {
	d.queue(SlotPair{src, dst}).Send(cmd)
	if wake, ok := d.notify.Load(dst); ok {
		wake(src)
	}
}

// Drain delivers every pending command addressed (src -> dst) to fn.
func (d *Dispatcher) Drain(src, dst Slot, fn func(Command)) {
	if q, ok := d.queues.Load(SlotPair{src, dst}); ok {
		q.Drain(fn)
	}
}
