// Package command implements the cross-thread control-message bus: a
// closed set of tagged commands delivered through per-(source,
// destination) slot queues, with the destination thread's Signaler bit
// raised on enqueue.
//
// This replaces the virtual-dispatch command hierarchy of the original
// implementation with a tagged variant and a switch on Kind at the
// destination, per spec.md §9 ("Cross-thread control messages").
package command

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind

// Kind identifies which of the closed set of commands a Command carries.
type Kind int

const (
	// Revive tells a reader that new frames were flushed, so it may be
	// reconsidered by the owning socket's pipe-set. Stalled writers are
	// unstalled by ReaderInfo instead.
	KindRevive Kind = iota

	// ReaderInfo carries the reader's up-to-date msgs_read counter
	// back to the writer, returning flow-control credit.
	KindReaderInfo

	// PipeTerm starts, or continues, the four-step termination
	// handshake described in spec.md §4.2.
	KindPipeTerm

	// PipeTermAck is the reply to PipeTerm; receiving it lets the
	// initiating reader destroy the pipe.
	KindPipeTermAck

	// Attach and Detach originate from session objects outside this
	// core (out of scope per spec.md §1); they are modeled here only
	// so the Kind enum and dispatch switch are complete.
	KindAttach
	KindDetach
)

// Target is anything a Command can be delivered to.
type Target interface {
	// ProcessCommand handles a single inbound Command. Implementations
	// must be safe to call only from the owning thread.
	ProcessCommand(cmd Command)
}

// Command is the single concrete type carried over the bus; Kind
// selects which of the optional payload fields are meaningful.
type Command struct {
	Kind Kind
	Dest Target

	// MsgsRead is valid for KindReaderInfo.
	MsgsRead uint64
}

// Revive builds a KindRevive command.
func Revive(dest Target) Command {
	return Command{Kind: KindRevive, Dest: dest}
}

// ReaderInfo builds a KindReaderInfo command.
func ReaderInfo(dest Target, msgsRead uint64) Command {
	return Command{Kind: KindReaderInfo, Dest: dest, MsgsRead: msgsRead}
}

// PipeTerm builds a KindPipeTerm command.
func PipeTerm(dest Target) Command {
	return Command{Kind: KindPipeTerm, Dest: dest}
}

// PipeTermAck builds a KindPipeTermAck command.
func PipeTermAck(dest Target) Command {
	return Command{Kind: KindPipeTermAck, Dest: dest}
}
