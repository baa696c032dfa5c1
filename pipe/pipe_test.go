package pipe

import (
	"testing"

	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEndpoint records every callback pipe endpoints make into their
// owning socket's pipe-set, without any real pipe-set bookkeeping.
type fakeEndpoint struct {
	killed        []*Reader
	revivedReader []*Reader
	revivedWriter []*Writer
	detachedIn    []*Reader
	detachedOut   []*Writer
}

func (f *fakeEndpoint) Kill(r *Reader)          { f.killed = append(f.killed, r) }
func (f *fakeEndpoint) ReviveReader(r *Reader)  { f.revivedReader = append(f.revivedReader, r) }
func (f *fakeEndpoint) ReviveWriter(w *Writer)  { f.revivedWriter = append(f.revivedWriter, w) }
func (f *fakeEndpoint) DetachInPipe(r *Reader)  { f.detachedIn = append(f.detachedIn, r) }
func (f *fakeEndpoint) DetachOutPipe(w *Writer) { f.detachedOut = append(f.detachedOut, w) }

func newTestPipe(t *testing.T, hwm, lwm uint64) (*command.Dispatcher, *Reader, *Writer) {
	t.Helper()
	disp := command.NewDispatcher()
	r, w := New(disp, command.Slot(0), command.Slot(1), hwm, lwm, nil)
	re, we := &fakeEndpoint{}, &fakeEndpoint{}
	r.SetEndpoint(re)
	w.SetEndpoint(we)
	return disp, r, w
}

func TestWriteFlushRead(t *testing.T) {
	_, r, w := newTestPipe(t, 0, 0)

	ok := w.Write(&wire.Msg{Data: []byte("hello")})
	require.True(t, ok)
	assert.False(t, r.CheckRead(), "not visible before Flush")

	w.Flush()
	assert.True(t, r.CheckRead())

	m, ok := r.Read()
	require.True(t, ok)
	assert.Equal(t, "hello", string(m.Data))
}

func TestWriteBlocksAtHWM(t *testing.T) {
	_, _, w := newTestPipe(t, 2, 0)

	assert.True(t, w.Write(&wire.Msg{Data: []byte("1")}))
	assert.True(t, w.Write(&wire.Msg{Data: []byte("2")}))
	assert.False(t, w.Write(&wire.Msg{Data: []byte("3")}), "third write should hit HWM")
}

func TestMultiPartFrameDoesNotCountTowardHWM(t *testing.T) {
	_, _, w := newTestPipe(t, 1, 0)

	assert.True(t, w.Write(&wire.Msg{Data: []byte("part1"), Flags: wire.MORE}))
	assert.True(t, w.Write(&wire.Msg{Data: []byte("part2"), Flags: wire.MORE}))
	assert.True(t, w.Write(&wire.Msg{Data: []byte("part3")}), "final frame completes msg 1 of 1")
	assert.False(t, w.Write(&wire.Msg{Data: []byte("next")}), "msg 2 would exceed HWM of 1")
}

func TestReaderInfoReturnsCreditAndUnstallsWriter(t *testing.T) {
	disp, r, w := newTestPipe(t, 1, 1)
	we := w.endpoint.(*fakeEndpoint)

	require.True(t, w.Write(&wire.Msg{Data: []byte("1")}))
	w.Flush()
	require.False(t, w.Write(&wire.Msg{Data: []byte("2")}))
	assert.True(t, w.stalled)

	_, ok := r.Read()
	require.True(t, ok)

	// Reader.Read sent a ReaderInfo command (lwm == 1) from the reader's
	// slot to the writer's slot; deliver it as thread.ProcessCommands would.
	disp.Drain(command.Slot(0), command.Slot(1), func(cmd command.Command) {
		cmd.Dest.ProcessCommand(cmd)
	})

	assert.False(t, w.stalled)
	require.Len(t, we.revivedWriter, 1)
	assert.Same(t, w, we.revivedWriter[0])
}

func TestRollbackDiscardsIncompleteMultiPartTail(t *testing.T) {
	_, r, w := newTestPipe(t, 0, 0)

	require.True(t, w.Write(&wire.Msg{Data: []byte("complete")}))
	require.True(t, w.Write(&wire.Msg{Data: []byte("partial"), Flags: wire.MORE}))

	w.Rollback()
	w.Flush()

	m, ok := r.Read()
	require.True(t, ok)
	assert.Equal(t, "complete", string(m.Data))

	_, ok = r.Read()
	assert.False(t, ok, "the rolled-back partial frame must not be visible")
}

func TestTerminationHandshakeWriterInitiated(t *testing.T) {
	disp, r, w := newTestPipe(t, 0, 0)
	re := r.endpoint.(*fakeEndpoint)
	we := w.endpoint.(*fakeEndpoint)

	// Step 1: the writer's own socket already detached it from the
	// pipe-set and calls Term directly; Term rolls back, writes
	// DELIMITER, flushes, and nulls its own endpoint back-pointer.
	w.Term()
	assert.Nil(t, w.endpoint)

	// Step 2: reader reads the DELIMITER, detaches itself and starts
	// reader-side termination (sends PipeTerm to the writer's slot).
	_, ok := r.Read()
	assert.False(t, ok)
	require.Len(t, re.detachedIn, 1)
	assert.Nil(t, r.endpoint)

	// Step 3: writer's thread drains PipeTerm. Since w.endpoint is
	// already nil (this side initiated termination itself), DetachOutPipe
	// is not called again; the writer simply acks back to the reader.
	disp.Drain(command.Slot(0), command.Slot(1), func(cmd command.Command) {
		cmd.Dest.ProcessCommand(cmd)
	})
	assert.Len(t, we.detachedOut, 0)
	assert.Nil(t, w.peer)

	// Step 4: reader's thread drains PipeTermAck and destroys the pipe.
	disp.Drain(command.Slot(1), command.Slot(0), func(cmd command.Command) {
		cmd.Dest.ProcessCommand(cmd)
	})
	assert.Nil(t, r.peer)
}

func TestTerminationHandshakeReaderInitiated(t *testing.T) {
	disp, r, w := newTestPipe(t, 0, 0)
	we := w.endpoint.(*fakeEndpoint)

	// The reader's own socket decided to kill this pipe without ever
	// reading a DELIMITER (e.g. a Kill-then-term path); the writer's
	// endpoint is still attached, so the reactive detach runs.
	r.Term()
	assert.Nil(t, r.endpoint)

	disp.Drain(command.Slot(0), command.Slot(1), func(cmd command.Command) {
		cmd.Dest.ProcessCommand(cmd)
	})
	require.Len(t, we.detachedOut, 1)
	assert.Same(t, w, we.detachedOut[0])
	assert.Nil(t, w.peer)
}

func TestTermIsIdempotent(t *testing.T) {
	_, _, w := newTestPipe(t, 0, 0)
	w.Term()
	assert.NotPanics(t, func() { w.Term() })
}

func TestCheckReadKillsOnEmpty(t *testing.T) {
	_, r, _ := newTestPipe(t, 0, 0)
	re := r.endpoint.(*fakeEndpoint)

	assert.False(t, r.CheckRead())
	require.Len(t, re.killed, 1)
	assert.Same(t, r, re.killed[0])
}
