package socket

import (
	"testing"

	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/pipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSock is a minimal pipe.Endpoint that delegates straight to Base,
// standing in for a concrete pattern (socket/rep.Rep, socket/req.Req).
type fakeSock struct {
	*Base
}

func (f *fakeSock) Kill(r *pipe.Reader)          { f.XKill(r) }
func (f *fakeSock) ReviveReader(r *pipe.Reader)  { f.XReviveIn(r) }
func (f *fakeSock) ReviveWriter(w *pipe.Writer)  {}
func (f *fakeSock) DetachInPipe(r *pipe.Reader)  { f.XDetachInPipe(r) }
func (f *fakeSock) DetachOutPipe(w *pipe.Writer) { f.XDetachOutPipe(w) }

func newPeer(t *testing.T, disp *command.Dispatcher, src, dst command.Slot) (*pipe.Reader, *pipe.Writer) {
	t.Helper()
	r, w := pipe.New(disp, src, dst, 0, 0, nil)
	return r, w
}

func TestAttachPromotesIntoActivePrefix(t *testing.T) {
	disp := command.NewDispatcher()
	s := &fakeSock{Base: NewBase(REP, nil)}

	r1, w1 := newPeer(t, disp, 0, 1)
	s.XAttachPipes(s, r1, w1, 1)
	assert.Equal(t, 1, s.Active)
	assert.Len(t, s.InPipes, 1)

	r2, w2 := newPeer(t, disp, 0, 1)
	s.XAttachPipes(s, r2, w2, 2)
	assert.Equal(t, 2, s.Active)
	assert.Len(t, s.InPipes, 2)
}

func TestKillDemotesThenReviveRestores(t *testing.T) {
	disp := command.NewDispatcher()
	s := &fakeSock{Base: NewBase(REP, nil)}

	r1, w1 := newPeer(t, disp, 0, 1)
	r2, w2 := newPeer(t, disp, 0, 1)
	s.XAttachPipes(s, r1, w1, 1)
	s.XAttachPipes(s, r2, w2, 2)
	require.Equal(t, 2, s.Active)

	s.XKill(r1)
	assert.Equal(t, 1, s.Active)

	s.XReviveIn(r1)
	assert.Equal(t, 2, s.Active)
}

func TestDetachInPipeWithLiveOutPipeNullsOnly(t *testing.T) {
	disp := command.NewDispatcher()
	s := &fakeSock{Base: NewBase(REP, nil)}

	r1, w1 := newPeer(t, disp, 0, 1)
	s.XAttachPipes(s, r1, w1, 1)

	s.XDetachInPipe(r1)
	assert.Equal(t, 0, s.Active)
	require.Len(t, s.InPipes, 1)
	assert.Nil(t, s.InPipes[0])
	assert.Same(t, w1, s.OutPipes[0])
}

func TestDetachBothHalvesErasesSlot(t *testing.T) {
	disp := command.NewDispatcher()
	s := &fakeSock{Base: NewBase(REP, nil)}

	r1, w1 := newPeer(t, disp, 0, 1)
	s.XAttachPipes(s, r1, w1, 1)

	s.XDetachInPipe(r1)
	s.XDetachOutPipe(w1)
	assert.Len(t, s.InPipes, 0)
	assert.Len(t, s.OutPipes, 0)
	assert.Equal(t, 0, s.Active)
}

func TestCurrentResetsAfterShrinkPastIt(t *testing.T) {
	disp := command.NewDispatcher()
	s := &fakeSock{Base: NewBase(REP, nil)}

	r1, w1 := newPeer(t, disp, 0, 1)
	r2, w2 := newPeer(t, disp, 0, 1)
	s.XAttachPipes(s, r1, w1, 1)
	s.XAttachPipes(s, r2, w2, 2)
	s.Current = 1

	s.XKill(r2)
	assert.Equal(t, 0, s.Current, "Current must reset once it falls off the shrunk active prefix")
}

func TestStatsReflectsPipeSet(t *testing.T) {
	disp := command.NewDispatcher()
	s := &fakeSock{Base: NewBase(REP, nil)}

	r1, w1 := newPeer(t, disp, 0, 1)
	s.XAttachPipes(s, r1, w1, 1)

	st := s.Stats()
	assert.Equal(t, Stats{Peers: 1, Active: 1, Current: 0}, st)

	buf := st.ToJSON(nil)
	var back Stats
	require.NoError(t, back.FromJSON(buf))
	assert.Equal(t, st, back)
}

func TestKindReportsSockType(t *testing.T) {
	s := &fakeSock{Base: NewBase(REP, nil)}
	assert.Equal(t, REP, s.Kind())
}
