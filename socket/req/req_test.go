package req

import (
	"testing"

	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/pipe"
	"github.com/barepipe/barepipe/socket"
	"github.com/barepipe/barepipe/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachServer(t *testing.T, disp *command.Dispatcher, s *Req, id int) (*pipe.Reader, *pipe.Writer) {
	t.Helper()
	reqIn, srvOut := pipe.New(disp, command.Slot(id), command.Slot(0), 0, 0, nil)
	srvIn, reqOut := pipe.New(disp, command.Slot(0), command.Slot(id), 0, 0, nil)
	s.AttachPipes(reqIn, reqOut, id)
	return srvIn, srvOut
}

func TestRecvBeforeSendFailsFSM(t *testing.T) {
	s := New(nil)
	_, err := s.XRecv()
	assert.ErrorIs(t, err, socket.ErrFSM)
}

func TestSendWithNoPeersWouldBlock(t *testing.T) {
	s := New(nil)
	err := s.XSend(&wire.Msg{Data: []byte("hi")})
	assert.ErrorIs(t, err, socket.ErrWouldBlock)
}

func TestRequestReplyRoundTrip(t *testing.T) {
	disp := command.NewDispatcher()
	s := New(nil)
	srvIn, srvOut := attachServer(t, disp, s, 1)

	require.NoError(t, s.XSend(&wire.Msg{Data: []byte("ping")}))

	m, ok := srvIn.Read()
	require.True(t, ok)
	assert.Equal(t, "ping", string(m.Data))

	require.True(t, srvOut.Write(&wire.Msg{Data: []byte("pong")}))
	srvOut.Flush()

	reply, err := s.XRecv()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(reply.Data))
}

func TestSendWhileAwaitingReplyFailsFSM(t *testing.T) {
	disp := command.NewDispatcher()
	s := New(nil)
	attachServer(t, disp, s, 1)

	require.NoError(t, s.XSend(&wire.Msg{Data: []byte("ping")}))
	err := s.XSend(&wire.Msg{Data: []byte("again")})
	assert.ErrorIs(t, err, socket.ErrFSM)
}

func TestRecvWouldBlockUntilReplyArrives(t *testing.T) {
	disp := command.NewDispatcher()
	s := New(nil)
	srvIn, srvOut := attachServer(t, disp, s, 1)
	require.NoError(t, s.XSend(&wire.Msg{Data: []byte("ping")}))

	_, err := s.XRecv()
	assert.ErrorIs(t, err, socket.ErrWouldBlock)

	_, ok := srvIn.Read()
	require.True(t, ok)
	require.True(t, srvOut.Write(&wire.Msg{Data: []byte("pong")}))
	srvOut.Flush()

	_, err = s.XRecv()
	assert.NoError(t, err)
}
