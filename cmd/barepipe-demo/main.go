// Command barepipe-demo wires up two application threads in a single
// process, attaches a REQ socket on one and a REP socket on the other
// through a pair of in-process pipes, and round-trips a handful of
// requests while printing each socket's pipe-set stats.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/barepipe/barepipe/command"
	"github.com/barepipe/barepipe/pipe"
	"github.com/barepipe/barepipe/socket"
	"github.com/barepipe/barepipe/socket/rep"
	"github.com/barepipe/barepipe/socket/req"
	"github.com/barepipe/barepipe/thread"
	"github.com/barepipe/barepipe/wire"
	"github.com/rs/zerolog"
)

var (
	optRequests = flag.Int("n", 5, "number of requests to round-trip")
	optHWM      = flag.Uint64("hwm", 1000, "pipe high-water mark")
	optVerbose  = flag.Bool("v", false, "debug-level logging")
)

const (
	reqSlot command.Slot = 0
	repSlot command.Slot = 1
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *optVerbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	disp := command.NewDispatcher()

	reqThread, err := thread.New(disp, reqSlot, 0, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create req thread")
	}
	defer reqThread.Close()

	repThread, err := thread.New(disp, repSlot, 0, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create rep thread")
	}
	defer repThread.Close()

	reqSock, err := reqThread.CreateSocket(socket.REQ)
	if err != nil {
		logger.Fatal().Err(err).Msg("create req socket")
	}
	repSock, err := repThread.CreateSocket(socket.REP)
	if err != nil {
		logger.Fatal().Err(err).Msg("create rep socket")
	}

	r, rr := reqSock.(*req.Req), repSock.(*rep.Rep)
	connect(disp, r, rr, *optHWM, &logger)

	for i := 0; i < *optRequests; i++ {
		body := fmt.Sprintf("request-%d", i)
		if err := r.XSend(&wire.Msg{Data: []byte(body)}); err != nil {
			logger.Error().Err(err).Msg("send request")
			continue
		}

		repThread.ProcessCommands(false, false)
		m, err := rr.XRecv()
		if err != nil {
			logger.Error().Err(err).Msg("receive request")
			continue
		}
		logger.Info().Str("body", string(m.Data)).Msg("rep: got request")

		reply := append([]byte("reply-to-"), m.Data...)
		if err := rr.XSend(&wire.Msg{Data: reply}); err != nil {
			logger.Error().Err(err).Msg("send reply")
			continue
		}

		reqThread.ProcessCommands(false, false)
		reply2, err := r.XRecv()
		if err != nil {
			logger.Error().Err(err).Msg("receive reply")
			continue
		}
		logger.Info().Str("body", string(reply2.Data)).Msg("req: got reply")
	}

	logger.Info().
		Interface("req", r.Stats()).
		Interface("rep", rr.Stats()).
		Msg("final stats")
}

// connect wires a full-duplex pair of in-process pipes between r and rr:
// one carrying requests from r to rr, the other replies from rr to r.
func connect(disp *command.Dispatcher, r *req.Req, rr *rep.Rep, hwm uint64, logger *zerolog.Logger) {
	reqReader, reqWriter := pipe.New(disp, repSlot, reqSlot, hwm, 0, logger)
	repReader, repWriter := pipe.New(disp, reqSlot, repSlot, hwm, 0, logger)

	rr.AttachPipes(reqReader, repWriter, int(reqSlot))
	r.AttachPipes(repReader, reqWriter, int(repSlot))
}
