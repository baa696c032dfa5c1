// Package config coerces loosely-typed option sources (e.g. a parsed
// JSON document or a flag set collected into a map) into the strongly
// typed values pipe.New, socket sockets and thread.New expect, using
// spf13/cast rather than a hand-rolled type switch.
package config

import (
	"fmt"

	"github.com/barepipe/barepipe/thread"
	"github.com/spf13/cast"
)

// Pipe holds the coerced HWM/LWM for a pipe.New call.
type Pipe struct {
	HWM uint64
	LWM uint64
}

// PipeFromMap reads "hwm" and "lwm" from src, defaulting LWM to 0 (which
// pipe.New then coerces to HWM) when absent.
func PipeFromMap(src map[string]any) (Pipe, error) {
	var p Pipe
	if v, ok := src["hwm"]; ok {
		hwm, err := cast.ToUint64E(v)
		if err != nil {
			return Pipe{}, fmt.Errorf("config: hwm: %w", err)
		}
		p.HWM = hwm
	}
	if v, ok := src["lwm"]; ok {
		lwm, err := cast.ToUint64E(v)
		if err != nil {
			return Pipe{}, fmt.Errorf("config: lwm: %w", err)
		}
		p.LWM = lwm
	}
	return p, nil
}

// Thread holds the coerced flags for a thread.New call.
type Thread struct {
	Flags thread.Flag
}

// ThreadFromMap reads a "poll" boolean from src and turns it into
// thread.POLL, following the ZMQ_POLL thread-creation flag.
func ThreadFromMap(src map[string]any) (Thread, error) {
	var t Thread
	if v, ok := src["poll"]; ok {
		poll, err := cast.ToBoolE(v)
		if err != nil {
			return Thread{}, fmt.Errorf("config: poll: %w", err)
		}
		if poll {
			t.Flags |= thread.POLL
		}
	}
	return t, nil
}
