package socket

import (
	"errors"

	"github.com/barepipe/barepipe/pipe"
)

// ErrFSM is EFSM: a send/receive call made in the wrong phase of a
// pattern's state machine (spec.md §6, §7.1).
var ErrFSM = errors.New("socket: state-machine violation")

// ErrInvalid is EINVAL: an unsupported socket type or option.
var ErrInvalid = errors.New("socket: invalid argument")

// ErrWouldBlock is EAGAIN: re-exported from package pipe so callers
// need not import it separately to check send/receive results.
var ErrWouldBlock = pipe.ErrWouldBlock
