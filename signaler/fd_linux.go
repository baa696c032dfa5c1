//go:build linux

package signaler

import (
	"golang.org/x/sys/unix"
)

// FD is the file-descriptor-backed Signaler selected by the POLL thread
// flag (spec.md §6). It wraps a Linux eventfd so an external poller
// (epoll, or any reactor watching a plain fd) can multiplex it alongside
// sockets without this package importing that reactor.
type FD struct {
	mask
	fd int
}

// NewFD returns a new eventfd-backed Signaler.
func NewFD() (*FD, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &FD{fd: fd}, nil
}

func (s *FD) Raise(slot int) {
	wasZero := s.raise(slot)
	if wasZero {
		var one [8]byte
		one[7] = 1
		_, _ = unix.Write(s.fd, one[:])
	}
}

func (s *FD) Wait() uint64 {
	for {
		if m := s.swap(); m != 0 {
			s.drainFD()
			return m
		}
		var fds [1]unix.PollFd
		fds[0] = unix.PollFd{Fd: int32(s.fd), Events: unix.POLLIN}
		_, _ = unix.Poll(fds[:], -1)
	}
}

func (s *FD) Check() uint64 {
	m := s.swap()
	if m != 0 {
		s.drainFD()
	}
	return m
}

// drainFD empties the eventfd counter so the next Raise can re-signal it.
func (s *FD) drainFD() {
	var buf [8]byte
	_, _ = unix.Read(s.fd, buf[:])
}

func (s *FD) FD() int {
	return s.fd
}

func (s *FD) Close() error {
	return unix.Close(s.fd)
}
