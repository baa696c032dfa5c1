//go:build !linux

package signaler

import (
	"os"
	"time"
)

// FD is the file-descriptor-backed Signaler selected by the POLL thread
// flag. Outside Linux there is no eventfd; a self-pipe gives the same
// "readable iff mask != 0" contract for an external poller.
type FD struct {
	mask
	r, w *os.File
}

// NewFD returns a new self-pipe-backed Signaler.
func NewFD() (*FD, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &FD{r: r, w: w}, nil
}

func (s *FD) Raise(slot int) {
	wasZero := s.raise(slot)
	if wasZero {
		_, _ = s.w.Write([]byte{1})
	}
}

func (s *FD) Wait() uint64 {
	for {
		if m := s.swap(); m != 0 {
			s.drain()
			return m
		}
		var buf [1]byte
		_, _ = s.r.Read(buf[:])
	}
}

func (s *FD) Check() uint64 {
	m := s.swap()
	if m != 0 {
		s.drain()
	}
	return m
}

func (s *FD) drain() {
	_ = s.r.SetReadDeadline(time.Now())
	var buf [64]byte
	for {
		n, err := s.r.Read(buf[:])
		if n == 0 || err != nil {
			break
		}
	}
	_ = s.r.SetReadDeadline(time.Time{})
}

func (s *FD) FD() int {
	type fder interface{ Fd() uintptr }
	return int(any(s.r).(fder).Fd())
}

func (s *FD) Close() error {
	s.r.Close()
	return s.w.Close()
}
