package socket

//go:generate go run github.com/dmarkham/enumer -type SockType -trimprefix ""

// SockType is one of the stable socket type codes from spec.md §6.
type SockType int

const (
	P2P SockType = iota
	PUB
	SUB
	REQ
	REP
	XREQ
	XREP
	UPSTREAM
	DOWNSTREAM
)
