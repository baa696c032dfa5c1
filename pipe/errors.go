package pipe

import "errors"

// ErrWouldBlock is what sockets return when a send finds the pipe at its
// high water mark (Writer.Write reported false) or a receive finds nothing
// to read; the caller must retry, on a send with the same frame once
// credit returns.
var ErrWouldBlock = errors.New("pipe: would block")
