// Package jsonutil provides small append-style JSON encode/decode
// helpers, built directly on github.com/buger/jsonparser instead of
// encoding/json, for the hot-path introspection type (socket.Stats) that
// would otherwise round-trip through reflection.
package jsonutil

import (
	"strconv"
	"unsafe"

	jsp "github.com/buger/jsonparser"
)

// Bool appends val as a JSON boolean.
func Bool(dst []byte, val bool) []byte {
	if val {
		return append(dst, `true`...)
	}
	return append(dst, `false`...)
}

// UnBool parses a JSON boolean (or "1"/"0") from src.
func UnBool(src []byte) (bool, error) {
	switch SQ(src) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, jsp.MalformedValueError
	}
}

// U64 appends src as a JSON number.
func U64(dst []byte, src uint64) []byte {
	return strconv.AppendUint(dst, src, 10)
}

// UnU64 parses a JSON number into a uint64.
func UnU64(src []byte) (uint64, error) {
	return strconv.ParseUint(S(src), 0, 64)
}

// Int appends src as a JSON number.
func Int(dst []byte, src int) []byte {
	return strconv.AppendInt(dst, int64(src), 10)
}

// UnInt parses a JSON number into an int.
func UnInt(src []byte) (int, error) {
	v, err := strconv.ParseInt(S(src), 0, 64)
	return int(v), err
}

// S returns a string view of buf without copying.
func S(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// Q strips one layer of surrounding double quotes from buf, if present.
func Q(buf []byte) []byte {
	if l := len(buf); l > 1 && buf[0] == '"' && buf[l-1] == '"' {
		return buf[1 : l-1]
	}
	return buf
}

// SQ is S(Q(buf)).
func SQ(buf []byte) string {
	return S(Q(buf))
}

// ObjectEach calls cb for every key/value pair in the src JSON object.
func ObjectEach(src []byte, cb func(key, val []byte) error) error {
	return jsp.ObjectEach(src, func(key, val []byte, _ jsp.ValueType, _ int) error {
		return cb(key, val)
	})
}
