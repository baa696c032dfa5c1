package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimiter(t *testing.T) {
	d := Delimiter()
	assert.True(t, d.IsDelimiter())
	assert.False(t, d.More())

	m := Get()
	defer Put(m)
	assert.False(t, m.IsDelimiter())
}

func TestMore(t *testing.T) {
	m := &Msg{Flags: MORE}
	assert.True(t, m.More())

	m.Flags = 0
	assert.False(t, m.More())
}

func TestGetPutResets(t *testing.T) {
	m := Get()
	m.Data = []byte("hello")
	m.Flags = MORE
	Put(m)

	m2 := Get()
	require.NotNil(t, m2)
	assert.Equal(t, 0, len(m2.Data))
	assert.Equal(t, Flag(0), m2.Flags)
	assert.False(t, m2.IsDelimiter())
}

func TestPutNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Put(nil) })
}
