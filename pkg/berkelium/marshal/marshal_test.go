package marshal_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

type goAllocator struct {
	blocks [][]byte
}

func (a *goAllocator) Alloc(size uintptr) unsafe.Pointer {
	b := make([]byte, size)
	a.blocks = append(a.blocks, b)
	return unsafe.Pointer(&b[0])
}

func TestWideToString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "ascii", input: "hello"},
		{name: "latin", input: "héllo wörld"},
		{name: "surrogate pair", input: "snow \U0001F328 day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := marshal.StringToWide(tt.input)
			got := marshal.WideToString(marshal.WideOf(units))

			assert.Equal(t, tt.input, got)
			assert.Len(t, marshal.StringToWide(got), len(units))
		})
	}
}

func TestWideToString_HonoursLength(t *testing.T) {
	units := marshal.StringToWide("abcdef")

	view := native.WideString{Data: &units[0], Length: 3}
	assert.Equal(t, "abc", marshal.WideToString(view))

	view.Length = 0
	assert.Equal(t, "", marshal.WideToString(view))
}

func TestWideToString_EmbeddedNul(t *testing.T) {
	units := []uint16{'a', 0, 'b'}
	got := marshal.WideToString(marshal.WideOf(units))
	assert.Equal(t, "a\x00b", got)
}

func TestWideSlice(t *testing.T) {
	first := marshal.StringToWide("open")
	second := marshal.StringToWide("tab=2")
	args := []native.WideString{marshal.WideOf(first), marshal.WideOf(second)}

	assert.Equal(t, []string{"open", "tab=2"}, marshal.WideSlice(&args[0], uintptr(len(args))))
	assert.Equal(t, []string{}, marshal.WideSlice(nil, 0))
}

func TestCopyWideToNative(t *testing.T) {
	alloc := &goAllocator{}

	ws := marshal.CopyWideToNative(alloc, "reply ✓")
	require.NotNil(t, ws.Data)
	assert.Equal(t, "reply ✓", marshal.WideToString(ws))

	empty := marshal.CopyWideToNative(alloc, "")
	assert.NotNil(t, empty.Data)
	assert.Zero(t, empty.Length)
}

func TestCopyToNative(t *testing.T) {
	alloc := &goAllocator{}

	t.Run("nil is the null buffer", func(t *testing.T) {
		buf := marshal.CopyToNative(alloc, nil)
		assert.Nil(t, buf.Data)
		assert.Zero(t, buf.Length)
	})

	t.Run("copies every byte", func(t *testing.T) {
		data := []byte{0x00, 0x01, 0xfe, 0xff, 'x'}
		buf := marshal.CopyToNative(alloc, data)
		require.NotNil(t, buf.Data)
		assert.Equal(t, uintptr(len(data)), buf.Length)
		assert.Equal(t, data, unsafe.Slice((*byte)(buf.Data), buf.Length))

		data[0] = 0x42
		assert.Equal(t, byte(0x00), *(*byte)(buf.Data))
	})

	t.Run("empty slice is not null", func(t *testing.T) {
		buf := marshal.CopyToNative(alloc, []byte{})
		assert.NotNil(t, buf.Data)
		assert.Zero(t, buf.Length)
	})
}

func TestHeaderBlock(t *testing.T) {
	alloc := &goAllocator{}
	lines := []string{"HTTP/1.1 200 OK", "Content-type: text/html; charset=utf-8"}

	buf := marshal.HeaderBlock(alloc, lines)
	require.NotNil(t, buf.Data)

	want := "HTTP/1.1 200 OK\x00Content-type: text/html; charset=utf-8\x00\x00"
	assert.Equal(t, uintptr(1+len(lines[0])+1+len(lines[1])+1), buf.Length)
	assert.Equal(t, []byte(want), marshal.Bytes(buf))
	assert.Equal(t, lines, marshal.ParseHeaderBlock(buf))
}

func TestHeaderBlock_LossyEncoding(t *testing.T) {
	alloc := &goAllocator{}

	buf := marshal.HeaderBlock(alloc, []string{"X-Name: naïve ☃"})

	assert.Equal(t, []byte("X-Name: na\xefve ?\x00\x00"), marshal.Bytes(buf))
}

func TestHeaderBlock_Empty(t *testing.T) {
	alloc := &goAllocator{}

	assert.Nil(t, marshal.HeaderBlock(alloc, nil).Data)

	buf := marshal.HeaderBlock(alloc, []string{})
	require.NotNil(t, buf.Data)
	assert.Equal(t, []byte{0}, marshal.Bytes(buf))
	assert.Equal(t, []string{}, marshal.ParseHeaderBlock(buf))
}

func TestNarrowToString(t *testing.T) {
	raw := []byte{'c', 'a', 'f', 0xe9}
	assert.Equal(t, "café", marshal.NarrowToString(marshal.NarrowOf(raw)))
	assert.Equal(t, "", marshal.NarrowToString(native.NarrowString{}))
	assert.Equal(t, raw, marshal.Latin1("café"))
}
