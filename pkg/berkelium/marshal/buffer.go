package marshal

import (
	"bytes"
	"unsafe"

	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// CopyToNative copies data into engine memory. A nil slice yields the null
// buffer; an empty slice yields a zero-length allocation.
func CopyToNative(a Allocator, data []byte) native.Buffer {
	if data == nil {
		return native.Buffer{}
	}
	size := uintptr(len(data))
	if size == 0 {
		size = 1
	}
	p := a.Alloc(size)
	if p == nil {
		return native.Buffer{}
	}
	copy(unsafe.Slice((*byte)(p), len(data)), data)
	return native.Buffer{Data: p, Length: uintptr(len(data))}
}

// HeaderBlock packs lines into one engine buffer of null-terminated narrow
// records followed by a final terminator, 1 + sum(len+1) bytes in total.
// A nil slice yields the null buffer.
func HeaderBlock(a Allocator, lines []string) native.Buffer {
	if lines == nil {
		return native.Buffer{}
	}
	encoded := make([][]byte, len(lines))
	size := 1
	for i, line := range lines {
		encoded[i] = StringToNarrow(line)
		size += len(encoded[i]) + 1
	}

	p := a.Alloc(uintptr(size))
	if p == nil {
		return native.Buffer{}
	}
	dst := unsafe.Slice((*byte)(p), size)
	clear(dst)

	off := 0
	for _, rec := range encoded {
		copy(dst[off:], rec)
		off += len(rec) + 1
	}
	return native.Buffer{Data: p, Length: uintptr(size)}
}

// Bytes copies the contents of b. The null buffer yields nil.
func Bytes(b native.Buffer) []byte {
	if b.Data == nil {
		return nil
	}
	out := make([]byte, b.Length)
	copy(out, unsafe.Slice((*byte)(b.Data), b.Length))
	return out
}

// ParseHeaderBlock splits a buffer built by HeaderBlock back into lines.
func ParseHeaderBlock(b native.Buffer) []string {
	raw := Bytes(b)
	if raw == nil {
		return nil
	}
	raw = bytes.TrimRight(raw, "\x00")
	if len(raw) == 0 {
		return []string{}
	}
	parts := bytes.Split(raw, []byte{0})
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = decodeNarrow(p)
	}
	return lines
}
