// Package marshal converts strings and buffers between Go values and the
// engine's pointer plus length representation.
package marshal

import (
	"unicode/utf16"
	"unsafe"

	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Allocator hands out engine-owned memory. native.Runtime satisfies it.
type Allocator interface {
	Alloc(size uintptr) unsafe.Pointer
}

// WideToString copies exactly s.Length UTF-16 code units into a Go string.
// The data is never scanned for a terminator.
func WideToString(s native.WideString) string {
	if s.Data == nil || s.Length == 0 {
		return ""
	}
	return string(utf16.Decode(unsafe.Slice(s.Data, s.Length)))
}

// StringToWide encodes s as UTF-16 code units.
func StringToWide(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// WideOf returns a borrowed view of units. The caller keeps units alive for
// as long as the engine may read the view.
func WideOf(units []uint16) native.WideString {
	if len(units) == 0 {
		return native.WideString{}
	}
	return native.WideString{Data: &units[0], Length: uintptr(len(units))}
}

// WideSlice converts an engine array of n wide strings.
func WideSlice(args *native.WideString, n uintptr) []string {
	if args == nil || n == 0 {
		return []string{}
	}
	views := unsafe.Slice(args, n)
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = WideToString(v)
	}
	return out
}

// CopyWideToNative encodes s into engine memory. The engine owns the result.
func CopyWideToNative(a Allocator, s string) native.WideString {
	units := StringToWide(s)
	size := uintptr(len(units)) * unsafe.Sizeof(uint16(0))
	if size == 0 {
		size = unsafe.Sizeof(uint16(0))
	}
	p := a.Alloc(size)
	if p == nil {
		return native.WideString{}
	}
	dst := unsafe.Slice((*uint16)(p), len(units))
	copy(dst, units)
	return native.WideString{Data: (*uint16)(p), Length: uintptr(len(units))}
}
