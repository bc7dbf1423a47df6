package marshal

import (
	"strings"
	"unsafe"

	"golang.org/x/text/encoding/charmap"

	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// replacementByte stands in for characters the narrow code page lacks.
const replacementByte = '?'

// StringToNarrow encodes s with the Windows-1252 code page. Characters
// outside the code page become '?'.
func StringToNarrow(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = replacementByte
		}
		out = append(out, b)
	}
	return out
}

// NarrowToString widens each byte of s to the code point of the same value.
func NarrowToString(s native.NarrowString) string {
	if s.Data == nil || s.Length == 0 {
		return ""
	}
	raw := unsafe.Slice(s.Data, s.Length)
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		sb.WriteRune(charmap.ISO8859_1.DecodeByte(b))
	}
	return sb.String()
}

func decodeNarrow(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(charmap.Windows1252.DecodeByte(c))
	}
	return sb.String()
}

// NarrowOf returns a borrowed view of b.
func NarrowOf(b []byte) native.NarrowString {
	if len(b) == 0 {
		return native.NarrowString{}
	}
	return native.NarrowString{Data: &b[0], Length: uintptr(len(b))}
}

// Latin1 encodes s one byte per code point, the inverse of NarrowToString.
// Code points above 0xFF become '?'.
func Latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b = replacementByte
		}
		out = append(out, b)
	}
	return out
}
