package berkelium

import (
	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// errorDelegate forwards fatal engine conditions to the library callbacks.
type errorDelegate struct {
	lib *Library
}

var _ native.ErrorDelegate = (*errorDelegate)(nil)

func (d *errorDelegate) OnPureCall() {
	d.lib.logger().Error().Msg("engine reported a pure virtual call")
	if cb := d.lib.OnPureCall; cb != nil {
		cb()
	}
}

func (d *errorDelegate) OnInvalidParameter(expression, function, file native.WideString, line uint32) {
	p := InvalidParameter{
		Expression: marshal.WideToString(expression),
		Function:   marshal.WideToString(function),
		File:       marshal.WideToString(file),
		Line:       int(line),
	}
	d.lib.logger().Error().
		Str("expression", p.Expression).
		Str("function", p.Function).
		Str("file", p.File).
		Int("line", p.Line).
		Msg("engine reported an invalid parameter")
	if cb := d.lib.OnInvalidParameter; cb != nil {
		cb(p)
	}
}

func (d *errorDelegate) OnOutOfMemory() {
	d.lib.logger().Error().Msg("engine ran out of memory")
	if cb := d.lib.OnOutOfMemory; cb != nil {
		cb()
	}
}

func (d *errorDelegate) OnAssertion(message native.NarrowString) {
	msg := marshal.NarrowToString(message)
	d.lib.logger().Error().Str("assertion", msg).Msg("engine assertion failed")
	if cb := d.lib.OnAssertion; cb != nil {
		cb(msg)
	}
}
