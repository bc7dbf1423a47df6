package headless

import (
	"image/color"
	"unsafe"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Hooks below drive conditions a real renderer produces on its own. They
// queue their notifications like any other engine work.

// Crash marks the window's renderer crashed. Scripts stop running until the
// next navigation or Refresh.
func (e *Engine) Crash(win native.Handle) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	w.crashed = true
	w.vm = nil
	e.post(func() {
		if d := w.delegate; d != nil && e.alive(w) {
			d.OnCrashed(w.handle)
		}
	})
}

// CrashPlugin reports a crashed plugin, or a crashed worker when name is
// empty.
func (e *Engine) CrashPlugin(win native.Handle, name string) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	e.post(func() {
		d := w.delegate
		if d == nil || !e.alive(w) {
			return
		}
		if name == "" {
			d.OnCrashedWorker(w.handle)
			return
		}
		units := marshal.StringToWide(name)
		d.OnCrashedPlugin(w.handle, marshal.WideOf(units))
	})
}

// SetResponsive reports the renderer hanging or recovering.
func (e *Engine) SetResponsive(win native.Handle, responsive bool) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	e.post(func() {
		d := w.delegate
		if d == nil || !e.alive(w) {
			return
		}
		if responsive {
			d.OnResponsive(w.handle)
		} else {
			d.OnUnresponsive(w.handle)
		}
	})
}

// SetTooltip reports a tooltip change.
func (e *Engine) SetTooltip(win native.Handle, text string) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	e.post(func() {
		if d := w.delegate; d != nil && e.alive(w) {
			units := marshal.StringToWide(text)
			d.OnTooltipChanged(w.handle, marshal.WideOf(units))
		}
	})
}

// OpenPopup creates a popup widget such as a select dropdown at rect,
// painted with c.
func (e *Engine) OpenPopup(win native.Handle, rect native.Rect, c color.RGBA) native.Handle {
	w, ok := e.windows[win]
	if !ok || rect.Width <= 0 || rect.Height <= 0 {
		return 0
	}
	h := e.newHandle()
	wd := &widget{handle: h, id: int32(h), win: w, rect: rect, z: int32(len(w.popups) + 1)}
	w.popups = append(w.popups, wd)
	e.widgets[h] = wd
	e.post(func() {
		d := w.delegate
		if d == nil || !e.alive(w) || e.widgets[h] != wd {
			return
		}
		d.OnWidgetCreated(w.handle, h, wd.z)
		d.OnWidgetMove(w.handle, h, wd.rect.Left, wd.rect.Top)
		d.OnWidgetResize(w.handle, h, wd.rect.Width, wd.rect.Height)
		e.paintWidget(wd, c)
	})
	return h
}

// ClosePopup destroys a popup widget.
func (e *Engine) ClosePopup(h native.Handle) {
	wd, ok := e.widgets[h]
	if !ok || wd == wd.win.root {
		return
	}
	e.post(func() { e.DestroyWidget(h) })
}

// Fatal kinds accepted by RaiseFatal.
type Fatal int

const (
	FatalPureCall Fatal = iota
	FatalInvalidParameter
	FatalOutOfMemory
	FatalAssertion
)

// RaiseFatal reports a fatal condition to the error handler. detail is the
// assertion message or the invalid parameter expression.
func (e *Engine) RaiseFatal(kind Fatal, detail string) {
	e.post(func() {
		h := e.errors
		if h == nil {
			return
		}
		switch kind {
		case FatalPureCall:
			h.OnPureCall()
		case FatalInvalidParameter:
			expr := marshal.StringToWide(detail)
			fn := marshal.StringToWide("headless")
			file := marshal.StringToWide("hooks.go")
			h.OnInvalidParameter(marshal.WideOf(expr), marshal.WideOf(fn), marshal.WideOf(file), 1)
		case FatalOutOfMemory:
			h.OnOutOfMemory()
		case FatalAssertion:
			msg := marshal.Latin1(detail)
			h.OnAssertion(marshal.NarrowOf(msg))
		}
	})
}

// Dispatch queues fn with the window's delegate, for notifications no hook
// covers.
func (e *Engine) Dispatch(win native.Handle, fn func(d native.WindowDelegate)) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	e.post(func() {
		if d := w.delegate; d != nil && e.alive(w) {
			fn(d)
		}
	})
}

// URL returns the address of the loaded document.
func (e *Engine) URL(win native.Handle) string {
	if w, ok := e.windows[win]; ok {
		return w.url
	}
	return ""
}

// Title returns the document title.
func (e *Engine) Title(win native.Handle) string {
	if w, ok := e.windows[win]; ok {
		return w.title
	}
	return ""
}

// Zoom returns the zoom level in percent.
func (e *Engine) Zoom(win native.Handle) int {
	if w, ok := e.windows[win]; ok {
		return w.zoom
	}
	return 0
}

// Typed returns the text entered into the page.
func (e *Engine) Typed(win native.Handle) string {
	if w, ok := e.windows[win]; ok {
		return string(w.typed)
	}
	return ""
}

// Selection returns the selected text.
func (e *Engine) Selection(win native.Handle) string {
	if w, ok := e.windows[win]; ok {
		return w.selection
	}
	return ""
}

// Clipboard returns the engine clipboard.
func (e *Engine) Clipboard() string {
	return e.clipboard
}

// Focused reports whether widget h has focus.
func (e *Engine) Focused(h native.Handle) bool {
	wd, ok := e.widgets[h]
	return ok && wd.focused
}

// Transparent reports whether the window paints with alpha.
func (e *Engine) Transparent(win native.Handle) bool {
	w, ok := e.windows[win]
	return ok && w.transparent
}

// IsAllocated reports whether p is a live Alloc result.
func (e *Engine) IsAllocated(p unsafe.Pointer) bool {
	_, ok := e.allocs[p]
	return ok
}
