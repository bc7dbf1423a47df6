package headless

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/grafana/sobek"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Dialog flags passed to OnScriptAlert.
const (
	alertOK      = 1 << 0
	alertCancel  = 1 << 1
	alertPrompt  = 1 << 2
	alertMessage = 1 << 3
)

// runScript evaluates src in the window's document runtime. Uncaught errors
// are reported as console messages.
func (e *Engine) runScript(w *window, source, src string) {
	if w.crashed {
		return
	}
	vm := e.documentRuntime(w)
	if _, err := vm.RunScript(source, src); err != nil {
		msg := err.Error()
		var ex *sobek.Exception
		if errors.As(err, &ex) {
			msg = ex.Value().String()
		}
		e.console(w, source, "Uncaught "+msg, 0)
	}
}

// documentRuntime returns the runtime of the current document, creating it
// with the page globals on first use.
func (e *Engine) documentRuntime(w *window) *sobek.Runtime {
	if w.vm != nil {
		return w.vm
	}
	vm := sobek.New()
	w.vm = vm
	global := vm.GlobalObject()
	_ = vm.Set("window", global)

	chrome := vm.NewObject()
	_ = chrome.Set("send", func(call sobek.FunctionCall) sobek.Value {
		e.chromeSend(w, call.Argument(0).String(), exportStrings(call.Argument(1)))
		return sobek.Undefined()
	})
	_ = vm.Set("chrome", chrome)

	_ = vm.Set("alert", func(call sobek.FunctionCall) sobek.Value {
		e.scriptAlert(w, alertOK|alertMessage, argString(call, 0), "")
		return sobek.Undefined()
	})
	_ = vm.Set("confirm", func(call sobek.FunctionCall) sobek.Value {
		ok, _ := e.scriptAlert(w, alertOK|alertCancel|alertMessage, argString(call, 0), "")
		return vm.ToValue(ok)
	})
	_ = vm.Set("prompt", func(call sobek.FunctionCall) sobek.Value {
		ok, reply := e.scriptAlert(w, alertOK|alertCancel|alertPrompt|alertMessage, argString(call, 0), argString(call, 1))
		if !ok {
			return sobek.Null()
		}
		return vm.ToValue(reply)
	})

	console := vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		_ = console.Set(level, func(call sobek.FunctionCall) sobek.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			e.console(w, w.url, strings.Join(parts, " "), callerLine(vm))
			return sobek.Undefined()
		})
	}
	_ = vm.Set("console", console)

	document := vm.NewObject()
	_ = document.DefineAccessorProperty("title",
		vm.ToValue(func(sobek.FunctionCall) sobek.Value { return vm.ToValue(w.title) }),
		vm.ToValue(func(call sobek.FunctionCall) sobek.Value {
			e.setTitle(w, call.Argument(0).String())
			return sobek.Undefined()
		}),
		sobek.FLAG_TRUE, sobek.FLAG_TRUE)
	_ = vm.Set("document", document)

	location := vm.NewObject()
	_ = location.DefineAccessorProperty("href",
		vm.ToValue(func(sobek.FunctionCall) sobek.Value { return vm.ToValue(w.url) }),
		vm.ToValue(func(call sobek.FunctionCall) sobek.Value {
			e.requestNavigation(w, call.Argument(0).String(), false, native.Rect{})
			return sobek.Undefined()
		}),
		sobek.FLAG_TRUE, sobek.FLAG_TRUE)
	_ = location.Set("assign", func(call sobek.FunctionCall) sobek.Value {
		e.requestNavigation(w, call.Argument(0).String(), false, native.Rect{})
		return sobek.Undefined()
	})
	_ = location.Set("reload", func(sobek.FunctionCall) sobek.Value {
		e.Refresh(w.handle)
		return sobek.Undefined()
	})
	_ = vm.Set("location", location)

	_ = vm.Set("open", func(call sobek.FunctionCall) sobek.Value {
		e.requestNavigation(w, argString(call, 0), true, windowFeatures(argString(call, 2)))
		return sobek.Null()
	})

	_ = vm.Set("setTimeout", func(call sobek.FunctionCall) sobek.Value {
		fn, ok := sobek.AssertFunction(call.Argument(0))
		if !ok {
			return sobek.Undefined()
		}
		e.post(func() {
			if !e.alive(w) || w.vm != vm || w.crashed {
				return
			}
			if _, err := fn(sobek.Undefined()); err != nil {
				e.console(w, w.url, "Uncaught "+err.Error(), 0)
			}
		})
		return sobek.Undefined()
	})

	return vm
}

func argString(call sobek.FunctionCall, i int) string {
	v := call.Argument(i)
	if sobek.IsUndefined(v) || sobek.IsNull(v) {
		return ""
	}
	return v.String()
}

func exportStrings(v sobek.Value) []string {
	if v == nil || sobek.IsUndefined(v) || sobek.IsNull(v) {
		return nil
	}
	items, ok := v.Export().([]any)
	if !ok {
		return []string{v.String()}
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}
	return out
}

// callerLine returns the line of the innermost script frame.
func callerLine(vm *sobek.Runtime) int32 {
	for _, frame := range vm.CaptureCallStack(0, nil) {
		if line := frame.Position().Line; line > 0 {
			return int32(line)
		}
	}
	return 0
}

// windowFeatures reads width and height from a window.open feature string.
func windowFeatures(features string) native.Rect {
	var r native.Rect
	for _, f := range strings.Split(features, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(f), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		switch strings.ToLower(key) {
		case "width":
			r.Width = int32(n)
		case "height":
			r.Height = int32(n)
		case "left":
			r.Left = int32(n)
		case "top":
			r.Top = int32(n)
		}
	}
	return r
}

func (e *Engine) chromeSend(w *window, message string, args []string) {
	d := w.delegate
	if d == nil {
		return
	}
	msg := marshal.StringToWide(message)
	units := make([][]uint16, len(args))
	views := make([]native.WideString, len(args))
	for i, a := range args {
		units[i] = marshal.StringToWide(a)
		views[i] = marshal.WideOf(units[i])
	}
	var first *native.WideString
	if len(views) > 0 {
		first = &views[0]
	}
	d.OnChromeSend(w.handle, marshal.WideOf(msg), first, uintptr(len(views)))
}

func (e *Engine) console(w *window, source, message string, line int32) {
	d := w.delegate
	if d == nil {
		return
	}
	src := marshal.StringToWide(source)
	msg := marshal.StringToWide(message)
	d.OnConsoleMessage(w.handle, marshal.WideOf(src), marshal.WideOf(msg), line)
}

// scriptAlert raises a dialog and returns the host's answer. Without a
// delegate every dialog is dismissed.
func (e *Engine) scriptAlert(w *window, flags int32, message, defaultValue string) (bool, string) {
	d := w.delegate
	if d == nil {
		return false, ""
	}
	msg := marshal.StringToWide(message)
	def := marshal.StringToWide(defaultValue)
	page := marshal.Latin1(w.url)

	success := false
	var reply native.WideString
	d.OnScriptAlert(w.handle, marshal.WideOf(msg), marshal.WideOf(def), marshal.NarrowOf(page), flags, &success, &reply)
	text := marshal.WideToString(reply)
	if reply.Data != nil {
		d.FreeLastScriptAlert(reply)
	}
	return success, text
}

// requestNavigation asks the host before following a page initiated
// navigation. New windows are handed over through OnCreatedWindow.
func (e *Engine) requestNavigation(w *window, target string, newWindow bool, rect native.Rect) {
	if target == "" {
		return
	}
	if d := w.delegate; d != nil {
		cancel := false
		d.OnNavigationRequested(w.handle,
			marshal.NarrowOf(marshal.Latin1(target)),
			marshal.NarrowOf(marshal.Latin1(w.url)),
			newWindow, &cancel)
		if cancel {
			e.log.Debug().Str("url", target).Msg("navigation cancelled by host")
			return
		}
	}
	if !newWindow {
		e.queueLoad(w, target, true)
		return
	}

	if w.delegate == nil {
		return
	}
	h := e.createWindow(w.ctx, rect)
	created := e.windows[h]
	initial := created.root.rect
	initial.Left, initial.Top = rect.Left, rect.Top
	w.delegate.OnCreatedWindow(w.handle, h, initial, marshal.NarrowOf(marshal.Latin1(target)))
	if e.alive(created) {
		e.queueLoad(created, target, true)
	}
}
