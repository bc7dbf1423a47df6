package berkelium

import (
	"unsafe"

	"github.com/bnema/berkelium-go/pkg/berkelium/internal/registry"
	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// windowDelegate translates engine notifications for one window into calls
// of the Window and Widget callback fields.
type windowDelegate struct {
	window  *Window
	widgets *registry.Registry[native.Handle, *Widget]
}

var _ native.WindowDelegate = (*windowDelegate)(nil)

// widget returns the view recorded for h, creating it on first sight.
func (d *windowDelegate) widget(h native.Handle) *Widget {
	if h.IsNull() {
		return nil
	}
	wd, _ := d.widgets.GetOrCreate(h, func() *Widget {
		return &Widget{window: d.window, engine: d.window.engine, handle: h}
	})
	return wd
}

// isRoot reports whether h is the window's own content widget. The engine
// gives the root widget the window id.
func (d *windowDelegate) isRoot(win, h native.Handle) bool {
	e := d.window.engine
	return e.WidgetID(h) == e.WindowID(win)
}

func (d *windowDelegate) OnAddressBarChanged(_ native.Handle, url native.NarrowString) {
	if cb := d.window.OnAddressBarChanged; cb != nil {
		cb(marshal.NarrowToString(url))
	}
}

func (d *windowDelegate) OnStartLoading(_ native.Handle, url native.NarrowString) {
	if cb := d.window.OnStartLoading; cb != nil {
		cb(marshal.NarrowToString(url))
	}
}

func (d *windowDelegate) OnLoad(native.Handle) {
	if cb := d.window.OnLoad; cb != nil {
		cb()
	}
}

func (d *windowDelegate) OnLoadError(_ native.Handle, url native.NarrowString, errorCode int32, isMainFrame bool) {
	u := marshal.NarrowToString(url)
	d.window.log.Debug().Str("url", u).Int32("code", errorCode).Bool("main_frame", isMainFrame).Msg("load failed")
	if cb := d.window.OnProvisionalLoadError; cb != nil {
		cb(u, int(errorCode), isMainFrame)
	}
}

func (d *windowDelegate) OnCrashed(native.Handle) {
	d.window.log.Warn().Msg("renderer crashed")
	if cb := d.window.OnCrashed; cb != nil {
		cb()
	}
}

func (d *windowDelegate) OnUnresponsive(native.Handle) {
	if cb := d.window.OnUnresponsive; cb != nil {
		cb()
	}
}

func (d *windowDelegate) OnResponsive(native.Handle) {
	if cb := d.window.OnResponsive; cb != nil {
		cb()
	}
}

func (d *windowDelegate) OnChromeSend(_ native.Handle, message native.WideString, args *native.WideString, numArgs uintptr) {
	if cb := d.window.OnChromeSend; cb != nil {
		cb(marshal.WideToString(message), marshal.WideSlice(args, numArgs))
	}
}

func (d *windowDelegate) OnCreatedWindow(_ native.Handle, newWindow native.Handle, initialRect native.Rect, url native.NarrowString) {
	if newWindow.IsNull() {
		return
	}
	created := d.window.lib.adoptWindow(d.window.context, newWindow)
	cb := d.window.OnCreatedWindow
	if cb == nil {
		d.window.log.Debug().Str("url", marshal.NarrowToString(url)).Msg("closing unhandled popup window")
		_ = created.Close()
		return
	}
	cb(created, rectFromNative(initialRect), marshal.NarrowToString(url))
}

func (d *windowDelegate) OnPaint(_ native.Handle, paint *native.PaintEvent) {
	if cb := d.window.OnPaint; cb != nil && paint != nil {
		cb(paintFromNative(paint))
	}
}

func (d *windowDelegate) OnCrashedWorker(native.Handle) {
	if cb := d.window.OnCrashedWorker; cb != nil {
		cb()
	}
}

func (d *windowDelegate) OnCrashedPlugin(_ native.Handle, pluginName native.WideString) {
	if cb := d.window.OnCrashedPlugin; cb != nil {
		cb(marshal.WideToString(pluginName))
	}
}

func (d *windowDelegate) OnConsoleMessage(_ native.Handle, sourceID, message native.WideString, line int32) {
	if cb := d.window.OnConsoleMessage; cb != nil {
		cb(ConsoleMessage{
			SourceID: marshal.WideToString(sourceID),
			Message:  marshal.WideToString(message),
			Line:     int(line),
		})
	}
}

func (d *windowDelegate) OnScriptAlert(
	_ native.Handle,
	message, defaultValue native.WideString,
	url native.NarrowString,
	flags int32,
	success *bool,
	reply *native.WideString,
) {
	cb := d.window.OnScriptAlert
	if cb == nil {
		return
	}
	res := cb(ScriptAlert{
		Message:       marshal.WideToString(message),
		DefaultPrompt: marshal.WideToString(defaultValue),
		URL:           marshal.NarrowToString(url),
		Flags:         ScriptAlertFlags(flags),
	})
	if success != nil {
		*success = res.Success
	}
	if reply != nil && res.Prompt != nil {
		*reply = marshal.CopyWideToNative(d.window.engine, *res.Prompt)
	}
}

func (d *windowDelegate) FreeLastScriptAlert(reply native.WideString) {
	if reply.Data != nil {
		d.window.engine.Free(unsafe.Pointer(reply.Data))
	}
}

func (d *windowDelegate) OnNavigationRequested(_ native.Handle, newURL, referrer native.NarrowString, isNewWindow bool, cancel *bool) {
	cb := d.window.OnNavigationRequested
	if cb == nil {
		return
	}
	res := cb(NavigationRequest{
		URL:         marshal.NarrowToString(newURL),
		Referrer:    marshal.NarrowToString(referrer),
		IsNewWindow: isNewWindow,
	})
	if cancel != nil {
		*cancel = res.Cancel
	}
}

func (d *windowDelegate) OnLoadingStateChanged(_ native.Handle, isLoading bool) {
	if cb := d.window.OnLoadingStateChanged; cb != nil {
		cb(isLoading)
	}
}

func (d *windowDelegate) OnTitleChanged(_ native.Handle, title native.WideString) {
	if cb := d.window.OnTitleChanged; cb != nil {
		cb(marshal.WideToString(title))
	}
}

func (d *windowDelegate) OnTooltipChanged(_ native.Handle, text native.WideString) {
	if cb := d.window.OnTooltipChanged; cb != nil {
		cb(marshal.WideToString(text))
	}
}

func (d *windowDelegate) OnShowContextMenu(_ native.Handle, args *native.ContextMenuArgs) {
	if cb := d.window.OnShowContextMenu; cb != nil && args != nil {
		cb(contextMenuFromNative(args))
	}
}

func (d *windowDelegate) OnCursorUpdated(_ native.Handle, cursor uintptr) {
	if cb := d.window.OnCursorChanged; cb != nil {
		cb(cursor)
	}
}

// Widget notifications about the root widget are dropped: the window
// callbacks already cover it.

func (d *windowDelegate) OnWidgetCreated(win, widget native.Handle, zIndex int32) {
	if widget.IsNull() || d.isRoot(win, widget) {
		return
	}
	wd := d.widget(widget)
	if cb := d.window.OnWidgetCreated; cb != nil {
		cb(wd, int(zIndex))
	}
}

func (d *windowDelegate) OnWidgetDestroyed(win, widget native.Handle) {
	if widget.IsNull() {
		return
	}
	if !d.isRoot(win, widget) {
		wd := d.widget(widget)
		if cb := d.window.OnWidgetDestroyed; cb != nil {
			cb(wd)
		}
		if cb := wd.OnDestroyed; cb != nil {
			cb()
		}
	}
	if wd, ok := d.widgets.Lookup(widget); ok {
		d.widgets.NotifyDestroyed(widget)
		wd.handle = 0
	}
}

func (d *windowDelegate) OnWidgetResize(win, widget native.Handle, width, height int32) {
	if widget.IsNull() || d.isRoot(win, widget) {
		return
	}
	wd := d.widget(widget)
	if cb := d.window.OnWidgetResized; cb != nil {
		cb(wd, int(width), int(height))
	}
	if cb := wd.OnResized; cb != nil {
		cb(int(width), int(height))
	}
}

func (d *windowDelegate) OnWidgetMove(win, widget native.Handle, x, y int32) {
	if widget.IsNull() || d.isRoot(win, widget) {
		return
	}
	wd := d.widget(widget)
	if cb := d.window.OnWidgetMoved; cb != nil {
		cb(wd, int(x), int(y))
	}
	if cb := wd.OnMoved; cb != nil {
		cb(int(x), int(y))
	}
}

func (d *windowDelegate) OnWidgetPaint(win, widget native.Handle, paint *native.PaintEvent) {
	if widget.IsNull() || paint == nil || d.isRoot(win, widget) {
		return
	}
	wd := d.widget(widget)
	p := paintFromNative(paint)
	if cb := d.window.OnWidgetPaint; cb != nil {
		cb(wd, p)
	}
	if cb := wd.OnPaint; cb != nil {
		cb(p)
	}
}
