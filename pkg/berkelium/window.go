package berkelium

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/berkelium-go/pkg/berkelium/internal/registry"
	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Window is a top-level engine window rendering offscreen. Its pixels reach
// the host through OnPaint and OnWidgetPaint.
type Window struct {
	lib         *Library
	engine      native.Engine
	context     *Context
	handle      native.Handle
	id          int
	owns        bool
	focused     bool
	transparent bool
	delegate    *windowDelegate
	log         zerolog.Logger

	OnAddressBarChanged    func(url string)
	OnStartLoading         func(url string)
	OnLoad                 func()
	OnProvisionalLoadError func(url string, errorCode int, isMainFrame bool)
	OnCrashed              func()
	OnUnresponsive         func()
	OnResponsive           func()
	OnChromeSend           func(message string, args []string)

	// OnCreatedWindow receives ownership of newWindow. Without a callback the
	// new window is closed immediately.
	OnCreatedWindow       func(newWindow *Window, initialRect Rect, url string)
	OnPaint               func(p Paint)
	OnCrashedWorker       func()
	OnCrashedPlugin       func(pluginName string)
	OnConsoleMessage      func(msg ConsoleMessage)
	OnScriptAlert         func(alert ScriptAlert) ScriptAlertResult
	OnNavigationRequested func(req NavigationRequest) NavigationDecision
	OnLoadingStateChanged func(isLoading bool)
	OnTitleChanged        func(title string)
	OnTooltipChanged      func(text string)
	OnShowContextMenu     func(args ContextMenuEventArgs)
	OnCursorChanged       func(cursor uintptr)
	OnWidgetCreated       func(w *Widget, zIndex int)
	OnWidgetDestroyed     func(w *Widget)
	OnWidgetMoved         func(w *Widget, x, y int)
	OnWidgetResized       func(w *Widget, width, height int)
	OnWidgetPaint         func(w *Widget, p Paint)
}

// NewWindow creates a window in the context.
func (c *Context) NewWindow() (*Window, error) {
	if c.handle.IsNull() {
		return nil, ErrClosed
	}
	if !c.lib.IsInitialized() {
		return nil, ErrNotInitialized
	}
	h := c.engine.CreateWindow(c.handle)
	if h.IsNull() {
		return nil, fmt.Errorf("%w: window", ErrCreateFailed)
	}
	return c.lib.adoptWindow(c, h), nil
}

// adoptWindow wraps an engine window the library owns and installs its
// delegate for the lifetime of the wrapper.
func (l *Library) adoptWindow(c *Context, h native.Handle) *Window {
	w, created := l.windows.GetOrCreate(h, func() *Window {
		w := &Window{
			lib:     l,
			engine:  c.engine,
			context: c,
			handle:  h,
			owns:    true,
		}
		w.id = int(c.engine.WindowID(h))
		w.log = l.logger().With().Int("window_id", w.id).Logger()
		w.delegate = &windowDelegate{
			window:  w,
			widgets: registry.New[native.Handle, *Widget](),
		}
		return w
	})
	if created {
		c.engine.SetDelegate(h, w.delegate)
		w.log.Debug().Str("context", c.String()).Msg("window created")
	}
	return w
}

// ID returns the engine window id, which the root widget shares.
func (w *Window) ID() int {
	return w.id
}

// Handle returns the engine handle, or the null handle once closed.
func (w *Window) Handle() native.Handle {
	return w.handle
}

// Context returns the context the window was created in.
func (w *Window) Context() *Context {
	return w.context
}

// Closed reports whether the window was closed.
func (w *Window) Closed() bool {
	return w.handle.IsNull()
}

// Focused reports whether the window last received Focus.
func (w *Window) Focused() bool {
	return w.focused
}

// Widget returns the root content widget.
func (w *Window) Widget() *Widget {
	if w.handle.IsNull() {
		return nil
	}
	return w.delegate.widget(w.engine.RootWidget(w.handle))
}

// Rect returns the root widget rectangle.
func (w *Window) Rect() Rect {
	if root := w.Widget(); root != nil {
		return root.Rect()
	}
	return Rect{}
}

// Width returns the root widget width.
func (w *Window) Width() int {
	return w.Rect().Width
}

// Height returns the root widget height.
func (w *Window) Height() int {
	return w.Rect().Height
}

// WidgetAtPoint returns the widget under (x, y). Outside every widget it
// returns the root widget when returnRootIfOutside is set, nil otherwise.
func (w *Window) WidgetAtPoint(x, y int, returnRootIfOutside bool) *Widget {
	if w.handle.IsNull() {
		return nil
	}
	h := w.engine.WidgetAtPoint(w.handle, int32(x), int32(y), returnRootIfOutside)
	if h.IsNull() {
		return nil
	}
	return w.delegate.widget(h)
}

// SetTransparent toggles an alpha channel in painted pixels.
func (w *Window) SetTransparent(transparent bool) {
	if w.handle.IsNull() {
		return
	}
	w.engine.SetTransparent(w.handle, transparent)
	w.transparent = transparent
}

// Transparent reports the last value passed to SetTransparent.
func (w *Window) Transparent() bool {
	return w.transparent
}

// CanGoBack reports whether history has an entry before the current one.
func (w *Window) CanGoBack() bool {
	return !w.handle.IsNull() && w.engine.CanGoBack(w.handle)
}

// CanGoForward reports whether history has an entry after the current one.
func (w *Window) CanGoForward() bool {
	return !w.handle.IsNull() && w.engine.CanGoForward(w.handle)
}

// NavigateTo starts loading url.
func (w *Window) NavigateTo(url string) error {
	if w.handle.IsNull() {
		return ErrClosed
	}
	units := marshal.StringToWide(url)
	if !w.engine.NavigateTo(w.handle, marshal.WideOf(units)) {
		return fmt.Errorf("%w: %s", ErrNavigationRejected, url)
	}
	return nil
}

func (w *Window) GoBack() {
	if !w.handle.IsNull() {
		w.engine.GoBack(w.handle)
	}
}

func (w *Window) GoForward() {
	if !w.handle.IsNull() {
		w.engine.GoForward(w.handle)
	}
}

func (w *Window) Refresh() {
	if !w.handle.IsNull() {
		w.engine.Refresh(w.handle)
	}
}

func (w *Window) Stop() {
	if !w.handle.IsNull() {
		w.engine.Stop(w.handle)
	}
}

// AdjustZoom zooms in, out, or back to 100%.
func (w *Window) AdjustZoom(mode ZoomFunction) {
	if !w.handle.IsNull() {
		w.engine.AdjustZoom(w.handle, int32(mode))
	}
}

// ExecuteJavascript runs script in the main frame.
func (w *Window) ExecuteJavascript(script string) error {
	if w.handle.IsNull() {
		return ErrClosed
	}
	units := marshal.StringToWide(script)
	w.engine.ExecuteJavascript(w.handle, marshal.WideOf(units))
	return nil
}

// InsertCSS adds a style sheet to the page. An empty id inserts an
// anonymous sheet.
func (w *Window) InsertCSS(css, id string) error {
	if w.handle.IsNull() {
		return ErrClosed
	}
	cssUnits := marshal.StringToWide(css)
	idUnits := marshal.StringToWide(id)
	w.engine.InsertCSS(w.handle, marshal.WideOf(cssUnits), marshal.WideOf(idUnits))
	return nil
}

// Resize changes the root widget size.
func (w *Window) Resize(width, height int) error {
	if w.handle.IsNull() {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("berkelium: invalid window size %dx%d", width, height)
	}
	w.engine.Resize(w.handle, int32(width), int32(height))
	return nil
}

func (w *Window) Cut() {
	if !w.handle.IsNull() {
		w.engine.Cut(w.handle)
	}
}

func (w *Window) Copy() {
	if !w.handle.IsNull() {
		w.engine.Copy(w.handle)
	}
}

func (w *Window) Paste() {
	if !w.handle.IsNull() {
		w.engine.Paste(w.handle)
	}
}

func (w *Window) Undo() {
	if !w.handle.IsNull() {
		w.engine.Undo(w.handle)
	}
}

func (w *Window) Redo() {
	if !w.handle.IsNull() {
		w.engine.Redo(w.handle)
	}
}

func (w *Window) DeleteSelection() {
	if !w.handle.IsNull() {
		w.engine.DeleteSelection(w.handle)
	}
}

func (w *Window) SelectAll() {
	if !w.handle.IsNull() {
		w.engine.SelectAll(w.handle)
	}
}

// Input goes to the root widget.

func (w *Window) KeyEvent(pressed bool, modifiers KeyModifier, vk, scancode int) {
	if root := w.Widget(); root != nil {
		root.KeyEvent(pressed, modifiers, vk, scancode)
	}
}

func (w *Window) TextEvent(text string) {
	if root := w.Widget(); root != nil {
		root.TextEvent(text)
	}
}

func (w *Window) MouseButton(button MouseButton, pressed bool) {
	if root := w.Widget(); root != nil {
		root.MouseButton(button, pressed)
	}
}

func (w *Window) MouseMoved(x, y int) {
	if root := w.Widget(); root != nil {
		root.MouseMoved(x, y)
	}
}

func (w *Window) MouseWheel(dx, dy int) {
	if root := w.Widget(); root != nil {
		root.MouseWheel(dx, dy)
	}
}

func (w *Window) Focus() {
	if root := w.Widget(); root != nil {
		root.Focus()
		w.focused = true
	}
}

func (w *Window) Unfocus() {
	if root := w.Widget(); root != nil {
		root.Unfocus()
		w.focused = false
	}
}

// Close uninstalls the delegate and destroys the engine window when the
// wrapper owns it and the library is still initialized.
func (w *Window) Close() error {
	if w.handle.IsNull() {
		return nil
	}
	h := w.handle
	w.lib.windows.NotifyDestroyed(h)
	if w.lib.IsInitialized() {
		w.engine.SetDelegate(h, nil)
		if w.owns {
			w.engine.DestroyWindow(h)
		}
	}
	w.detach()
	w.log.Debug().Msg("window closed")
	return nil
}

// detach marks the window and its widgets closed without calling the engine.
func (w *Window) detach() {
	w.handle = 0
	w.focused = false
	w.transparent = false
	w.delegate.widgets.Range(func(_ native.Handle, wd *Widget) bool {
		wd.handle = 0
		return true
	})
	w.delegate.widgets.Clear()
}

func (w *Window) String() string {
	return fmt.Sprintf("Window(%d)", w.id)
}
