package berkelium_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/internal/engine/headless"
	"github.com/bnema/berkelium-go/pkg/berkelium"
	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

func newWindow(t *testing.T) (*berkelium.Library, *headless.Engine, *berkelium.Window) {
	t.Helper()
	lib, engine := newLibrary(t)
	ctx, err := lib.NewContext()
	require.NoError(t, err)
	win, err := ctx.NewWindow()
	require.NoError(t, err)
	return lib, engine, win
}

func TestWindow_LoadCallbacks(t *testing.T) {
	lib, _, win := newWindow(t)

	var events []string
	win.OnLoadingStateChanged = func(loading bool) {
		if loading {
			events = append(events, "loading")
		} else {
			events = append(events, "idle")
		}
	}
	win.OnStartLoading = func(url string) { events = append(events, "start "+url) }
	win.OnAddressBarChanged = func(url string) { events = append(events, "address "+url) }
	win.OnTitleChanged = func(title string) { events = append(events, "title "+title) }
	win.OnPaint = func(p berkelium.Paint) {
		assert.Len(t, p.Pixels, 80*60*4)
		assert.Equal(t, []berkelium.Rect{{Width: 80, Height: 60}}, p.CopyRects)
		events = append(events, "paint")
	}
	win.OnLoad = func() { events = append(events, "load") }

	url := "data:text/html,<title>Café</title>"
	require.NoError(t, win.NavigateTo(url))
	lib.Update()

	assert.Equal(t, []string{
		"loading",
		"start " + url,
		"address " + url,
		"title Café",
		"paint",
		"load",
		"idle",
	}, events)
	assert.Equal(t, berkelium.Rect{Width: 80, Height: 60}, win.Rect())
	assert.Equal(t, 80, win.Width())
	assert.Equal(t, 60, win.Height())
}

func TestWindow_ProvisionalLoadError(t *testing.T) {
	lib, _, win := newWindow(t)
	var code int
	var mainFrame bool
	win.OnProvisionalLoadError = func(_ string, c int, isMain bool) {
		code, mainFrame = c, isMain
	}
	require.NoError(t, win.NavigateTo("nope://x"))
	lib.Update()
	assert.Equal(t, headless.ErrCodeUnknownScheme, code)
	assert.True(t, mainFrame)

	assert.ErrorIs(t, win.NavigateTo(""), berkelium.ErrNavigationRejected)
}

func TestWindow_ScriptAlertReply(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("about:blank"))
	lib.Update()

	var alert berkelium.ScriptAlert
	win.OnScriptAlert = func(a berkelium.ScriptAlert) berkelium.ScriptAlertResult {
		alert = a
		answer := "Ada"
		return berkelium.ScriptAlertResult{Success: true, Prompt: &answer}
	}
	require.NoError(t, win.ExecuteJavascript("document.title = prompt('Your name?', 'anon')"))
	lib.Update()

	assert.Equal(t, "Your name?", alert.Message)
	assert.Equal(t, "anon", alert.DefaultPrompt)
	assert.Equal(t, "about:blank", alert.URL)
	assert.True(t, alert.Flags.Has(berkelium.AlertHasPromptField))
	assert.Equal(t, "prompt", alert.Flags.Kind())
	assert.Equal(t, "Ada", engine.Title(win.Handle()))
	assert.Zero(t, engine.LiveAllocations(), "reply released after the dialog")
}

func TestWindow_ScriptAlertWithoutCallback(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("about:blank"))
	lib.Update()

	require.NoError(t, win.ExecuteJavascript("document.title = String(confirm('ok?'))"))
	lib.Update()
	assert.Equal(t, "false", engine.Title(win.Handle()))
}

func TestWindow_NavigationRequested(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("data:text/html,first"))
	lib.Update()

	var req berkelium.NavigationRequest
	win.OnNavigationRequested = func(r berkelium.NavigationRequest) berkelium.NavigationDecision {
		req = r
		return berkelium.NavigationDecision{Cancel: true}
	}
	require.NoError(t, win.ExecuteJavascript("location.assign('data:text/html,second')"))
	lib.Update()

	assert.Equal(t, berkelium.NavigationRequest{URL: "data:text/html,second", Referrer: "data:text/html,first"}, req)
	assert.Equal(t, "data:text/html,first", engine.URL(win.Handle()))

	win.OnNavigationRequested = nil
	require.NoError(t, win.ExecuteJavascript("location.assign('data:text/html,second')"))
	lib.Update()
	assert.Equal(t, "data:text/html,second", engine.URL(win.Handle()))
	assert.True(t, win.CanGoBack())
	assert.False(t, win.CanGoForward())

	win.GoBack()
	lib.Update()
	assert.True(t, win.CanGoForward())
	win.GoForward()
	lib.Update()
	assert.Equal(t, "data:text/html,second", engine.URL(win.Handle()))
}

func TestWindow_CreatedWindow(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("about:blank"))
	lib.Update()

	var popup *berkelium.Window
	var rect berkelium.Rect
	win.OnCreatedWindow = func(nw *berkelium.Window, r berkelium.Rect, url string) {
		popup, rect = nw, r
		nw.OnTitleChanged = func(string) {}
		assert.Equal(t, "data:text/html,<title>popup</title>", url)
	}
	require.NoError(t, win.ExecuteJavascript("open('data:text/html,<title>popup</title>', '', 'width=120,height=90')"))
	lib.Update()

	require.NotNil(t, popup)
	assert.Equal(t, berkelium.Rect{Width: 120, Height: 90}, rect)
	assert.Same(t, win.Context(), popup.Context())
	assert.Len(t, lib.Windows(), 2)
	assert.Equal(t, "popup", engine.Title(popup.Handle()))

	require.NoError(t, popup.Close())
	assert.Len(t, lib.Windows(), 1)
	assert.Equal(t, 1, engine.WindowCount())
}

func TestWindow_UnhandledCreatedWindowIsClosed(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("about:blank"))
	lib.Update()

	require.NoError(t, win.ExecuteJavascript("open('data:text/html,x')"))
	lib.Update()
	assert.Len(t, lib.Windows(), 1)
	assert.Equal(t, 1, engine.WindowCount())
}

func TestWindow_ChromeSendAndConsole(t *testing.T) {
	lib, _, win := newWindow(t)

	var message string
	var args []string
	win.OnChromeSend = func(m string, a []string) { message, args = m, a }
	var console []berkelium.ConsoleMessage
	win.OnConsoleMessage = func(m berkelium.ConsoleMessage) { console = append(console, m) }

	require.NoError(t, win.NavigateTo("data:text/html,<script>chrome.send('hello', ['x', 'y']); console.warn('careful')</script>"))
	lib.Update()

	assert.Equal(t, "hello", message)
	assert.Equal(t, []string{"x", "y"}, args)
	require.Len(t, console, 1)
	assert.Equal(t, "careful", console[0].Message)
}

func TestWindow_RootWidgetIsFiltered(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("about:blank"))
	lib.Update()

	root := win.Widget()
	require.NotNil(t, root)
	assert.Equal(t, win.ID(), root.ID())

	var widgetEvents []string
	win.OnWidgetResized = func(*berkelium.Widget, int, int) { widgetEvents = append(widgetEvents, "window resized") }
	root.OnResized = func(int, int) { widgetEvents = append(widgetEvents, "root resized") }
	var painted bool
	win.OnPaint = func(berkelium.Paint) { painted = true }

	require.NoError(t, win.Resize(100, 70))
	lib.Update()
	assert.Empty(t, widgetEvents)
	assert.True(t, painted)
	assert.Equal(t, berkelium.Rect{Width: 100, Height: 70}, root.Rect())

	// The root widget notifications delivered directly are dropped as well.
	engine.Dispatch(win.Handle(), func(d native.WindowDelegate) {
		d.OnWidgetMove(win.Handle(), root.Handle(), 1, 2)
		d.OnWidgetPaint(win.Handle(), root.Handle(), &native.PaintEvent{Rect: native.Rect{Width: 1, Height: 1}})
	})
	lib.Update()
	assert.Empty(t, widgetEvents)
}

func TestWindow_PopupWidgets(t *testing.T) {
	lib, engine, win := newWindow(t)

	var created *berkelium.Widget
	var events []string
	win.OnWidgetCreated = func(w *berkelium.Widget, z int) {
		created = w
		events = append(events, "created")
		w.OnMoved = func(x, y int) { events = append(events, "moved") }
		w.OnPaint = func(p berkelium.Paint) {
			assert.Len(t, p.Pixels, 20*10*4)
			events = append(events, "widget paint")
		}
		w.OnDestroyed = func() { events = append(events, "destroyed") }
	}
	win.OnWidgetMoved = func(*berkelium.Widget, int, int) { events = append(events, "window moved") }
	win.OnWidgetResized = func(_ *berkelium.Widget, w, h int) {
		assert.Equal(t, 20, w)
		assert.Equal(t, 10, h)
		events = append(events, "window resized")
	}
	win.OnWidgetPaint = func(*berkelium.Widget, berkelium.Paint) { events = append(events, "window paint") }
	win.OnWidgetDestroyed = func(*berkelium.Widget) { events = append(events, "window destroyed") }

	h := engine.OpenPopup(win.Handle(), native.Rect{Left: 4, Top: 5, Width: 20, Height: 10}, color.RGBA{R: 1, A: 0xff})
	lib.Update()

	require.NotNil(t, created)
	assert.NotEqual(t, win.ID(), created.ID())
	assert.Same(t, created, win.WidgetAtPoint(5, 6, false), "same wrapper for the same handle")
	assert.Same(t, win, created.ParentWindow())
	assert.Equal(t, berkelium.Rect{Left: 4, Top: 5, Width: 20, Height: 10}, created.Rect())

	engine.ClosePopup(h)
	lib.Update()

	assert.Equal(t, []string{
		"created", "window moved", "moved", "window resized", "window paint", "widget paint",
		"window destroyed", "destroyed",
	}, events)
	assert.True(t, created.Closed())
	assert.Zero(t, created.Rect())
	created.MouseMoved(1, 1)
}

func TestWindow_WidgetAtPoint(t *testing.T) {
	_, _, win := newWindow(t)
	root := win.Widget()
	assert.Same(t, root, win.WidgetAtPoint(1, 1, false))
	assert.Nil(t, win.WidgetAtPoint(1000, 1000, false))
	assert.Same(t, root, win.WidgetAtPoint(1000, 1000, true))
	assert.Same(t, root, win.Widget())
}

func TestWindow_InputAndEditing(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("data:text/html,<p>hello world</p>"))
	lib.Update()

	win.Focus()
	assert.True(t, win.Focused())
	assert.True(t, engine.Focused(win.Widget().Handle()))

	win.TextEvent("typed")
	win.KeyEvent(true, 0, 0x08, 0)
	assert.Equal(t, "type", engine.Typed(win.Handle()))
	win.Undo()
	assert.Equal(t, "typed", engine.Typed(win.Handle()))
	win.Redo()

	win.SelectAll()
	win.Copy()
	assert.Equal(t, "type", engine.Clipboard())
	win.DeleteSelection()
	assert.Empty(t, engine.Typed(win.Handle()))
	win.Paste()
	assert.Equal(t, "type", engine.Typed(win.Handle()))

	var menu berkelium.ContextMenuEventArgs
	win.OnShowContextMenu = func(a berkelium.ContextMenuEventArgs) { menu = a }
	var cursor uintptr
	win.OnCursorChanged = func(c uintptr) { cursor = c }
	win.MouseMoved(7, 9)
	win.MouseButton(berkelium.MouseButtonRight, true)
	win.MouseButton(berkelium.MouseButtonRight, false)
	lib.Update()

	assert.Equal(t, headless.CursorArrow, cursor)
	assert.Equal(t, 7, menu.MouseX)
	assert.Equal(t, 9, menu.MouseY)
	assert.Equal(t, "data:text/html,<p>hello world</p>", menu.PageURL)
	assert.Equal(t, berkelium.MediaTypeNone, menu.MediaType)

	win.Unfocus()
	assert.False(t, win.Focused())
}

func TestWindow_ZoomTransparencyCSS(t *testing.T) {
	lib, engine, win := newWindow(t)
	require.NoError(t, win.NavigateTo("about:blank"))
	lib.Update()

	win.AdjustZoom(berkelium.ZoomIn)
	assert.Equal(t, 110, engine.Zoom(win.Handle()))
	win.AdjustZoom(berkelium.ZoomReset)
	assert.Equal(t, 100, engine.Zoom(win.Handle()))

	assert.False(t, win.Transparent())
	win.SetTransparent(true)
	assert.True(t, engine.Transparent(win.Handle()))
	assert.True(t, win.Transparent())
	win.SetTransparent(false)
	assert.False(t, win.Transparent())
	assert.False(t, engine.Transparent(win.Handle()))
	win.SetTransparent(true)

	var last berkelium.Paint
	win.OnPaint = func(p berkelium.Paint) { last = berkelium.Paint{Pixels: append([]byte(nil), p.Pixels[:4]...)} }
	require.NoError(t, win.InsertCSS("body { background: #00ff00 }", "theme"))
	lib.Update()
	assert.Equal(t, []byte{0x00, 0xff, 0x00, 0xff}, last.Pixels)
}

func TestWindow_CrashCallbacks(t *testing.T) {
	lib, engine, win := newWindow(t)
	var got []string
	win.OnCrashed = func() { got = append(got, "crashed") }
	win.OnUnresponsive = func() { got = append(got, "unresponsive") }
	win.OnResponsive = func() { got = append(got, "responsive") }
	win.OnCrashedWorker = func() { got = append(got, "worker") }
	win.OnCrashedPlugin = func(name string) { got = append(got, "plugin "+name) }
	win.OnTooltipChanged = func(text string) { got = append(got, "tooltip "+text) }

	engine.SetResponsive(win.Handle(), false)
	engine.SetResponsive(win.Handle(), true)
	engine.CrashPlugin(win.Handle(), "")
	engine.CrashPlugin(win.Handle(), "Flash")
	engine.SetTooltip(win.Handle(), "hint")
	engine.Crash(win.Handle())
	lib.Update()

	assert.Equal(t, []string{"unresponsive", "responsive", "worker", "plugin Flash", "tooltip hint", "crashed"}, got)
}

func TestWindow_ChromeSendArgsFromNative(t *testing.T) {
	lib, engine, win := newWindow(t)
	var args []string
	win.OnChromeSend = func(_ string, a []string) { args = a }

	msg := marshal.StringToWide("m")
	engine.Dispatch(win.Handle(), func(d native.WindowDelegate) {
		d.OnChromeSend(win.Handle(), marshal.WideOf(msg), nil, 0)
	})
	lib.Update()
	assert.NotNil(t, args)
	assert.Empty(t, args)
}

func TestWindow_Closed(t *testing.T) {
	lib, engine, win := newWindow(t)
	root := win.Widget()
	require.NoError(t, win.Close())
	require.NoError(t, win.Close())

	assert.True(t, win.Closed())
	assert.True(t, root.Closed())
	assert.Nil(t, win.Widget())
	assert.Nil(t, win.WidgetAtPoint(1, 1, true))
	assert.Zero(t, win.Rect())
	assert.False(t, win.CanGoBack())
	assert.ErrorIs(t, win.NavigateTo("about:blank"), berkelium.ErrClosed)
	assert.ErrorIs(t, win.ExecuteJavascript("1"), berkelium.ErrClosed)
	assert.ErrorIs(t, win.InsertCSS("", ""), berkelium.ErrClosed)
	assert.ErrorIs(t, win.Resize(10, 10), berkelium.ErrClosed)

	win.GoBack()
	win.Copy()
	win.MouseMoved(1, 1)
	win.Focus()
	assert.False(t, win.Focused())
	win.SetTransparent(true)
	assert.False(t, win.Transparent())
	lib.Update()
	assert.Zero(t, engine.WindowCount())
	assert.Empty(t, lib.Windows())
}

func TestWindow_ResizeRejectsEmpty(t *testing.T) {
	_, _, win := newWindow(t)
	assert.Error(t, win.Resize(0, 10))
}
