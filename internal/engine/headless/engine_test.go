package headless

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// recorder is a WindowDelegate that records notifications by name.
type recorder struct {
	engine *Engine
	events []string

	paints      []native.PaintEvent
	firstPixel  []byte
	titles      []string
	console     []string
	consoleLine []int32
	chrome      map[string][]string
	alerts      []int32
	created     []native.Handle
	menus       []native.ContextMenuArgs
	menuText    []string

	alertSuccess bool
	alertReply   *string
	cancelNav    bool
	destroyNew   bool
}

var _ native.WindowDelegate = (*recorder)(nil)

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnAddressBarChanged(_ native.Handle, url native.NarrowString) {
	r.add("address %s", marshal.NarrowToString(url))
}

func (r *recorder) OnStartLoading(_ native.Handle, url native.NarrowString) {
	r.add("start %s", marshal.NarrowToString(url))
}

func (r *recorder) OnLoad(native.Handle) { r.add("load") }

func (r *recorder) OnLoadError(_ native.Handle, url native.NarrowString, code int32, main bool) {
	r.add("error %s %d %t", marshal.NarrowToString(url), code, main)
}

func (r *recorder) OnCrashed(native.Handle)      { r.add("crashed") }
func (r *recorder) OnUnresponsive(native.Handle) { r.add("unresponsive") }
func (r *recorder) OnResponsive(native.Handle)   { r.add("responsive") }

func (r *recorder) OnChromeSend(_ native.Handle, msg native.WideString, args *native.WideString, n uintptr) {
	if r.chrome == nil {
		r.chrome = make(map[string][]string)
	}
	r.chrome[marshal.WideToString(msg)] = marshal.WideSlice(args, n)
}

func (r *recorder) OnCreatedWindow(_ native.Handle, nw native.Handle, rect native.Rect, url native.NarrowString) {
	r.created = append(r.created, nw)
	r.add("created %s %dx%d", marshal.NarrowToString(url), rect.Width, rect.Height)
	if r.destroyNew {
		r.engine.DestroyWindow(nw)
	}
}

func (r *recorder) OnPaint(_ native.Handle, p *native.PaintEvent) {
	r.paints = append(r.paints, *p)
	r.firstPixel = append([]byte(nil), unsafe.Slice((*byte)(p.Pixels), 4)...)
	r.add("paint")
}

func (r *recorder) OnCrashedWorker(native.Handle) { r.add("worker crashed") }

func (r *recorder) OnCrashedPlugin(_ native.Handle, name native.WideString) {
	r.add("plugin crashed %s", marshal.WideToString(name))
}

func (r *recorder) OnConsoleMessage(_ native.Handle, _, msg native.WideString, line int32) {
	r.console = append(r.console, marshal.WideToString(msg))
	r.consoleLine = append(r.consoleLine, line)
}

func (r *recorder) OnScriptAlert(_ native.Handle, _, _ native.WideString, _ native.NarrowString, flags int32, success *bool, reply *native.WideString) {
	r.alerts = append(r.alerts, flags)
	*success = r.alertSuccess
	if r.alertReply != nil {
		*reply = marshal.CopyWideToNative(r.engine, *r.alertReply)
	}
}

func (r *recorder) FreeLastScriptAlert(reply native.WideString) {
	r.engine.Free(unsafe.Pointer(reply.Data))
	r.add("free reply")
}

func (r *recorder) OnNavigationRequested(_ native.Handle, url, referrer native.NarrowString, newWindow bool, cancel *bool) {
	r.add("navigate %s from %s new=%t", marshal.NarrowToString(url), marshal.NarrowToString(referrer), newWindow)
	*cancel = r.cancelNav
}

func (r *recorder) OnLoadingStateChanged(_ native.Handle, loading bool) {
	r.add("loading %t", loading)
}

func (r *recorder) OnTitleChanged(_ native.Handle, title native.WideString) {
	r.titles = append(r.titles, marshal.WideToString(title))
}

func (r *recorder) OnTooltipChanged(_ native.Handle, text native.WideString) {
	r.add("tooltip %s", marshal.WideToString(text))
}

func (r *recorder) OnShowContextMenu(_ native.Handle, args *native.ContextMenuArgs) {
	r.menus = append(r.menus, *args)
	r.menuText = append(r.menuText, marshal.WideToString(args.SelectedText))
}

func (r *recorder) OnCursorUpdated(_ native.Handle, cursor uintptr) {
	r.add("cursor %d", cursor)
}

func (r *recorder) OnWidgetCreated(_, w native.Handle, z int32) {
	r.add("widget created %d z=%d", r.engine.WidgetID(w), z)
}

func (r *recorder) OnWidgetDestroyed(_, w native.Handle) {
	r.add("widget destroyed")
}

func (r *recorder) OnWidgetResize(_, w native.Handle, width, height int32) {
	r.add("widget resize %d %dx%d", r.engine.WidgetID(w), width, height)
}

func (r *recorder) OnWidgetMove(_, w native.Handle, x, y int32) {
	r.add("widget move %d,%d", x, y)
}

func (r *recorder) OnWidgetPaint(_, w native.Handle, p *native.PaintEvent) {
	r.add("widget paint %dx%d", p.Rect.Width, p.Rect.Height)
}

func newTestWindow(t *testing.T, opts ...Option) (*Engine, native.Handle, native.Handle, *recorder) {
	t.Helper()
	e := New(append([]Option{WithSize(64, 48)}, opts...)...)
	require.NoError(t, e.Init(native.WideString{}))
	ctx := e.CreateContext()
	require.False(t, ctx.IsNull())
	win := e.CreateWindow(ctx)
	require.False(t, win.IsNull())
	rec := &recorder{engine: e}
	e.SetDelegate(win, rec)
	return e, ctx, win, rec
}

func navigate(e *Engine, win native.Handle, url string) bool {
	units := marshal.StringToWide(url)
	return e.NavigateTo(win, marshal.WideOf(units))
}

func exec(e *Engine, win native.Handle, script string) {
	units := marshal.StringToWide(script)
	e.ExecuteJavascript(win, marshal.WideOf(units))
}

func TestEngine_InitTwice(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(native.WideString{}))
	assert.ErrorIs(t, e.Init(native.WideString{}), ErrAlreadyInitialized)
	e.Destroy()
	assert.False(t, e.Initialized())
	assert.True(t, e.CreateContext().IsNull())
}

func TestEngine_RootWidgetSharesWindowID(t *testing.T) {
	e, _, win, _ := newTestWindow(t)
	root := e.RootWidget(win)
	assert.NotEqual(t, win, root)
	assert.Equal(t, e.WindowID(win), e.WidgetID(root))
	assert.Equal(t, native.Rect{Width: 64, Height: 48}, e.WidgetRect(root))
}

func TestEngine_LoadSequence(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	url := "data:text/html,<title>Hello</title><body>hi</body>"
	require.True(t, navigate(e, win, url))
	assert.Empty(t, rec.events, "nothing happens before Update")

	e.Update()

	assert.Equal(t, []string{
		"loading true",
		"start " + url,
		"address " + url,
		"paint",
		"load",
		"loading false",
	}, rec.events)
	assert.Equal(t, []string{"Hello"}, rec.titles)
	assert.Equal(t, url, e.URL(win))
}

func TestEngine_LoadErrors(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	require.True(t, navigate(e, win, "gopher://example"))
	assert.False(t, navigate(e, win, ""))
	e.Update()
	assert.Contains(t, rec.events, fmt.Sprintf("error gopher://example %d true", ErrCodeUnknownScheme))
	assert.Equal(t, "loading false", rec.events[len(rec.events)-1])
}

func TestEngine_BackgroundColour(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, `data:text/html,<body bgcolor="#102030"></body>`)
	e.Update()
	require.Len(t, rec.paints, 1)
	p := rec.paints[0]
	assert.Equal(t, native.Rect{Width: 64, Height: 48}, p.Rect)
	assert.Equal(t, uintptr(1), p.NumCopyRects)
	assert.Equal(t, []byte{0x30, 0x20, 0x10, 0xff}, rec.firstPixel, "BGRA")

	css := marshal.StringToWide("body { background-color: red }")
	e.InsertCSS(win, marshal.WideOf(css), native.WideString{})
	e.Update()
	assert.Equal(t, []byte{0x00, 0x00, 0xff, 0xff}, rec.firstPixel)
}

func TestEngine_TransparentBlank(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	e.SetTransparent(win, true)
	navigate(e, win, "about:blank")
	e.Update()
	assert.Equal(t, []byte{0, 0, 0, 0}, rec.firstPixel)
}

func TestEngine_ScriptsAndConsole(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "data:text/html,<script>console.log('a', 1); document.title = 'From script'</script>")
	e.Update()
	assert.Equal(t, []string{"a 1"}, rec.console)
	assert.Contains(t, rec.titles, "From script")
	assert.Equal(t, "From script", e.Title(win))

	exec(e, win, "throw new Error('boom')")
	e.Update()
	assert.Equal(t, "Uncaught Error: boom", rec.console[len(rec.console)-1])
}

func TestEngine_ChromeSend(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "about:blank")
	e.Update()
	exec(e, win, "chrome.send('save', ['a', 'b']); chrome.send('ping')")
	e.Update()
	assert.Equal(t, []string{"a", "b"}, rec.chrome["save"])
	assert.Equal(t, []string{}, rec.chrome["ping"])
}

func TestEngine_ScriptAlertReply(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "about:blank")
	e.Update()

	reply := "typed answer"
	rec.alertSuccess = true
	rec.alertReply = &reply
	exec(e, win, "document.title = prompt('name?', 'x')")
	e.Update()

	require.Len(t, rec.alerts, 1)
	assert.Equal(t, int32(alertOK|alertCancel|alertPrompt|alertMessage), rec.alerts[0])
	assert.Equal(t, "typed answer", e.Title(win))
	assert.Contains(t, rec.events, "free reply")
	assert.Zero(t, e.LiveAllocations())

	rec.alertSuccess = false
	rec.alertReply = nil
	exec(e, win, "document.title = String(confirm('sure?'))")
	e.Update()
	assert.Equal(t, "false", e.Title(win))
}

func TestEngine_NavigationRequest(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "data:text/html,start")
	e.Update()

	rec.cancelNav = true
	exec(e, win, "location.assign('data:text/html,next')")
	e.Update()
	assert.Contains(t, rec.events, "navigate data:text/html,next from data:text/html,start new=false")
	assert.Equal(t, "data:text/html,start", e.URL(win))

	rec.cancelNav = false
	exec(e, win, "location.href = 'data:text/html,next'")
	e.Update()
	assert.Equal(t, "data:text/html,next", e.URL(win))
	assert.True(t, e.CanGoBack(win))

	e.GoBack(win)
	e.Update()
	assert.Equal(t, "data:text/html,start", e.URL(win))
	assert.True(t, e.CanGoForward(win))
}

func TestEngine_WindowOpen(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "about:blank")
	e.Update()

	exec(e, win, "open('data:text/html,popup', '_blank', 'width=200,height=100')")
	e.Update()
	require.Len(t, rec.created, 1)
	assert.Contains(t, rec.events, "created data:text/html,popup 200x100")
	assert.Equal(t, 2, e.WindowCount())
	assert.Equal(t, "data:text/html,popup", e.URL(rec.created[0]))

	rec.destroyNew = true
	exec(e, win, "open('data:text/html,other')")
	e.Update()
	assert.Equal(t, 2, e.WindowCount(), "destroyed inside the callback")
}

type staticProtocol struct {
	engine  *Engine
	body    string
	headers []string
	handled bool
	urls    []string
}

func (p *staticProtocol) HandleRequest(url native.WideString, body, headers *native.Buffer) bool {
	p.urls = append(p.urls, marshal.WideToString(url))
	*body = marshal.CopyToNative(p.engine, []byte(p.body))
	*headers = marshal.HeaderBlock(p.engine, p.headers)
	return p.handled
}

func TestEngine_ProtocolLoad(t *testing.T) {
	e, ctx, win, rec := newTestWindow(t)
	p := &staticProtocol{
		engine:  e,
		body:    "<title>Custom</title>",
		headers: []string{"HTTP/1.1 200 OK", "Content-Type: text/html; charset=utf-8"},
		handled: true,
	}
	scheme := marshal.StringToNarrow("app")
	require.NoError(t, e.RegisterProtocol(ctx, marshal.NarrowOf(scheme), p))

	navigate(e, win, "app://index.html")
	e.Update()
	assert.Equal(t, []string{"app://index.html"}, p.urls)
	assert.Equal(t, "Custom", e.Title(win))
	assert.Zero(t, e.LiveAllocations(), "engine frees body and headers")

	p.headers = []string{"HTTP/1.1 404 Not Found"}
	navigate(e, win, "app://missing")
	e.Update()
	assert.Contains(t, rec.events, fmt.Sprintf("error app://missing %d true", ErrCodeFileNotFound))
	assert.Zero(t, e.LiveAllocations())

	clone := e.CloneContext(ctx)
	cloneWin := e.CreateWindow(clone)
	navigate(e, cloneWin, "app://index.html")
	e.Update()
	assert.Equal(t, "Custom", e.Title(cloneWin), "clones share protocols")

	require.NoError(t, e.UnregisterProtocol(ctx, marshal.NarrowOf(scheme)))
	navigate(e, win, "app://index.html")
	e.Update()
	assert.Contains(t, rec.events, fmt.Sprintf("error app://index.html %d true", ErrCodeUnknownScheme))
}

func TestEngine_WithoutProtocols(t *testing.T) {
	e, ctx, _, _ := newTestWindow(t, WithoutProtocols())
	scheme := marshal.StringToNarrow("app")
	err := e.RegisterProtocol(ctx, marshal.NarrowOf(scheme), &staticProtocol{engine: e})
	assert.ErrorIs(t, err, native.ErrNotImplemented)
}

func TestEngine_ResizeAndScroll(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "about:blank")
	e.Update()
	rec.events = nil
	rec.paints = nil

	e.Resize(win, 100, 50)
	e.Update()
	rootID := e.WindowID(win)
	assert.Equal(t, []string{fmt.Sprintf("widget resize %d 100x50", rootID), "paint"}, rec.events)

	e.MouseWheel(e.RootWidget(win), 0, -10)
	e.Update()
	p := rec.paints[len(rec.paints)-1]
	assert.Equal(t, int32(-10), p.DY)
	assert.Equal(t, native.Rect{Top: 40, Width: 100, Height: 10}, p.Rect)
	assert.Equal(t, native.Rect{Width: 100, Height: 50}, p.ScrollRect)
}

func TestEngine_Popups(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	h := e.OpenPopup(win, native.Rect{Left: 5, Top: 6, Width: 10, Height: 8}, color.RGBA{A: 0xff})
	e.Update()
	id := e.WidgetID(h)
	assert.Equal(t, []string{
		fmt.Sprintf("widget created %d z=1", id),
		"widget move 5,6",
		fmt.Sprintf("widget resize %d 10x8", id),
		"widget paint 10x8",
	}, rec.events)

	assert.Equal(t, h, e.WidgetAtPoint(win, 6, 7, false))
	assert.Equal(t, e.RootWidget(win), e.WidgetAtPoint(win, 30, 30, false))
	assert.True(t, e.WidgetAtPoint(win, 500, 500, false).IsNull())
	assert.Equal(t, e.RootWidget(win), e.WidgetAtPoint(win, 500, 500, true))

	e.ClosePopup(h)
	e.Update()
	assert.Equal(t, "widget destroyed", rec.events[len(rec.events)-1])
	assert.True(t, e.WidgetAtPoint(win, 6, 7, false) == e.RootWidget(win))
}

func TestEngine_ClipboardAndContextMenu(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "data:text/html,<p>Some text</p>")
	e.Update()

	e.SelectAll(win)
	assert.Equal(t, "Some text", e.Selection(win))
	e.Copy(win)
	assert.Equal(t, "Some text", e.Clipboard())

	root := e.RootWidget(win)
	text := marshal.StringToWide("ab")
	e.TextEvent(root, marshal.WideOf(text))
	e.Paste(win)
	assert.Equal(t, "abSome text", e.Typed(win))
	e.Undo(win)
	assert.Equal(t, "ab", e.Typed(win))
	e.Redo(win)
	assert.Equal(t, "abSome text", e.Typed(win))
	e.KeyEvent(root, true, 0, 0x08, 0)
	assert.Equal(t, "abSome tex", e.Typed(win))

	e.MouseMoved(root, 12, 13)
	e.MouseButton(root, 2, true)
	e.MouseButton(root, 2, false)
	e.Update()
	require.Len(t, rec.menus, 1)
	m := rec.menus[0]
	assert.Equal(t, int32(12), m.MouseX)
	assert.Equal(t, int32(13), m.MouseY)
	assert.Equal(t, "Some text", rec.menuText[0])
	assert.NotZero(t, m.EditFlags&(1<<3), "copy available")
	assert.Contains(t, rec.events, fmt.Sprintf("cursor %d", CursorArrow))
}

func TestEngine_ZoomAndStop(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	e.AdjustZoom(win, 1)
	e.AdjustZoom(win, 1)
	assert.Equal(t, 120, e.Zoom(win))
	e.AdjustZoom(win, 0)
	assert.Equal(t, 100, e.Zoom(win))

	navigate(e, win, "about:blank")
	e.Stop(win)
	e.Update()
	assert.Empty(t, rec.events)
}

func TestEngine_CrashAndFatal(t *testing.T) {
	e, _, win, rec := newTestWindow(t)
	navigate(e, win, "about:blank")
	e.Update()

	e.Crash(win)
	e.Update()
	assert.Contains(t, rec.events, "crashed")
	exec(e, win, "console.log('ignored')")
	e.Update()
	assert.Empty(t, rec.console)

	var assertion string
	e.SetErrorHandler(fatalRecorder{assertion: &assertion})
	e.RaiseFatal(FatalAssertion, "bad state")
	e.Update()
	assert.Equal(t, "bad state", assertion)
}

type fatalRecorder struct {
	assertion *string
}

func (fatalRecorder) OnPureCall()    {}
func (fatalRecorder) OnOutOfMemory() {}
func (fatalRecorder) OnInvalidParameter(_, _, _ native.WideString, _ uint32) {
}

func (f fatalRecorder) OnAssertion(msg native.NarrowString) {
	*f.assertion = marshal.NarrowToString(msg)
}

func TestEngine_AllocFree(t *testing.T) {
	e := New()
	p := e.Alloc(8)
	binary.LittleEndian.PutUint64(unsafe.Slice((*byte)(p), 8), 42)
	assert.True(t, e.IsAllocated(p))
	assert.Equal(t, 1, e.LiveAllocations())
	e.Free(p)
	e.Free(p)
	assert.Zero(t, e.LiveAllocations())
}
