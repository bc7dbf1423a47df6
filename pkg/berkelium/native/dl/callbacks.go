package dl

import (
	"sync"

	"github.com/ebitengine/purego"

	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// windowTable is the window callback table passed to brk_set_callbacks.
// Field order is the shim's; the shim copies the table.
type windowTable struct {
	addressBarChanged   uintptr
	startLoading        uintptr
	load                uintptr
	loadError           uintptr
	crashed             uintptr
	unresponsive        uintptr
	responsive          uintptr
	chromeSend          uintptr
	createdWindow       uintptr
	paint               uintptr
	crashedWorker       uintptr
	crashedPlugin       uintptr
	consoleMessage      uintptr
	scriptAlert         uintptr
	freeLastScriptAlert uintptr
	navigationRequested uintptr
	loadingStateChanged uintptr
	titleChanged        uintptr
	tooltipChanged      uintptr
	showContextMenu     uintptr
	cursorUpdated       uintptr
	widgetCreated       uintptr
	widgetDestroyed     uintptr
	widgetResize        uintptr
	widgetMove          uintptr
	widgetPaint         uintptr
}

type errorTable struct {
	pureCall         uintptr
	invalidParameter uintptr
	outOfMemory      uintptr
	assertion        uintptr
}

// scriptAlertArgs mirrors brk_script_alert_t. The callee fills Success and
// Reply.
type scriptAlertArgs struct {
	Message      native.WideString
	DefaultValue native.WideString
	URL          native.NarrowString
	Flags        int32
	Success      bool
	Reply        native.WideString
}

type callbackSet struct {
	window   windowTable
	errors   errorTable
	protocol uintptr
}

var (
	tables     callbackSet
	tablesOnce sync.Once
)

// callbacks creates the trampolines. purego callbacks are never released, so
// they are created once per process and routed through the dispatch maps.
// Every trampoline returns a uintptr because Windows callbacks must have
// exactly one word-sized result; the shim ignores it for void hooks.
func callbacks() *callbackSet {
	tablesOnce.Do(func() {
		tables = callbackSet{
			window: windowTable{
				addressBarChanged:   purego.NewCallback(cbAddressBarChanged),
				startLoading:        purego.NewCallback(cbStartLoading),
				load:                purego.NewCallback(cbLoad),
				loadError:           purego.NewCallback(cbLoadError),
				crashed:             purego.NewCallback(cbCrashed),
				unresponsive:        purego.NewCallback(cbUnresponsive),
				responsive:          purego.NewCallback(cbResponsive),
				chromeSend:          purego.NewCallback(cbChromeSend),
				createdWindow:       purego.NewCallback(cbCreatedWindow),
				paint:               purego.NewCallback(cbPaint),
				crashedWorker:       purego.NewCallback(cbCrashedWorker),
				crashedPlugin:       purego.NewCallback(cbCrashedPlugin),
				consoleMessage:      purego.NewCallback(cbConsoleMessage),
				scriptAlert:         purego.NewCallback(cbScriptAlert),
				freeLastScriptAlert: purego.NewCallback(cbFreeLastScriptAlert),
				navigationRequested: purego.NewCallback(cbNavigationRequested),
				loadingStateChanged: purego.NewCallback(cbLoadingStateChanged),
				titleChanged:        purego.NewCallback(cbTitleChanged),
				tooltipChanged:      purego.NewCallback(cbTooltipChanged),
				showContextMenu:     purego.NewCallback(cbShowContextMenu),
				cursorUpdated:       purego.NewCallback(cbCursorUpdated),
				widgetCreated:       purego.NewCallback(cbWidgetCreated),
				widgetDestroyed:     purego.NewCallback(cbWidgetDestroyed),
				widgetResize:        purego.NewCallback(cbWidgetResize),
				widgetMove:          purego.NewCallback(cbWidgetMove),
				widgetPaint:         purego.NewCallback(cbWidgetPaint),
			},
			errors: errorTable{
				pureCall:         purego.NewCallback(cbPureCall),
				invalidParameter: purego.NewCallback(cbInvalidParameter),
				outOfMemory:      purego.NewCallback(cbOutOfMemory),
				assertion:        purego.NewCallback(cbAssertion),
			},
			protocol: purego.NewCallback(cbHandleRequest),
		}
	})
	return &tables
}

type protocolEntry struct {
	ctx    native.Handle
	scheme string
	p      native.Protocol
}

var dispatch = struct {
	sync.Mutex
	windows   map[native.Handle]native.WindowDelegate
	errs      native.ErrorDelegate
	protocols map[uintptr]protocolEntry
	schemes   map[native.Handle]map[string]uintptr
	nextToken uintptr
}{
	windows:   make(map[native.Handle]native.WindowDelegate),
	protocols: make(map[uintptr]protocolEntry),
	schemes:   make(map[native.Handle]map[string]uintptr),
}

func setWindowDelegate(win native.Handle, d native.WindowDelegate) {
	dispatch.Lock()
	defer dispatch.Unlock()
	if d == nil {
		delete(dispatch.windows, win)
		return
	}
	dispatch.windows[win] = d
}

func windowDelegate(win uintptr) native.WindowDelegate {
	dispatch.Lock()
	defer dispatch.Unlock()
	return dispatch.windows[native.Handle(win)]
}

func setErrorDelegate(d native.ErrorDelegate) {
	dispatch.Lock()
	dispatch.errs = d
	dispatch.Unlock()
}

func errorDelegate() native.ErrorDelegate {
	dispatch.Lock()
	defer dispatch.Unlock()
	return dispatch.errs
}

func resetDispatch() {
	dispatch.Lock()
	defer dispatch.Unlock()
	clear(dispatch.windows)
	clear(dispatch.protocols)
	clear(dispatch.schemes)
	dispatch.errs = nil
}

// addProtocol stores p and returns the token the shim hands back with every
// request. A scheme registered twice on the same context keeps the newest.
func addProtocol(ctx native.Handle, scheme string, p native.Protocol) uintptr {
	dispatch.Lock()
	defer dispatch.Unlock()
	byScheme, ok := dispatch.schemes[ctx]
	if !ok {
		byScheme = make(map[string]uintptr)
		dispatch.schemes[ctx] = byScheme
	}
	if old, ok := byScheme[scheme]; ok {
		delete(dispatch.protocols, old)
	}
	dispatch.nextToken++
	token := dispatch.nextToken
	byScheme[scheme] = token
	dispatch.protocols[token] = protocolEntry{ctx: ctx, scheme: scheme, p: p}
	return token
}

func removeProtocol(ctx native.Handle, scheme string) {
	dispatch.Lock()
	defer dispatch.Unlock()
	byScheme := dispatch.schemes[ctx]
	if token, ok := byScheme[scheme]; ok {
		delete(dispatch.protocols, token)
		delete(byScheme, scheme)
	}
	if len(byScheme) == 0 {
		delete(dispatch.schemes, ctx)
	}
}

func dropProtocols(ctx native.Handle) {
	dispatch.Lock()
	defer dispatch.Unlock()
	for _, token := range dispatch.schemes[ctx] {
		delete(dispatch.protocols, token)
	}
	delete(dispatch.schemes, ctx)
}

func protocolFor(token uintptr) native.Protocol {
	dispatch.Lock()
	defer dispatch.Unlock()
	return dispatch.protocols[token].p
}

func wide(p *uint16, n uintptr) native.WideString {
	return native.WideString{Data: p, Length: n}
}

func narrow(p *byte, n uintptr) native.NarrowString {
	return native.NarrowString{Data: p, Length: n}
}

func cbAddressBarChanged(win uintptr, url *byte, urlLen uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnAddressBarChanged(native.Handle(win), narrow(url, urlLen))
	}
	return 0
}

func cbStartLoading(win uintptr, url *byte, urlLen uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnStartLoading(native.Handle(win), narrow(url, urlLen))
	}
	return 0
}

func cbLoad(win uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnLoad(native.Handle(win))
	}
	return 0
}

func cbLoadError(win uintptr, url *byte, urlLen uintptr, code int32, mainFrame bool) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnLoadError(native.Handle(win), narrow(url, urlLen), code, mainFrame)
	}
	return 0
}

func cbCrashed(win uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnCrashed(native.Handle(win))
	}
	return 0
}

func cbUnresponsive(win uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnUnresponsive(native.Handle(win))
	}
	return 0
}

func cbResponsive(win uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnResponsive(native.Handle(win))
	}
	return 0
}

func cbChromeSend(win uintptr, msg *uint16, msgLen uintptr, args *native.WideString, numArgs uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnChromeSend(native.Handle(win), wide(msg, msgLen), args, numArgs)
	}
	return 0
}

func cbCreatedWindow(win, newWin uintptr, rect *native.Rect, url *byte, urlLen uintptr) uintptr {
	var r native.Rect
	if rect != nil {
		r = *rect
	}
	if d := windowDelegate(win); d != nil {
		d.OnCreatedWindow(native.Handle(win), native.Handle(newWin), r, narrow(url, urlLen))
	}
	return 0
}

func cbPaint(win uintptr, ev *native.PaintEvent) uintptr {
	if d := windowDelegate(win); d != nil && ev != nil {
		d.OnPaint(native.Handle(win), ev)
	}
	return 0
}

func cbCrashedWorker(win uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnCrashedWorker(native.Handle(win))
	}
	return 0
}

func cbCrashedPlugin(win uintptr, name *uint16, nameLen uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnCrashedPlugin(native.Handle(win), wide(name, nameLen))
	}
	return 0
}

func cbConsoleMessage(win uintptr, src *uint16, srcLen uintptr, msg *uint16, msgLen uintptr, line int32) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnConsoleMessage(native.Handle(win), wide(src, srcLen), wide(msg, msgLen), line)
	}
	return 0
}

func cbScriptAlert(win uintptr, args *scriptAlertArgs) uintptr {
	d := windowDelegate(win)
	if d == nil || args == nil {
		return 0
	}
	d.OnScriptAlert(native.Handle(win), args.Message, args.DefaultValue, args.URL, args.Flags, &args.Success, &args.Reply)
	return 0
}

// cbFreeLastScriptAlert has no window; any installed delegate releases the
// reply since all of them free through the same allocator.
func cbFreeLastScriptAlert(reply *uint16, replyLen uintptr) uintptr {
	dispatch.Lock()
	var d native.WindowDelegate
	for _, wd := range dispatch.windows {
		d = wd
		break
	}
	dispatch.Unlock()
	if d != nil {
		d.FreeLastScriptAlert(wide(reply, replyLen))
	}
	return 0
}

func cbNavigationRequested(win uintptr, url *byte, urlLen uintptr, ref *byte, refLen uintptr, newWindow bool, cancel *bool) uintptr {
	if d := windowDelegate(win); d != nil && cancel != nil {
		d.OnNavigationRequested(native.Handle(win), narrow(url, urlLen), narrow(ref, refLen), newWindow, cancel)
	}
	return 0
}

func cbLoadingStateChanged(win uintptr, loading bool) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnLoadingStateChanged(native.Handle(win), loading)
	}
	return 0
}

func cbTitleChanged(win uintptr, title *uint16, titleLen uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnTitleChanged(native.Handle(win), wide(title, titleLen))
	}
	return 0
}

func cbTooltipChanged(win uintptr, text *uint16, textLen uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnTooltipChanged(native.Handle(win), wide(text, textLen))
	}
	return 0
}

func cbShowContextMenu(win uintptr, args *native.ContextMenuArgs) uintptr {
	if d := windowDelegate(win); d != nil && args != nil {
		d.OnShowContextMenu(native.Handle(win), args)
	}
	return 0
}

func cbCursorUpdated(win, cursor uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnCursorUpdated(native.Handle(win), cursor)
	}
	return 0
}

func cbWidgetCreated(win, widget uintptr, zIndex int32) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnWidgetCreated(native.Handle(win), native.Handle(widget), zIndex)
	}
	return 0
}

func cbWidgetDestroyed(win, widget uintptr) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnWidgetDestroyed(native.Handle(win), native.Handle(widget))
	}
	return 0
}

func cbWidgetResize(win, widget uintptr, width, height int32) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnWidgetResize(native.Handle(win), native.Handle(widget), width, height)
	}
	return 0
}

func cbWidgetMove(win, widget uintptr, x, y int32) uintptr {
	if d := windowDelegate(win); d != nil {
		d.OnWidgetMove(native.Handle(win), native.Handle(widget), x, y)
	}
	return 0
}

func cbWidgetPaint(win, widget uintptr, ev *native.PaintEvent) uintptr {
	if d := windowDelegate(win); d != nil && ev != nil {
		d.OnWidgetPaint(native.Handle(win), native.Handle(widget), ev)
	}
	return 0
}

func cbPureCall() uintptr {
	if d := errorDelegate(); d != nil {
		d.OnPureCall()
	}
	return 0
}

func cbInvalidParameter(expr *uint16, exprLen uintptr, fn *uint16, fnLen uintptr, file *uint16, fileLen uintptr, line uint32) uintptr {
	if d := errorDelegate(); d != nil {
		d.OnInvalidParameter(wide(expr, exprLen), wide(fn, fnLen), wide(file, fileLen), line)
	}
	return 0
}

func cbOutOfMemory() uintptr {
	if d := errorDelegate(); d != nil {
		d.OnOutOfMemory()
	}
	return 0
}

func cbAssertion(msg *byte, msgLen uintptr) uintptr {
	if d := errorDelegate(); d != nil {
		d.OnAssertion(narrow(msg, msgLen))
	}
	return 0
}

// cbHandleRequest returns 1 when the handler produced a response.
func cbHandleRequest(token uintptr, url *uint16, urlLen uintptr, body, headers *native.Buffer) uintptr {
	p := protocolFor(token)
	if p == nil || body == nil || headers == nil {
		return 0
	}
	if p.HandleRequest(wide(url, urlLen), body, headers) {
		return 1
	}
	return 0
}
