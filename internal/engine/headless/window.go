package headless

import (
	"image/color"
	"slices"

	"github.com/grafana/sobek"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Cursor values reported through OnCursorUpdated.
const (
	CursorArrow uintptr = 1
	CursorHand  uintptr = 2
)

const (
	zoomStep = 10
	zoomMin  = 30
	zoomMax  = 300
)

type window struct {
	handle   native.Handle
	id       int32
	ctx      *contextState
	delegate native.WindowDelegate
	root     *widget
	popups   []*widget

	history []string
	pos     int
	gen     int

	url         string
	title       string
	text        string
	loaded      bool
	transparent bool
	zoom        int
	background  color.RGBA
	pageBg      *color.RGBA
	sheets      []styleSheet
	vm          *sobek.Runtime

	crashed   bool
	mouseX    int32
	mouseY    int32
	cursor    uintptr
	selection string
	typed     []rune
	undo      [][]rune
	redo      [][]rune
}

type widget struct {
	handle  native.Handle
	id      int32
	win     *window
	rect    native.Rect
	z       int32
	focused bool
}

type styleSheet struct {
	id  string
	css string
}

func (e *Engine) CreateWindow(ctx native.Handle) native.Handle {
	c, ok := e.contexts[ctx]
	if !ok {
		return 0
	}
	return e.createWindow(c, native.Rect{Width: e.width, Height: e.height})
}

func (e *Engine) createWindow(c *contextState, rect native.Rect) native.Handle {
	if rect.Width <= 0 || rect.Height <= 0 {
		rect.Width, rect.Height = e.width, e.height
	}
	h := e.newHandle()
	w := &window{
		handle:     h,
		id:         int32(h),
		ctx:        c,
		zoom:       100,
		background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		url:        "about:blank",
	}
	// The root widget shares the window id.
	root := &widget{handle: e.newHandle(), id: w.id, win: w, rect: native.Rect{Width: rect.Width, Height: rect.Height}}
	w.root = root
	e.windows[h] = w
	e.widgets[root.handle] = root
	return h
}

func (e *Engine) DestroyWindow(win native.Handle) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	for _, p := range w.popups {
		delete(e.widgets, p.handle)
	}
	delete(e.widgets, w.root.handle)
	delete(e.windows, win)
	w.delegate = nil
	w.vm = nil
	w.gen++
}

func (e *Engine) WindowID(win native.Handle) int32 {
	if w, ok := e.windows[win]; ok {
		return w.id
	}
	return 0
}

func (e *Engine) SetDelegate(win native.Handle, d native.WindowDelegate) {
	if w, ok := e.windows[win]; ok {
		w.delegate = d
	}
}

func (e *Engine) RootWidget(win native.Handle) native.Handle {
	if w, ok := e.windows[win]; ok {
		return w.root.handle
	}
	return 0
}

func (e *Engine) WidgetAtPoint(win native.Handle, x, y int32, rootIfOutside bool) native.Handle {
	w, ok := e.windows[win]
	if !ok {
		return 0
	}
	for i := len(w.popups) - 1; i >= 0; i-- {
		if contains(w.popups[i].rect, x, y) {
			return w.popups[i].handle
		}
	}
	if contains(w.root.rect, x, y) || rootIfOutside {
		return w.root.handle
	}
	return 0
}

func contains(r native.Rect, x, y int32) bool {
	return x >= r.Left && y >= r.Top && x < r.Left+r.Width && y < r.Top+r.Height
}

func (e *Engine) SetTransparent(win native.Handle, transparent bool) {
	w, ok := e.windows[win]
	if !ok || w.transparent == transparent {
		return
	}
	w.transparent = transparent
	e.post(func() { e.paint(w) })
}

func (e *Engine) CanGoBack(win native.Handle) bool {
	w, ok := e.windows[win]
	return ok && w.pos > 0
}

func (e *Engine) CanGoForward(win native.Handle) bool {
	w, ok := e.windows[win]
	return ok && w.pos < len(w.history)-1
}

// NavigateTo queues a load. It refuses an empty URL.
func (e *Engine) NavigateTo(win native.Handle, url native.WideString) bool {
	w, ok := e.windows[win]
	if !ok {
		return false
	}
	target := marshal.WideToString(url)
	if target == "" {
		return false
	}
	w.crashed = false
	e.queueLoad(w, target, true)
	return true
}

func (e *Engine) GoBack(win native.Handle) {
	if w, ok := e.windows[win]; ok && w.pos > 0 {
		w.pos--
		e.queueLoad(w, w.history[w.pos], false)
	}
}

func (e *Engine) GoForward(win native.Handle) {
	if w, ok := e.windows[win]; ok && w.pos < len(w.history)-1 {
		w.pos++
		e.queueLoad(w, w.history[w.pos], false)
	}
}

func (e *Engine) Refresh(win native.Handle) {
	if w, ok := e.windows[win]; ok && len(w.history) > 0 {
		w.crashed = false
		e.queueLoad(w, w.history[w.pos], false)
	}
}

// Stop drops loads that have not started yet.
func (e *Engine) Stop(win native.Handle) {
	if w, ok := e.windows[win]; ok {
		w.gen++
	}
}

func (e *Engine) AdjustZoom(win native.Handle, mode int32) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	switch {
	case mode < 0:
		w.zoom = max(w.zoom-zoomStep, zoomMin)
	case mode > 0:
		w.zoom = min(w.zoom+zoomStep, zoomMax)
	default:
		w.zoom = 100
	}
	if w.loaded {
		e.post(func() { e.paint(w) })
	}
}

func (e *Engine) ExecuteJavascript(win native.Handle, script native.WideString) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	src := marshal.WideToString(script)
	gen := w.gen
	e.post(func() {
		if w.gen != gen || w.crashed || e.windows[w.handle] != w {
			return
		}
		e.runScript(w, "javascript", src)
	})
}

func (e *Engine) InsertCSS(win native.Handle, css, id native.WideString) {
	w, ok := e.windows[win]
	if !ok {
		return
	}
	sheet := styleSheet{id: marshal.WideToString(id), css: marshal.WideToString(css)}
	replaced := false
	if sheet.id != "" {
		for i := range w.sheets {
			if w.sheets[i].id == sheet.id {
				w.sheets[i] = sheet
				replaced = true
			}
		}
	}
	if !replaced {
		w.sheets = append(w.sheets, sheet)
	}
	if w.loaded {
		e.post(func() { e.paint(w) })
	}
}

// Resize changes the root widget and repaints it.
func (e *Engine) Resize(win native.Handle, width, height int32) {
	w, ok := e.windows[win]
	if !ok || width <= 0 || height <= 0 {
		return
	}
	w.root.rect.Width, w.root.rect.Height = width, height
	e.post(func() {
		if d := w.delegate; d != nil {
			d.OnWidgetResize(w.handle, w.root.handle, width, height)
		}
		e.paint(w)
	})
}

func (e *Engine) Cut(win native.Handle) {
	if w, ok := e.windows[win]; ok && w.selection != "" {
		e.clipboard = w.selection
		e.deleteSelection(w)
	}
}

func (e *Engine) Copy(win native.Handle) {
	if w, ok := e.windows[win]; ok && w.selection != "" {
		e.clipboard = w.selection
	}
}

func (e *Engine) Paste(win native.Handle) {
	if w, ok := e.windows[win]; ok && e.clipboard != "" {
		e.edit(w, append(slices.Clone(w.typed), []rune(e.clipboard)...))
	}
}

func (e *Engine) Undo(win native.Handle) {
	w, ok := e.windows[win]
	if !ok || len(w.undo) == 0 {
		return
	}
	w.redo = append(w.redo, w.typed)
	w.typed = w.undo[len(w.undo)-1]
	w.undo = w.undo[:len(w.undo)-1]
}

func (e *Engine) Redo(win native.Handle) {
	w, ok := e.windows[win]
	if !ok || len(w.redo) == 0 {
		return
	}
	w.undo = append(w.undo, w.typed)
	w.typed = w.redo[len(w.redo)-1]
	w.redo = w.redo[:len(w.redo)-1]
}

func (e *Engine) DeleteSelection(win native.Handle) {
	if w, ok := e.windows[win]; ok {
		e.deleteSelection(w)
	}
}

func (e *Engine) deleteSelection(w *window) {
	if w.selection == "" {
		return
	}
	typed := string(w.typed)
	if typed == w.selection {
		e.edit(w, nil)
	}
	w.selection = ""
}

func (e *Engine) SelectAll(win native.Handle) {
	if w, ok := e.windows[win]; ok {
		if len(w.typed) > 0 {
			w.selection = string(w.typed)
		} else {
			w.selection = w.text
		}
	}
}

// edit replaces the typed text, recording the previous value for Undo.
func (e *Engine) edit(w *window, typed []rune) {
	w.undo = append(w.undo, w.typed)
	w.redo = nil
	w.typed = typed
}

func (e *Engine) WidgetID(h native.Handle) int32 {
	if wd, ok := e.widgets[h]; ok {
		return wd.id
	}
	return 0
}

func (e *Engine) WidgetRect(h native.Handle) native.Rect {
	if wd, ok := e.widgets[h]; ok {
		return wd.rect
	}
	return native.Rect{}
}

// KeyEvent handles backspace; other keys are ignored.
func (e *Engine) KeyEvent(h native.Handle, pressed bool, _, vk, _ int32) {
	wd, ok := e.widgets[h]
	if !ok || !pressed {
		return
	}
	const vkBack = 0x08
	if vk == vkBack && len(wd.win.typed) > 0 {
		e.edit(wd.win, slices.Clone(wd.win.typed[:len(wd.win.typed)-1]))
	}
}

func (e *Engine) TextEvent(h native.Handle, text native.WideString) {
	wd, ok := e.widgets[h]
	if !ok {
		return
	}
	s := marshal.WideToString(text)
	if s == "" {
		return
	}
	e.edit(wd.win, append(slices.Clone(wd.win.typed), []rune(s)...))
}

// MouseButton shows the context menu when the right button is released.
func (e *Engine) MouseButton(h native.Handle, button uint32, pressed bool) {
	wd, ok := e.widgets[h]
	if !ok {
		return
	}
	const buttonRight = 2
	if button != buttonRight || pressed {
		return
	}
	w := wd.win
	x, y := w.mouseX, w.mouseY
	e.post(func() { e.showContextMenu(w, x, y) })
}

func (e *Engine) MouseMoved(h native.Handle, x, y int32) {
	wd, ok := e.widgets[h]
	if !ok {
		return
	}
	w := wd.win
	w.mouseX, w.mouseY = x, y
	cursor := CursorArrow
	for _, p := range w.popups {
		if contains(p.rect, x, y) {
			cursor = CursorHand
		}
	}
	if cursor == w.cursor {
		return
	}
	w.cursor = cursor
	e.post(func() {
		if d := w.delegate; d != nil {
			d.OnCursorUpdated(w.handle, cursor)
		}
	})
}

// MouseWheel scrolls the root widget by (dx, dy).
func (e *Engine) MouseWheel(h native.Handle, dx, dy int32) {
	wd, ok := e.widgets[h]
	if !ok || (dx == 0 && dy == 0) {
		return
	}
	w := wd.win
	e.post(func() { e.paintScroll(w, dx, dy) })
}

func (e *Engine) Focus(h native.Handle) {
	if wd, ok := e.widgets[h]; ok {
		wd.focused = true
	}
}

func (e *Engine) Unfocus(h native.Handle) {
	if wd, ok := e.widgets[h]; ok {
		wd.focused = false
	}
}

func (e *Engine) SetPos(h native.Handle, x, y int32) {
	wd, ok := e.widgets[h]
	if !ok {
		return
	}
	wd.rect.Left, wd.rect.Top = x, y
	w := wd.win
	e.post(func() {
		if d := w.delegate; d != nil {
			d.OnWidgetMove(w.handle, wd.handle, x, y)
		}
	})
}

// DestroyWidget removes a popup widget. The root widget lives as long as its
// window.
func (e *Engine) DestroyWidget(h native.Handle) {
	wd, ok := e.widgets[h]
	if !ok || wd == wd.win.root {
		return
	}
	w := wd.win
	if d := w.delegate; d != nil {
		d.OnWidgetDestroyed(w.handle, h)
	}
	w.popups = slices.DeleteFunc(w.popups, func(p *widget) bool { return p == wd })
	delete(e.widgets, h)
}
