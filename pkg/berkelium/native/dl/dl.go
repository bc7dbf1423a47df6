// Package dl loads the engine's C shim at run time with purego and exposes it
// as a native.Engine. No cgo is involved: outgoing calls are registered
// function pointers and notifications come back through callbacks created
// once per process.
package dl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/bnema/berkelium-go/internal/logging"
	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// ErrLibraryNotFound is returned when the shim is missing from the resource
// directory.
var ErrLibraryNotFound = errors.New("dl: engine library not found")

// Return codes of brk_init and brk_context_register_protocol.
const (
	codeOK             = 0
	codeNotImplemented = -1
)

// Engine is the engine shim loaded into the process.
type Engine struct {
	path string

	brkInit          func(home *uint16, length uintptr) int32
	brkDestroy       func()
	brkUpdate        func()
	brkSetErrorsOn   func(enabled bool)
	brkAlloc         func(size uintptr) unsafe.Pointer
	brkFree          func(p unsafe.Pointer)
	brkSetCallbacks  func(window *windowTable, errs *errorTable, protocol uintptr)
	brkContextCreate func() uintptr
	brkContextClone  func(ctx uintptr) uintptr
	brkContextFree   func(ctx uintptr)
	brkProtocolAdd   func(ctx uintptr, scheme *byte, length uintptr, token uintptr) int32
	brkProtocolDel   func(ctx uintptr, scheme *byte, length uintptr) int32

	brkWindowCreate      func(ctx uintptr) uintptr
	brkWindowDestroy     func(win uintptr)
	brkWindowID          func(win uintptr) int32
	brkWindowDelegate    func(win uintptr, enabled bool)
	brkWindowRootWidget  func(win uintptr) uintptr
	brkWindowWidgetAt    func(win uintptr, x, y int32, rootIfOutside bool) uintptr
	brkWindowTransparent func(win uintptr, transparent bool)
	brkWindowCanBack     func(win uintptr) bool
	brkWindowCanForward  func(win uintptr) bool
	brkWindowNavigate    func(win uintptr, url *uint16, length uintptr) bool
	brkWindowBack        func(win uintptr)
	brkWindowForward     func(win uintptr)
	brkWindowRefresh     func(win uintptr)
	brkWindowStop        func(win uintptr)
	brkWindowZoom        func(win uintptr, mode int32)
	brkWindowExecute     func(win uintptr, script *uint16, length uintptr)
	brkWindowInsertCSS   func(win uintptr, css *uint16, cssLength uintptr, id *uint16, idLength uintptr)
	brkWindowResize      func(win uintptr, width, height int32)
	brkWindowEdit        func(win uintptr, command int32)

	brkWidgetID      func(w uintptr) int32
	brkWidgetRect    func(w uintptr, out *native.Rect)
	brkWidgetKey     func(w uintptr, pressed bool, modifiers, vk, scancode int32)
	brkWidgetText    func(w uintptr, text *uint16, length uintptr)
	brkWidgetButton  func(w uintptr, button uint32, pressed bool)
	brkWidgetMove    func(w uintptr, x, y int32)
	brkWidgetWheel   func(w uintptr, dx, dy int32)
	brkWidgetFocus   func(w uintptr, focused bool)
	brkWidgetSetPos  func(w uintptr, x, y int32)
	brkWidgetDestroy func(w uintptr)
}

var _ native.Engine = (*Engine)(nil)

// Edit commands understood by brk_window_edit.
const (
	editCut int32 = iota
	editCopy
	editPaste
	editUndo
	editRedo
	editDeleteSelection
	editSelectAll
)

var (
	loaded   *Engine
	loadErr  error
	loadOnce sync.Once
)

// Load opens the shim in dir. The library stays loaded for the life of the
// process, so later calls return the first result.
func Load(ctx context.Context, dir string) (native.Engine, error) {
	loadOnce.Do(func() {
		loaded, loadErr = open(filepath.Join(dir, LibraryName()))
	})
	if loadErr != nil {
		return nil, loadErr
	}
	logging.FromContext(ctx).Debug().Str("library", loaded.path).Msg("engine library loaded")
	return loaded, nil
}

// Open loads the shim at path. Unlike Load it does not cache the result;
// callers must not open the same library twice.
func Open(path string) (*Engine, error) {
	return open(path)
}

func open(path string) (*Engine, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, path)
	}
	lib, err := openLibrary(path)
	if err != nil {
		return nil, err
	}
	e := &Engine{path: path}
	for _, reg := range []struct {
		fptr any
		name string
	}{
		{&e.brkInit, "brk_init"},
		{&e.brkDestroy, "brk_destroy"},
		{&e.brkUpdate, "brk_update"},
		{&e.brkSetErrorsOn, "brk_set_error_handler"},
		{&e.brkAlloc, "brk_alloc"},
		{&e.brkFree, "brk_free"},
		{&e.brkSetCallbacks, "brk_set_callbacks"},
		{&e.brkContextCreate, "brk_context_create"},
		{&e.brkContextClone, "brk_context_clone"},
		{&e.brkContextFree, "brk_context_destroy"},
		{&e.brkProtocolAdd, "brk_context_register_protocol"},
		{&e.brkProtocolDel, "brk_context_unregister_protocol"},
		{&e.brkWindowCreate, "brk_window_create"},
		{&e.brkWindowDestroy, "brk_window_destroy"},
		{&e.brkWindowID, "brk_window_id"},
		{&e.brkWindowDelegate, "brk_window_set_delegate"},
		{&e.brkWindowRootWidget, "brk_window_root_widget"},
		{&e.brkWindowWidgetAt, "brk_window_widget_at_point"},
		{&e.brkWindowTransparent, "brk_window_set_transparent"},
		{&e.brkWindowCanBack, "brk_window_can_go_back"},
		{&e.brkWindowCanForward, "brk_window_can_go_forward"},
		{&e.brkWindowNavigate, "brk_window_navigate"},
		{&e.brkWindowBack, "brk_window_go_back"},
		{&e.brkWindowForward, "brk_window_go_forward"},
		{&e.brkWindowRefresh, "brk_window_refresh"},
		{&e.brkWindowStop, "brk_window_stop"},
		{&e.brkWindowZoom, "brk_window_adjust_zoom"},
		{&e.brkWindowExecute, "brk_window_execute_javascript"},
		{&e.brkWindowInsertCSS, "brk_window_insert_css"},
		{&e.brkWindowResize, "brk_window_resize"},
		{&e.brkWindowEdit, "brk_window_edit"},
		{&e.brkWidgetID, "brk_widget_id"},
		{&e.brkWidgetRect, "brk_widget_rect"},
		{&e.brkWidgetKey, "brk_widget_key_event"},
		{&e.brkWidgetText, "brk_widget_text_event"},
		{&e.brkWidgetButton, "brk_widget_mouse_button"},
		{&e.brkWidgetMove, "brk_widget_mouse_moved"},
		{&e.brkWidgetWheel, "brk_widget_mouse_wheel"},
		{&e.brkWidgetFocus, "brk_widget_focus"},
		{&e.brkWidgetSetPos, "brk_widget_set_pos"},
		{&e.brkWidgetDestroy, "brk_widget_destroy"},
	} {
		sym, err := symbol(lib, reg.name)
		if err != nil || sym == 0 {
			return nil, fmt.Errorf("resolve %s in %s: %v", reg.name, path, err)
		}
		purego.RegisterFunc(reg.fptr, sym)
	}

	t := callbacks()
	e.brkSetCallbacks(&t.window, &t.errors, t.protocol)
	return e, nil
}

func (e *Engine) Init(homeDir native.WideString) error {
	if rc := e.brkInit(homeDir.Data, homeDir.Length); rc != codeOK {
		return fmt.Errorf("brk_init failed with code %d", rc)
	}
	return nil
}

func (e *Engine) Destroy() {
	e.brkDestroy()
	resetDispatch()
}

func (e *Engine) Update() {
	e.brkUpdate()
}

func (e *Engine) SetErrorHandler(d native.ErrorDelegate) {
	setErrorDelegate(d)
	e.brkSetErrorsOn(d != nil)
}

func (e *Engine) Alloc(size uintptr) unsafe.Pointer {
	return e.brkAlloc(size)
}

func (e *Engine) Free(p unsafe.Pointer) {
	e.brkFree(p)
}

func (e *Engine) CreateContext() native.Handle {
	return native.Handle(e.brkContextCreate())
}

func (e *Engine) CloneContext(ctx native.Handle) native.Handle {
	return native.Handle(e.brkContextClone(uintptr(ctx)))
}

func (e *Engine) DestroyContext(ctx native.Handle) {
	e.brkContextFree(uintptr(ctx))
	dropProtocols(ctx)
}

func (e *Engine) RegisterProtocol(ctx native.Handle, scheme native.NarrowString, p native.Protocol) error {
	name := marshal.NarrowToString(scheme)
	token := addProtocol(ctx, name, p)
	switch rc := e.brkProtocolAdd(uintptr(ctx), scheme.Data, scheme.Length, token); rc {
	case codeOK:
		return nil
	case codeNotImplemented:
		removeProtocol(ctx, name)
		return native.ErrNotImplemented
	default:
		removeProtocol(ctx, name)
		return fmt.Errorf("brk_context_register_protocol failed with code %d", rc)
	}
}

func (e *Engine) UnregisterProtocol(ctx native.Handle, scheme native.NarrowString) error {
	switch rc := e.brkProtocolDel(uintptr(ctx), scheme.Data, scheme.Length); rc {
	case codeOK:
		removeProtocol(ctx, marshal.NarrowToString(scheme))
		return nil
	case codeNotImplemented:
		return native.ErrNotImplemented
	default:
		return fmt.Errorf("brk_context_unregister_protocol failed with code %d", rc)
	}
}

func (e *Engine) CreateWindow(ctx native.Handle) native.Handle {
	return native.Handle(e.brkWindowCreate(uintptr(ctx)))
}

func (e *Engine) DestroyWindow(win native.Handle) {
	setWindowDelegate(win, nil)
	e.brkWindowDestroy(uintptr(win))
}

func (e *Engine) WindowID(win native.Handle) int32 {
	return e.brkWindowID(uintptr(win))
}

func (e *Engine) SetDelegate(win native.Handle, d native.WindowDelegate) {
	setWindowDelegate(win, d)
	e.brkWindowDelegate(uintptr(win), d != nil)
}

func (e *Engine) RootWidget(win native.Handle) native.Handle {
	return native.Handle(e.brkWindowRootWidget(uintptr(win)))
}

func (e *Engine) WidgetAtPoint(win native.Handle, x, y int32, rootIfOutside bool) native.Handle {
	return native.Handle(e.brkWindowWidgetAt(uintptr(win), x, y, rootIfOutside))
}

func (e *Engine) SetTransparent(win native.Handle, transparent bool) {
	e.brkWindowTransparent(uintptr(win), transparent)
}

func (e *Engine) CanGoBack(win native.Handle) bool {
	return e.brkWindowCanBack(uintptr(win))
}

func (e *Engine) CanGoForward(win native.Handle) bool {
	return e.brkWindowCanForward(uintptr(win))
}

func (e *Engine) NavigateTo(win native.Handle, url native.WideString) bool {
	return e.brkWindowNavigate(uintptr(win), url.Data, url.Length)
}

func (e *Engine) GoBack(win native.Handle)    { e.brkWindowBack(uintptr(win)) }
func (e *Engine) GoForward(win native.Handle) { e.brkWindowForward(uintptr(win)) }
func (e *Engine) Refresh(win native.Handle)   { e.brkWindowRefresh(uintptr(win)) }
func (e *Engine) Stop(win native.Handle)      { e.brkWindowStop(uintptr(win)) }

func (e *Engine) AdjustZoom(win native.Handle, mode int32) {
	e.brkWindowZoom(uintptr(win), mode)
}

func (e *Engine) ExecuteJavascript(win native.Handle, script native.WideString) {
	e.brkWindowExecute(uintptr(win), script.Data, script.Length)
}

func (e *Engine) InsertCSS(win native.Handle, css, id native.WideString) {
	e.brkWindowInsertCSS(uintptr(win), css.Data, css.Length, id.Data, id.Length)
}

func (e *Engine) Resize(win native.Handle, width, height int32) {
	e.brkWindowResize(uintptr(win), width, height)
}

func (e *Engine) Cut(win native.Handle)             { e.brkWindowEdit(uintptr(win), editCut) }
func (e *Engine) Copy(win native.Handle)            { e.brkWindowEdit(uintptr(win), editCopy) }
func (e *Engine) Paste(win native.Handle)           { e.brkWindowEdit(uintptr(win), editPaste) }
func (e *Engine) Undo(win native.Handle)            { e.brkWindowEdit(uintptr(win), editUndo) }
func (e *Engine) Redo(win native.Handle)            { e.brkWindowEdit(uintptr(win), editRedo) }
func (e *Engine) DeleteSelection(win native.Handle) { e.brkWindowEdit(uintptr(win), editDeleteSelection) }
func (e *Engine) SelectAll(win native.Handle)       { e.brkWindowEdit(uintptr(win), editSelectAll) }

func (e *Engine) WidgetID(w native.Handle) int32 {
	return e.brkWidgetID(uintptr(w))
}

func (e *Engine) WidgetRect(w native.Handle) native.Rect {
	var r native.Rect
	e.brkWidgetRect(uintptr(w), &r)
	return r
}

func (e *Engine) KeyEvent(w native.Handle, pressed bool, modifiers, vk, scancode int32) {
	e.brkWidgetKey(uintptr(w), pressed, modifiers, vk, scancode)
}

func (e *Engine) TextEvent(w native.Handle, text native.WideString) {
	e.brkWidgetText(uintptr(w), text.Data, text.Length)
}

func (e *Engine) MouseButton(w native.Handle, button uint32, pressed bool) {
	e.brkWidgetButton(uintptr(w), button, pressed)
}

func (e *Engine) MouseMoved(w native.Handle, x, y int32) {
	e.brkWidgetMove(uintptr(w), x, y)
}

func (e *Engine) MouseWheel(w native.Handle, dx, dy int32) {
	e.brkWidgetWheel(uintptr(w), dx, dy)
}

func (e *Engine) Focus(w native.Handle)   { e.brkWidgetFocus(uintptr(w), true) }
func (e *Engine) Unfocus(w native.Handle) { e.brkWidgetFocus(uintptr(w), false) }

func (e *Engine) SetPos(w native.Handle, x, y int32) {
	e.brkWidgetSetPos(uintptr(w), x, y)
}

func (e *Engine) DestroyWidget(w native.Handle) {
	e.brkWidgetDestroy(uintptr(w))
}
