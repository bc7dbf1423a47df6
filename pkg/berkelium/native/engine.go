// Package native describes the handle-based surface of the embedded browser
// engine. Everything here mirrors the C shim one to one: strings travel as
// pointer plus length, objects as opaque handles, and engine notifications
// arrive through the delegate interfaces.
package native

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks . Runtime,Contexts,Protocol,ErrorDelegate

import (
	"errors"
	"unsafe"
)

// ErrNotImplemented is returned by engines that do not support an optional
// entry point, such as custom protocol registration.
var ErrNotImplemented = errors.New("native: not implemented by engine")

// Handle is an opaque pointer-sized identifier of an engine object.
// The zero value is the null handle.
type Handle uintptr

// IsNull reports whether the handle is the null handle.
func (h Handle) IsNull() bool {
	return h == 0
}

// WideString is a UTF-16 string owned by the caller. Length counts code
// units; the data is not terminated.
type WideString struct {
	Data   *uint16
	Length uintptr
}

// NarrowString is an 8-bit string owned by the caller. Length counts bytes.
type NarrowString struct {
	Data   *byte
	Length uintptr
}

// Rect is the engine rectangle layout.
type Rect struct {
	Left   int32
	Top    int32
	Width  int32
	Height int32
}

// Buffer is a block of engine memory handed across the boundary.
// A nil Data is the null buffer.
type Buffer struct {
	Data   unsafe.Pointer
	Length uintptr
}

// PaintEvent carries the arguments of a paint notification. Pixels are
// BGRA, Rect.Width*Rect.Height*4 bytes, and are only valid for the duration
// of the callback.
type PaintEvent struct {
	Pixels       unsafe.Pointer
	Rect         Rect
	CopyRects    *Rect
	NumCopyRects uintptr
	DX           int32
	DY           int32
	ScrollRect   Rect
}

// ContextMenuArgs carries the arguments of a context menu notification.
type ContextMenuArgs struct {
	MediaType    int32
	MouseX       int32
	MouseY       int32
	LinkURL      NarrowString
	SrcURL       NarrowString
	PageURL      NarrowString
	FrameURL     NarrowString
	SelectedText WideString
	IsEditable   bool
	EditFlags    int32
}

// Runtime is the process-wide part of the engine.
type Runtime interface {
	Init(homeDir WideString) error
	Destroy()
	Update()
	// SetErrorHandler installs the fatal error delegate; nil uninstalls it.
	SetErrorHandler(d ErrorDelegate)
	// Alloc returns engine memory the engine later releases itself.
	Alloc(size uintptr) unsafe.Pointer
	Free(p unsafe.Pointer)
}

// Contexts manages browsing contexts and their protocol handlers.
type Contexts interface {
	CreateContext() Handle
	CloneContext(ctx Handle) Handle
	DestroyContext(ctx Handle)
	RegisterProtocol(ctx Handle, scheme NarrowString, p Protocol) error
	UnregisterProtocol(ctx Handle, scheme NarrowString) error
}

// Windows manages windows. Input is delivered through the root widget.
type Windows interface {
	CreateWindow(ctx Handle) Handle
	DestroyWindow(win Handle)
	WindowID(win Handle) int32
	SetDelegate(win Handle, d WindowDelegate)
	RootWidget(win Handle) Handle
	WidgetAtPoint(win Handle, x, y int32, rootIfOutside bool) Handle
	SetTransparent(win Handle, transparent bool)
	CanGoBack(win Handle) bool
	CanGoForward(win Handle) bool
	NavigateTo(win Handle, url WideString) bool
	GoBack(win Handle)
	GoForward(win Handle)
	Refresh(win Handle)
	Stop(win Handle)
	AdjustZoom(win Handle, mode int32)
	ExecuteJavascript(win Handle, script WideString)
	InsertCSS(win Handle, css, id WideString)
	Resize(win Handle, width, height int32)
	Cut(win Handle)
	Copy(win Handle)
	Paste(win Handle)
	Undo(win Handle)
	Redo(win Handle)
	DeleteSelection(win Handle)
	SelectAll(win Handle)
}

// Widgets manages widgets, the root content area and popup surfaces.
type Widgets interface {
	WidgetID(w Handle) int32
	WidgetRect(w Handle) Rect
	KeyEvent(w Handle, pressed bool, modifiers, vk, scancode int32)
	TextEvent(w Handle, text WideString)
	MouseButton(w Handle, button uint32, pressed bool)
	MouseMoved(w Handle, x, y int32)
	MouseWheel(w Handle, dx, dy int32)
	Focus(w Handle)
	Unfocus(w Handle)
	SetPos(w Handle, x, y int32)
	DestroyWidget(w Handle)
}

// Engine is the complete engine surface.
type Engine interface {
	Runtime
	Contexts
	Windows
	Widgets
}

// ErrorDelegate receives fatal engine conditions.
type ErrorDelegate interface {
	OnPureCall()
	OnInvalidParameter(expression, function, file WideString, line uint32)
	OnOutOfMemory()
	OnAssertion(message NarrowString)
}

// Protocol answers requests for a registered URL scheme. The implementation
// fills body and headers with engine memory obtained from Runtime.Alloc; the
// engine frees both after the request.
type Protocol interface {
	HandleRequest(url WideString, body, headers *Buffer) bool
}

// WindowDelegate receives window notifications. Every method is invoked on
// the goroutine that drives Runtime.Update.
type WindowDelegate interface {
	OnAddressBarChanged(win Handle, url NarrowString)
	OnStartLoading(win Handle, url NarrowString)
	OnLoad(win Handle)
	OnLoadError(win Handle, url NarrowString, errorCode int32, isMainFrame bool)
	OnCrashed(win Handle)
	OnUnresponsive(win Handle)
	OnResponsive(win Handle)
	OnChromeSend(win Handle, message WideString, args *WideString, numArgs uintptr)
	OnCreatedWindow(win, newWindow Handle, initialRect Rect, url NarrowString)
	OnPaint(win Handle, paint *PaintEvent)
	OnCrashedWorker(win Handle)
	OnCrashedPlugin(win Handle, pluginName WideString)
	OnConsoleMessage(win Handle, sourceID, message WideString, line int32)
	// OnScriptAlert may set success and point reply at a string allocated
	// with Runtime.Alloc, later handed back through FreeLastScriptAlert.
	OnScriptAlert(win Handle, message, defaultValue WideString, url NarrowString, flags int32, success *bool, reply *WideString)
	FreeLastScriptAlert(reply WideString)
	OnNavigationRequested(win Handle, newURL, referrer NarrowString, isNewWindow bool, cancel *bool)
	OnLoadingStateChanged(win Handle, isLoading bool)
	OnTitleChanged(win Handle, title WideString)
	OnTooltipChanged(win Handle, text WideString)
	OnShowContextMenu(win Handle, args *ContextMenuArgs)
	OnCursorUpdated(win Handle, cursor uintptr)
	OnWidgetCreated(win, widget Handle, zIndex int32)
	OnWidgetDestroyed(win, widget Handle)
	OnWidgetResize(win, widget Handle, width, height int32)
	OnWidgetMove(win, widget Handle, x, y int32)
	OnWidgetPaint(win, widget Handle, paint *PaintEvent)
}
