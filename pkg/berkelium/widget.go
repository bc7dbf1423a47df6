package berkelium

import (
	"fmt"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Widget is a rectangular surface inside a window: the root content area or
// a popup such as a select dropdown. Widgets are owned by the engine; a
// Widget value is a view that becomes closed when the engine destroys it.
type Widget struct {
	window *Window
	engine native.Engine
	handle native.Handle

	OnPaint     func(p Paint)
	OnMoved     func(x, y int)
	OnResized   func(width, height int)
	OnDestroyed func()
}

// ID returns the engine widget id.
func (wd *Widget) ID() int {
	if wd.handle.IsNull() {
		return 0
	}
	return int(wd.engine.WidgetID(wd.handle))
}

// Handle returns the engine handle, or the null handle once closed.
func (wd *Widget) Handle() native.Handle {
	return wd.handle
}

// ParentWindow returns the window the widget belongs to.
func (wd *Widget) ParentWindow() *Window {
	return wd.window
}

// Closed reports whether the engine destroyed the widget.
func (wd *Widget) Closed() bool {
	return wd.handle.IsNull()
}

// Rect returns the widget rectangle in window coordinates.
func (wd *Widget) Rect() Rect {
	if wd.handle.IsNull() {
		return Rect{}
	}
	return rectFromNative(wd.engine.WidgetRect(wd.handle))
}

func (wd *Widget) KeyEvent(pressed bool, modifiers KeyModifier, vk, scancode int) {
	if wd.handle.IsNull() {
		return
	}
	wd.engine.KeyEvent(wd.handle, pressed, int32(modifiers), int32(vk), int32(scancode))
}

// TextEvent types text as if entered through an input method.
func (wd *Widget) TextEvent(text string) {
	if wd.handle.IsNull() || text == "" {
		return
	}
	units := marshal.StringToWide(text)
	wd.engine.TextEvent(wd.handle, marshal.WideOf(units))
}

func (wd *Widget) MouseButton(button MouseButton, pressed bool) {
	if !wd.handle.IsNull() {
		wd.engine.MouseButton(wd.handle, uint32(button), pressed)
	}
}

func (wd *Widget) MouseMoved(x, y int) {
	if !wd.handle.IsNull() {
		wd.engine.MouseMoved(wd.handle, int32(x), int32(y))
	}
}

func (wd *Widget) MouseWheel(dx, dy int) {
	if !wd.handle.IsNull() {
		wd.engine.MouseWheel(wd.handle, int32(dx), int32(dy))
	}
}

func (wd *Widget) Focus() {
	if !wd.handle.IsNull() {
		wd.engine.Focus(wd.handle)
	}
}

func (wd *Widget) Unfocus() {
	if !wd.handle.IsNull() {
		wd.engine.Unfocus(wd.handle)
	}
}

// Move places the widget at (x, y) in window coordinates.
func (wd *Widget) Move(x, y int) {
	if !wd.handle.IsNull() {
		wd.engine.SetPos(wd.handle, int32(x), int32(y))
	}
}

func (wd *Widget) String() string {
	return fmt.Sprintf("Widget(%d)", wd.ID())
}
