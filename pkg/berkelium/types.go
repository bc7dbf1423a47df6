package berkelium

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Rect is a rectangle in widget coordinates.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.Left, r.Top, r.Width, r.Height)
}

func rectFromNative(r native.Rect) Rect {
	return Rect{Left: int(r.Left), Top: int(r.Top), Width: int(r.Width), Height: int(r.Height)}
}

// MouseButton identifies a mouse button.
type MouseButton uint32

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonMiddle:
		return "middle"
	case MouseButtonRight:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", uint32(b))
	}
}

// KeyModifier is a set of keyboard modifier flags.
type KeyModifier int32

const (
	ModShift KeyModifier = 1 << iota
	ModControl
	ModAlt
	ModMeta
	ModKeypad
	ModAutorepeat
	ModSystem
)

// ScriptAlertFlags describes the kind of dialog a page requested.
type ScriptAlertFlags int32

const (
	AlertHasOKButton ScriptAlertFlags = 1 << iota
	AlertHasCancelButton
	AlertHasPromptField
	AlertHasMessage
)

// Has reports whether every flag in f2 is set.
func (f ScriptAlertFlags) Has(f2 ScriptAlertFlags) bool { return f&f2 == f2 }

// Kind names the dialog flavour.
func (f ScriptAlertFlags) Kind() string {
	switch {
	case f.Has(AlertHasPromptField):
		return "prompt"
	case f.Has(AlertHasCancelButton):
		return "confirm"
	default:
		return "alert"
	}
}

// MediaType is the kind of element under a context menu.
type MediaType int32

const (
	MediaTypeNone MediaType = iota
	MediaTypeImage
	MediaTypeVideo
	MediaTypeAudio
)

func (m MediaType) String() string {
	switch m {
	case MediaTypeImage:
		return "image"
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	default:
		return "none"
	}
}

// EditFlags lists the editing commands available in a context menu.
type EditFlags int32

const (
	CanUndo EditFlags = 1 << iota
	CanRedo
	CanCut
	CanCopy
	CanPaste
	CanDelete
	CanSelectAll
)

func (f EditFlags) String() string {
	names := []string{"undo", "redo", "cut", "copy", "paste", "delete", "select-all"}
	var set []string
	for i, name := range names {
		if f&(1<<i) != 0 {
			set = append(set, name)
		}
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, "|")
}

// ZoomFunction selects a zoom adjustment.
type ZoomFunction int32

const (
	ZoomOut   ZoomFunction = -1
	ZoomReset ZoomFunction = 0
	ZoomIn    ZoomFunction = 1
)

// ContextMenuEventArgs describes a context menu request.
type ContextMenuEventArgs struct {
	MediaType    MediaType
	MouseX       int
	MouseY       int
	LinkURL      string
	SrcURL       string
	PageURL      string
	FrameURL     string
	SelectedText string
	IsEditable   bool
	EditFlags    EditFlags
}

func contextMenuFromNative(a *native.ContextMenuArgs) ContextMenuEventArgs {
	return ContextMenuEventArgs{
		MediaType:    MediaType(a.MediaType),
		MouseX:       int(a.MouseX),
		MouseY:       int(a.MouseY),
		LinkURL:      marshal.NarrowToString(a.LinkURL),
		SrcURL:       marshal.NarrowToString(a.SrcURL),
		PageURL:      marshal.NarrowToString(a.PageURL),
		FrameURL:     marshal.NarrowToString(a.FrameURL),
		SelectedText: marshal.WideToString(a.SelectedText),
		IsEditable:   a.IsEditable,
		EditFlags:    EditFlags(a.EditFlags),
	}
}

// Paint describes updated pixels. Pixels holds Rect.Width*Rect.Height BGRA
// pixels and is only valid during the callback; copy it to keep it.
type Paint struct {
	Pixels     []byte
	Rect       Rect
	CopyRects  []Rect
	DX         int
	DY         int
	ScrollRect Rect
}

// Scrolled reports whether the paint carries a scroll operation.
func (p Paint) Scrolled() bool {
	return (p.DX != 0 || p.DY != 0) && !p.ScrollRect.Empty()
}

func paintFromNative(e *native.PaintEvent) Paint {
	p := Paint{
		Rect:       rectFromNative(e.Rect),
		DX:         int(e.DX),
		DY:         int(e.DY),
		ScrollRect: rectFromNative(e.ScrollRect),
	}
	if e.Pixels != nil && !p.Rect.Empty() {
		p.Pixels = unsafe.Slice((*byte)(e.Pixels), p.Rect.Width*p.Rect.Height*4)
	}
	if e.CopyRects != nil && e.NumCopyRects > 0 {
		rects := unsafe.Slice(e.CopyRects, e.NumCopyRects)
		p.CopyRects = make([]Rect, len(rects))
		for i, r := range rects {
			p.CopyRects[i] = rectFromNative(r)
		}
	}
	return p
}

// ConsoleMessage is a message a page wrote to its console.
type ConsoleMessage struct {
	SourceID string
	Message  string
	Line     int
}

// ScriptAlert is a dialog request raised by a page.
type ScriptAlert struct {
	Message       string
	DefaultPrompt string
	URL           string
	Flags         ScriptAlertFlags
}

// ScriptAlertResult answers a ScriptAlert. A nil Prompt sends no reply text.
type ScriptAlertResult struct {
	Success bool
	Prompt  *string
}

// NavigationRequest is a navigation the page initiated.
type NavigationRequest struct {
	URL         string
	Referrer    string
	IsNewWindow bool
}

// NavigationDecision answers a NavigationRequest.
type NavigationDecision struct {
	Cancel bool
}

// InvalidParameter describes an invalid parameter reported by the engine.
type InvalidParameter struct {
	Expression string
	Function   string
	File       string
	Line       int
}
