package headless

import (
	"encoding/hex"
	"image/color"
	"regexp"
	"strings"
	"unsafe"

	"golang.org/x/image/colornames"

	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

var cssBackgroundPattern = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*([#\w]+)`)

// parseColor understands #rgb, #rrggbb and CSS colour names.
func parseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return color.RGBA{}, true
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	hexDigits := strings.TrimPrefix(s, "#")
	if len(hexDigits) == 3 {
		hexDigits = string([]byte{
			hexDigits[0], hexDigits[0],
			hexDigits[1], hexDigits[1],
			hexDigits[2], hexDigits[2],
		})
	}
	if len(hexDigits) != 6 {
		return color.RGBA{}, false
	}
	raw, err := hex.DecodeString(hexDigits)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}, true
}

// backgroundOf returns the colour the page paints with. Inserted style
// sheets override the document; a transparent window without a page colour
// paints fully transparent pixels.
func (w *window) backgroundOf() color.RGBA {
	for i := len(w.sheets) - 1; i >= 0; i-- {
		if m := cssBackgroundPattern.FindStringSubmatch(w.sheets[i].css); m != nil {
			if c, ok := parseColor(m[1]); ok {
				return w.opaque(c)
			}
		}
	}
	if w.pageBg != nil {
		return w.opaque(*w.pageBg)
	}
	if w.transparent {
		return color.RGBA{}
	}
	return w.background
}

func (w *window) opaque(c color.RGBA) color.RGBA {
	if !w.transparent {
		c.A = 0xff
	}
	return c
}

// fill returns width*height BGRA pixels of c.
func fill(c color.RGBA, width, height int32) []byte {
	buf := make([]byte, int(width)*int(height)*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i] = c.B
		buf[i+1] = c.G
		buf[i+2] = c.R
		buf[i+3] = c.A
	}
	return buf
}

// paint repaints the whole root widget.
func (e *Engine) paint(w *window) {
	d := w.delegate
	if d == nil || !e.alive(w) {
		return
	}
	r := w.root.rect
	r.Left, r.Top = 0, 0
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	pixels := fill(w.backgroundOf(), r.Width, r.Height)
	rects := []native.Rect{r}
	d.OnPaint(w.handle, &native.PaintEvent{
		Pixels:       unsafe.Pointer(&pixels[0]),
		Rect:         r,
		CopyRects:    &rects[0],
		NumCopyRects: uintptr(len(rects)),
	})
}

// paintScroll reports a scroll of the root widget by (dx, dy) together with
// the strip it exposed.
func (e *Engine) paintScroll(w *window, dx, dy int32) {
	d := w.delegate
	if d == nil || !e.alive(w) || !w.loaded {
		return
	}
	full := w.root.rect
	full.Left, full.Top = 0, 0
	exposed := full
	switch {
	case dy < 0:
		exposed.Height = min(-dy, full.Height)
		exposed.Top = full.Height - exposed.Height
	case dy > 0:
		exposed.Height = min(dy, full.Height)
	case dx < 0:
		exposed.Width = min(-dx, full.Width)
		exposed.Left = full.Width - exposed.Width
	default:
		exposed.Width = min(dx, full.Width)
	}
	if exposed.Width <= 0 || exposed.Height <= 0 {
		return
	}
	pixels := fill(w.backgroundOf(), exposed.Width, exposed.Height)
	rects := []native.Rect{exposed}
	d.OnPaint(w.handle, &native.PaintEvent{
		Pixels:       unsafe.Pointer(&pixels[0]),
		Rect:         exposed,
		CopyRects:    &rects[0],
		NumCopyRects: uintptr(len(rects)),
		DX:           dx,
		DY:           dy,
		ScrollRect:   full,
	})
}

// paintWidget repaints a popup widget in its own coordinates.
func (e *Engine) paintWidget(wd *widget, c color.RGBA) {
	w := wd.win
	d := w.delegate
	if d == nil || !e.alive(w) {
		return
	}
	r := native.Rect{Width: wd.rect.Width, Height: wd.rect.Height}
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	pixels := fill(c, r.Width, r.Height)
	rects := []native.Rect{r}
	d.OnWidgetPaint(w.handle, wd.handle, &native.PaintEvent{
		Pixels:       unsafe.Pointer(&pixels[0]),
		Rect:         r,
		CopyRects:    &rects[0],
		NumCopyRects: uintptr(len(rects)),
	})
}
