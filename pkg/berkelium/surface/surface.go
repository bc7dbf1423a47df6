// Package surface keeps a CPU copy of a window's pixels by applying its
// paint notifications, and composes the root area with its popup widgets.
package surface

import (
	"image"
	"slices"
	"sync"

	"golang.org/x/image/draw"

	"github.com/bnema/berkelium-go/pkg/berkelium"
)

type layer struct {
	img   *image.RGBA
	at    image.Point
	z     int
	order int
}

// Surface is the composed image of one window. Paint handlers run on the
// pump goroutine; Snapshot may be called from any goroutine.
type Surface struct {
	mu     sync.Mutex
	root   *image.RGBA
	layers map[*berkelium.Widget]*layer
	seq    int
	paints int
}

// New returns a transparent surface of the given size.
func New(width, height int) *Surface {
	return &Surface{
		root:   image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		layers: make(map[*berkelium.Widget]*layer),
	}
}

// Attach sizes a surface to w and routes w's paint and widget callbacks
// into it. Callbacks already installed on w keep being called after the
// surface has been updated.
func Attach(w *berkelium.Window) *Surface {
	s := New(w.Width(), w.Height())

	onPaint := w.OnPaint
	w.OnPaint = func(p berkelium.Paint) {
		s.Paint(p)
		if onPaint != nil {
			onPaint(p)
		}
	}
	onCreated := w.OnWidgetCreated
	w.OnWidgetCreated = func(wd *berkelium.Widget, zIndex int) {
		r := wd.Rect()
		s.AddWidget(wd, zIndex, r)
		if onCreated != nil {
			onCreated(wd, zIndex)
		}
	}
	onResized := w.OnWidgetResized
	w.OnWidgetResized = func(wd *berkelium.Widget, width, height int) {
		s.ResizeWidget(wd, width, height)
		if onResized != nil {
			onResized(wd, width, height)
		}
	}
	onMoved := w.OnWidgetMoved
	w.OnWidgetMoved = func(wd *berkelium.Widget, x, y int) {
		s.MoveWidget(wd, x, y)
		if onMoved != nil {
			onMoved(wd, x, y)
		}
	}
	onWidgetPaint := w.OnWidgetPaint
	w.OnWidgetPaint = func(wd *berkelium.Widget, p berkelium.Paint) {
		s.PaintWidget(wd, p)
		if onWidgetPaint != nil {
			onWidgetPaint(wd, p)
		}
	}
	onDestroyed := w.OnWidgetDestroyed
	w.OnWidgetDestroyed = func(wd *berkelium.Widget) {
		s.RemoveWidget(wd)
		if onDestroyed != nil {
			onDestroyed(wd)
		}
	}
	return s
}

// Bounds returns the root bounds.
func (s *Surface) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Bounds()
}

// Paints returns the number of root paints applied.
func (s *Surface) Paints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paints
}

// Layers returns the number of widget layers.
func (s *Surface) Layers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

// Resize changes the root size, keeping the pixels that still fit.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = resized(s.root, width, height)
}

// Paint applies a root paint.
func (s *Surface) Paint(p berkelium.Paint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Apply(s.root, p)
	s.paints++
}

// AddWidget starts a layer for wd.
func (s *Surface) AddWidget(wd *berkelium.Widget, zIndex int, r berkelium.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.layers[wd] = &layer{
		img:   image.NewRGBA(image.Rect(0, 0, max(r.Width, 0), max(r.Height, 0))),
		at:    image.Pt(r.Left, r.Top),
		z:     zIndex,
		order: s.seq,
	}
}

// ResizeWidget resizes the layer of wd.
func (s *Surface) ResizeWidget(wd *berkelium.Widget, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.layers[wd]; ok {
		l.img = resized(l.img, width, height)
	}
}

// MoveWidget places the layer of wd at (x, y) in root coordinates.
func (s *Surface) MoveWidget(wd *berkelium.Widget, x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.layers[wd]; ok {
		l.at = image.Pt(x, y)
	}
}

// PaintWidget applies a paint in the widget's own coordinates.
func (s *Surface) PaintWidget(wd *berkelium.Widget, p berkelium.Paint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.layers[wd]; ok {
		Apply(l.img, p)
	}
}

// RemoveWidget drops the layer of wd.
func (s *Surface) RemoveWidget(wd *berkelium.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layers, wd)
}

// Snapshot composes the root and the widget layers in z order and scales
// the result by scale. A scale of zero or less is treated as 1.
func (s *Surface) Snapshot(scale float64) *image.RGBA {
	s.mu.Lock()
	out := image.NewRGBA(s.root.Bounds())
	draw.Copy(out, image.Point{}, s.root, s.root.Bounds(), draw.Src, nil)
	layers := make([]*layer, 0, len(s.layers))
	for _, l := range s.layers {
		layers = append(layers, l)
	}
	slices.SortFunc(layers, func(a, b *layer) int {
		if a.z != b.z {
			return a.z - b.z
		}
		return a.order - b.order
	})
	for _, l := range layers {
		draw.Copy(out, l.at, l.img, l.img.Bounds(), draw.Over, nil)
	}
	s.mu.Unlock()

	if scale <= 0 || scale == 1 {
		return out
	}
	b := out.Bounds()
	w := max(int(float64(b.Dx())*scale+0.5), 1)
	h := max(int(float64(b.Dy())*scale+0.5), 1)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), out, b, draw.Src, nil)
	return scaled
}

func resized(img *image.RGBA, width, height int) *image.RGBA {
	next := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	draw.Copy(next, image.Point{}, img, img.Bounds(), draw.Src, nil)
	return next
}
