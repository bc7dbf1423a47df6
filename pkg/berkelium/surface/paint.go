package surface

import (
	"image"

	"github.com/bnema/berkelium-go/pkg/berkelium"
)

func rect(r berkelium.Rect) image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right(), r.Bottom())
}

// Apply writes p into dst: the scroll blit first, then the BGRA pixels of
// p.Rect. Parts outside dst are clipped.
func Apply(dst *image.RGBA, p berkelium.Paint) {
	if p.DX != 0 || p.DY != 0 {
		scroll(dst, rect(p.ScrollRect), p.DX, p.DY)
	}
	if p.Rect.Empty() || len(p.Pixels) < p.Rect.Width*p.Rect.Height*4 {
		return
	}
	target := rect(p.Rect)
	clip := target.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	stride := p.Rect.Width * 4
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		src := p.Pixels[(y-target.Min.Y)*stride+(clip.Min.X-target.Min.X)*4:]
		row := dst.Pix[dst.PixOffset(clip.Min.X, y):]
		for x := 0; x < clip.Dx(); x++ {
			i := x * 4
			row[i] = src[i+2]
			row[i+1] = src[i+1]
			row[i+2] = src[i]
			row[i+3] = src[i+3]
		}
	}
}

// scroll moves the part of area that stays visible after shifting it by
// (dx, dy).
func scroll(dst *image.RGBA, area image.Rectangle, dx, dy int) {
	area = area.Intersect(dst.Bounds())
	delta := image.Pt(dx, dy)
	to := area.Add(delta).Intersect(area)
	if to.Empty() {
		return
	}
	from := to.Sub(delta)

	tmp := image.NewRGBA(image.Rect(0, 0, from.Dx(), from.Dy()))
	for y := 0; y < from.Dy(); y++ {
		copy(tmp.Pix[tmp.PixOffset(0, y):tmp.PixOffset(0, y)+from.Dx()*4],
			dst.Pix[dst.PixOffset(from.Min.X, from.Min.Y+y):])
	}
	for y := 0; y < to.Dy(); y++ {
		copy(dst.Pix[dst.PixOffset(to.Min.X, to.Min.Y+y):dst.PixOffset(to.Min.X, to.Min.Y+y)+to.Dx()*4],
			tmp.Pix[tmp.PixOffset(0, y):])
	}
}
