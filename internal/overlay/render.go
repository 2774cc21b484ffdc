package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/scrollplayer/internal/engine"
)

var (
	barColor   = color.NRGBA{R: 255, A: 178}
	textColor  = color.White
	panelColor = color.NRGBA{A: 128}
)

// Render draws the overlay onto a new transparent w x h canvas.
func Render(w, h int, v View) *image.RGBA {
	return RenderInto(image.NewRGBA(image.Rect(0, 0, w, h)), v)
}

// RenderInto draws the overlay onto img, which should be transparent and
// anchored at the origin.
func RenderInto(img *image.RGBA, v View) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return img
	}

	fill := barRect(w, h, v.Bar)
	draw.Draw(img, fill, image.NewUniform(barColor), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	textW := font.MeasureString(face, v.Text).Ceil()
	panel := image.Rect(20, 10, 20+textW+10, 10+face.Height+10)
	draw.Draw(img, panel, image.NewUniform(panelColor), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(panel.Min.X+5, panel.Min.Y+5+face.Ascent),
	}
	d.DrawString(v.Text)
	return img
}

// barRect is the filled part of the progress bar in canvas pixels.
func barRect(w, h int, b Bar) image.Rectangle {
	if b.Axis == engine.AxisHorizontal {
		length := int(float64(w) * b.LengthPercent / 100)
		start := (w - length) / 2
		filled := int(float64(length) * b.FillPercent / 100)
		if b.FromEnd {
			return image.Rect(start+length-filled, h-BarDepth, start+length, h)
		}
		return image.Rect(start, h-BarDepth, start+filled, h)
	}
	length := int(float64(h) * b.LengthPercent / 100)
	start := (h - length) / 2
	filled := int(float64(length) * b.FillPercent / 100)
	if b.FromEnd {
		return image.Rect(0, start+length-filled, BarDepth, start+length)
	}
	return image.Rect(0, start, BarDepth, start+filled)
}

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
