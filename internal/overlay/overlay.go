// Package overlay burns selection outlines and index labels into a rendered
// page image so the UI can show saved crop regions without drawing anything
// itself.
package overlay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is one selection rectangle in display-pixel coordinates, with the
// label shown at its top edge (usually "#<n> <name>").
type Box struct {
	X0    int    `json:"x0"`
	Y0    int    `json:"y0"`
	X1    int    `json:"x1"`
	Y1    int    `json:"y1"`
	Label string `json:"label"`
}

// Result contains the page image with all boxes drawn in, base64-encoded.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	BoxCount    int    `json:"box_count"`
}

const outlineWidth = 2

// Render draws every box onto a copy of img. Each box gets its own color
// from an evenly spaced hue palette so neighboring selections stay
// distinguishable.
func Render(img image.Image, boxes []Box) (*Result, error) {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for i, box := range boxes {
		c := boxColor(i)
		drawOutline(out, box, c)
		if box.Label != "" {
			drawLabel(out, box.X0+outlineWidth+1, box.Y0+outlineWidth+1, box.Label, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &Result{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		BoxCount:    len(boxes),
	}, nil
}

// boxColor picks the i-th palette color. Golden-angle hue stepping keeps
// consecutive selections far apart on the color wheel.
func boxColor(i int) color.RGBA {
	hue := float64(i*137) // degrees, wraps naturally
	for hue >= 360 {
		hue -= 360
	}
	r, g, b := colorful.Hsv(hue, 0.85, 0.85).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawOutline draws an outlineWidth-thick rectangle border, clipped to the
// image bounds.
func drawOutline(img *image.RGBA, box Box, c color.RGBA) {
	for t := 0; t < outlineWidth; t++ {
		for x := box.X0; x <= box.X1; x++ {
			setClipped(img, x, box.Y0+t, c)
			setClipped(img, x, box.Y1-t, c)
		}
		for y := box.Y0; y <= box.Y1; y++ {
			setClipped(img, box.X0+t, y, c)
			setClipped(img, box.X1-t, y, c)
		}
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// drawLabel renders text with a filled background chip at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, bg color.RGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	h := face.Metrics().Height.Ceil()

	chip := image.Rect(x-1, y-1, x+w+2, y+h+1).Intersect(img.Bounds())
	draw.Draw(img, chip, &image.Uniform{bg}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelTextColor(bg)),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// labelTextColor returns black or white, whichever reads better on bg.
func labelTextColor(bg color.RGBA) color.Color {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma > 140 {
		return color.Black
	}
	return color.White
}
