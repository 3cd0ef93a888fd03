package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/novvoo/go-poppler/pkg/pdf"

	"github.com/stclair/pdf-figures-mcp/internal/geometry"
)

// RenderPage rasterizes one page at the given scale factor (1.0 = 72 DPI).
// Render calls are serialized; two goroutines never touch the engine at
// once.
func (d *Document) RenderPage(page int, scale float64) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renderLocked(page, scale)
}

// RenderRegion rasterizes a page at the given scale and crops the pixel
// window out of it. The window comes from geometry.ComputeExportBox with the
// same scale, so it always lies within the rendered raster; it is clamped
// once more against the decoded bounds as a final guard.
func (d *Document) RenderRegion(page int, box geometry.PixelRect, scale float64) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := d.renderLocked(page, scale)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	crop := image.Rect(box.X0, box.Y0, box.X1, box.Y1).Intersect(bounds)
	if crop.Empty() {
		return nil, fmt.Errorf("crop window %+v outside rendered page %v", box, bounds)
	}
	return imaging.Crop(img, crop), nil
}

func (d *Document) renderLocked(page int, scale float64) (image.Image, error) {
	if _, err := d.pageLocked(page); err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid render scale %g", scale)
	}

	renderer := pdf.NewPageRenderer(d.doc, pdf.RenderOptions{
		DPI:    scale * geometry.BaseDPI,
		Format: "png",
	})
	rendered, err := renderer.RenderPage(page + 1)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}

	img, err := png.Decode(bytes.NewReader(rendered.Data))
	if err != nil {
		return nil, fmt.Errorf("decode rendered page %d: %w", page, err)
	}
	return img, nil
}
