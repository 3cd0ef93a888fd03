package geometry

import "math"

const (
	// BaseDPI is the intrinsic resolution of document units: PDF points
	// are defined as 72 per inch.
	BaseDPI = 72.0

	// DefaultTargetDPI is the export resolution used when the caller does
	// not request one.
	DefaultTargetDPI = 300.0

	// maxAutoDPI caps the resolution chosen by AutoDPI.
	maxAutoDPI = 600.0
)

// PixelRect is a crop window in export raster pixels. (X0,Y0) is the
// top-left corner (inclusive), (X1,Y1) the bottom-right (exclusive).
type PixelRect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Width returns the horizontal extent in pixels.
func (p PixelRect) Width() int { return p.X1 - p.X0 }

// Height returns the vertical extent in pixels.
func (p PixelRect) Height() int { return p.Y1 - p.Y0 }

// ExportScale returns the raster scale factor (export pixels per document
// unit times BaseDPI) for the given target DPI. The scale is raised when the
// region's native pixel density exceeds the target, so native resolution is
// never downsampled: output is always >= the requested DPI and >= the page's
// native density. Nothing ever reduces below this floor.
func ExportScale(targetDPI, nativeDPI float64) float64 {
	if targetDPI <= 0 {
		targetDPI = DefaultTargetDPI
	}
	dpi := targetDPI
	if nativeDPI > dpi {
		dpi = nativeDPI
	}
	return dpi / BaseDPI
}

// ComputeExportBox converts a document-space rectangle into the pixel crop
// window and scale factor used at export time. The pixel rectangle is the
// document rectangle scaled and rounded outward, clamped to the rendered
// page raster. The raster dimensions use ceil(page * scale), matching the
// page renderer, so the window always lies inside the rendered image.
func ComputeExportBox(docRect Rect, pageW, pageH, targetDPI, nativeDPI float64) (PixelRect, float64) {
	scale := ExportScale(targetDPI, nativeDPI)
	rasterW := int(math.Ceil(pageW * scale))
	rasterH := int(math.Ceil(pageH * scale))

	r := docRect.Clamp(pageW, pageH)
	box := PixelRect{
		X0: int(math.Floor(r.X0 * scale)),
		Y0: int(math.Floor(r.Y0 * scale)),
		X1: int(math.Ceil(r.X1 * scale)),
		Y1: int(math.Ceil(r.Y1 * scale)),
	}
	box.X0 = clampInt(box.X0, 0, rasterW)
	box.X1 = clampInt(box.X1, 0, rasterW)
	box.Y0 = clampInt(box.Y0, 0, rasterH)
	box.Y1 = clampInt(box.Y1, 0, rasterH)
	return box, scale
}

// OutputEstimate describes the raster an export will produce.
type OutputEstimate struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// ApproxBytes is the uncompressed RGBA size; the PNG on disk is
	// smaller. Width and Height are exact.
	ApproxBytes int64 `json:"approx_bytes"`
}

// EstimateOutputSize reports the dimensions the export raster will have.
// It is pure and must agree exactly with the crop produced at export time;
// both sides derive from the same PixelRect.
func EstimateOutputSize(box PixelRect) OutputEstimate {
	w, h := box.Width(), box.Height()
	return OutputEstimate{
		Width:       w,
		Height:      h,
		ApproxBytes: int64(w) * int64(h) * 4,
	}
}

// AutoDPI picks an export resolution that renders the rectangle about
// targetPx pixels wide, capped at maxAutoDPI and floored at the default
// target. Used for the "Auto" quality setting.
func AutoDPI(docRect Rect, targetPx int) float64 {
	w := docRect.Width()
	if w <= epsilon || targetPx <= 0 {
		return DefaultTargetDPI
	}
	dpi := float64(targetPx) / (w / BaseDPI)
	if dpi > maxAutoDPI {
		return maxAutoDPI
	}
	if dpi < DefaultTargetDPI {
		return DefaultTargetDPI
	}
	return dpi
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
