package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/stclair/pdf-figures-mcp/internal/geometry"
	"github.com/stclair/pdf-figures-mcp/internal/session"
)

// ErrExportIO reports a per-item failure during export. It never aborts the
// remaining items in a batch.
var ErrExportIO = errors.New("export failed")

// Status of one exported item.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ItemResult is the per-selection outcome of an export.
type ItemResult struct {
	SelectionID int    `json:"selection_id"`
	Status      Status `json:"status"`
	OutputPath  string `json:"output_path,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Renderer is the document surface the exporter needs. Implemented by
// pdfdoc.Document.
type Renderer interface {
	PageSize(page int) (w, h float64, err error)
	PageNativeDPI(page int) float64
	RenderRegion(page int, box geometry.PixelRect, scale float64) (image.Image, error)
}

// Exporter renders selections at a target DPI and writes them to disk.
type Exporter struct {
	doc       Renderer
	targetDPI float64
}

// New creates an exporter. targetDPI <= 0 selects the default (300).
func New(doc Renderer, targetDPI float64) *Exporter {
	if targetDPI <= 0 {
		targetDPI = geometry.DefaultTargetDPI
	}
	return &Exporter{doc: doc, targetDPI: targetDPI}
}

// TargetDPI returns the configured export resolution.
func (e *Exporter) TargetDPI() float64 { return e.targetDPI }

// Plan computes the pixel crop window and scale factor a selection will be
// exported with. Export and Estimate both derive from this one computation,
// which is what makes the preview exact.
func (e *Exporter) Plan(sel session.Selection) (geometry.PixelRect, float64, error) {
	w, h, err := e.doc.PageSize(sel.Page)
	if err != nil {
		return geometry.PixelRect{}, 0, err
	}
	box, scale := geometry.ComputeExportBox(sel.Rect, w, h, e.targetDPI, e.doc.PageNativeDPI(sel.Page))
	return box, scale, nil
}

// Estimate reports the exact raster dimensions and approximate memory size
// an export of the selection will produce.
func (e *Exporter) Estimate(sel session.Selection) (geometry.OutputEstimate, error) {
	box, _, err := e.Plan(sel)
	if err != nil {
		return geometry.OutputEstimate{}, err
	}
	return geometry.EstimateOutputSize(box), nil
}

// ExportOne renders a single selection into dir. The output filename is the
// selection name plus ".png", de-collided against existing files. A single
// crop is short, so it is not cancellable mid-raster.
func (e *Exporter) ExportOne(sel session.Selection, dir string) ItemResult {
	box, scale, err := e.Plan(sel)
	if err != nil {
		return failure(sel.ID, err)
	}

	img, err := e.doc.RenderRegion(sel.Page, box, scale)
	if err != nil {
		return failure(sel.ID, err)
	}

	name := sel.Name
	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		name += ".png"
	}
	path, err := UniqueFilename(filepath.Join(dir, name))
	if err != nil {
		return failure(sel.ID, err)
	}
	if err := WritePNGAtomic(path, img); err != nil {
		return failure(sel.ID, err)
	}

	return ItemResult{
		SelectionID: sel.ID,
		Status:      StatusSuccess,
		OutputPath:  path,
		Width:       box.Width(),
		Height:      box.Height(),
	}
}

// ExportAll exports every item into dir, in order, one result per item.
// A failed item is reported and the batch continues. Cancellation is honored
// between items only; files already published stay valid.
func (e *Exporter) ExportAll(ctx context.Context, items []session.Selection, dir string) []ItemResult {
	results := make([]ItemResult, 0, len(items))
	if err := EnsureDir(dir); err != nil {
		for _, sel := range items {
			results = append(results, failure(sel.ID, err))
		}
		return results
	}

	for i, sel := range items {
		if err := ctx.Err(); err != nil {
			for _, rest := range items[i:] {
				results = append(results, failure(rest.ID, fmt.Errorf("interrupted before export: %w", err)))
			}
			break
		}
		results = append(results, e.ExportOne(sel, dir))
	}
	return results
}

func failure(id int, err error) ItemResult {
	return ItemResult{
		SelectionID: id,
		Status:      StatusFailed,
		Error:       fmt.Errorf("%w: %v", ErrExportIO, err).Error(),
	}
}
