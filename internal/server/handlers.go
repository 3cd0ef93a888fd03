package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/stclair/pdf-figures-mcp/internal/detect"
	"github.com/stclair/pdf-figures-mcp/internal/export"
	"github.com/stclair/pdf-figures-mcp/internal/geometry"
	"github.com/stclair/pdf-figures-mcp/internal/naming"
	"github.com/stclair/pdf-figures-mcp/internal/ocr"
	"github.com/stclair/pdf-figures-mcp/internal/overlay"
	"github.com/stclair/pdf-figures-mcp/internal/pdfdoc"
	"github.com/stclair/pdf-figures-mcp/internal/session"
)

// Render scale used for analysis passes (detection, caption OCR). Twice the
// nominal page resolution keeps thin strokes and small caption text legible.
const analysisScale = 2.0

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "document_open", "selection_create").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Document
	case "document_open":
		return s.handleDocumentOpen(args)
	case "document_info":
		return s.handleDocumentInfo(args)

	// Page
	case "page_render":
		return s.handlePageRender(args)
	case "page_overlay":
		return s.handlePageOverlay(args)
	case "page_detect_figures":
		return s.handlePageDetectFigures(args)
	case "page_extract_images":
		return s.handlePageExtractImages(args)

	// Selection
	case "selection_create":
		return s.handleSelectionCreate(args)
	case "selection_list":
		return s.handleSelectionList(args)
	case "selection_rename":
		return s.handleSelectionRename(args)
	case "selection_delete":
		return s.handleSelectionDelete(args)
	case "selection_undo":
		return s.handleSelectionUndo(args)
	case "selection_preview":
		return s.handleSelectionPreview(args)
	case "selection_suggest_name":
		return s.handleSelectionSuggestName(args)
	case "naming_reset":
		return s.handleNamingReset(args)

	// Export
	case "export_estimate":
		return s.handleExportEstimate(args)
	case "export_selection":
		return s.handleExportSelection(args)
	case "export_all":
		return s.handleExportAll(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// encodePNGBase64 encodes an image as base64 PNG for embedding in results.
func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// === Document Handlers ===

type documentOpenArgs struct {
	Path      string  `json:"path"`
	Password  string  `json:"password"`
	TargetDPI float64 `json:"target_dpi"`
}

type documentOpenResult struct {
	Stem      string  `json:"stem"`
	Pages     int     `json:"pages"`
	PageWPt   float64 `json:"page_width_pt"`
	PageHPt   float64 `json:"page_height_pt"`
	TargetDPI float64 `json:"target_dpi"`
	NextName  string  `json:"next_name"`
}

func (s *Server) handleDocumentOpen(args json.RawMessage) (interface{}, error) {
	var a documentOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	doc, err := pdfdoc.Open(a.Path, a.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.doc != nil {
		s.doc.Close()
	}
	s.doc = doc
	s.sess = session.New(doc, doc.Stem())
	s.exporter = export.New(doc, a.TargetDPI)
	s.transforms = make(map[int]geometry.DisplayTransform)
	sess, exporter := s.sess, s.exporter
	s.mu.Unlock()

	w, h, err := doc.PageSize(0)
	if err != nil {
		return nil, err
	}

	_, _, _, nextName := sess.NamingStatus()
	return &documentOpenResult{
		Stem:      doc.Stem(),
		Pages:     doc.PageCount(),
		PageWPt:   w,
		PageHPt:   h,
		TargetDPI: exporter.TargetDPI(),
		NextName:  nextName,
	}, nil
}

func (s *Server) handleDocumentInfo(json.RawMessage) (interface{}, error) {
	doc, _, _, err := s.state()
	if err != nil {
		return nil, err
	}
	return doc.Info()
}

// === Page Handlers ===

type pageRenderArgs struct {
	Page          int     `json:"page"`
	Scale         float64 `json:"scale"`
	ViewportWidth int     `json:"viewport_width"`
	OffsetX       float64 `json:"offset_x"`
	OffsetY       float64 `json:"offset_y"`
}

type pageRenderResult struct {
	Page        int                       `json:"page"`
	Width       int                       `json:"width"`
	Height      int                       `json:"height"`
	Transform   geometry.DisplayTransform `json:"transform"`
	ImageBase64 string                    `json:"image_base64"`
	MimeType    string                    `json:"mime_type"`
}

func (s *Server) handlePageRender(args json.RawMessage) (interface{}, error) {
	var a pageRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, _, _, err := s.state()
	if err != nil {
		return nil, err
	}

	scale := a.Scale
	if scale <= 0 && a.ViewportWidth > 0 {
		w, _, err := doc.PageSize(a.Page)
		if err != nil {
			return nil, err
		}
		scale = geometry.FitWidthScale(w, a.ViewportWidth, 0)
	}
	if scale <= 0 {
		scale = 1.0
	}

	img, err := doc.RenderPage(a.Page, scale)
	if err != nil {
		return nil, err
	}

	tf := geometry.DisplayTransform{Scale: scale, OffsetX: a.OffsetX, OffsetY: a.OffsetY}
	s.setTransform(a.Page, tf)

	encoded, err := encodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &pageRenderResult{
		Page:        a.Page,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Transform:   tf,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

type pageOverlayArgs struct {
	Page int `json:"page"`
}

func (s *Server) handlePageOverlay(args json.RawMessage) (interface{}, error) {
	var a pageOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}

	tf := s.transform(a.Page)
	img, err := doc.RenderPage(a.Page, tf.Scale)
	if err != nil {
		return nil, err
	}

	// Boxes are drawn on the page raster, so only the scale applies; the
	// viewport offset belongs to the UI.
	raster := geometry.DisplayTransform{Scale: tf.Scale}
	var boxes []overlay.Box
	for _, sel := range sess.Snapshot() {
		if sel.Page != a.Page {
			continue
		}
		tl := geometry.DocToScreen(geometry.Point{X: sel.Rect.X0, Y: sel.Rect.Y0}, raster)
		br := geometry.DocToScreen(geometry.Point{X: sel.Rect.X1, Y: sel.Rect.Y1}, raster)
		boxes = append(boxes, overlay.Box{
			X0:    int(math.Round(tl.X)),
			Y0:    int(math.Round(tl.Y)),
			X1:    int(math.Round(br.X)),
			Y1:    int(math.Round(br.Y)),
			Label: fmt.Sprintf("#%d %s", sel.ID, sel.Name),
		})
	}

	return overlay.Render(img, boxes)
}

type pageDetectFiguresArgs struct {
	Page      int     `json:"page"`
	MinAreaPt float64 `json:"min_area_pt"`
}

type detectedFigure struct {
	Rect     geometry.Rect `json:"rect"`
	InkRatio float64       `json:"ink_ratio"`
}

type pageDetectFiguresResult struct {
	Page    int              `json:"page"`
	Figures []detectedFigure `json:"figures"`
	Count   int              `json:"count"`
}

func (s *Server) handlePageDetectFigures(args json.RawMessage) (interface{}, error) {
	var a pageDetectFiguresArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, _, _, err := s.state()
	if err != nil {
		return nil, err
	}

	img, err := doc.RenderPage(a.Page, analysisScale)
	if err != nil {
		return nil, err
	}

	minAreaPt := a.MinAreaPt
	if minAreaPt <= 0 {
		minAreaPt = 100
	}
	minAreaPx := int(minAreaPt * analysisScale * analysisScale)

	res, err := detect.FindFigureRegions(img, minAreaPx)
	if err != nil {
		return nil, err
	}

	figures := make([]detectedFigure, 0, len(res.Regions))
	for _, r := range res.Regions {
		figures = append(figures, detectedFigure{
			Rect: geometry.Rect{
				X0: float64(r.X0) / analysisScale,
				Y0: float64(r.Y0) / analysisScale,
				X1: float64(r.X1) / analysisScale,
				Y1: float64(r.Y1) / analysisScale,
			},
			InkRatio: r.InkRatio,
		})
	}

	return &pageDetectFiguresResult{Page: a.Page, Figures: figures, Count: len(figures)}, nil
}

type pageExtractImagesArgs struct {
	FirstPage *int   `json:"first_page"`
	LastPage  *int   `json:"last_page"`
	OutputDir string `json:"output_dir"`
}

type extractedImage struct {
	Page       int    `json:"page"`
	Index      int    `json:"index"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	OutputPath string `json:"output_path"`
}

type pageExtractImagesResult struct {
	Images []extractedImage `json:"images"`
	Count  int              `json:"count"`
}

func (s *Server) handlePageExtractImages(args json.RawMessage) (interface{}, error) {
	var a pageExtractImagesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, _, _, err := s.state()
	if err != nil {
		return nil, err
	}

	first, last := 0, doc.PageCount()-1
	if a.FirstPage != nil {
		first = *a.FirstPage
	}
	if a.LastPage != nil {
		last = *a.LastPage
	}

	images, err := doc.EmbeddedImages(first, last)
	if err != nil {
		return nil, err
	}

	if err := export.EnsureDir(a.OutputDir); err != nil {
		return nil, err
	}

	out := make([]extractedImage, 0, len(images))
	for _, img := range images {
		name := fmt.Sprintf("%s_p%03d_img%02d.png", doc.Stem(), img.Page+1, img.Index+1)
		path, err := export.UniqueFilename(filepath.Join(a.OutputDir, name))
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		out = append(out, extractedImage{
			Page:       img.Page,
			Index:      img.Index,
			Width:      img.Width,
			Height:     img.Height,
			OutputPath: path,
		})
	}

	return &pageExtractImagesResult{Images: out, Count: len(out)}, nil
}

// === Selection Handlers ===

type selectionCreateArgs struct {
	Page  int     `json:"page"`
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Space string  `json:"space"`
}

type selectionCreateResult struct {
	Selection session.Selection `json:"selection"`
	Clamped   bool              `json:"clamped"`
}

func (s *Server) handleSelectionCreate(args json.RawMessage) (interface{}, error) {
	var a selectionCreateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}

	rect := geometry.Rect{X0: a.X0, Y0: a.Y0, X1: a.X1, Y1: a.Y1}
	clamped := false

	if a.Space != "doc" {
		w, h, err := doc.PageSize(a.Page)
		if err != nil {
			return nil, err
		}
		docRect, err := geometry.ScreenRectToDoc(rect, s.transform(a.Page), w, h)
		if err != nil {
			if !errors.Is(err, geometry.ErrOutOfBounds) {
				return nil, err
			}
			// Drag ended outside the page; the corner was clamped to
			// the page edge and the selection continues.
			clamped = true
		}
		rect = docRect
	}

	sel, err := sess.Create(a.Page, rect)
	if err != nil {
		return nil, err
	}
	return &selectionCreateResult{Selection: sel, Clamped: clamped}, nil
}

type selectionListResult struct {
	Selections []session.Selection `json:"selections"`
	Count      int                 `json:"count"`
	Naming     namingStatus        `json:"naming"`
}

type namingStatus struct {
	State    string          `json:"state"`
	Pattern  *naming.Pattern `json:"pattern,omitempty"`
	NextName string          `json:"next_name"`
}

func (s *Server) currentNaming(sess *session.Session) namingStatus {
	state, pattern, learned, nextName := sess.NamingStatus()
	ns := namingStatus{State: state.String(), NextName: nextName}
	if learned {
		ns.Pattern = &pattern
	}
	return ns
}

func (s *Server) handleSelectionList(json.RawMessage) (interface{}, error) {
	_, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}
	sels := sess.Snapshot()
	return &selectionListResult{
		Selections: sels,
		Count:      len(sels),
		Naming:     s.currentNaming(sess),
	}, nil
}

type selectionRenameArgs struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type selectionRenameResult struct {
	Selection session.Selection `json:"selection"`
	Naming    namingStatus      `json:"naming"`
}

func (s *Server) handleSelectionRename(args json.RawMessage) (interface{}, error) {
	var a selectionRenameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}
	sel, err := sess.Rename(a.ID, a.Name)
	if err != nil {
		return nil, err
	}
	return &selectionRenameResult{Selection: sel, Naming: s.currentNaming(sess)}, nil
}

type selectionDeleteArgs struct {
	ID int `json:"id"`
}

func (s *Server) handleSelectionDelete(args json.RawMessage) (interface{}, error) {
	var a selectionDeleteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}
	if err := sess.Delete(a.ID); err != nil {
		return nil, err
	}
	return map[string]interface{}{"deleted": a.ID}, nil
}

func (s *Server) handleSelectionUndo(json.RawMessage) (interface{}, error) {
	_, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}
	sel, err := sess.UndoLast()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"removed": sel}, nil
}

type selectionPreviewArgs struct {
	ID    int `json:"id"`
	MaxPx int `json:"max_px"`
}

type selectionPreviewResult struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleSelectionPreview(args json.RawMessage) (interface{}, error) {
	var a selectionPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, sess, exporter, err := s.state()
	if err != nil {
		return nil, err
	}
	if a.MaxPx <= 0 {
		a.MaxPx = 320
	}

	sel, err := sess.Get(a.ID)
	if err != nil {
		return nil, err
	}
	box, scale, err := exporter.Plan(sel)
	if err != nil {
		return nil, err
	}
	img, err := doc.RenderRegion(sel.Page, box, scale)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, a.MaxPx, a.MaxPx, imaging.Lanczos)
	encoded, err := encodePNGBase64(thumb)
	if err != nil {
		return nil, err
	}
	b := thumb.Bounds()
	return &selectionPreviewResult{
		ID:          sel.ID,
		Name:        sel.Name,
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

type selectionSuggestNameArgs struct {
	ID       int    `json:"id"`
	Language string `json:"language"`
}

type selectionSuggestNameResult struct {
	ID         int    `json:"id"`
	Caption    string `json:"caption"`
	Suggestion string `json:"suggestion"`
}

func (s *Server) handleSelectionSuggestName(args json.RawMessage) (interface{}, error) {
	var a selectionSuggestNameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}

	sel, err := sess.Get(a.ID)
	if err != nil {
		return nil, err
	}
	page, err := doc.RenderPage(sel.Page, analysisScale)
	if err != nil {
		return nil, err
	}

	x0 := int(math.Floor(sel.Rect.X0 * analysisScale))
	y0 := int(math.Floor(sel.Rect.Y0 * analysisScale))
	x1 := int(math.Ceil(sel.Rect.X1 * analysisScale))
	y1 := int(math.Ceil(sel.Rect.Y1 * analysisScale))

	caption, err := ocr.ReadCaption(page, x0, y0, x1, y1, a.Language)
	if err != nil {
		return nil, err
	}

	return &selectionSuggestNameResult{
		ID:         sel.ID,
		Caption:    caption.Text,
		Suggestion: naming.SuggestFromCaption(caption.Text),
	}, nil
}

func (s *Server) handleNamingReset(json.RawMessage) (interface{}, error) {
	_, sess, _, err := s.state()
	if err != nil {
		return nil, err
	}
	sess.ResetNaming()
	return s.currentNaming(sess), nil
}

// === Export Handlers ===

type exportEstimateArgs struct {
	ID int `json:"id"`
}

type exportEstimateResult struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ApproxBytes int64   `json:"approx_bytes"`
	TargetDPI   float64 `json:"target_dpi"`
}

func (s *Server) handleExportEstimate(args json.RawMessage) (interface{}, error) {
	var a exportEstimateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, sess, exporter, err := s.state()
	if err != nil {
		return nil, err
	}

	sel, err := sess.Get(a.ID)
	if err != nil {
		return nil, err
	}
	est, err := exporter.Estimate(sel)
	if err != nil {
		return nil, err
	}
	return &exportEstimateResult{
		ID:          sel.ID,
		Name:        sel.Name,
		Width:       est.Width,
		Height:      est.Height,
		ApproxBytes: est.ApproxBytes,
		TargetDPI:   exporter.TargetDPI(),
	}, nil
}

type exportSelectionArgs struct {
	ID        int    `json:"id"`
	OutputDir string `json:"output_dir"`
}

func (s *Server) handleExportSelection(args json.RawMessage) (interface{}, error) {
	var a exportSelectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, sess, exporter, err := s.state()
	if err != nil {
		return nil, err
	}

	sel, err := sess.Get(a.ID)
	if err != nil {
		return nil, err
	}
	if err := export.EnsureDir(a.OutputDir); err != nil {
		return nil, err
	}
	return exporter.ExportOne(sel, a.OutputDir), nil
}

type exportAllArgs struct {
	OutputDir string `json:"output_dir"`
}

type exportAllResult struct {
	Results   []export.ItemResult `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

func (s *Server) handleExportAll(args json.RawMessage) (interface{}, error) {
	var a exportAllArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, sess, exporter, err := s.state()
	if err != nil {
		return nil, err
	}

	task := exporter.Start(context.Background(), sess, a.OutputDir)
	results := task.Wait()

	res := &exportAllResult{Results: results}
	for _, r := range results {
		if r.Status == export.StatusSuccess {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}
	return res, nil
}
