package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Document
		{
			Name:        "document_open",
			Description: "Open a PDF file and start a fresh selection session. Any previously open document is closed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the PDF file",
					},
					"password": map[string]interface{}{
						"type":        "string",
						"description": "Password for encrypted documents",
					},
					"target_dpi": map[string]interface{}{
						"type":        "number",
						"description": "Export resolution in DPI. Default 300",
						"default":     300,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "document_info",
			Description: "Get metadata for the open document: page count, page size in points and inches, file size, title/author, encryption flag.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Page
		{
			Name:        "page_render",
			Description: "Render a page to a base64-encoded PNG for display. Returns the display transform to use when reporting screen coordinates back.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page": map[string]interface{}{
						"type":        "integer",
						"description": "Page number (0-based)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Display scale, screen pixels per document point. Default 1.0",
						"default":     1.0,
					},
					"viewport_width": map[string]interface{}{
						"type":        "integer",
						"description": "If set and scale is omitted, choose the scale that fits the page width into this many pixels",
					},
					"offset_x": map[string]interface{}{
						"type":        "number",
						"description": "Horizontal offset of the page image inside the viewport, in screen pixels. Default 0",
					},
					"offset_y": map[string]interface{}{
						"type":        "number",
						"description": "Vertical offset of the page image inside the viewport, in screen pixels. Default 0",
					},
				},
				"required": []string{"page"},
			},
		},
		{
			Name:        "page_overlay",
			Description: "Render a page with the outlines and names of its selections burned in.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page": map[string]interface{}{
						"type":        "integer",
						"description": "Page number (0-based)",
					},
				},
				"required": []string{"page"},
			},
		},
		{
			Name:        "page_detect_figures",
			Description: "Propose candidate figure regions on a page. Returns bounding boxes in document points, largest first. Proposals only; use selection_create to adopt one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page": map[string]interface{}{
						"type":        "integer",
						"description": "Page number (0-based)",
					},
					"min_area_pt": map[string]interface{}{
						"type":        "number",
						"description": "Minimum region area in square points. Default 100",
						"default":     100,
					},
				},
				"required": []string{"page"},
			},
		},
		{
			Name:        "page_extract_images",
			Description: "Save every image embedded in a page range as PNG files. This extracts the original image streams, not rendered crops.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"first_page": map[string]interface{}{
						"type":        "integer",
						"description": "First page of the range (0-based). Default 0",
					},
					"last_page": map[string]interface{}{
						"type":        "integer",
						"description": "Last page of the range (0-based, inclusive). Default last page of the document",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write PNG files into (created if missing)",
					},
				},
				"required": []string{"output_dir"},
			},
		},

		// Selection
		{
			Name:        "selection_create",
			Description: "Create a selection from a rectangle. Screen coordinates are converted with the page's display transform; points outside the page are clamped to its edge. A name is assigned automatically.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page": map[string]interface{}{
						"type":        "integer",
						"description": "Page number (0-based)",
					},
					"x0": map[string]interface{}{
						"type":        "number",
						"description": "First corner X",
					},
					"y0": map[string]interface{}{
						"type":        "number",
						"description": "First corner Y",
					},
					"x1": map[string]interface{}{
						"type":        "number",
						"description": "Opposite corner X",
					},
					"y1": map[string]interface{}{
						"type":        "number",
						"description": "Opposite corner Y",
					},
					"space": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"screen", "doc"},
						"description": "Coordinate space of the rectangle. Default \"screen\"",
						"default":     "screen",
					},
				},
				"required": []string{"page", "x0", "y0", "x1", "y1"},
			},
		},
		{
			Name:        "selection_list",
			Description: "List all selections with their assigned names, plus the naming engine state and the name the next selection would get.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "selection_rename",
			Description: "Rename a selection. The first rename teaches the naming pattern for subsequent selections (e.g. renaming to fig_01 makes the next names fig_02, fig_03).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Selection ID",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "New name, without extension",
					},
				},
				"required": []string{"id", "name"},
			},
		},
		{
			Name:        "selection_delete",
			Description: "Delete a selection. Its name is never reassigned to a later selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Selection ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "selection_undo",
			Description: "Remove the most recently created selection.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "selection_preview",
			Description: "Render a small thumbnail of a selection's pixels as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Selection ID",
					},
					"max_px": map[string]interface{}{
						"type":        "integer",
						"description": "Longest thumbnail edge in pixels. Default 320",
						"default":     320,
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "selection_suggest_name",
			Description: "OCR the caption strip below a selection and suggest a filename from it (e.g. \"Figure 3: Results\" suggests figure_3). The suggestion does not change the naming pattern; apply it with selection_rename.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Selection ID",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default \"eng\"",
						"default":     "eng",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "naming_reset",
			Description: "Forget the learned naming pattern and return to default names. The sequence counter keeps counting; earlier names are never reused.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Export
		{
			Name:        "export_estimate",
			Description: "Predict the output dimensions and approximate memory footprint of exporting a selection, without writing anything. Matches the real export exactly.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Selection ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "export_selection",
			Description: "Export one selection as a PNG file named after the selection. On-disk collisions get a numeric suffix instead of overwriting.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Selection ID",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write the PNG into (created if missing)",
					},
				},
				"required": []string{"id", "output_dir"},
			},
		},
		{
			Name:        "export_all",
			Description: "Export every selection as PNG files. Selections are read-only while the batch runs. Returns a per-item result; one failed item does not abort the rest.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write PNG files into (created if missing)",
					},
				},
				"required": []string{"output_dir"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
