// Package server implements the MCP (Model Context Protocol) server for the
// PDF figure extraction tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the document,
// selection, naming and export engines to an MCP-compatible client. The
// client plays the role of the UI: it sends primitive events (open a
// document, render a page, create a selection from screen coordinates,
// rename, export) and receives primitive results (names, base64 image
// buffers, per-item export statuses).
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Document:
//   - document_open: Load a PDF and start a selection session
//   - document_info: Metadata, page count, page size, file size
//
// Page:
//   - page_render: Render a page to PNG at a display scale
//   - page_overlay: Render a page with selection outlines burned in
//   - page_detect_figures: Propose figure regions on a page
//   - page_extract_images: Save the embedded images of a page range
//
// Selection:
//   - selection_create: Create a selection from screen or document coords
//   - selection_list: List selections and naming state
//   - selection_rename: Rename a selection (teaches the naming pattern)
//   - selection_delete: Delete a selection
//   - selection_undo: Remove the most recently created selection
//   - selection_preview: Thumbnail of a selection's pixels
//   - selection_suggest_name: OCR the caption below a selection
//   - naming_reset: Forget the learned naming pattern
//
// Export:
//   - export_estimate: Predict output dimensions without writing
//   - export_selection: Export one selection to PNG
//   - export_all: Export every selection, per-item results
//
// # Session State
//
// The server holds one open document and its selection session at a time.
// Opening a new document closes the previous one and starts a fresh session;
// nothing is persisted across documents.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Per-item export failures are not protocol errors; they appear as
// "failed" entries in the export result so one bad selection never aborts
// the batch.
package server
