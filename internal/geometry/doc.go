// Package geometry converts between the three coordinate spaces of the
// figure-extraction pipeline: on-screen display pixels (mouse events),
// document units (PDF points, 72 per inch), and export pixels (the raster
// the crop is rendered at).
//
// # Coordinate Spaces
//
// Document space has its origin at the top-left corner of the page, X
// increasing rightward and Y increasing downward, measured in points. A
// DisplayTransform maps document space onto screen pixels for the page
// currently shown; its inverse recovers document coordinates from mouse
// positions. Export space is document space multiplied by the export scale
// factor chosen by ComputeExportBox.
//
// # Resolution Contract
//
// ComputeExportBox never produces output below the requested target DPI and
// never downsamples below the page's native pixel density. The pixel
// rectangle it returns is the exact crop window used at export time, so
// EstimateOutputSize reports the final raster dimensions ahead of rendering.
//
// All functions are pure; the package performs no I/O and holds no state.
package geometry
