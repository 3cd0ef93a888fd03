// Package ocr reads figure captions from rendered page images using
// Tesseract (via gosseract/v2). Captions in academic PDFs sit directly
// below the figure, so the package OCRs a horizontal band under a
// selection box and hands the text to the naming engine for a filename
// suggestion.
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The default language is English ("eng"); any installed Tesseract
// language code may be passed instead.
package ocr
