package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is used when the caller passes an empty language code.
const DefaultLanguage = "eng"

// captionBandFraction sizes the strip scanned below a figure box as a
// fraction of the box height.
const captionBandFraction = 0.35

// minCaptionBandPx keeps the band usable for very short selections.
const minCaptionBandPx = 40

// CaptionResult holds the text found below a figure region.
type CaptionResult struct {
	// Text is the raw recognized text, whitespace-trimmed.
	Text string `json:"text"`

	// Band is the scanned strip in page-raster pixel coordinates.
	Band Band `json:"band"`
}

// Band is the rectangle that was OCR'd, in pixel coordinates of the page image.
type Band struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// ReadText performs OCR over an entire image and returns the recognized text.
func ReadText(img image.Image, language string) (string, error) {
	if language == "" {
		language = DefaultLanguage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ReadCaption OCRs the strip directly below the figure box (x0, y0)-(x1, y1)
// on the rendered page image. The band is clipped to the image, so boxes near
// the bottom edge return whatever room remains; a box flush with the bottom
// yields an empty caption without error.
func ReadCaption(page image.Image, x0, y0, x1, y1 int, language string) (*CaptionResult, error) {
	band := captionBand(page.Bounds(), x0, y0, x1, y1)
	res := &CaptionResult{Band: band}
	if band.X1 <= band.X0 || band.Y1 <= band.Y0 {
		return res, nil
	}

	strip := imaging.Crop(page, image.Rect(band.X0, band.Y0, band.X1, band.Y1))
	text, err := ReadText(strip, language)
	if err != nil {
		return nil, err
	}
	res.Text = text
	return res, nil
}

// captionBand computes the scan strip below the box, clipped to the image.
func captionBand(bounds image.Rectangle, x0, y0, x1, y1 int) Band {
	boxH := y1 - y0
	bandH := int(float64(boxH) * captionBandFraction)
	if bandH < minCaptionBandPx {
		bandH = minCaptionBandPx
	}

	r := image.Rect(x0, y1, x1, y1+bandH).Intersect(bounds)
	return Band{X0: r.Min.X, Y0: r.Min.Y, X1: r.Max.X, Y1: r.Max.Y}
}
