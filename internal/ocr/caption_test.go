package ocr

import (
	"image"
	"testing"
)

func TestCaptionBand_BelowBox(t *testing.T) {
	bounds := image.Rect(0, 0, 800, 1000)

	band := captionBand(bounds, 100, 200, 500, 600)
	if band.Y0 != 600 {
		t.Errorf("band starts at y=%d, want 600 (box bottom)", band.Y0)
	}
	if band.X0 != 100 || band.X1 != 500 {
		t.Errorf("band x range [%d, %d], want [100, 500]", band.X0, band.X1)
	}
	// Box is 400 tall, 35% gives a 140px band.
	if got := band.Y1 - band.Y0; got != 140 {
		t.Errorf("band height = %d, want 140", got)
	}
}

func TestCaptionBand_MinimumHeight(t *testing.T) {
	bounds := image.Rect(0, 0, 800, 1000)

	// A 50px-tall box would give a 17px band; the floor applies.
	band := captionBand(bounds, 0, 100, 200, 150)
	if got := band.Y1 - band.Y0; got != minCaptionBandPx {
		t.Errorf("band height = %d, want %d", got, minCaptionBandPx)
	}
}

func TestCaptionBand_ClippedAtPageBottom(t *testing.T) {
	bounds := image.Rect(0, 0, 800, 600)

	band := captionBand(bounds, 100, 300, 500, 580)
	if band.Y1 > 600 {
		t.Errorf("band bottom = %d, extends past image", band.Y1)
	}
	if band.Y1-band.Y0 <= 0 {
		t.Errorf("band collapsed: %+v", band)
	}
}

func TestReadCaption_BoxAtPageBottom(t *testing.T) {
	// No room below the box: empty caption, no error, no Tesseract call.
	page := image.NewRGBA(image.Rect(0, 0, 400, 400))

	res, err := ReadCaption(page, 50, 100, 350, 400, "")
	if err != nil {
		t.Fatalf("ReadCaption() error = %v", err)
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty", res.Text)
	}
}
