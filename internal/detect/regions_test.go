package detect

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// testPage builds a white page with solid black rectangles drawn on it.
func testPage(w, h int, blocks ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	for _, b := range blocks {
		draw.Draw(img, b, &image.Uniform{color.Black}, image.Point{}, draw.Src)
	}
	return img
}

func TestFindFigureRegions_SingleBlock(t *testing.T) {
	page := testPage(300, 300, image.Rect(50, 60, 150, 160))

	res, err := FindFigureRegions(page, 100)
	if err != nil {
		t.Fatalf("FindFigureRegions() error = %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("Count = %d, want 1 (regions: %+v)", res.Count, res.Regions)
	}

	r := res.Regions[0]
	// Blur grows the component by a few pixels; the box must cover the
	// drawn block and stay near it.
	if r.X0 > 50 || r.Y0 > 60 || r.X1 < 150 || r.Y1 < 160 {
		t.Errorf("region %+v does not cover the drawn block", r)
	}
	const slack = 8
	if r.X0 < 50-slack || r.Y0 < 60-slack || r.X1 > 150+slack || r.Y1 > 160+slack {
		t.Errorf("region %+v is far larger than the drawn block", r)
	}
	if r.InkRatio < 0.5 {
		t.Errorf("InkRatio = %f, want >= 0.5 for a solid block", r.InkRatio)
	}
}

func TestFindFigureRegions_SortedByArea(t *testing.T) {
	page := testPage(400, 400,
		image.Rect(20, 20, 60, 60),    // small
		image.Rect(150, 150, 350, 350), // large
	)

	res, err := FindFigureRegions(page, 100)
	if err != nil {
		t.Fatalf("FindFigureRegions() error = %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("Count = %d, want 2", res.Count)
	}
	if res.Regions[0].Area < res.Regions[1].Area {
		t.Errorf("regions not sorted by area desc: %d then %d",
			res.Regions[0].Area, res.Regions[1].Area)
	}
}

func TestFindFigureRegions_MinAreaFilter(t *testing.T) {
	page := testPage(200, 200,
		image.Rect(10, 10, 14, 14),     // speck, area ~16
		image.Rect(80, 80, 160, 160),   // real figure
	)

	res, err := FindFigureRegions(page, 1000)
	if err != nil {
		t.Fatalf("FindFigureRegions() error = %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("Count = %d, want 1 after min-area filter", res.Count)
	}
	if res.Regions[0].Area < 1000 {
		t.Errorf("surviving region area = %d, want >= 1000", res.Regions[0].Area)
	}
}

func TestFindFigureRegions_BlankPage(t *testing.T) {
	res, err := FindFigureRegions(testPage(100, 100), 50)
	if err != nil {
		t.Fatalf("FindFigureRegions() error = %v", err)
	}
	if res.Count != 0 || len(res.Regions) != 0 {
		t.Errorf("blank page produced %d regions", res.Count)
	}
}
