package geometry

import (
	"math"
	"testing"
)

func TestExportScale(t *testing.T) {
	tests := []struct {
		name      string
		targetDPI float64
		nativeDPI float64
		want      float64
	}{
		{"target only", 300, 0, 300.0 / 72.0},
		{"native below target", 300, 150, 300.0 / 72.0},
		{"native above target", 300, 600, 600.0 / 72.0},
		{"zero target uses default", 0, 0, 300.0 / 72.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExportScale(tt.targetDPI, tt.nativeDPI)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ExportScale(%g, %g) = %g, want %g", tt.targetDPI, tt.nativeDPI, got, tt.want)
			}
		})
	}
}

func TestComputeExportBox_MeetsTargetDPI(t *testing.T) {
	docRect := Rect{72, 72, 216, 144} // 2in x 1in
	box, scale := ComputeExportBox(docRect, 612, 792, 300, 0)

	if scale < 300.0/72.0 {
		t.Fatalf("scale %g below requested DPI floor", scale)
	}
	// 2 inches at 300 DPI is 600 px; rounding may add at most a pixel per edge.
	if w := box.Width(); w < 600 || w > 602 {
		t.Errorf("box width = %d, want ~600", w)
	}
	if h := box.Height(); h < 300 || h > 302 {
		t.Errorf("box height = %d, want ~300", h)
	}
}

func TestComputeExportBox_NativeFloor(t *testing.T) {
	docRect := Rect{0, 0, 72, 72}
	_, scale := ComputeExportBox(docRect, 612, 792, 300, 450)
	if math.Abs(scale-450.0/72.0) > 1e-12 {
		t.Errorf("scale = %g, want native floor %g", scale, 450.0/72.0)
	}
}

func TestComputeExportBox_ClampedToRaster(t *testing.T) {
	// Full-page selection must stay inside the ceil-sized raster.
	pageW, pageH := 612.3, 791.7
	box, scale := ComputeExportBox(Rect{0, 0, pageW, pageH}, pageW, pageH, 300, 0)

	rasterW := int(math.Ceil(pageW * scale))
	rasterH := int(math.Ceil(pageH * scale))
	if box.X0 < 0 || box.Y0 < 0 || box.X1 > rasterW || box.Y1 > rasterH {
		t.Errorf("box %+v exceeds raster %dx%d", box, rasterW, rasterH)
	}
}

func TestEstimateOutputSize_MatchesBox(t *testing.T) {
	box, _ := ComputeExportBox(Rect{10, 10, 200, 150}, 612, 792, 300, 0)
	est := EstimateOutputSize(box)

	if est.Width != box.Width() || est.Height != box.Height() {
		t.Errorf("estimate %dx%d does not match box %dx%d",
			est.Width, est.Height, box.Width(), box.Height())
	}
	if want := int64(est.Width) * int64(est.Height) * 4; est.ApproxBytes != want {
		t.Errorf("ApproxBytes = %d, want %d", est.ApproxBytes, want)
	}
}

func TestAutoDPI(t *testing.T) {
	tests := []struct {
		name     string
		rect     Rect
		targetPx int
		want     float64
	}{
		// 4 inch wide crop, 1920 px target -> 480 DPI.
		{"mid range", Rect{0, 0, 288, 100}, 1920, 480},
		// Narrow crop would need huge DPI: capped.
		{"capped", Rect{0, 0, 72, 72}, 1920, 600},
		// Wide crop would drop below the quality floor: floored.
		{"floored", Rect{0, 0, 720, 100}, 1920, 300},
		{"degenerate falls back", Rect{5, 0, 5, 10}, 1920, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoDPI(tt.rect, tt.targetPx); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AutoDPI() = %g, want %g", got, tt.want)
			}
		})
	}
}
