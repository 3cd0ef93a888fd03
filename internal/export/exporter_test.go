package export

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stclair/pdf-figures-mcp/internal/geometry"
	"github.com/stclair/pdf-figures-mcp/internal/session"
)

// fakeRenderer serves uniform US-Letter pages and fails on demand.
type fakeRenderer struct {
	failPages map[int]bool
	nativeDPI float64
}

func (f *fakeRenderer) PageSize(page int) (float64, float64, error) {
	return 612, 792, nil
}

func (f *fakeRenderer) PageNativeDPI(page int) float64 { return f.nativeDPI }

func (f *fakeRenderer) RenderRegion(page int, box geometry.PixelRect, scale float64) (image.Image, error) {
	if f.failPages[page] {
		return nil, fmt.Errorf("simulated render failure on page %d", page)
	}
	return image.NewRGBA(image.Rect(0, 0, box.Width(), box.Height())), nil
}

func testSelection(id, page int, name string) session.Selection {
	return session.Selection{
		ID:           id,
		Page:         page,
		Rect:         geometry.Rect{72, 72, 216, 144},
		Name:         name,
		CreatedOrder: id,
	}
}

func TestExportOne_WritesFile(t *testing.T) {
	dir := t.TempDir()
	e := New(&fakeRenderer{}, 300)

	res := e.ExportOne(testSelection(1, 0, "fig_01"), dir)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %s (%s), want success", res.Status, res.Error)
	}
	if filepath.Base(res.OutputPath) != "fig_01.png" {
		t.Errorf("output = %s, want fig_01.png", res.OutputPath)
	}
	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Errorf("output file missing: %v", err)
	}

	// The written raster must match the estimate exactly.
	est, err := e.Estimate(testSelection(1, 0, "fig_01"))
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if res.Width != est.Width || res.Height != est.Height {
		t.Errorf("exported %dx%d, estimate said %dx%d", res.Width, res.Height, est.Width, est.Height)
	}
}

func TestExportOne_UniqueFilenames(t *testing.T) {
	dir := t.TempDir()
	e := New(&fakeRenderer{}, 300)
	sel := testSelection(1, 0, "fig_01")

	first := e.ExportOne(sel, dir)
	second := e.ExportOne(sel, dir)

	if first.Status != StatusSuccess || second.Status != StatusSuccess {
		t.Fatalf("statuses = %s, %s", first.Status, second.Status)
	}
	if filepath.Base(second.OutputPath) != "fig_01_2.png" {
		t.Errorf("second output = %s, want fig_01_2.png", filepath.Base(second.OutputPath))
	}
}

func TestExportOne_NativeDPIFloor(t *testing.T) {
	dir := t.TempDir()
	low := New(&fakeRenderer{}, 300)
	high := New(&fakeRenderer{nativeDPI: 600}, 300)
	sel := testSelection(1, 0, "fig_01")

	a := low.ExportOne(sel, dir)
	b := high.ExportOne(sel, dir)

	if b.Width <= a.Width || b.Height <= a.Height {
		t.Errorf("native floor not applied: %dx%d vs %dx%d", b.Width, b.Height, a.Width, a.Height)
	}
}

func TestExportAll_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	// Page 7 fails; items 1,2,4,5 live on other pages.
	e := New(&fakeRenderer{failPages: map[int]bool{7: true}}, 300)

	items := []session.Selection{
		testSelection(1, 0, "fig_01"),
		testSelection(2, 0, "fig_02"),
		testSelection(3, 7, "fig_03"),
		testSelection(4, 1, "fig_04"),
		testSelection(5, 1, "fig_05"),
	}

	results := e.ExportAll(context.Background(), items, dir)
	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}

	for i, res := range results {
		wantFail := i == 2
		if wantFail {
			if res.Status != StatusFailed {
				t.Errorf("item %d status = %s, want failed", i+1, res.Status)
			}
			if !strings.Contains(res.Error, "export failed") {
				t.Errorf("item %d error = %q, want export failure", i+1, res.Error)
			}
			continue
		}
		if res.Status != StatusSuccess {
			t.Errorf("item %d status = %s (%s), want success", i+1, res.Status, res.Error)
		}
		if _, err := os.Stat(res.OutputPath); err != nil {
			t.Errorf("item %d output missing: %v", i+1, err)
		}
	}

	// The failed item must not leave a partial file behind.
	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "fig_03") || strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("unexpected leftover file %s", entry.Name())
		}
	}
}

func TestExportAll_InterruptedBetweenItems(t *testing.T) {
	dir := t.TempDir()
	e := New(&fakeRenderer{}, 300)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []session.Selection{
		testSelection(1, 0, "fig_01"),
		testSelection(2, 0, "fig_02"),
	}
	results := e.ExportAll(ctx, items, dir)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, res := range results {
		if res.Status != StatusFailed {
			t.Errorf("item %d status = %s, want failed (interrupted)", res.SelectionID, res.Status)
		}
	}
}

func TestTask_WaitAndLockRelease(t *testing.T) {
	dir := t.TempDir()
	doc := &fakeRenderer{}
	sess := session.New(pageSizerFor(doc), "paper")
	if _, err := sess.Create(0, geometry.Rect{10, 10, 200, 200}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	e := New(doc, 300)
	task := e.Start(context.Background(), sess, dir)
	results := task.Wait()

	if len(results) != 1 || results[0].Status != StatusSuccess {
		t.Fatalf("results = %+v, want one success", results)
	}

	// The export lock must be released: a mutation succeeds afterwards.
	if _, err := sess.Create(0, geometry.Rect{10, 10, 100, 100}); err != nil {
		t.Errorf("Create() after export error = %v", err)
	}
}

// pageSizerFor adapts fakeRenderer to session.PageSizer.
type sizerAdapter struct{ r *fakeRenderer }

func pageSizerFor(r *fakeRenderer) sizerAdapter { return sizerAdapter{r} }

func (a sizerAdapter) PageCount() int { return 10 }

func (a sizerAdapter) PageSize(page int) (float64, float64, error) {
	return a.r.PageSize(page)
}
