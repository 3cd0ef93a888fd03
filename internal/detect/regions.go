package detect

import (
	"image"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Luminance above this counts as page background.
const backgroundLuma = 235

// Gaussian radius used to close small gaps between nearby marks before
// component analysis.
const blurRadius = 2.0

// Region is one proposed figure area in page-raster pixel coordinates.
type Region struct {
	X0     int `json:"x0"`
	Y0     int `json:"y0"`
	X1     int `json:"x1"`
	Y1     int `json:"y1"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Area   int `json:"area"`

	// InkRatio is the fraction of non-background pixels inside the box
	// (0.0 to 1.0). Low values usually indicate scattered text rather
	// than a figure.
	InkRatio float64 `json:"ink_ratio"`
}

// Result contains the proposed regions, largest first.
type Result struct {
	Regions []Region `json:"regions"`
	Count   int      `json:"count"`
}

// FindFigureRegions locates contiguous non-background areas at least minArea
// square pixels in size. The image is blurred and grayscaled first so halftone
// dots and anti-aliased strokes merge into solid components.
func FindFigureRegions(img image.Image, minArea int) (*Result, error) {
	if minArea <= 0 {
		minArea = 400
	}

	gray := effect.Grayscale(blur.Gaussian(img, blurRadius))
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Binary ink mask.
	ink := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Grayscale output is RGBA with R=G=B.
			r, _, _, _ := gray.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if uint8(r>>8) < backgroundLuma {
				ink[y*w+x] = true
			}
		}
	}

	visited := make([]bool, w*h)
	var regions []Region

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !ink[idx] || visited[idx] {
				continue
			}
			reg := floodFill(ink, visited, w, h, x, y)
			if reg.Area >= minArea {
				regions = append(regions, reg)
			}
		}
	}

	regions = dropNested(regions)
	sort.Slice(regions, func(i, j int) bool { return regions[i].Area > regions[j].Area })

	return &Result{Regions: regions, Count: len(regions)}, nil
}

// floodFill grows a connected component from (sx, sy) and returns its
// bounding region. 8-connectivity, iterative queue to avoid deep recursion
// on large figures.
func floodFill(ink, visited []bool, w, h, sx, sy int) Region {
	minX, minY, maxX, maxY := sx, sy, sx, sy
	inkCount := 0

	queue := []int{sy*w + sx}
	visited[sy*w+sx] = true

	for len(queue) > 0 {
		idx := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := idx%w, idx/w
		inkCount++

		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if ink[nidx] && !visited[nidx] {
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}
		}
	}

	width := maxX - minX + 1
	height := maxY - minY + 1
	return Region{
		X0:       minX,
		Y0:       minY,
		X1:       maxX + 1,
		Y1:       maxY + 1,
		Width:    width,
		Height:   height,
		Area:     width * height,
		InkRatio: float64(inkCount) / float64(width*height),
	}
}

// dropNested removes regions fully contained in a larger one; the outer box
// already covers them.
func dropNested(regions []Region) []Region {
	out := regions[:0]
	for i, r := range regions {
		nested := false
		for j, outer := range regions {
			if i == j {
				continue
			}
			if r.X0 >= outer.X0 && r.Y0 >= outer.Y0 && r.X1 <= outer.X1 && r.Y1 <= outer.Y1 &&
				(outer.Area > r.Area || j < i) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, r)
		}
	}
	return out
}
