package pdfdoc

import (
	"fmt"

	"github.com/novvoo/go-poppler/pkg/pdf"
)

// EmbeddedImage is one raster image stored inside the PDF, re-encoded as
// PNG for lossless export.
type EmbeddedImage struct {
	Page   int    `json:"page"`
	Index  int    `json:"index"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"-"`
}

// EmbeddedImages enumerates the images embedded in the given 0-based page
// range (inclusive) and decodes each to PNG bytes. Images whose encoding the
// engine cannot decode are skipped rather than failing the whole scan.
func (d *Document) EmbeddedImages(firstPage, lastPage int) ([]EmbeddedImage, error) {
	if firstPage < 0 || lastPage >= d.pages || firstPage > lastPage {
		return nil, fmt.Errorf("page range [%d,%d] out of range [0,%d)", firstPage, lastPage, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	extractor := pdf.NewImageExtractor(d.doc)
	infos, err := extractor.ExtractImages(firstPage+1, lastPage+1)
	if err != nil {
		return nil, fmt.Errorf("extract embedded images: %w", err)
	}

	out := make([]EmbeddedImage, 0, len(infos))
	for _, info := range infos {
		data, err := extractor.GetImageDataWithFormat(info, "png", 0)
		if err != nil {
			continue
		}
		out = append(out, EmbeddedImage{
			Page:   info.Page - 1,
			Index:  info.Index,
			Width:  info.Width,
			Height: info.Height,
			Data:   data,
		})
	}
	return out, nil
}
