package pdfdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/novvoo/go-poppler/pkg/pdf"
)

// ErrDocumentLoad reports an unreadable, corrupt, or encrypted-without-
// password PDF. Fatal to the load operation only: the session keeps any
// previously loaded document.
var ErrDocumentLoad = errors.New("failed to load document")

// Document is an opened PDF. Page indexes in this package are 0-based; the
// underlying engine is 1-based and the conversion happens here, nowhere
// else.
type Document struct {
	mu       sync.Mutex // serializes all engine access
	doc      *pdf.Document
	path     string
	stem     string
	fileSize int64
	pages    int

	dpiMu     sync.Mutex
	nativeDPI map[int]float64
}

// Open loads a PDF from disk. password may be empty; it is required only
// for encrypted documents.
func Open(path, password string) (*Document, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentLoad, path, err)
	}

	var size int64
	if stat, err := os.Stat(path); err == nil {
		size = stat.Size()
	}
	return wrap(doc, path, size, password)
}

// OpenBytes loads a PDF from an in-memory buffer. name is used for the
// filename stem that seeds default selection names.
func OpenBytes(data []byte, name, password string) (*Document, error) {
	doc, err := pdf.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentLoad, err)
	}
	return wrap(doc, name, int64(len(data)), password)
}

func wrap(doc *pdf.Document, path string, size int64, password string) (*Document, error) {
	if doc.IsEncrypted() {
		if err := doc.Decrypt(password); err != nil {
			doc.Close()
			return nil, fmt.Errorf("%w: encrypted document: %v", ErrDocumentLoad, err)
		}
	}
	pages := doc.NumPages()
	if pages == 0 {
		doc.Close()
		return nil, fmt.Errorf("%w: document has no pages", ErrDocumentLoad)
	}

	base := filepath.Base(path)
	return &Document{
		doc:       doc,
		path:      path,
		stem:      strings.TrimSuffix(base, filepath.Ext(base)),
		fileSize:  size,
		pages:     pages,
		nativeDPI: make(map[int]float64),
	}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Stem returns the document's base filename without extension.
func (d *Document) Stem() string { return d.stem }

// Path returns the path the document was opened from, or the name given to
// OpenBytes.
func (d *Document) Path() string { return d.path }

// PageSize returns the intrinsic page size in document units (points).
func (d *Document) PageSize(page int) (w, h float64, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.pageLocked(page)
	if err != nil {
		return 0, 0, err
	}
	return p.Width(), p.Height(), nil
}

// PageNativeDPI returns the highest pixel density of any image embedded on
// the page, in dots per inch, or 0 when the page carries no raster content.
// The export pipeline uses it as the quality floor so native resolution is
// never downsampled. Results are cached per page.
func (d *Document) PageNativeDPI(page int) float64 {
	d.dpiMu.Lock()
	if dpi, ok := d.nativeDPI[page]; ok {
		d.dpiMu.Unlock()
		return dpi
	}
	d.dpiMu.Unlock()

	d.mu.Lock()
	var max float64
	extractor := pdf.NewImageExtractor(d.doc)
	if images, err := extractor.ExtractImages(page+1, page+1); err == nil {
		for _, img := range images {
			x, y := img.GetDPI()
			if x > max {
				max = x
			}
			if y > max {
				max = y
			}
		}
	}
	d.mu.Unlock()

	d.dpiMu.Lock()
	d.nativeDPI[page] = max
	d.dpiMu.Unlock()
	return max
}

// Close releases the document. The handle must not be used afterwards.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}

// pageLocked fetches a page, translating to the engine's 1-based numbering.
// Callers hold mu.
func (d *Document) pageLocked(page int) (*pdf.Page, error) {
	if page < 0 || page >= d.pages {
		return nil, fmt.Errorf("page %d out of range [0,%d)", page, d.pages)
	}
	p, err := d.doc.GetPage(page + 1)
	if err != nil {
		return nil, fmt.Errorf("get page %d: %w", page, err)
	}
	return p, nil
}
