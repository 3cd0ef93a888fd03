// Package pdfdoc wraps the go-poppler PDF engine behind the small surface
// the core needs: open a document, read page count and page sizes in points,
// render pages or regions at an arbitrary scale, enumerate embedded images,
// and summarize metadata.
//
// A Document handle is opened once per load and is not safe for concurrent
// render calls; the wrapper serializes all engine access with an internal
// mutex so callers never have to.
package pdfdoc
