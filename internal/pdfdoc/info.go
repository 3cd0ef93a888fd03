package pdfdoc

import (
	"fmt"
	"strings"
)

// Info is the document summary shown in the UI's information panel.
type Info struct {
	Filename  string  `json:"filename"`
	FileSize  string  `json:"file_size"`
	Pages     int     `json:"pages"`
	Encrypted bool    `json:"encrypted"`
	PageWPt   float64 `json:"page_width_pt"`
	PageHPt   float64 `json:"page_height_pt"`
	PageWIn   float64 `json:"page_width_in"`
	PageHIn   float64 `json:"page_height_in"`
	Title     string  `json:"title,omitempty"`
	Author    string  `json:"author,omitempty"`
	Subject   string  `json:"subject,omitempty"`
	Creator   string  `json:"creator,omitempty"`
	Producer  string  `json:"producer,omitempty"`
	Version   string  `json:"pdf_version,omitempty"`
}

// Info collects metadata and first-page geometry for display.
func (d *Document) Info() (Info, error) {
	w, h, err := d.PageSize(0)
	if err != nil {
		return Info{}, err
	}

	d.mu.Lock()
	meta := d.doc.GetInfo()
	d.mu.Unlock()

	return Info{
		Filename:  d.stem,
		FileSize:  FormatFileSize(d.fileSize),
		Pages:     d.pages,
		Encrypted: meta.Encrypted,
		PageWPt:   w,
		PageHPt:   h,
		PageWIn:   w / 72,
		PageHIn:   h / 72,
		Title:     meta.Title,
		Author:    meta.Author,
		Subject:   meta.Subject,
		Creator:   meta.Creator,
		Producer:  meta.Producer,
		Version:   meta.PDFVersion,
	}, nil
}

// Summary renders the info block as the multi-line text shown in the UI.
func (i Info) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Filename: %s\n", i.Filename)
	fmt.Fprintf(&b, "File Size: %s\n", i.FileSize)
	fmt.Fprintf(&b, "Pages: %d\n", i.Pages)
	if i.Encrypted {
		b.WriteString("Encrypted: Yes\n")
	} else {
		b.WriteString("Encrypted: No\n")
	}
	fmt.Fprintf(&b, "Page Size: %.0f x %.0f pt (%.1f\" x %.1f\")\n", i.PageWPt, i.PageHPt, i.PageWIn, i.PageHIn)
	for _, kv := range []struct{ k, v string }{
		{"Title", i.Title},
		{"Author", i.Author},
		{"Subject", i.Subject},
		{"Creator", i.Creator},
		{"Producer", i.Producer},
	} {
		if kv.v != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv.k, kv.v)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatFileSize renders a byte count in human readable form.
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	v := float64(size)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
