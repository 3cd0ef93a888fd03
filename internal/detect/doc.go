// Package detect proposes candidate figure regions on a rendered PDF page.
// Pages are mostly white; contiguous blocks of non-background ink (plots,
// photographs, diagrams) form connected components whose bounding boxes make
// good starting points for a crop selection. Results are proposals only;
// the UI decides whether to turn them into selections.
package detect
