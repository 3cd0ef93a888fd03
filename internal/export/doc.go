// Package export turns selections into PNG files on disk. Each item goes
// through the same pipeline: compute the export box with the quality-first
// scale floor, render the region, and publish the file atomically
// (write-then-rename) so an interrupted batch never leaves a partial image
// behind. Batch exports report a result per item and keep going past
// individual failures.
package export
