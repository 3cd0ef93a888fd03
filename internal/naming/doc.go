// Package naming assigns names to selections and learns the user's naming
// convention from the first manual rename.
//
// A Namer starts Unlearned, issuing "<stem>_Q0001"-style defaults. The first
// rename is parsed around its rightmost run of digits into a Pattern
// (prefix, zero-padded counter width, suffix) and moves the Namer to the
// Learned state, where every later selection continues the user's scheme.
// Counters only ever move forward: deleting or undoing a selection never
// frees its number, so names are never reused within a session.
package naming
