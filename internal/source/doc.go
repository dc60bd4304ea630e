// Package source turns raw input into text and element slices that
// cursors can walk.
//
// Input bytes are decoded into a UTF-8 string first:
//
//	text, err := source.Decode(data, source.Options{Encoding: "latin1", Normalize: "nfc"})
//
// Slice modes then split that text into elements (lines, words, or the
// members of a JSON array). Text modes use the string directly.
package source
