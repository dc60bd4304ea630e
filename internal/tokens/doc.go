// Package tokens provides backtracking cursors over in-memory input.
//
// A cursor pulls items one at a time from a borrowed source and can be
// rewound to a previously saved checkpoint without copying the source. This
// is the contract a parser-combinator layer builds on: save a checkpoint,
// attempt a match, and rewind when the match fails.
//
// Two kinds of source are supported:
//   - Element slices ([]T) through SliceTokens, which yields *T
//   - UTF-8 text (string) through StrTokens, which yields runes, and
//     GraphemeTokens, which yields grapheme clusters
//
// Basic usage:
//
//	t := tokens.FromString("a😀b")
//	cp := t.SaveCheckpoint()
//	r, _ := t.Next()                 // 'a'
//	_ = t.RewindToCheckpoint(cp)     // back to offset 0
//	rest := t.Remaining()            // "a😀b"
//
// Combinator code can stay generic by accepting IntoTokens[T]: raw sources
// (Slice, Str, Graphemes) and already constructed cursors both satisfy it.
//
// Cursors are not safe for concurrent use. A source slice must not be
// mutated while a cursor borrows it.
package tokens
