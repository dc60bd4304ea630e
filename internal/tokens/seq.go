package tokens

import (
	"fmt"
	"iter"
)

// All returns an iterator over the remaining items of t.
// Every item handed to the loop body is consumed, including the one on
// which the loop breaks.
func All[T any](t Tokens[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := t.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Collect consumes t to the end and returns the items produced.
func Collect[T any](t Tokens[T]) []T {
	var items []T
	for item := range All(t) {
		items = append(items, item)
	}
	return items
}

// Peek returns the next item without consuming it.
func Peek[T any](t Tokens[T]) (T, bool) {
	cp := t.SaveCheckpoint()
	item, ok := t.Next()
	rewind(t, cp)
	return item, ok
}

// Optional runs match against t and rewinds t to where it started when
// match reports false. It returns the result of match.
func Optional[T any](t Tokens[T], match func(Tokens[T]) bool) bool {
	cp := t.SaveCheckpoint()
	if match(t) {
		return true
	}
	rewind(t, cp)
	return false
}

// SkipWhile consumes items while pred holds and returns how many were
// consumed. The first item failing pred is left unconsumed.
func SkipWhile[T any](t Tokens[T], pred func(T) bool) int {
	n := 0
	for {
		cp := t.SaveCheckpoint()
		item, ok := t.Next()
		if !ok {
			return n
		}
		if !pred(item) {
			rewind(t, cp)
			return n
		}
		n++
	}
}

// rewind applies a checkpoint t just issued. A cursor rejecting its own
// checkpoint is broken, so this panics rather than continuing from an
// unknown position.
func rewind[T any](t Tokens[T], cp Checkpoint) {
	if err := t.RewindToCheckpoint(cp); err != nil {
		panic(fmt.Sprintf("tokens: cursor rejected its own checkpoint: %v", err))
	}
}
