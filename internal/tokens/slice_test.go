package tokens

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSliceTokensNext(t *testing.T) {
	src := []int{10, 20, 30}
	toks := FromSlice(src)

	for i, want := range src {
		got, ok := toks.Next()
		if !ok {
			t.Fatalf("Next() #%d returned ok=false", i)
		}
		if *got != want {
			t.Errorf("Next() #%d = %d, want %d", i, *got, want)
		}
		if got != &src[i] {
			t.Errorf("Next() #%d did not return a reference into the source", i)
		}
	}

	for i := 0; i < 3; i++ {
		if got, ok := toks.Next(); ok || got != nil {
			t.Errorf("Next() after end = (%v, %v), want (nil, false)", got, ok)
		}
		if toks.Offset() != 3 {
			t.Errorf("Offset() after end = %d, want 3", toks.Offset())
		}
	}
}

func TestSliceTokensViews(t *testing.T) {
	toks := FromSlice([]int{10, 20, 30})
	toks.Next()
	toks.Next()

	if diff := cmp.Diff([]int{10, 20}, toks.Consumed()); diff != "" {
		t.Errorf("Consumed() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{30}, toks.Remaining()); diff != "" {
		t.Errorf("Remaining() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{10, 20, 30}, toks.Source()); diff != "" {
		t.Errorf("Source() mismatch (-want +got):\n%s", diff)
	}
}

func TestSliceTokensConsumedDoesNotAlias(t *testing.T) {
	src := []int{1, 2, 3}
	toks := FromSlice(src)
	toks.Next()

	consumed := append(toks.Consumed(), 99)
	if src[1] != 2 {
		t.Errorf("append to Consumed() overwrote source: %v", src)
	}
	if len(consumed) != 2 {
		t.Errorf("len(consumed) = %d, want 2", len(consumed))
	}
}

func TestSliceTokensRoundTrip(t *testing.T) {
	src := []string{"a", "b", "c", "d"}
	toks := FromSlice(src)

	for {
		joined := append(append([]string{}, toks.Consumed()...), toks.Remaining()...)
		if diff := cmp.Diff(src, joined); diff != "" {
			t.Fatalf("at offset %d, Consumed()+Remaining() mismatch (-want +got):\n%s", toks.Offset(), diff)
		}
		if _, ok := toks.Next(); !ok {
			break
		}
	}
}

func TestSliceTokensEmpty(t *testing.T) {
	tests := []struct {
		name string
		src  []int
	}{
		{"nil", nil},
		{"empty", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := FromSlice(tt.src)
			if _, ok := toks.Next(); ok {
				t.Error("Next() on empty input should return ok=false")
			}
			if len(toks.Consumed()) != 0 {
				t.Errorf("Consumed() = %v, want empty", toks.Consumed())
			}
			if len(toks.Remaining()) != 0 {
				t.Errorf("Remaining() = %v, want empty", toks.Remaining())
			}
			if !toks.AtEnd() {
				t.Error("AtEnd() should be true for empty input")
			}
		})
	}
}

func TestSliceTokensCheckpoint(t *testing.T) {
	toks := FromSlice([]rune("hello"))
	toks.Next()

	cp := toks.SaveCheckpoint()
	before := string(toks.Remaining())
	for i := 0; i < 3; i++ {
		toks.Next()
	}

	if err := toks.RewindToCheckpoint(cp); err != nil {
		t.Fatalf("RewindToCheckpoint() error = %v", err)
	}
	if got := string(toks.Remaining()); got != before {
		t.Errorf("Remaining() after rewind = %q, want %q", got, before)
	}
	if cp.Offset() != 1 {
		t.Errorf("cp.Offset() = %d, want 1", cp.Offset())
	}
}

func TestSliceTokensForeignCheckpoint(t *testing.T) {
	src := []int{1, 2, 3}
	a := FromSlice(src)
	b := FromSlice(src)

	a.Next()
	a.Next()
	cp := a.SaveCheckpoint()

	b.Next()
	err := b.RewindToCheckpoint(cp)
	if !errors.Is(err, ErrInvalidCheckpoint) {
		t.Fatalf("RewindToCheckpoint(foreign) error = %v, want ErrInvalidCheckpoint", err)
	}
	if b.Offset() != 1 {
		t.Errorf("Offset() after rejected rewind = %d, want 1", b.Offset())
	}

	if err := b.RewindToCheckpoint(Checkpoint{}); !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("RewindToCheckpoint(zero) error = %v, want ErrInvalidCheckpoint", err)
	}
}

func TestSliceTokensCopyAndClone(t *testing.T) {
	src := []int{1, 2, 3, 4}
	a := FromSlice(src)
	a.Next()

	// A struct copy is the same cursor as far as checkpoints go.
	copied := *a
	a.Next()
	if err := copied.RewindToCheckpoint(a.SaveCheckpoint()); err != nil {
		t.Fatalf("copy RewindToCheckpoint() error = %v", err)
	}
	if copied.Offset() != 2 {
		t.Errorf("copy Offset() = %d, want 2", copied.Offset())
	}

	c := a.Clone()
	if c.Offset() != a.Offset() {
		t.Fatalf("Clone() Offset() = %d, want %d", c.Offset(), a.Offset())
	}
	if diff := cmp.Diff(a.Remaining(), c.Remaining()); diff != "" {
		t.Errorf("Clone() Remaining() mismatch (-want +got):\n%s", diff)
	}

	if err := c.RewindToCheckpoint(a.SaveCheckpoint()); !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("clone accepted original checkpoint, error = %v", err)
	}
	if err := a.RewindToCheckpoint(c.SaveCheckpoint()); !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("original accepted clone checkpoint, error = %v", err)
	}

	c.Next()
	if a.Offset() != 2 || c.Offset() != 3 {
		t.Errorf("Offset() = %d, %d after advancing clone, want 2, 3", a.Offset(), c.Offset())
	}
}

func TestSliceTokensZeroValue(t *testing.T) {
	var toks SliceTokens[int]
	if _, ok := toks.Next(); ok {
		t.Error("Next() on zero value should return ok=false")
	}
	cp := toks.SaveCheckpoint()
	if err := toks.RewindToCheckpoint(cp); err != nil {
		t.Errorf("RewindToCheckpoint() on zero value error = %v", err)
	}
}

func TestSliceTokensIdentityConversion(t *testing.T) {
	toks := FromSlice([]int{1, 2})
	if got := toks.IntoTokens(); got != Tokens[*int](toks) {
		t.Error("IntoTokens() on a cursor should return the same cursor")
	}

	var src IntoTokens[*int] = Slice[int]{4, 5}
	conv, ok := src.IntoTokens().(*SliceTokens[int])
	if !ok {
		t.Fatalf("Slice.IntoTokens() returned %T", src.IntoTokens())
	}
	if conv.Offset() != 0 {
		t.Errorf("converted cursor Offset() = %d, want 0", conv.Offset())
	}
	conv.Next()
	if diff := cmp.Diff([]int{4, 5}, conv.Source()); diff != "" {
		t.Errorf("Source() mismatch (-want +got):\n%s", diff)
	}
}
