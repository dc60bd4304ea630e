package tokens

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGraphemeTokensNext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"ascii", "abc", []string{"a", "b", "c"}},
		{"combining mark", "e\u0301x", []string{"e\u0301", "x"}},
		{"skin tone", "👍🏽!", []string{"👍🏽", "!"}},
		{"flags", "🇺🇸🇫🇷", []string{"🇺🇸", "🇫🇷"}},
		{"crlf", "a\r\nb", []string{"a", "\r\n", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := FromGraphemes(tt.input)
			got := Collect[string](toks)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
			}
			if toks.Offset() != len(tt.input) {
				t.Errorf("Offset() at end = %d, want %d", toks.Offset(), len(tt.input))
			}
		})
	}
}

func TestGraphemeTokensCheckpoint(t *testing.T) {
	toks := FromGraphemes("a👍🏽b")
	toks.Next()
	cp := toks.SaveCheckpoint()

	cluster, _ := toks.Next()
	if cluster != "👍🏽" {
		t.Fatalf("Next() = %q, want %q", cluster, "👍🏽")
	}
	if toks.Consumed() != "a👍🏽" {
		t.Errorf("Consumed() = %q, want %q", toks.Consumed(), "a👍🏽")
	}

	if err := toks.RewindToCheckpoint(cp); err != nil {
		t.Fatalf("RewindToCheckpoint() error = %v", err)
	}
	if toks.Remaining() != "👍🏽b" {
		t.Errorf("Remaining() after rewind = %q, want %q", toks.Remaining(), "👍🏽b")
	}
	if err := FromGraphemes("x").RewindToCheckpoint(cp); !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("RewindToCheckpoint(foreign) error = %v, want ErrInvalidCheckpoint", err)
	}
}

func TestGraphemeTokensClone(t *testing.T) {
	a := FromGraphemes("e\u0301x")
	a.Next()

	c := a.Clone()
	if c.Offset() != 3 || c.Remaining() != "x" {
		t.Fatalf("Clone() at %d with %q, want 3 with x", c.Offset(), c.Remaining())
	}
	if err := c.RewindToCheckpoint(a.SaveCheckpoint()); !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("clone accepted original checkpoint, error = %v", err)
	}
	copied := *a
	if err := copied.RewindToCheckpoint(a.SaveCheckpoint()); err != nil {
		t.Errorf("copy RewindToCheckpoint() error = %v", err)
	}
}

func TestGraphemeTokensConversion(t *testing.T) {
	var src IntoTokens[string] = Graphemes("ab")
	toks := src.IntoTokens().(*GraphemeTokens)
	toks.Next()
	if toks.Source() != "ab" {
		t.Errorf("Source() = %q, want %q", toks.Source(), "ab")
	}
	if loc := toks.Location(); loc.Column != 2 {
		t.Errorf("Location().Column = %d, want 2", loc.Column)
	}
}
