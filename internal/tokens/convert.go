package tokens

// Slice is a raw element source. Converting it yields a SliceTokens.
type Slice[T any] []T

// IntoTokens creates a cursor at the start of s.
func (s Slice[T]) IntoTokens() Tokens[*T] {
	return FromSlice([]T(s))
}

// Str is a raw text source. Converting it yields a StrTokens.
type Str string

// IntoTokens creates a rune cursor at the start of s.
func (s Str) IntoTokens() Tokens[rune] {
	return FromString(string(s))
}

// Graphemes is a raw text source. Converting it yields a GraphemeTokens.
type Graphemes string

// IntoTokens creates a grapheme cursor at the start of s.
func (s Graphemes) IntoTokens() Tokens[string] {
	return FromGraphemes(string(s))
}

// Interface checks.
var (
	_ IntoTokens[*int]   = Slice[int](nil)
	_ IntoTokens[rune]   = Str("")
	_ IntoTokens[string] = Graphemes("")

	_ IntoTokens[*int]   = (*SliceTokens[int])(nil)
	_ IntoTokens[rune]   = (*StrTokens)(nil)
	_ IntoTokens[string] = (*GraphemeTokens)(nil)
)
