package script

import (
	"fmt"

	"github.com/dshills/tokens/internal/source"
)

// Input is a cursor ready to be bound to a script.
type Input struct {
	mode source.Mode
	b    *binding
}

// NewInput builds the cursor for mode over text.
func NewInput(mode source.Mode, text string) (*Input, error) {
	var b *binding
	switch mode {
	case source.ModeRunes, "":
		b = textBinding(text)
	case source.ModeGraphemes:
		b = graphemeBinding(text)
	case source.ModeLines:
		b = listBinding(source.Lines(text))
	case source.ModeWords:
		b = listBinding(source.Words(text))
	case source.ModeJSON:
		elems, err := source.JSONElements(text)
		if err != nil {
			return nil, err
		}
		b = jsonBinding(elems)
	default:
		return nil, fmt.Errorf("%w: %q", source.ErrUnknownMode, mode)
	}
	return &Input{mode: mode, b: b}, nil
}

// Mode returns the mode the input was built with.
func (in *Input) Mode() source.Mode {
	return in.mode
}

// Offset returns the cursor offset, which a script may have moved.
func (in *Input) Offset() int {
	return in.b.offset()
}
