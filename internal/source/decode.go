package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options controls how raw bytes become text.
type Options struct {
	// Encoding names the input encoding. Empty means "utf-8".
	Encoding string

	// Normalize is "", "nfc" or "nfd".
	Normalize string

	// ReplaceInvalid replaces each run of invalid UTF-8 with U+FFFD.
	// Without it invalid bytes pass through and the text cursor yields
	// utf8.RuneError for each of them.
	ReplaceInvalid bool
}

// Encodings lists the accepted encoding names.
func Encodings() []string {
	return []string{"utf-8", "auto", "utf-16", "utf-16le", "utf-16be", "latin1", "windows-1252"}
}

// ValidEncoding reports whether name is an accepted encoding.
func ValidEncoding(name string) bool {
	_, err := lookupEncoding(name)
	return err == nil
}

// ValidNormalization reports whether form is an accepted normalization form.
func ValidNormalization(form string) bool {
	_, err := lookupForm(form)
	return err == nil
}

// lookupEncoding returns the decoder for name, or nil for plain UTF-8.
func lookupEncoding(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "auto":
		// A BOM selects UTF-8 or UTF-16; no BOM means UTF-8.
		return unicode.BOMOverride(transform.Nop), nil
	case "utf-16":
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "latin1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc.NewDecoder(), nil
}

func lookupForm(form string) (*norm.Form, error) {
	var f norm.Form
	switch strings.ToLower(form) {
	case "":
		return nil, nil
	case "nfc":
		f = norm.NFC
	case "nfd":
		f = norm.NFD
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNormalization, form)
	}
	return &f, nil
}

// Decode converts raw bytes into text according to opts.
func Decode(data []byte, opts Options) (string, error) {
	dec, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return "", err
	}
	form, err := lookupForm(opts.Normalize)
	if err != nil {
		return "", err
	}

	if dec != nil {
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", opts.Encoding, err)
		}
		data = out
	}

	text := string(data)
	if opts.ReplaceInvalid && !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	if form != nil {
		text = form.String(text)
	}
	return text, nil
}
