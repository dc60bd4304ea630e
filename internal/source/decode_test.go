package source

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		opts  Options
		want  string
	}{
		{"utf-8 passthrough", []byte("héllo"), Options{}, "héllo"},
		{"latin1", []byte{'c', 'a', 'f', 0xe9}, Options{Encoding: "latin1"}, "café"},
		{"windows-1252 euro", []byte{0x80, '5'}, Options{Encoding: "windows-1252"}, "€5"},
		{"utf-16le", []byte{'h', 0, 'i', 0}, Options{Encoding: "utf-16le"}, "hi"},
		{"utf-16 with BOM", []byte{0xfe, 0xff, 0, 'o', 0, 'k'}, Options{Encoding: "utf-16"}, "ok"},
		{"auto utf-16le BOM", []byte{0xff, 0xfe, 'a', 0}, Options{Encoding: "auto"}, "a"},
		{"auto utf-8 BOM stripped", []byte("\xef\xbb\xbfx"), Options{Encoding: "auto"}, "x"},
		{"auto no BOM", []byte("plain"), Options{Encoding: "auto"}, "plain"},
		{"invalid kept", []byte("a\xffb"), Options{}, "a\xffb"},
		{"invalid replaced", []byte("a\xff\xfeb"), Options{ReplaceInvalid: true}, "a\ufffdb"},
		{"nfc", []byte("e\u0301"), Options{Normalize: "nfc"}, "\u00e9"},
		{"nfd", []byte("\u00e9"), Options{Normalize: "NFD"}, "e\u0301"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input, tt.opts)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(nil, Options{Encoding: "ebcdic"}); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("Decode(ebcdic) error = %v, want ErrUnknownEncoding", err)
	}
	if _, err := Decode(nil, Options{Normalize: "nfkc"}); !errors.Is(err, ErrUnknownNormalization) {
		t.Errorf("Decode(nfkc) error = %v, want ErrUnknownNormalization", err)
	}
}

func TestValidEncoding(t *testing.T) {
	for _, name := range Encodings() {
		if !ValidEncoding(name) {
			t.Errorf("ValidEncoding(%q) = false", name)
		}
	}
	if ValidEncoding("klingon") {
		t.Error("ValidEncoding(klingon) = true")
	}
	if !ValidNormalization("") || ValidNormalization("x") {
		t.Error("ValidNormalization mismatch")
	}
}
