package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dshills/tokens/internal/logging"
)

// ErrTooLarge indicates input larger than the configured limit.
var ErrTooLarge = errors.New("input too large")

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// FileSystem is the subset of file access the reader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Text is decoded input held in memory.
type Text struct {
	// Path the text was read from, StdinPath for standard input.
	Path string

	// Content is the decoded text.
	Content string

	// RawSize is the number of bytes read before decoding.
	RawSize int
}

// Reader loads and decodes input files.
type Reader struct {
	fs      FileSystem
	stdin   io.Reader
	opts    Options
	maxSize int
	log     *logging.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithFileSystem sets the file system files are read from.
func WithFileSystem(fs FileSystem) ReaderOption {
	return func(r *Reader) {
		r.fs = fs
	}
}

// WithStdin sets the reader used for StdinPath.
func WithStdin(in io.Reader) ReaderOption {
	return func(r *Reader) {
		r.stdin = in
	}
}

// WithMaxSize rejects inputs larger than n bytes. Zero means no limit.
func WithMaxSize(n int) ReaderOption {
	return func(r *Reader) {
		r.maxSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) ReaderOption {
	return func(r *Reader) {
		r.log = log
	}
}

// NewReader creates a reader that decodes with opts.
func NewReader(opts Options, ropts ...ReaderOption) *Reader {
	r := &Reader{
		fs:    osFS{},
		stdin: os.Stdin,
		opts:  opts,
		log:   logging.NullLogger,
	}
	for _, opt := range ropts {
		opt(r)
	}
	return r
}

// Read loads path, or standard input for StdinPath, and decodes it.
func (r *Reader) Read(path string) (Text, error) {
	data, err := r.readRaw(path)
	if err != nil {
		return Text{}, err
	}

	content, err := Decode(data, r.opts)
	if err != nil {
		return Text{}, fmt.Errorf("%s: %w", path, err)
	}

	r.log.Debug("read %s: %d bytes, %d decoded", path, len(data), len(content))
	return Text{Path: path, Content: content, RawSize: len(data)}, nil
}

// readRaw loads the input without holding more than maxSize+1 bytes of
// an oversized one.
func (r *Reader) readRaw(path string) ([]byte, error) {
	if path == StdinPath {
		in := r.stdin
		if r.maxSize > 0 {
			in = io.LimitReader(in, int64(r.maxSize)+1)
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if err := r.checkSize(path, int64(len(data))); err != nil {
			return nil, err
		}
		return data, nil
	}

	if r.maxSize > 0 {
		info, err := r.fs.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := r.checkSize(path, info.Size()); err != nil {
			return nil, err
		}
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	// The file may have grown since Stat.
	if err := r.checkSize(path, int64(len(data))); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Reader) checkSize(path string, size int64) error {
	if r.maxSize > 0 && size > int64(r.maxSize) {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, r.maxSize)
	}
	return nil
}
