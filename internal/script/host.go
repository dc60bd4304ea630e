package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tokens/internal/logging"
	"github.com/dshills/tokens/internal/tokens"
)

// DefaultTimeout bounds a run when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Host runs scripts. It holds no Lua state between runs, so one Host may
// be shared by several goroutines as long as their outputs are distinct.
type Host struct {
	timeout time.Duration
	out     io.Writer
	log     *logging.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithTimeout sets the run timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithOutput sets where emit writes.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// WithLogger sets the logger that receives print output.
func WithLogger(log *logging.Logger) Option {
	return func(h *Host) {
		h.log = log
	}
}

// NewHost creates a script host.
func NewHost(opts ...Option) *Host {
	h := &Host{
		timeout: DefaultTimeout,
		out:     os.Stdout,
		log:     logging.NullLogger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result reports what a run produced.
type Result struct {
	// Emitted counts emit calls.
	Emitted int

	// Offset is where the script left the input cursor.
	Offset int
}

// RunFile reads the script at path and runs it.
func (h *Host) RunFile(ctx context.Context, path string, in *Input) (Result, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading script: %w", err)
	}
	return h.Run(ctx, filepath.Base(path), string(code), in)
}

// Run executes code with in bound to the global "input".
func (h *Host) Run(ctx context.Context, name, code string, in *Input) (res Result, err error) {
	if in == nil {
		return Result{}, ErrNoInput
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)
	L.SetContext(ctx)

	out := bufio.NewWriter(h.out)
	rt := &runtime{out: out, log: h.log.WithField("script", name)}
	rt.install(L)
	L.SetGlobal("input", newCursor(L, in.b))

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Script: name, Err: fmt.Errorf("lua panic: %v", r)}
		}
		res.Emitted = rt.emitted
		res.Offset = in.b.offset()

		// Lines emitted before a failure still reach the output.
		ferr := out.Flush()
		if rt.writeErr != nil {
			ferr = rt.writeErr
		}
		if err == nil && ferr != nil {
			err = fmt.Errorf("writing output: %w", ferr)
		}
	}()

	fn, err := L.Load(strings.NewReader(code), name)
	if err != nil {
		return res, &Error{Script: name, Err: err}
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("script %s: %w after %v", name, ErrTimeout, h.timeout)
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, &Error{Script: name, Err: err}
	}
	return res, nil
}

// openSafeLibraries opens the libraries that cannot reach the file
// system or the process.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// runtime holds the per-run globals.
type runtime struct {
	out      *bufio.Writer
	log      *logging.Logger
	emitted  int
	writeErr error
}

func (rt *runtime) install(L *lua.LState) {
	registerCursorType(L)

	L.SetGlobal("emit", L.NewFunction(rt.emit))
	L.SetGlobal("print", L.NewFunction(rt.print))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":      newText,
		"graphemes": newGraphemes,
		"list":      newList,
		"location":  location,
	})
	L.SetField(mod, "null", jsonNull)
	L.SetGlobal("tokens", mod)
}

// emit(...) writes the arguments as one tab separated line.
func (rt *runtime) emit(L *lua.LState) int {
	fields := make([]string, L.GetTop())
	for i := range fields {
		fields[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	if rt.writeErr == nil {
		_, rt.writeErr = rt.out.WriteString(strings.Join(fields, "\t") + "\n")
	}
	rt.emitted++
	return 0
}

// print(...) logs its arguments.
func (rt *runtime) print(L *lua.LState) int {
	fields := make([]string, L.GetTop())
	for i := range fields {
		fields[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	rt.log.Info("%s", strings.Join(fields, " "))
	return 0
}

// tokens.text(s) -> cursor
func newText(L *lua.LState) int {
	L.Push(newCursor(L, textBinding(L.CheckString(1))))
	return 1
}

// tokens.graphemes(s) -> cursor
func newGraphemes(L *lua.LState) int {
	L.Push(newCursor(L, graphemeBinding(L.CheckString(1))))
	return 1
}

// tokens.list(t) -> cursor over the string forms of t's sequence
func newList(L *lua.LState) int {
	t := L.CheckTable(1)
	n := t.Len()
	items := make([]string, n)
	for i := range items {
		items[i] = L.ToStringMeta(t.RawGetInt(i + 1)).String()
	}
	L.Push(newCursor(L, listBinding(items)))
	return 1
}

// tokens.location(s, offset) -> line, column
func location(L *lua.LState) int {
	loc := tokens.LocationOf(L.CheckString(1), L.CheckInt(2))
	L.Push(lua.LNumber(loc.Line))
	L.Push(lua.LNumber(loc.Column))
	return 2
}
