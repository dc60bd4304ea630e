package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func runCmd(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut strings.Builder
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunStdin(t *testing.T) {
	code, stdout, stderr := runCmd(t, "a b", "-m", "words")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	want := "0\t0\t-\t\"a\"\n1\t1\t-\t\"b\"\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRunFileJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.txt", "h\u00e9")

	code, stdout, stderr := runCmd(t, "", "-f", "json", path)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d records, want 2: %q", len(lines), stdout)
	}
	if got := gjson.Get(lines[1], "value").String(); got != "\u00e9" {
		t.Errorf("value = %q, want \u00e9", got)
	}
	if got := gjson.Get(lines[1], "width").Int(); got != 2 {
		t.Errorf("width = %d, want 2", got)
	}
}

func TestRunEncoding(t *testing.T) {
	code, stdout, stderr := runCmd(t, "caf\xe9", "-e", "latin1", "-m", "graphemes", "-n", "1")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	if stdout != "0\t0\t1:1\t\"c\"\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "truncated") {
		t.Errorf("stderr = %q, want truncation notice", stderr)
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "tokdump.toml", "[input]\nmode = \"lines\"\n\n[output]\nformat = \"json\"\n")

	code, stdout, stderr := runCmd(t, "one\ntwo\n", "-config", cfg, "-f", "text")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	want := "0\t0\t-\t\"one\"\n1\t1\t-\t\"two\"\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "count.lua", `
local n = 0
while input:next() ~= nil do n = n + 1 end
emit("items", n)
`)

	code, stdout, stderr := runCmd(t, `[1, 2, 3]`, "-m", "json", "-s", script)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	if stdout != "items\t3\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.lua", `error("nope")`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, exitOK},
		{"unknown flag", []string{"-bogus"}, exitUsage},
		{"invalid mode", []string{"-m", "bytes"}, exitUsage},
		{"invalid log level", []string{"-log-level", "loud"}, exitUsage},
		{"too many inputs", []string{"a", "b"}, exitUsage},
		{"watch stdin", []string{"-w"}, exitUsage},
		{"missing input", []string{filepath.Join(dir, "missing.txt")}, exitError},
		{"missing config", []string{"-c", filepath.Join(dir, "missing.toml")}, exitError},
		{"script error", []string{"-s", bad}, exitError},
		{"json input not array", []string{"-m", "json"}, exitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(t, `{"a": 1}`, tt.args...)
			if code != tt.want {
				t.Errorf("exit = %d, want %d (stderr %q)", code, tt.want, stderr)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCmd(t, "", "-version")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(stdout, "tokdump "+version) {
		t.Errorf("stdout = %q", stdout)
	}
}

// syncBuffer is a strings.Builder safe for the watch goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunWatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.txt", "first")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out, errOut syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-w", "-debounce", "20ms", "-m", "words", path}, strings.NewReader(""), &out, &errOut)
	}()

	waitFor(t, func() bool { return strings.Contains(out.String(), `"first"`) })

	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return strings.Contains(out.String(), `"second"`) })

	cancel()
	select {
	case code := <-done:
		if code != exitOK {
			t.Errorf("exit = %d, stderr = %s", code, errOut.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
