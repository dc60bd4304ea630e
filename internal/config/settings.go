package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dshills/tokens/internal/config/loader"
)

// settings reads typed values from a merged map, keeping the first
// type error.
type settings struct {
	m   map[string]any
	err error
}

func (s *settings) get(path string) (any, bool) {
	v, ok := loader.GetByPath(s.m, path)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (s *settings) fail(path, expected string, v any) {
	if s.err == nil {
		s.err = &TypeError{Path: path, Expected: expected, Actual: typeName(v)}
	}
}

func (s *settings) str(path string) string {
	v, ok := s.get(path)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		s.fail(path, "string", v)
		return ""
	}
}

func (s *settings) bool(path string) bool {
	v, ok := s.get(path)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(val)
		if err != nil {
			s.fail(path, "bool", v)
		}
		return b
	default:
		s.fail(path, "bool", v)
		return false
	}
}

func (s *settings) int(path string) int {
	v, ok := s.get(path)
	if !ok {
		return 0
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint64:
		return int(val)
	case float64:
		if val != float64(int(val)) {
			s.fail(path, "int", v)
		}
		return int(val)
	case string:
		i, err := strconv.Atoi(val)
		if err != nil {
			s.fail(path, "int", v)
		}
		return i
	default:
		s.fail(path, "int", v)
		return 0
	}
}

// duration accepts duration strings ("250ms") or integer milliseconds.
func (s *settings) duration(path string) time.Duration {
	v, ok := s.get(path)
	if !ok {
		return 0
	}
	switch val := v.(type) {
	case time.Duration:
		return val
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			s.fail(path, "duration", v)
		}
		return d
	case int:
		return time.Duration(val) * time.Millisecond
	case int64:
		return time.Duration(val) * time.Millisecond
	default:
		s.fail(path, "duration", v)
		return 0
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "array"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
