package sacker

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

type kind int

const (
	kindUint kind = iota
	kindInt
	kindFloat
	kindString
	kindPad
)

// Field describes one binary field of a compiled Spec.
type Field struct {
	Name string // empty for padding
	kind kind
	size int
	check *check
}

// Size returns the field's width in bytes.
func (f *Field) Size() int { return f.size }

type check struct {
	want     int64
	severity Severity
}

// Spec is a compiled record layout: an ordered field sequence with a
// fixed total byte length and byte order. Specs are immutable and
// safe for concurrent use.
type Spec struct {
	order  binary.ByteOrder
	fields []Field
	names  []string // named (non-padding) fields in spec order
	size   int
}

// Size returns the fixed total byte length of the record.
func (s *Spec) Size() int { return s.size }

// Names returns the named fields in spec order. The returned slice is
// shared; callers must not modify it.
func (s *Spec) Names() []string { return s.names }

// ByteOrder returns the spec's byte order.
func (s *Spec) ByteOrder() binary.ByteOrder { return s.order }

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Spec)
)

// Compile parses spec text into a Spec. Results are cached keyed by
// byte order and exact source text, so repeated compilation of the
// same literal text (once per packet on hot paths) never re-parses.
// Concurrent first use is safe; on a race the first inserted Spec
// wins and equivalent ones are discarded.
func Compile(order binary.ByteOrder, text string) (*Spec, error) {
	key := order.String() + "\x00" + text
	cacheMu.RLock()
	s, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := parse(order, text)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	if prev, ok := cache[key]; ok {
		s = prev
	} else {
		cache[key] = s
	}
	cacheMu.Unlock()
	return s, nil
}

// MustCompile is Compile for package-level layout constants; it
// panics on a syntax error.
func MustCompile(order binary.ByteOrder, text string) *Spec {
	s, err := Compile(order, text)
	if err != nil {
		panic(fmt.Sprintf("sacker: %v", err))
	}
	return s
}

// stripComment removes a trailing '#' comment and surrounding space.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func parse(order binary.ByteOrder, text string) (*Spec, error) {
	s := &Spec{order: order}
	names := make(map[string]bool)

	for lineNum, raw := range strings.Split(text, "\n") {
		line := stripComment(raw)
		if line == "" {
			continue
		}

		toks := strings.Fields(line)
		f, err := parseField(toks)
		if err != "" {
			return nil, &SyntaxError{Line: lineNum + 1, Msg: err}
		}
		if f.Name != "" {
			if names[f.Name] {
				return nil, &SyntaxError{Line: lineNum + 1, Msg: fmt.Sprintf("duplicate field %q", f.Name)}
			}
			names[f.Name] = true
			s.names = append(s.names, f.Name)
		}
		s.size += f.size
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// parseField parses one tokenized spec line. It returns a non-empty
// message instead of an error value so parse can attach the line
// number.
func parseField(toks []string) (Field, string) {
	if len(toks) == 0 {
		return Field{}, "empty line"
	}

	k, size, isPad, ok := parseCode(toks[0])
	if !ok {
		return Field{}, fmt.Sprintf("unknown format %q", toks[0])
	}

	if isPad {
		if len(toks) != 1 {
			return Field{}, "padding takes no name"
		}
		return Field{kind: kindPad, size: size}, ""
	}

	if len(toks) < 2 {
		return Field{}, "name required"
	}
	f := Field{Name: toks[1], kind: k, size: size}

	switch len(toks) {
	case 2:
		return f, ""
	case 5:
		if toks[2] != "==" {
			return Field{}, fmt.Sprintf("expected == before test, got %q", toks[2])
		}
		if k == kindString {
			return Field{}, "test not supported on string fields"
		}
		want, err := strconv.ParseInt(toks[3], 0, 64)
		if err != nil {
			return Field{}, fmt.Sprintf("bad test literal %q", toks[3])
		}
		var sev Severity
		switch toks[4] {
		case "!":
			sev = Fatal
		case "?":
			sev = Unsupported
		default:
			return Field{}, fmt.Sprintf("bad test action %q", toks[4])
		}
		f.check = &check{want: want, severity: sev}
		return f, ""
	default:
		return Field{}, "malformed line"
	}
}

// parseCode resolves a primitive type code to its kind and byte width.
func parseCode(code string) (k kind, size int, pad, ok bool) {
	switch code {
	case "B":
		return kindUint, 1, false, true
	case "b":
		return kindInt, 1, false, true
	case "H":
		return kindUint, 2, false, true
	case "h":
		return kindInt, 2, false, true
	case "I", "L":
		return kindUint, 4, false, true
	case "i", "l":
		return kindInt, 4, false, true
	case "Q":
		return kindUint, 8, false, true
	case "q":
		return kindInt, 8, false, true
	case "f":
		return kindFloat, 4, false, true
	case "d":
		return kindFloat, 8, false, true
	case "x":
		return kindPad, 1, true, true
	}

	// Ns string and Nx padding
	last := code[len(code)-1]
	if last != 's' && last != 'x' {
		return 0, 0, false, false
	}
	n, err := strconv.Atoi(code[:len(code)-1])
	if err != nil || n <= 0 {
		return 0, 0, false, false
	}
	if last == 'x' {
		return kindPad, n, true, true
	}
	return kindString, n, false, true
}
