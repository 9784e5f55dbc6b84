package sacker

import (
	"errors"
	"fmt"
)

// Severity classifies a failed validation: Fatal means the input is
// not this format or is corrupt, Unsupported means the input is
// recognized but this implementation does not handle it.
type Severity int

const (
	Fatal Severity = iota
	Unsupported
)

func (s Severity) String() string {
	switch s {
	case Fatal:
		return "bad"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// SyntaxError reports a malformed record-spec line. It is always a
// programmer error, raised at compile time, never at decode time.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bad spec, %s, line %d", e.Msg, e.Line)
}

// BadDataError reports a failed field validation or structural check.
// Context names the record being decoded (e.g. "XTFPINGHEADER"),
// Field the offending field, Value the decoded value.
type BadDataError struct {
	Severity Severity
	Context  string
	Field    string
	Value    any
}

func (e *BadDataError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s %s == %v", e.Severity, e.Field, e.Value)
	}
	return fmt.Sprintf("%s %s %s == %v", e.Severity, e.Context, e.Field, e.Value)
}

// TruncatedError reports a buffer shorter than a spec or a declared
// packet length demands. Always fatal.
type TruncatedError struct {
	Context string
	Need    int
	Have    int
}

func (e *TruncatedError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("truncated: need %d bytes, have %d", e.Need, e.Have)
	}
	return fmt.Sprintf("truncated %s: need %d bytes, have %d", e.Context, e.Need, e.Have)
}

// IsUnsupported reports whether err is a BadDataError with
// Unsupported severity, letting callers distinguish "valid but
// unhandled" from "corrupt".
func IsUnsupported(err error) bool {
	var bad *BadDataError
	return errors.As(err, &bad) && bad.Severity == Unsupported
}

// IsBadData reports whether err is a Fatal-severity BadDataError.
func IsBadData(err error) bool {
	var bad *BadDataError
	return errors.As(err, &bad) && bad.Severity == Fatal
}

// IsTruncated reports whether err is a TruncatedError.
func IsTruncated(err error) bool {
	var tr *TruncatedError
	return errors.As(err, &tr)
}
