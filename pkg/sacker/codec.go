package sacker

import (
	"fmt"
	"math"
	"strings"
)

// Decode unpacks the first Size() bytes of buf into a Record. The
// context label names the record kind in errors ("XTFPINGHEADER" and
// the like). It returns the number of bytes consumed, always Size()
// on success.
func (s *Spec) Decode(buf []byte, context string) (int, *Record, error) {
	if len(buf) < s.size {
		return 0, nil, &TruncatedError{Context: context, Need: s.size, Have: len(buf)}
	}

	r := NewRecord(s)
	off := 0
	for i := range s.fields {
		f := &s.fields[i]
		if f.kind == kindPad {
			off += f.size
			continue
		}
		r.values[f.Name] = s.decodeValue(f, buf[off:off+f.size])
		off += f.size
	}

	// Validations run after the whole record is unpacked, in field
	// order, so error messages can carry the decoded value.
	for i := range s.fields {
		f := &s.fields[i]
		if f.check == nil {
			continue
		}
		v := r.values[f.Name]
		if !checkEqual(v, f.check.want) {
			return 0, nil, &BadDataError{
				Severity: f.check.severity,
				Context:  context,
				Field:    f.Name,
				Value:    v,
			}
		}
	}

	return s.size, r, nil
}

func (s *Spec) decodeValue(f *Field, b []byte) any {
	switch f.kind {
	case kindUint:
		switch f.size {
		case 1:
			return b[0]
		case 2:
			return s.order.Uint16(b)
		case 4:
			return s.order.Uint32(b)
		default:
			return s.order.Uint64(b)
		}
	case kindInt:
		switch f.size {
		case 1:
			return int8(b[0])
		case 2:
			return int16(s.order.Uint16(b))
		case 4:
			return int32(s.order.Uint32(b))
		default:
			return int64(s.order.Uint64(b))
		}
	case kindFloat:
		if f.size == 4 {
			return math.Float32frombits(s.order.Uint32(b))
		}
		return math.Float64frombits(s.order.Uint64(b))
	default: // kindString
		return strings.TrimRight(string(b), "\x00\r")
	}
}

// Encode packs a record into a fresh buffer of Size() bytes. Fields
// absent from the record encode as zero; padding encodes as zero
// bytes. The record need not come from this spec, only carry
// compatibly-typed values under this spec's field names.
func (s *Spec) Encode(r *Record) ([]byte, error) {
	buf := make([]byte, s.size)
	off := 0
	for i := range s.fields {
		f := &s.fields[i]
		if f.kind == kindPad {
			off += f.size
			continue
		}
		var v any
		if r != nil {
			v = r.values[f.Name]
		}
		if err := s.encodeValue(f, v, buf[off:off+f.size]); err != nil {
			return nil, err
		}
		off += f.size
	}
	return buf, nil
}

func (s *Spec) encodeValue(f *Field, v any, b []byte) error {
	switch f.kind {
	case kindUint, kindInt:
		var n int64
		if v != nil {
			var ok bool
			n, ok = toInt64(v)
			if !ok {
				return fmt.Errorf("field %q: cannot encode %T as integer", f.Name, v)
			}
		}
		if err := checkFits(f, n); err != nil {
			return err
		}
		switch f.size {
		case 1:
			b[0] = byte(n)
		case 2:
			s.order.PutUint16(b, uint16(n))
		case 4:
			s.order.PutUint32(b, uint32(n))
		default:
			s.order.PutUint64(b, uint64(n))
		}
	case kindFloat:
		var fl float64
		switch v := v.(type) {
		case nil:
		case float32:
			fl = float64(v)
		case float64:
			fl = v
		default:
			n, ok := toInt64(v)
			if !ok {
				return fmt.Errorf("field %q: cannot encode %T as float", f.Name, v)
			}
			fl = float64(n)
		}
		if f.size == 4 {
			s.order.PutUint32(b, math.Float32bits(float32(fl)))
		} else {
			s.order.PutUint64(b, math.Float64bits(fl))
		}
	default: // kindString
		str, ok := v.(string)
		if v != nil && !ok {
			return fmt.Errorf("field %q: cannot encode %T as string", f.Name, v)
		}
		if len(str) > f.size {
			str = str[:f.size]
		}
		copy(b, str) // remainder stays NUL padding
	}
	return nil
}

// checkFits rejects integer values that do not fit the field's
// declared width and signedness instead of silently wrapping.
// Eight-byte fields hold any int64 bit pattern (uint64 values arrive
// reinterpreted, which round-trips exactly).
func checkFits(f *Field, n int64) error {
	if f.size == 8 {
		return nil
	}
	bits := uint(f.size) * 8
	var lo, hi int64
	if f.kind == kindUint {
		lo, hi = 0, int64(1)<<bits-1
	} else {
		lo, hi = -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
	}
	if n < lo || n > hi {
		return fmt.Errorf("field %q: value %d does not fit %d bytes", f.Name, n, f.size)
	}
	return nil
}

func checkEqual(v any, want int64) bool {
	switch v := v.(type) {
	case float32:
		return float64(v) == float64(want)
	case float64:
		return v == float64(want)
	default:
		n, ok := toInt64(v)
		return ok && n == want
	}
}
