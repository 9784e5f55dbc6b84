package sacker

import "fmt"

// Record is a decoded record instance: an ordered mapping from field
// name to value, in spec order, with padding fields dropped. Records
// are created by Spec.Decode (or NewRecord for building output) and
// are not safe for concurrent mutation.
type Record struct {
	spec   *Spec
	values map[string]any
}

// NewRecord returns an empty record for spec. Fields left unset
// encode as zero.
func NewRecord(spec *Spec) *Record {
	return &Record{
		spec:   spec,
		values: make(map[string]any, len(spec.names)),
	}
}

// Spec returns the owning spec.
func (r *Record) Spec() *Spec { return r.spec }

// Names returns the record's field names in spec order.
func (r *Record) Names() []string { return r.spec.names }

// Get returns the raw decoded value for name.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Set overwrites a field value. The name must belong to the owning
// spec; anything else is a programmer error and panics.
func (r *Record) Set(name string, v any) {
	for _, n := range r.spec.names {
		if n == name {
			r.values[name] = v
			return
		}
	}
	panic(fmt.Sprintf("sacker: field %q not in spec", name))
}

// Int returns the field as int64, coercing any integer width or
// sign. Unset fields and float/string fields return 0.
func (r *Record) Int(name string) int64 {
	v, ok := toInt64(r.values[name])
	if !ok {
		return 0
	}
	return v
}

// Uint returns the field as uint64.
func (r *Record) Uint(name string) uint64 {
	v, ok := toInt64(r.values[name])
	if !ok {
		return 0
	}
	return uint64(v)
}

// Float returns the field as float64, coercing integer values.
// Unset and string fields return 0.
func (r *Record) Float(name string) float64 {
	switch v := r.values[name].(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		n, ok := toInt64(r.values[name])
		if !ok {
			return 0
		}
		return float64(n)
	}
}

// Str returns a string field's value (already stripped of trailing
// NUL and CR padding by decode). Non-string fields return "".
func (r *Record) Str(name string) string {
	s, _ := r.values[name].(string)
	return s
}

func toInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case uint8:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case int16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint:
		return int64(v), true
	default:
		return 0, false
	}
}
