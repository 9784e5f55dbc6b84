// Package sacker compiles textual descriptions of fixed-width binary
// records into reusable codecs.
//
// A record spec is a multi-line text block. Each non-blank line (after
// stripping '#' comments) describes one field:
//
//	<code> <name> [== <literal> <marker>]
//	<count>x
//
// where <code> is a primitive type code with a fixed byte width:
//
//	B  uint8     b  int8
//	H  uint16    h  int16
//	I  uint32    i  int32     (L and l are aliases)
//	Q  uint64    q  int64
//	f  float32   d  float64
//	Ns N-byte string
//	Nx N bytes of anonymous padding (never exposed to callers)
//
// The optional "== <literal> <marker>" clause attaches a validation:
// on decode the field value must equal <literal> (decimal or 0x hex),
// otherwise decoding fails with a BadDataError whose severity is
// Fatal for marker '!' or Unsupported for marker '?'.
//
// # Compilation and caching
//
// Compile parses a spec once and caches the result keyed by byte
// order and exact source text, so hot decode paths that name their
// spec by literal string never re-parse. The cache is safe for
// concurrent first use. Malformed spec text is a programmer error and
// fails compilation with a line-numbered SyntaxError.
//
// # Decoding and encoding
//
// Spec.Decode reads exactly Spec.Size() bytes from the front of a
// buffer into an ordered named-field Record, right-trimming NUL and
// CR padding from string fields and running the attached validations.
// Spec.Encode packs a Record back into bytes; fields absent from the
// record encode as zero. Encode is the inverse of Decode on every
// named field (string padding content excepted: encode pads with NUL
// up to width, decode strips it back down).
package sacker
