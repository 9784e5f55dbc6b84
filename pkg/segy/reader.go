package segy

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

// File is a decoded SEG-Y file. Reading exists for inspection and for
// verifying exports; it supports the same fixed-geometry subset the
// exporter writes.
type File struct {
	Text   string
	Header *sacker.Record
	Traces []Trace
}

// Trace is one trace header plus its decoded sample values.
type Trace struct {
	Header  *sacker.Record
	Samples []int32
}

// Open reads and decodes the SEG-Y file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open segy: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses the textual header, binary header and every trace.
func Decode(data []byte) (*File, error) {
	if len(data) < TextLen {
		return nil, &sacker.TruncatedError{Context: "SEGYTEXT", Need: TextLen, Have: len(data)}
	}
	text, err := DecodeText(data[:TextLen])
	if err != nil {
		return nil, err
	}

	_, header, err := HeaderSpec.Decode(data[TextLen:], "SEGYHEADER")
	if err != nil {
		return nil, err
	}

	width, err := sampleWidth(int(header.Int("sample_format")))
	if err != nil {
		return nil, err
	}

	f := &File{Text: text, Header: header}
	rest := data[TextLen+HeaderLen:]
	for len(rest) > 0 {
		n, th, err := TraceSpec.Decode(rest, "SEGYTRACEHEADER")
		if err != nil {
			return nil, err
		}
		count := int(th.Int("n_samples"))
		if count < 0 {
			return nil, &sacker.BadDataError{
				Severity: sacker.Fatal,
				Context:  "SEGYTRACEHEADER",
				Field:    "n_samples",
				Value:    count,
			}
		}
		size := count * width
		if len(rest) < n+size {
			return nil, &sacker.TruncatedError{Context: "SEGYTRACE", Need: n + size, Have: len(rest)}
		}
		f.Traces = append(f.Traces, Trace{
			Header:  th,
			Samples: decodeSamples(rest[n:n+size], width),
		})
		rest = rest[n+size:]
	}
	return f, nil
}

func sampleWidth(format int) (int, error) {
	switch format {
	case FormatInt8:
		return 1, nil
	case FormatInt16:
		return 2, nil
	default:
		return 0, &sacker.BadDataError{
			Severity: sacker.Unsupported,
			Context:  "SEGYHEADER",
			Field:    "sample_format",
			Value:    format,
		}
	}
}

func decodeSamples(raw []byte, width int) []int32 {
	out := make([]int32, len(raw)/width)
	if width == 1 {
		for i := range out {
			out[i] = int32(int8(raw[i]))
		}
		return out
	}
	for i := range out {
		out[i] = int32(int16(binary.BigEndian.Uint16(raw[2*i:])))
	}
	return out
}
