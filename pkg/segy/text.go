package segy

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// The textual header is 40 lines of 80 columns, EBCDIC code page 037
// on the wire, each line prefixed "C nn " by convention.

// EncodeText lays the given lines out as a TextLen-byte EBCDIC block.
// Lines longer than the 76 columns left after the "C nn " prefix are
// wrapped; the block is padded with blank C-lines and closed with the
// conventional END marker. More content than fits is an error.
func EncodeText(lines []string) ([]byte, error) {
	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, wrapLine(line, TextCols-4)...)
	}
	if len(wrapped) > TextLines-1 {
		return nil, fmt.Errorf("textual header: %d lines, at most %d fit", len(wrapped), TextLines-1)
	}

	var b strings.Builder
	b.Grow(TextLen)
	for i := 0; i < TextLines; i++ {
		var content string
		switch {
		case i < len(wrapped):
			content = wrapped[i]
		case i == TextLines-1:
			content = "END TEXTUAL HEADER"
		}
		line := fmt.Sprintf("C%2d %s", i+1, content)
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", TextCols-len(line)))
	}

	out, err := charmap.CodePage037.NewEncoder().Bytes([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("textual header: %w", err)
	}
	return out, nil
}

// DecodeText converts a TextLen-byte EBCDIC block back into
// newline-separated 80-column lines.
func DecodeText(block []byte) (string, error) {
	ascii, err := charmap.CodePage037.NewDecoder().Bytes(block)
	if err != nil {
		return "", fmt.Errorf("textual header: %w", err)
	}
	lines := make([]string, 0, TextLines)
	for i := 0; i+TextCols <= len(ascii); i += TextCols {
		lines = append(lines, string(ascii[i:i+TextCols]))
	}
	return strings.Join(lines, "\n"), nil
}

// wrapLine splits line at word boundaries into chunks of at most
// width columns, falling back to a hard cut for unbroken runs.
func wrapLine(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}
	var out []string
	for len(line) > width {
		cut := strings.LastIndexByte(line[:width+1], ' ')
		if cut <= 0 {
			cut = width
		}
		out = append(out, strings.TrimRight(line[:cut], " "))
		line = strings.TrimLeft(line[cut:], " ")
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
