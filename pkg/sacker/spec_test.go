package sacker

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_FieldLayout(t *testing.T) {
	spec, err := Compile(binary.LittleEndian, `
		# leading comment
		H magic == 0xFACE !
		B kind
		4s tag
		2x
		I length   # trailing comment
	`)
	require.NoError(t, err)

	assert.Equal(t, 2+1+4+2+4, spec.Size())
	assert.Equal(t, []string{"magic", "kind", "tag", "length"}, spec.Names())
}

func TestCompile_SameTextReturnsCachedSpec(t *testing.T) {
	text := "H cached_spec_probe\n4s name"
	a, err := Compile(binary.LittleEndian, text)
	require.NoError(t, err)
	b, err := Compile(binary.LittleEndian, text)
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestCompile_ByteOrderKeysSeparately(t *testing.T) {
	text := "I order_probe"
	le, err := Compile(binary.LittleEndian, text)
	require.NoError(t, err)
	be, err := Compile(binary.BigEndian, text)
	require.NoError(t, err)

	assert.NotSame(t, le, be)
	assert.Equal(t, le.Size(), be.Size())
}

func TestCompile_Concurrent(t *testing.T) {
	text := "H concurrent_probe\nd value\n8x"

	specs := make([]*Spec, 16)
	var wg sync.WaitGroup
	for i := range specs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := Compile(binary.LittleEndian, text)
			assert.NoError(t, err)
			specs[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range specs {
		require.NotNil(t, s)
		assert.Same(t, specs[0], s)
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	testCases := []struct {
		name string
		text string
		line int
	}{
		{"unknown format", "Z wat", 1},
		{"missing name", "H", 1},
		{"padding with name", "4x pad_name", 1},
		{"bad test literal", "H magic == banana !", 1},
		{"bad test action", "H magic == 1 *", 1},
		{"test on string field", "4s tag == 1 !", 1},
		{"duplicate name", "H a\nH a", 2},
		{"error carries later line", "H ok\nB also_ok\nnope", 3},
		{"negative string size", "-4s tag", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(binary.LittleEndian, tc.text)
			require.Error(t, err)

			var syn *SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Equal(t, tc.line, syn.Line)
		})
	}
}

func TestMustCompile_PanicsOnBadSpec(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(binary.LittleEndian, "not a spec at all, really")
	})
}
