package xtf

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_RoundTripsSyntheticFile(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}},
		sonarPacket(t, 0, 1, []int16{1, -2, 3}, 0),
		notesPacket(t, "verbatim please"),
		sonarPacket(t, 0, 2, []int16{4, 5, 6}, 0),
	)
	f, err := Decode(data)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Write(&out, f.Header, f.Channels, f.Packets()))

	// The synthetic input was itself produced by the encoders, so the
	// rewrite must be byte-identical, opaque packet included.
	assert.Equal(t, data, out.Bytes())
}

func TestCopy_SubsetRenumbersChannels(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xtf")
	out := filepath.Join(dir, "out.xtf")

	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}, {typeTag: 2, width: 2}},
		sonarPacket(t, 0, 1, []int16{1, 2}, 0),
		sonarPacket(t, 1, 2, []int16{3, 4}, 0),
		notesPacket(t, "keep me"),
		sonarPacket(t, 1, 3, []int16{5, 6}, 0),
	)
	require.NoError(t, os.WriteFile(in, data, 0o644))

	require.NoError(t, Copy(in, out, []int{1}))

	f, err := Open(out)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), f.Header.Uint("number_of_sonar_channels"))
	assert.Equal(t, uint64(0), f.Header.Uint("number_of_bathymetry_channels"))
	require.Equal(t, 1, f.NumChannels())
	assert.Equal(t, "stbd", ChanTypes[int(f.Channels[0].Uint("type_of_channel"))])

	packets := drain(t, f.Packets())
	require.Len(t, packets, 3)

	// Original channel 1 is now channel 0.
	p1 := packets[0].(*SonarPacket)
	assert.Equal(t, 0, p1.ChannelNumber())
	assert.Equal(t, int64(2), p1.PingHeader.Int("ping_number"))
	assert.Equal(t, []int32{3, 4}, p1.SampleValues())

	_, ok := packets[1].(*OpaquePacket)
	assert.True(t, ok, "opaque packets pass through a subset copy")

	p3 := packets[2].(*SonarPacket)
	assert.Equal(t, 0, p3.ChannelNumber())
	assert.Equal(t, int64(3), p3.PingHeader.Int("ping_number"))
}

func TestCopy_BathymetryCountRecomputed(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xtf")
	out := filepath.Join(dir, "out.xtf")

	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}, {typeTag: 3, width: 2}},
		sonarPacket(t, 1, 1, []int16{1, 2}, 0),
	)
	require.NoError(t, os.WriteFile(in, data, 0o644))

	require.NoError(t, Copy(in, out, []int{1}))

	f, err := Open(out)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), f.Header.Uint("number_of_sonar_channels"))
	assert.Equal(t, uint64(1), f.Header.Uint("number_of_bathymetry_channels"))
}

func TestCopy_UnknownChannelFails(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xtf")
	out := filepath.Join(dir, "out.xtf")

	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}})
	require.NoError(t, os.WriteFile(in, data, 0o644))

	err := Copy(in, out, []int{5})
	require.Error(t, err)

	// All-or-nothing: no output file, partial or otherwise.
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileAtomic_CleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.bin")

	err := writeFileAtomic(out, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("boom")
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file must be removed on failure")
}
