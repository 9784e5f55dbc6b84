package xtf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

func TestDecode_HeaderAndChannels(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}, {typeTag: 2, width: 1}})

	f, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "xtfkit", f.Header.Str("recording_program_name"))
	assert.Equal(t, "synthetic survey line", f.Header.Str("note_string"))
	require.Equal(t, 2, f.NumChannels())
	assert.Equal(t, uint64(2), f.Channels[0].Uint("bytes_per_sample"))
	assert.Equal(t, uint64(1), f.Channels[1].Uint("bytes_per_sample"))
	assert.Equal(t, "test channel", f.Channels[0].Str("channel_name"))
}

func TestDecode_WrongMagicIsFatal(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}})
	data[0] = 0x7c

	_, err := Decode(data)
	require.Error(t, err)
	assert.True(t, sacker.IsBadData(err))

	var bad *sacker.BadDataError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "file_format", bad.Field)
}

func TestDecode_TooManyChannelsIsUnsupported(t *testing.T) {
	// 4 sonar + 3 bathymetry = 7. Only the header record itself is
	// present: the descriptor limit must trip before any descriptor
	// (or the header region's padding) is even looked at.
	header := encodeRecord(t, FileHeaderSpec, map[string]any{
		"file_format":                   uint8(0x7b),
		"number_of_sonar_channels":      uint16(4),
		"number_of_bathymetry_channels": uint16(3),
	})

	_, err := Decode(header)
	require.Error(t, err)
	assert.True(t, sacker.IsUnsupported(err))
}

func TestDecode_ShortHeaderRegion(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}})

	_, err := Decode(data[:HeaderLen-10])
	require.Error(t, err)
	assert.True(t, sacker.IsTruncated(err))
}

func TestPackets_WalkAndVariants(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}},
		sonarPacket(t, 0, 1, []int16{10, -20, 30, -40}, 0),
		notesPacket(t, "marker: wreck sighted"),
		sonarPacket(t, 0, 2, []int16{1, 2, 3, 4}, 0),
	)
	f, err := Decode(data)
	require.NoError(t, err)

	packets := drain(t, f.Packets())
	require.Len(t, packets, 3)

	ping, ok := packets[0].(*SonarPacket)
	require.True(t, ok)
	assert.Equal(t, 0, ping.ChannelNumber())
	assert.Equal(t, 4, ping.NumSamples())
	assert.Equal(t, []int32{10, -20, 30, -40}, ping.SampleValues())

	note, ok := packets[1].(*OpaquePacket)
	require.True(t, ok)
	assert.Equal(t, note.TotalBytes(), len(note.Raw))
	assert.Equal(t, uint64(TypeNotes), note.PacketHeader.Uint("header_type"))
	assert.Contains(t, string(note.Raw), "marker: wreck sighted")

	ping2 := packets[2].(*SonarPacket)
	assert.Equal(t, int64(2), ping2.PingHeader.Int("ping_number"))
}

func TestPackets_DeclaredLengthIsAuthoritative(t *testing.T) {
	// 6 bytes of trailing slack after the samples: the cursor must
	// advance by the declared length, not by what was parsed, or the
	// next packet's magic check would land mid-slack.
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}},
		sonarPacket(t, 0, 1, []int16{1, 2}, 6),
		sonarPacket(t, 0, 2, []int16{3, 4}, 0),
	)
	f, err := Decode(data)
	require.NoError(t, err)

	packets := drain(t, f.Packets())
	require.Len(t, packets, 2)
	assert.Equal(t, []int32{3, 4}, packets[1].(*SonarPacket).SampleValues())
}

func TestPackets_BadMagicStopsBeforeBody(t *testing.T) {
	pkt := sonarPacket(t, 0, 1, []int16{1, 2}, 0)
	pkt[0], pkt[1] = 0xFE, 0xCA // byte-swapped magic
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}}, pkt)

	f, err := Decode(data)
	require.NoError(t, err)

	it := f.Packets()
	assert.False(t, it.Next())
	require.Error(t, it.Err())
	assert.True(t, sacker.IsBadData(it.Err()))

	var bad *sacker.BadDataError
	require.ErrorAs(t, it.Err(), &bad)
	assert.Equal(t, "magic_number", bad.Field)
}

func TestPackets_TruncatedFinalPacket(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}},
		sonarPacket(t, 0, 1, []int16{1, 2, 3, 4}, 0),
	)
	data = data[:len(data)-3]

	f, err := Decode(data)
	require.NoError(t, err)

	it := f.Packets()
	assert.False(t, it.Next())
	assert.True(t, sacker.IsTruncated(it.Err()))
}

func TestPackets_InconsistentLengthRejectedBeforeSlicing(t *testing.T) {
	// Declared length says 4 fewer bytes than the sub-headers plus
	// num_samples demand.
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}},
		sonarPacket(t, 0, 1, []int16{1, 2, 3, 4}, -4),
	)
	f, err := Decode(data)
	require.NoError(t, err)

	it := f.Packets()
	assert.False(t, it.Next())
	require.Error(t, it.Err())
	assert.True(t, sacker.IsBadData(it.Err()))

	var bad *sacker.BadDataError
	require.ErrorAs(t, it.Err(), &bad)
	assert.Equal(t, "num_samples", bad.Field)
}

func TestPackets_MultiChannelPingUnsupported(t *testing.T) {
	pkt := sonarPacket(t, 0, 1, []int16{1, 2}, 0)
	pkt[4] = 2 // num_chans_to_follow
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}}, pkt)

	f, err := Decode(data)
	require.NoError(t, err)

	it := f.Packets()
	assert.False(t, it.Next())
	assert.True(t, sacker.IsUnsupported(it.Err()))
}

func TestPackets_CloseIsIdempotent(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 1, width: 2}},
		sonarPacket(t, 0, 1, []int16{1, 2}, 0),
		sonarPacket(t, 0, 2, []int16{3, 4}, 0),
	)
	f, err := Decode(data)
	require.NoError(t, err)

	it := f.Packets()
	require.True(t, it.Next())
	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestTraceHeader_Derivation(t *testing.T) {
	data := buildXTF(t, []chanSetup{{typeTag: 2, width: 2}},
		sonarPacket(t, 0, 7, []int16{1, 2, 3}, 0),
	)
	f, err := Decode(data)
	require.NoError(t, err)

	packets := drain(t, f.Packets())
	th := packets[0].(*SonarPacket).TraceHeader()

	assert.Equal(t, "2012-06-17", th.PingDate)
	assert.Equal(t, "42:07.55", th.PingTime)
	assert.Equal(t, int64(7), th.PingNumber)
	assert.Equal(t, int64(7), th.LastEventNumber)
	assert.Equal(t, 5.0, th.SensorLongitude)
	assert.Equal(t, 60.0, th.SensorLatitude)
	assert.InDelta(t, 4.2, th.SensorSpeed, 1e-6)
	assert.InDelta(t, 50, th.SlantRange, 1e-6)
	assert.Equal(t, 3, th.NumSamples)
}
