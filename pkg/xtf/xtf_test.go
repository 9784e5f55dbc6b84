package xtf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

// Test fixture builders. Synthetic XTF files are assembled from the
// same layout specs the decoder uses, which keeps the fixtures honest
// about offsets and padding.

func encodeRecord(t *testing.T, spec *sacker.Spec, fields map[string]any) []byte {
	t.Helper()
	rec := sacker.NewRecord(spec)
	for name, v := range fields {
		rec.Set(name, v)
	}
	buf, err := spec.Encode(rec)
	require.NoError(t, err)
	return buf
}

// chanSetup describes one synthetic channel descriptor.
type chanSetup struct {
	typeTag int // ChanTypes tag
	width   int // bytes per sample
}

func buildXTF(t *testing.T, channels []chanSetup, packets ...[]byte) []byte {
	t.Helper()

	nBathy := 0
	for _, c := range channels {
		if c.typeTag == 3 {
			nBathy++
		}
	}

	data := encodeRecord(t, FileHeaderSpec, map[string]any{
		"file_format":                   uint8(0x7b),
		"recording_program_name":        "xtfkit",
		"recording_program_version":     "1.0",
		"sonar_name":                    "testbed",
		"note_string":                   "synthetic survey line",
		"this_file_name":                "line_0001.xtf",
		"number_of_sonar_channels":      uint16(len(channels) - nBathy),
		"number_of_bathymetry_channels": uint16(nBathy),
	})
	for i, c := range channels {
		data = append(data, encodeRecord(t, ChanInfoSpec, map[string]any{
			"type_of_channel":  uint8(c.typeTag),
			"bytes_per_sample": uint16(c.width),
			"channel_name":     "test channel",
			"sub_channel_number": uint8(i),
		})...)
	}
	data = append(data, make([]byte, HeaderLen-len(data))...)

	for _, p := range packets {
		data = append(data, p...)
	}
	return data
}

// sonarPacket builds one single-channel sonar packet with 16-bit
// samples. extra widens the declared length beyond the real payload;
// shrink narrows it, to fabricate inconsistent packets.
func sonarPacket(t *testing.T, channel int, ping int, samples []int16, adjust int) []byte {
	t.Helper()

	total := sonarHeadersLen + chanHeaderLen + 2*len(samples) + adjust
	data := encodeRecord(t, PacketHeaderSpec, map[string]any{
		"magic_number":          uint16(0xFACE),
		"header_type":           uint8(TypeSonar),
		"num_chans_to_follow":   uint16(1),
		"num_bytes_this_record": uint32(total),
	})
	data = append(data, encodeRecord(t, SonarHeaderSpec, map[string]any{
		"year":               uint16(2012),
		"month":              uint8(6),
		"day":                uint8(17),
		"minute":             uint8(42),
		"second":             uint8(7),
		"hseconds":           uint8(55),
		"julian_day":         uint16(169),
		"event_number":       uint32(ping),
		"ping_number":        uint32(ping),
		"ship_xcoordinate":   5.001,
		"ship_ycoordinate":   60.001,
		"sensor_xcoordinate": 5.0,
		"sensor_ycoordinate": 60.0,
		"sensor_speed":       float32(4.2),
		"sensor_heading":     float32(90),
	})...)
	data = append(data, encodeRecord(t, ChanHeaderSpec, map[string]any{
		"channel_number": uint16(channel),
		"slant_range":    float32(50),
		"time_duration":  float32(0.1),
		"num_samples":    uint32(len(samples)),
	})...)
	for _, s := range samples {
		data = binary.LittleEndian.AppendUint16(data, uint16(s))
	}
	if adjust > 0 {
		data = append(data, make([]byte, adjust)...)
	}
	return data
}

// notesPacket builds an opaque annotation packet.
func notesPacket(t *testing.T, text string) []byte {
	t.Helper()

	body := append([]byte(text), make([]byte, 64-len(text))...)
	total := packetHeaderLen + len(body)
	data := encodeRecord(t, PacketHeaderSpec, map[string]any{
		"magic_number":          uint16(0xFACE),
		"header_type":           uint8(TypeNotes),
		"num_bytes_this_record": uint32(total),
	})
	return append(data, body...)
}

func drain(t *testing.T, it PacketSource) []Packet {
	t.Helper()
	var out []Packet
	for it.Next() {
		out = append(out, it.Packet())
	}
	require.NoError(t, it.Err())
	return out
}
