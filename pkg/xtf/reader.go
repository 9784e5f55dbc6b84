package xtf

import (
	"fmt"
	"os"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

// File is a decoded XTF file: the global header, one descriptor per
// channel, and the raw bytes the packet stream is read from. The
// whole file is held as one immutable buffer; packets and sample
// slices reference it without copying.
type File struct {
	Header   *sacker.Record
	Channels []*sacker.Record

	data []byte
}

// Open reads and decodes the XTF file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xtf: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses the structural header region of data. Packet decoding
// is lazy; see Packets.
func Decode(data []byte) (*File, error) {
	n, header, err := FileHeaderSpec.Decode(data, "XTFFILEHEADER")
	if err != nil {
		return nil, err
	}

	nchannels := int(header.Uint("number_of_sonar_channels") +
		header.Uint("number_of_bathymetry_channels"))
	if nchannels > MaxChannels {
		return nil, &sacker.BadDataError{
			Severity: sacker.Unsupported,
			Context:  "XTFFILEHEADER",
			Field:    "number_of_channels",
			Value:    nchannels,
		}
	}

	if len(data) < HeaderLen {
		return nil, &sacker.TruncatedError{Context: "XTF header region", Need: HeaderLen, Have: len(data)}
	}

	channels := make([]*sacker.Record, 0, nchannels)
	for i := 0; i < nchannels; i++ {
		off := n + i*ChanInfoLen
		_, info, err := ChanInfoSpec.Decode(data[off:], "CHANINFO")
		if err != nil {
			return nil, err
		}
		channels = append(channels, info)
	}

	return &File{Header: header, Channels: channels, data: data}, nil
}

// NumChannels returns the channel count declared by the file header.
func (f *File) NumChannels() int { return len(f.Channels) }

// Packets returns a fresh iterator over the packet stream. The
// stream is lazy, finite and single-pass: each Next decodes one
// packet and advances by its declared length. Abandoning or closing
// the iterator early is safe.
func (f *File) Packets() *PacketIterator {
	return &PacketIterator{channels: f.Channels, rest: f.data[HeaderLen:]}
}

// PacketIterator walks the packet stream. After Next returns false,
// Err distinguishes end-of-stream (nil) from a decode failure; the
// stream never resumes past a failure, but packets already yielded
// stay valid.
type PacketIterator struct {
	channels []*sacker.Record
	rest     []byte
	packet   Packet
	err      error
	closed   bool
}

// Next advances to the next packet.
func (it *PacketIterator) Next() bool {
	if it.closed || it.err != nil || len(it.rest) == 0 {
		return false
	}
	p, total, err := decodePacket(it.rest, it.channels)
	if err != nil {
		it.err = err
		return false
	}
	it.packet = p
	it.rest = it.rest[total:]
	return true
}

// Packet returns the packet decoded by the last successful Next.
func (it *PacketIterator) Packet() Packet { return it.packet }

// Err returns the error that terminated the stream, if any.
func (it *PacketIterator) Err() error { return it.err }

// Close abandons the stream. It is idempotent and never fails; it
// exists so callers that stop early have an explicit way to say so.
func (it *PacketIterator) Close() error {
	it.closed = true
	return nil
}

// decodePacket decodes one packet from the front of data and returns
// it along with its declared total length, the amount the stream
// cursor must advance by regardless of how much was actually parsed.
func decodePacket(data []byte, channels []*sacker.Record) (Packet, int, error) {
	phn, ph, err := PacketHeaderSpec.Decode(data, "XTFPACKETHEADER")
	if err != nil {
		return nil, 0, err
	}

	total := int(ph.Uint("num_bytes_this_record"))
	if total < phn {
		return nil, 0, &sacker.BadDataError{
			Severity: sacker.Fatal,
			Context:  "XTFPACKETHEADER",
			Field:    "num_bytes_this_record",
			Value:    total,
		}
	}
	if total > len(data) {
		return nil, 0, &sacker.TruncatedError{Context: "XTFPACKET", Need: total, Have: len(data)}
	}

	if ph.Uint("header_type") != TypeSonar {
		return &OpaquePacket{PacketHeader: ph, Raw: data[:total]}, total, nil
	}

	nchans := int(ph.Uint("num_chans_to_follow"))
	if nchans > MaxChannels {
		return nil, 0, &sacker.BadDataError{
			Severity: sacker.Fatal,
			Context:  "XTFPACKETHEADER",
			Field:    "num_chans_to_follow",
			Value:    nchans,
		}
	}
	if nchans != 1 {
		return nil, 0, &sacker.BadDataError{
			Severity: sacker.Unsupported,
			Context:  "XTFPACKETHEADER",
			Field:    "num_chans_to_follow",
			Value:    nchans,
		}
	}

	// The sub-headers must fit inside the declared packet length
	// before anything after the packet header is touched.
	dstart := sonarHeadersLen + chanHeaderLen*nchans
	if total < dstart {
		return nil, 0, &sacker.BadDataError{
			Severity: sacker.Fatal,
			Context:  "XTFPACKETHEADER",
			Field:    "num_bytes_this_record",
			Value:    total,
		}
	}

	_, sh, err := SonarHeaderSpec.Decode(data[phn:], "XTFPINGHEADER")
	if err != nil {
		return nil, 0, err
	}
	_, ch, err := ChanHeaderSpec.Decode(data[sonarHeadersLen:], "XTFPINGCHANHEADER")
	if err != nil {
		return nil, 0, err
	}

	chNum := int(ch.Uint("channel_number"))
	if chNum >= len(channels) {
		return nil, 0, &sacker.BadDataError{
			Severity: sacker.Fatal,
			Context:  "XTFPINGCHANHEADER",
			Field:    "channel_number",
			Value:    chNum,
		}
	}

	width := int(channels[chNum].Uint("bytes_per_sample"))
	if width != 1 && width != 2 {
		return nil, 0, &sacker.BadDataError{
			Severity: sacker.Unsupported,
			Context:  "CHANINFO",
			Field:    "bytes_per_sample",
			Value:    width,
		}
	}

	n := int(ch.Uint("num_samples"))
	if dstart+width*n > total {
		return nil, 0, &sacker.BadDataError{
			Severity: sacker.Fatal,
			Context:  "XTFPINGCHANHEADER",
			Field:    "num_samples",
			Value:    n,
		}
	}

	return &SonarPacket{
		PacketHeader:   ph,
		PingHeader:     sh,
		ChanHeader:     ch,
		Samples:        data[dstart : dstart+width*n],
		BytesPerSample: width,
		total:          total,
	}, total, nil
}
