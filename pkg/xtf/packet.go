package xtf

import (
	"encoding/binary"
	"fmt"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

// Packet is one self-length-delimited unit of the XTF packet stream.
// Exactly two variants exist: SonarPacket for fully decoded sonar
// pings and OpaquePacket for every other type tag, carried verbatim
// so re-export never drops or reinterprets bytes it does not
// understand.
type Packet interface {
	// Header returns the decoded packet header.
	Header() *sacker.Record
	// TotalBytes returns the packet's declared total length.
	TotalBytes() int

	packet() // closed set: SonarPacket and OpaquePacket only
}

// SonarPacket is a decoded sonar ping: packet header, navigation
// sub-header, per-channel sub-header and the raw sample buffer. The
// sample buffer is a slice into the file's shared byte buffer, not a
// copy; it is valid as long as the File is.
type SonarPacket struct {
	PacketHeader   *sacker.Record
	PingHeader     *sacker.Record
	ChanHeader     *sacker.Record
	Samples        []byte // raw little-endian samples
	BytesPerSample int

	total int
}

func (p *SonarPacket) Header() *sacker.Record { return p.PacketHeader }
func (p *SonarPacket) TotalBytes() int        { return p.total }
func (p *SonarPacket) packet()                {}

// ChannelNumber returns the channel this ping belongs to.
func (p *SonarPacket) ChannelNumber() int {
	return int(p.ChanHeader.Uint("channel_number"))
}

// NumSamples returns the ping's sample count.
func (p *SonarPacket) NumSamples() int {
	return int(p.ChanHeader.Uint("num_samples"))
}

// SampleValues decodes the raw sample buffer into signed integers
// according to the channel's sample width.
func (p *SonarPacket) SampleValues() []int32 {
	n := len(p.Samples) / p.BytesPerSample
	out := make([]int32, n)
	switch p.BytesPerSample {
	case 1:
		for i := range out {
			out[i] = int32(int8(p.Samples[i]))
		}
	default: // 2, enforced at decode time
		for i := range out {
			out[i] = int32(int16(binary.LittleEndian.Uint16(p.Samples[2*i:])))
		}
	}
	return out
}

// TraceHeader derives the read-only navigation summary for this ping.
func (p *SonarPacket) TraceHeader() TraceHeader {
	sh, ch := p.PingHeader, p.ChanHeader
	return TraceHeader{
		ChannelNumber: int(ch.Uint("channel_number")),
		PingDate: fmt.Sprintf("%04d-%02d-%02d",
			sh.Uint("year"), sh.Uint("month"), sh.Uint("day")),
		PingTime: fmt.Sprintf("%02d:%02d.%02d",
			sh.Uint("minute"), sh.Uint("second"), sh.Uint("hseconds")),
		LastEventNumber: sh.Int("event_number"),
		PingNumber:      sh.Int("ping_number"),
		ShipSpeed:       sh.Float("ship_speed"),
		ShipLongitude:   sh.Float("ship_xcoordinate"),
		ShipLatitude:    sh.Float("ship_ycoordinate"),
		SensorSpeed:     sh.Float("sensor_speed"),
		SensorLongitude: sh.Float("sensor_xcoordinate"),
		SensorLatitude:  sh.Float("sensor_ycoordinate"),
		SensorHeading:   sh.Float("sensor_heading"),
		Layback:         sh.Float("layback"),
		CableOut:        sh.Int("cable_out"),
		SlantRange:      ch.Float("slant_range"),
		TimeDelay:       ch.Float("time_delay"),
		SecondsPerPing:  ch.Float("seconds_per_ping"),
		NumSamples:      int(ch.Uint("num_samples")),
	}
}

// OpaquePacket is any packet whose type the caller did not ask to
// decode: the packet header plus the full raw byte range, preserved
// untouched for faithful re-export.
type OpaquePacket struct {
	PacketHeader *sacker.Record
	Raw          []byte // the whole packet, header bytes included
}

func (p *OpaquePacket) Header() *sacker.Record { return p.PacketHeader }
func (p *OpaquePacket) TotalBytes() int        { return len(p.Raw) }
func (p *OpaquePacket) packet()                {}

// TraceHeader is the per-ping navigation summary consumed by
// aggregation and export. Longitude/latitude are geographic degrees
// as recorded; PingTime is minute:second.hundredths, matching the
// recorder's own convention.
type TraceHeader struct {
	ChannelNumber   int
	PingDate        string
	PingTime        string
	LastEventNumber int64
	PingNumber      int64
	ShipSpeed       float64
	ShipLongitude   float64
	ShipLatitude    float64
	SensorSpeed     float64
	SensorLongitude float64
	SensorLatitude  float64
	SensorHeading   float64
	Layback         float64
	CableOut        int64
	SlantRange      float64
	TimeDelay       float64
	SecondsPerPing  float64
	NumSamples      int
}
