package xtf

import (
	"fmt"
	"sort"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

// Channel is one physical sensor stream aggregated across the whole
// packet stream: its ordered trace headers and a samples × traces
// matrix of decoded sample values.
type Channel struct {
	Number  int
	Type    string
	Traces  []TraceHeader
	Samples *SampleMatrix
}

// SampleMatrix is a row-major matrix with one row per sample and one
// column per trace, i.e. transposed relative to arrival order so a
// column is a ping and a row scans across pings.
type SampleMatrix struct {
	Rows, Cols int
	data       []int32
}

// At returns the value at sample row and trace col.
func (m *SampleMatrix) At(row, col int) int32 {
	return m.data[row*m.Cols+col]
}

// PacketSource is the consumer-side view of a packet stream; both
// PacketIterator and the re-export subset filter implement it.
type PacketSource interface {
	Next() bool
	Packet() Packet
	Err() error
	Close() error
}

// AggregateChannels drains the packet stream and groups sonar packets
// by channel number: a stable sort, so traces keep their original
// relative order within a channel. Opaque packets are skipped.
func AggregateChannels(packets PacketSource, channels []*sacker.Record) ([]Channel, error) {
	defer packets.Close()

	var pings []*SonarPacket
	for packets.Next() {
		if p, ok := packets.Packet().(*SonarPacket); ok {
			pings = append(pings, p)
		}
	}
	if err := packets.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(pings, func(i, j int) bool {
		return pings[i].ChannelNumber() < pings[j].ChannelNumber()
	})

	var out []Channel
	for start := 0; start < len(pings); {
		num := pings[start].ChannelNumber()
		end := start
		for end < len(pings) && pings[end].ChannelNumber() == num {
			end++
		}

		ch, err := buildChannel(num, pings[start:end], channels[num])
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
		start = end
	}
	return out, nil
}

func buildChannel(num int, pings []*SonarPacket, info *sacker.Record) (Channel, error) {
	typeTag := int(info.Uint("type_of_channel"))
	typeName, ok := ChanTypes[typeTag]
	if !ok {
		return Channel{}, fmt.Errorf("channel %d: unknown channel type %d", num, typeTag)
	}

	rows := pings[0].NumSamples()
	m := &SampleMatrix{Rows: rows, Cols: len(pings), data: make([]int32, rows*len(pings))}
	traces := make([]TraceHeader, len(pings))

	for col, p := range pings {
		traces[col] = p.TraceHeader()
		values := p.SampleValues()
		if len(values) != rows {
			return Channel{}, fmt.Errorf("channel %d: trace %d has %d samples, want %d",
				num, col, len(values), rows)
		}
		for row, v := range values {
			m.data[row*m.Cols+col] = v
		}
	}

	return Channel{Number: num, Type: typeName, Traces: traces, Samples: m}, nil
}
