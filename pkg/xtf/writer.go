package xtf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/segmentio/ksuid"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

// Write re-serializes a decoded (header, channel descriptors, packet
// stream) triple into the XTF layout: the structural header region
// zero-padded to HeaderLen, then each packet zero-padded to its own
// declared length. Opaque packets are written back verbatim.
func Write(w io.Writer, header *sacker.Record, channels []*sacker.Record, packets PacketSource) error {
	defer packets.Close()

	region := make([]byte, 0, HeaderLen)
	hb, err := FileHeaderSpec.Encode(header)
	if err != nil {
		return fmt.Errorf("encode file header: %w", err)
	}
	region = append(region, hb...)
	for i, info := range channels {
		cb, err := ChanInfoSpec.Encode(info)
		if err != nil {
			return fmt.Errorf("encode chaninfo %d: %w", i, err)
		}
		region = append(region, cb...)
	}
	region = append(region, make([]byte, HeaderLen-len(region))...)
	if _, err := w.Write(region); err != nil {
		return err
	}

	for packets.Next() {
		if err := writePacket(w, packets.Packet()); err != nil {
			return err
		}
	}
	return packets.Err()
}

func writePacket(w io.Writer, p Packet) error {
	switch p := p.(type) {
	case *OpaquePacket:
		_, err := w.Write(p.Raw)
		return err
	case *SonarPacket:
		buf := make([]byte, 0, p.TotalBytes())
		for _, part := range []struct {
			spec *sacker.Spec
			rec  *sacker.Record
		}{
			{PacketHeaderSpec, p.PacketHeader},
			{SonarHeaderSpec, p.PingHeader},
			{ChanHeaderSpec, p.ChanHeader},
		} {
			b, err := part.spec.Encode(part.rec)
			if err != nil {
				return err
			}
			buf = append(buf, b...)
		}
		buf = append(buf, p.Samples...)
		if pad := p.TotalBytes() - len(buf); pad > 0 {
			buf = append(buf, make([]byte, pad)...)
		}
		_, err := w.Write(buf)
		return err
	default:
		return fmt.Errorf("unknown packet variant %T", p)
	}
}

// Copy re-exports the XTF file at inPath to outPath keeping only the
// given channel numbers. Retained channels are renumbered to their
// compacted indices 0..k-1 and the header's per-category channel
// counts are recomputed; opaque packets pass through regardless of
// the subset. An empty keep list keeps every channel. The output file
// appears only on success.
func Copy(inPath, outPath string, keepChannels []int) error {
	keep := normalizeChannels(keepChannels)

	f, err := Open(inPath)
	if err != nil {
		return err
	}
	if len(keep) == 0 {
		for ch := range f.Channels {
			keep = append(keep, ch)
		}
	}

	var infos []*sacker.Record
	for _, ch := range keep {
		if ch < 0 || ch >= len(f.Channels) {
			return fmt.Errorf("no channel %d in %s (file has %d)", ch, inPath, len(f.Channels))
		}
		infos = append(infos, f.Channels[ch])
	}

	nBathymetry := 0
	for _, info := range infos {
		tag := int(info.Uint("type_of_channel"))
		name, ok := ChanTypes[tag]
		if !ok {
			return fmt.Errorf("unknown channel type %d in %s", tag, inPath)
		}
		if name == "bathymetry" {
			nBathymetry++
		}
	}
	f.Header.Set("number_of_bathymetry_channels", uint16(nBathymetry))
	f.Header.Set("number_of_sonar_channels", uint16(len(infos)-nBathymetry))

	src := &subsetSource{src: f.Packets(), keep: keep}
	return writeFileAtomic(outPath, func(w io.Writer) error {
		return Write(w, f.Header, infos, src)
	})
}

func normalizeChannels(channels []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, ch := range channels {
		if !seen[ch] {
			seen[ch] = true
			out = append(out, ch)
		}
	}
	sort.Ints(out)
	return out
}

// subsetSource filters a packet stream to sonar packets on the kept
// channels, rewriting each retained packet's channel number to its
// compacted index. Opaque packets carry no channel affiliation and
// always pass through.
type subsetSource struct {
	src  PacketSource
	keep []int // sorted
}

func (s *subsetSource) Next() bool {
	for s.src.Next() {
		p, ok := s.src.Packet().(*SonarPacket)
		if !ok {
			return true
		}
		idx := sort.SearchInts(s.keep, p.ChannelNumber())
		if idx < len(s.keep) && s.keep[idx] == p.ChannelNumber() {
			p.ChanHeader.Set("channel_number", uint16(idx))
			return true
		}
	}
	return false
}

func (s *subsetSource) Packet() Packet { return s.src.Packet() }
func (s *subsetSource) Err() error     { return s.src.Err() }
func (s *subsetSource) Close() error   { return s.src.Close() }

// writeFileAtomic writes through a uniquely named temp file in the
// destination directory and renames it into place, so a failure
// partway through never leaves a partial output file behind.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	tmp := path + "." + ksuid.New().String() + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()

	w := bufio.NewWriter(file)
	if err = write(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
