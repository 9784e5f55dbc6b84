package segy

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/segmentio/ksuid"

	"github.com/oceanscan/xtfkit/pkg/proj"
	"github.com/oceanscan/xtfkit/pkg/sacker"
	"github.com/oceanscan/xtfkit/pkg/xtf"
)

// coordScaler is the declared scale divisor for the integer
// coordinate fields: stored values are meters x 100 under projection,
// arc-seconds x 100 otherwise. Negative means "divide by" per the
// SEG-Y convention.
const coordScaler = -100

// Options controls one export.
type Options struct {
	Projection proj.Options
	LineNumber int // line_num in the binary header; 0 is fine
}

// Export writes one XTF channel to outPath as a SEG-Y file. Every
// trace must share the first trace's sample count and time duration:
// SEG-Y here is written as a fixed-length-trace file. Trace positions
// are the sensor (towfish) coordinates, projected per the options.
// The output file appears only if the whole export succeeds.
func Export(f *xtf.File, outPath string, channel int, opts Options) error {
	if channel < 0 || channel >= len(f.Channels) {
		return fmt.Errorf("no channel %d (file has %d)", channel, len(f.Channels))
	}
	typeName, ok := xtf.ChanTypes[int(f.Channels[channel].Uint("type_of_channel"))]
	if !ok {
		return fmt.Errorf("channel %d: unknown channel type %d",
			channel, f.Channels[channel].Uint("type_of_channel"))
	}

	pings, err := collectChannel(f, channel)
	if err != nil {
		return err
	}
	if len(pings) == 0 {
		return fmt.Errorf("channel %d has no traces", channel)
	}

	numSamples := pings[0].NumSamples()
	duration := pings[0].ChanHeader.Float("time_duration")
	width := pings[0].BytesPerSample

	format, ok := SampleFormats[width]
	if !ok {
		return &sacker.BadDataError{
			Severity: sacker.Unsupported,
			Context:  "CHANINFO",
			Field:    "bytes_per_sample",
			Value:    width,
		}
	}

	// n_trace_samples and the per-trace n_samples are 16-bit signed
	// fields; a longer trace cannot be represented without wrapping.
	if numSamples > math.MaxInt16 {
		return &sacker.BadDataError{
			Severity: sacker.Unsupported,
			Context:  "XTFPINGCHANHEADER",
			Field:    "num_samples",
			Value:    numSamples,
		}
	}

	interval := int(math.Round(duration * 1e6 / float64(numSamples)))
	if interval < 1 || interval > math.MaxInt16 {
		return &sacker.BadDataError{
			Severity: sacker.Unsupported,
			Context:  "XTFPINGCHANHEADER",
			Field:    "time_duration",
			Value:    duration,
		}
	}

	var grid proj.Grid
	if opts.Projection.Enabled {
		if opts.Projection.Zone != 0 {
			grid = proj.Grid{Zone: opts.Projection.Zone}
		} else {
			first := pings[0].TraceHeader()
			grid = proj.DetectZone(first.SensorLatitude, first.SensorLongitude)
		}
	}

	header := sacker.NewRecord(HeaderSpec)
	header.Set("job_id", uint32(1))
	header.Set("line_num", int32(opts.LineNumber))
	header.Set("reel_num", int32(1))
	header.Set("n_traces_per_ensemble", int16(1))
	header.Set("sample_interval", int16(interval))
	header.Set("orig_sample_interval", int16(interval))
	header.Set("n_trace_samples", int16(numSamples))
	header.Set("orig_n_trace_samples", int16(numSamples))
	header.Set("sample_format", int16(format))
	header.Set("measurement_system", int16(1))
	header.Set("segy_rev", int16(0x0100))
	header.Set("fixed_length_trace_flag", int16(1))
	header.Set("n_extended_headers", int16(0))

	text, err := EncodeText(describeExport(f, channel, typeName, numSamples, interval, opts, grid))
	if err != nil {
		return err
	}

	return writeFileAtomic(outPath, func(w io.Writer) error {
		if _, err := w.Write(text); err != nil {
			return err
		}
		hb, err := HeaderSpec.Encode(header)
		if err != nil {
			return err
		}
		if _, err := w.Write(hb); err != nil {
			return err
		}

		for i, p := range pings {
			if p.NumSamples() != numSamples {
				return &sacker.BadDataError{
					Severity: sacker.Fatal,
					Context:  "XTFPINGCHANHEADER",
					Field:    "num_samples",
					Value:    p.NumSamples(),
				}
			}
			if p.ChanHeader.Float("time_duration") != duration {
				return &sacker.BadDataError{
					Severity: sacker.Fatal,
					Context:  "XTFPINGCHANHEADER",
					Field:    "time_duration",
					Value:    p.ChanHeader.Float("time_duration"),
				}
			}
			if err := writeTrace(w, p, i, interval, opts, grid); err != nil {
				return err
			}
		}
		return nil
	})
}

func collectChannel(f *xtf.File, channel int) ([]*xtf.SonarPacket, error) {
	it := f.Packets()
	defer it.Close()

	var pings []*xtf.SonarPacket
	for it.Next() {
		if p, ok := it.Packet().(*xtf.SonarPacket); ok && p.ChannelNumber() == channel {
			pings = append(pings, p)
		}
	}
	return pings, it.Err()
}

func writeTrace(w io.Writer, p *xtf.SonarPacket, seq, interval int, opts Options, grid proj.Grid) error {
	nav := p.TraceHeader()

	x, y, units, err := traceCoordinates(nav, opts, grid)
	if err != nil {
		return fmt.Errorf("trace %d: %w", seq+1, err)
	}

	tr := sacker.NewRecord(TraceSpec)
	tr.Set("trace_seq_in_line", int32(seq+1))
	tr.Set("trace_seq_in_file", int32(seq+1))
	tr.Set("orig_field_record_num", int32(nav.PingNumber))
	tr.Set("trace_num_in_orig_record", int32(1))
	tr.Set("ensemble_num", int32(seq+1))
	tr.Set("trace_num_in_ensemble", int32(1))
	tr.Set("trace_id_code", int16(1))
	tr.Set("data_use", int16(1))
	tr.Set("coordinates_scaler", int16(coordScaler))
	tr.Set("source_coord_x", x)
	tr.Set("source_coord_y", y)
	tr.Set("reciever_coord_x", x)
	tr.Set("reciever_coord_y", y)
	tr.Set("coordinate_units", units)
	tr.Set("n_samples", int16(p.NumSamples()))
	tr.Set("sample_interval", int16(interval))
	tr.Set("year", int16(p.PingHeader.Uint("year")))
	tr.Set("day_of_year", int16(p.PingHeader.Uint("julian_day")))
	tr.Set("hour", int16(p.PingHeader.Uint("hour")))
	tr.Set("minute", int16(p.PingHeader.Uint("minute")))
	tr.Set("second", int16(p.PingHeader.Uint("second")))

	hb, err := TraceSpec.Encode(tr)
	if err != nil {
		return err
	}
	if _, err := w.Write(hb); err != nil {
		return err
	}
	return writeSamples(w, p)
}

// traceCoordinates maps the sensor position into the integer
// coordinate fields: projected grid meters x 100, or arc-seconds
// x 100 when projection is off.
func traceCoordinates(nav xtf.TraceHeader, opts Options, grid proj.Grid) (x, y int32, units int16, err error) {
	if opts.Projection.Enabled {
		easting, northing, err := grid.Forward(nav.SensorLatitude, nav.SensorLongitude)
		if err != nil {
			return 0, 0, 0, err
		}
		return int32(math.Round(easting * 100)), int32(math.Round(northing * 100)), 1, nil
	}
	x = int32(math.Round(proj.ArcSeconds(nav.SensorLongitude) * 100))
	y = int32(math.Round(proj.ArcSeconds(nav.SensorLatitude) * 100))
	return x, y, 2, nil
}

// writeSamples emits the trace's sample array byte-swapped to the
// big-endian order SEG-Y wants.
func writeSamples(w io.Writer, p *xtf.SonarPacket) error {
	if p.BytesPerSample == 1 {
		_, err := w.Write(p.Samples)
		return err
	}
	buf := make([]byte, len(p.Samples))
	for i := 0; i+1 < len(p.Samples); i += 2 {
		buf[i], buf[i+1] = p.Samples[i+1], p.Samples[i]
	}
	_, err := w.Write(buf)
	return err
}

// describeExport synthesizes the textual header content from the
// source recording's metadata.
func describeExport(f *xtf.File, channel int, typeName string, numSamples, interval int, opts Options, grid proj.Grid) []string {
	coords := "SENSOR POSITION AS ARC-SECONDS X 100"
	if opts.Projection.Enabled {
		coords = fmt.Sprintf("SENSOR POSITION AS %s, METERS X 100", grid)
	}
	lines := []string{
		"SEG-Y EXPORT FROM XTF SONAR RECORDING",
		fmt.Sprintf("SOURCE FILE: %s", f.Header.Str("this_file_name")),
		fmt.Sprintf("RECORDING PROGRAM: %s %s",
			f.Header.Str("recording_program_name"),
			f.Header.Str("recording_program_version")),
		fmt.Sprintf("SONAR: %s", f.Header.Str("sonar_name")),
	}
	if note := f.Header.Str("note_string"); note != "" {
		lines = append(lines, fmt.Sprintf("NOTE: %s", note))
	}
	lines = append(lines,
		fmt.Sprintf("CHANNEL: %d (%s)", channel, typeName),
		fmt.Sprintf("SAMPLES PER TRACE: %d, SAMPLE INTERVAL: %d US", numSamples, interval),
		fmt.Sprintf("COORDINATES: %s", coords),
		fmt.Sprintf("CONVERSION ID: %s", ksuid.New()),
	)
	return lines
}

// writeFileAtomic writes through a uniquely named temp file and
// renames it into place on success, so failures never leave a
// partial SEG-Y behind.
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
