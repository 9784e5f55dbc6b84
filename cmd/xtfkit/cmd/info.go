package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oceanscan/xtfkit/pkg/xtf"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file.xtf>",
	Short: "Print the header and channel table of an XTF file",
	Long: `Print the file header fields, the channel descriptors, and the
number of sonar traces recorded on each channel.

Example:
  xtfkit info line_0007.xtf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := xtf.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		for _, name := range f.Header.Names() {
			v, _ := f.Header.Get(name)
			fmt.Printf("%-35s %v\n", name, v)
		}

		counts, err := traceCounts(f)
		if err != nil {
			return fmt.Errorf("failed to walk packets: %w", err)
		}

		fmt.Printf("\n%-4s %-12s %-18s %-6s %s\n", "chan", "type", "name", "bytes", "traces")
		for i, ch := range f.Channels {
			typeName := xtf.ChanTypes[int(ch.Int("type_of_channel"))]
			if typeName == "" {
				typeName = fmt.Sprintf("unknown(%d)", ch.Int("type_of_channel"))
			}
			fmt.Printf("%-4d %-12s %-18s %-6d %d\n",
				i, typeName, ch.Str("channel_name"), ch.Int("bytes_per_sample"), counts[i])
		}
		return nil
	},
}

// traceCounts walks the packet stream and counts sonar traces per
// channel number.
func traceCounts(f *xtf.File) (map[int]int, error) {
	counts := make(map[int]int)
	it := f.Packets()
	defer it.Close()
	for it.Next() {
		if p, ok := it.Packet().(*xtf.SonarPacket); ok {
			counts[p.ChannelNumber()]++
		}
	}
	return counts, it.Err()
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
