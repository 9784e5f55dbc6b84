package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oceanscan/xtfkit/pkg/xtf"
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy <in.xtf> <out.xtf>",
	Short: "Copy an XTF file, optionally keeping a subset of channels",
	Long: `Copy an XTF file. With --channels, only the named channels are
kept; they are renumbered contiguously from zero and the header
channel counts are rewritten to match.

Example:
  xtfkit copy line_0007.xtf port_only.xtf --channels 1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, _ := cmd.Flags().GetString("channels")
		keep, err := parseChannels(spec)
		if err != nil {
			return err
		}
		if err := xtf.Copy(args[0], args[1], keep); err != nil {
			return fmt.Errorf("failed to copy %s: %w", args[0], err)
		}
		return nil
	},
}

// parseChannels parses a comma-separated channel list; empty means all.
func parseChannels(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var channels []int
	for _, part := range strings.Split(spec, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad channel list %q: %w", spec, err)
		}
		channels = append(channels, n)
	}
	return channels, nil
}

func init() {
	copyCmd.Flags().String("channels", "", "Comma-separated channels to keep (default all)")
	rootCmd.AddCommand(copyCmd)
}
