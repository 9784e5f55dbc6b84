package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oceanscan/xtfkit/pkg/proj"
	"github.com/oceanscan/xtfkit/pkg/segy"
	"github.com/oceanscan/xtfkit/pkg/xtf"
)

// segyCmd represents the segy command
var segyCmd = &cobra.Command{
	Use:   "segy <in.xtf>...",
	Short: "Export one channel of each XTF file to SEG-Y",
	Long: `Export one sonar channel of each input XTF file to a SEG-Y rev 1
file. Coordinates are written as arc-seconds by default, or projected
to UTM grid coordinates with --projection utm. Batch inputs are
converted one at a time; a failed input stops the run.

Examples:
  xtfkit segy line_0007.xtf --channel 1 --out line_0007.sgy
  xtfkit segy survey/*.xtf --channel 1 --out-dir segy/ --projection utm`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		outDir, _ := cmd.Flags().GetString("out-dir")
		channel, _ := cmd.Flags().GetInt("channel")
		line, _ := cmd.Flags().GetInt("line")

		if out != "" && len(args) > 1 {
			return fmt.Errorf("--out takes a single input file, got %d; use --out-dir", len(args))
		}
		if out != "" && outDir != "" {
			return fmt.Errorf("--out and --out-dir are mutually exclusive")
		}

		projection, err := projectionOptions(cmd)
		if err != nil {
			return err
		}

		for _, in := range args {
			target := out
			if target == "" {
				target = segyName(in, outDir)
			}
			f, err := xtf.Open(in)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", in, err)
			}
			opts := segy.Options{Projection: projection, LineNumber: line}
			if err := segy.Export(f, target, channel, opts); err != nil {
				return fmt.Errorf("failed to export %s: %w", in, err)
			}
			fmt.Printf("%s -> %s\n", in, target)
		}
		return nil
	},
}

// projectionOptions resolves the coordinate treatment from config, then
// applies any flags the user set on top.
func projectionOptions(cmd *cobra.Command) (proj.Options, error) {
	cfg := configFromContext(cmd)
	if cmd.Flags().Changed("projection") {
		cfg.Export.Projection, _ = cmd.Flags().GetString("projection")
	}
	if cmd.Flags().Changed("zone") {
		cfg.Export.Zone, _ = cmd.Flags().GetInt("zone")
	}
	return cfg.ProjectionOptions()
}

// segyName derives the output path for an input file: same base name
// with a .sgy extension, in dir when given or alongside the input.
func segyName(in, dir string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".sgy"
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, base)
}

func init() {
	segyCmd.Flags().Int("channel", 0, "Channel number to export")
	segyCmd.Flags().String("out", "", "Output file (single input only)")
	segyCmd.Flags().String("out-dir", "", "Output directory for derived names")
	segyCmd.Flags().String("projection", "arcseconds", "Coordinate treatment: utm or arcseconds")
	segyCmd.Flags().Int("zone", 0, "UTM zone override (default auto-detect)")
	segyCmd.Flags().Int("line", 0, "Line number for the binary header")
	rootCmd.AddCommand(segyCmd)
}
