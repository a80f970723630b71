package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/fidmark/internal/generator"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate [marker ids...]",
	Short: "Render marker images for dictionary ids",
	Long: `Render one or more marker ids as printable black-on-white images.

Examples:
  fidmark generate 42
  fidmark generate 0 1 2 3 --cell-pixels 32
  fidmark generate 42 --out marker42.png`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		opts := generator.DefaultOptions()
		if cfg.Generator.CellPixels > 0 {
			opts.CellPixels = cfg.Generator.CellPixels
		}
		opts.QuietCells = cfg.Generator.QuietCells
		if cmd.Flags().Changed("cell-pixels") {
			opts.CellPixels, _ = cmd.Flags().GetInt("cell-pixels")
		}
		if cmd.Flags().Changed("quiet-cells") {
			opts.QuietCells, _ = cmd.Flags().GetInt("quiet-cells")
		}
		out, _ := cmd.Flags().GetString("out")
		if out != "" && len(args) > 1 {
			return fmt.Errorf("--out is only valid with a single marker id")
		}

		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid marker id %q: %w", arg, err)
			}
			path := out
			if path == "" {
				path = fmt.Sprintf("marker-%04d.png", id)
			}
			if err := generator.Save(id, opts, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Int("cell-pixels", 16, "rendered pixels per marker cell")
	generateCmd.Flags().Int("quiet-cells", 1, "white quiet zone around the marker, in cells")
	generateCmd.Flags().StringP("out", "o", "", "output file path (single id only)")
}
