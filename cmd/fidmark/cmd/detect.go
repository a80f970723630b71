package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/fidmark/internal/detector"
)

const (
	outputFormatText = "text"
	outputFormatJSON = "json"
	outputFormatYAML = "yaml"
)

// fileResult is the per-file output record of the detect command.
type fileResult struct {
	File    string         `json:"file" yaml:"file"`
	Markers []markerRecord `json:"markers" yaml:"markers"`
	Error   string         `json:"error,omitempty" yaml:"error,omitempty"`
}

type markerRecord struct {
	ID      int           `json:"id" yaml:"id"`
	Corners [4][2]float64 `json:"corners" yaml:"corners,flow"`
}

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect [image files...]",
	Short: "Detect fiducial markers in image files",
	Long: `Detect square fiducial markers in one or more image files and print
their ids and corner coordinates.

Supported formats: JPEG, PNG, BMP, TIFF, GIF

Examples:
  fidmark detect frame.png
  fidmark detect *.jpg --format json
  fidmark detect frame.png --invert`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		detCfg := cfg.Detector.ToDetectorConfig()
		if invert, _ := cmd.Flags().GetBool("invert"); invert {
			detCfg.InvertPolarity = true
		}
		det, err := detector.NewDetector(detCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize detector: %w", err)
		}

		results := make([]fileResult, 0, len(args))
		for _, path := range args {
			results = append(results, detectFile(det, path))
		}
		return writeResults(cmd, results, format)
	},
}

// detectFile runs the detector over one image file. Failures are recorded
// per file so a bad frame does not abort a batch.
func detectFile(det *detector.Detector, path string) fileResult {
	res := fileResult{File: path, Markers: []markerRecord{}}

	img, err := imaging.Open(path)
	if err != nil {
		res.Error = fmt.Sprintf("failed to open image: %v", err)
		return res
	}

	markers, err := det.Detect(detector.RasterFromImage(img))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	for _, m := range markers {
		rec := markerRecord{ID: m.ID}
		for i, p := range m.Corners {
			rec.Corners[i] = [2]float64{p.X, p.Y}
		}
		res.Markers = append(res.Markers, rec)
	}
	return res
}

func writeResults(cmd *cobra.Command, results []fileResult, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case outputFormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case outputFormatYAML:
		enc := yaml.NewEncoder(out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(results)
	case outputFormatText, "":
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(os.Stderr, "%s: %s\n", r.File, r.Error)
				continue
			}
			fmt.Fprintf(out, "%s: %d marker(s)\n", r.File, len(r.Markers))
			for _, m := range r.Markers {
				fmt.Fprintf(out, "  id=%d corners=", m.ID)
				for _, c := range m.Corners {
					fmt.Fprintf(out, "(%.1f,%.1f)", c[0], c[1])
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")
	detectCmd.Flags().Bool("invert", false, "detect light markers on dark background")
}
