package config

import (
	"fmt"

	"github.com/MeKo-Tech/fidmark/internal/detector"
)

// Config is the complete configuration for the fidmark application. It
// covers all commands (detect, generate, serve) and is assembled from
// configuration files, environment variables and command-line flags. The
// detection core itself only ever sees the immutable detector.Config built
// from it.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Detector  DetectorConfig  `mapstructure:"detector" yaml:"detector" json:"detector"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator" json:"generator"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server" json:"server"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output" json:"output"`
}

// DetectorConfig contains marker detection settings.
type DetectorConfig struct {
	ThresholdWindow     int     `mapstructure:"threshold_window" yaml:"threshold_window" json:"threshold_window"`
	ThresholdConstant   float64 `mapstructure:"threshold_constant" yaml:"threshold_constant" json:"threshold_constant"`
	GridCellSize        int     `mapstructure:"grid_cell_size" yaml:"grid_cell_size" json:"grid_cell_size"`
	MinMarkerAreaRatio  float64 `mapstructure:"min_marker_area_ratio" yaml:"min_marker_area_ratio" json:"min_marker_area_ratio"`
	MaxAspectRatio      float64 `mapstructure:"max_aspect_ratio" yaml:"max_aspect_ratio" json:"max_aspect_ratio"`
	MinContourPerimeter int     `mapstructure:"min_contour_perimeter" yaml:"min_contour_perimeter" json:"min_contour_perimeter"`
	DuplicateCornerEps  float64 `mapstructure:"duplicate_corner_eps" yaml:"duplicate_corner_eps" json:"duplicate_corner_eps"`
	InvertPolarity      bool    `mapstructure:"invert_polarity" yaml:"invert_polarity" json:"invert_polarity"`
}

// GeneratorConfig contains marker rendering settings.
type GeneratorConfig struct {
	CellPixels int `mapstructure:"cell_pixels" yaml:"cell_pixels" json:"cell_pixels"`
	QuietCells int `mapstructure:"quiet_cells" yaml:"quiet_cells" json:"quiet_cells"`
}

// ServerConfig contains settings for the serve command.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// OutputConfig contains CLI output settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// ToDetectorConfig builds the immutable core configuration from the loaded
// application settings.
func (d DetectorConfig) ToDetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	if d.ThresholdWindow > 0 {
		cfg.AdaptiveThresholdWindow = d.ThresholdWindow
	}
	if d.ThresholdConstant != 0 {
		cfg.AdaptiveThresholdConstant = d.ThresholdConstant
	}
	if d.GridCellSize > 0 {
		cfg.GridCellSize = d.GridCellSize
	}
	if d.MinMarkerAreaRatio > 0 {
		cfg.MinMarkerAreaRatio = d.MinMarkerAreaRatio
	}
	if d.MaxAspectRatio > 0 {
		cfg.MaxAspectRatio = d.MaxAspectRatio
	}
	if d.MinContourPerimeter > 0 {
		cfg.MinContourPerimeter = d.MinContourPerimeter
	}
	if d.DuplicateCornerEps > 0 {
		cfg.DuplicateCornerEpsilonPx = d.DuplicateCornerEps
	}
	cfg.InvertPolarity = d.InvertPolarity
	return cfg
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.Output.Format {
	case "", "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("invalid max upload size %d", c.Server.MaxUploadMB)
	}
	if c.Generator.CellPixels < 0 || c.Generator.QuietCells < 0 {
		return fmt.Errorf("invalid generator settings: cell_pixels=%d quiet_cells=%d",
			c.Generator.CellPixels, c.Generator.QuietCells)
	}
	return nil
}
