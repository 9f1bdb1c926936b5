package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical capture defaults file.
// This is the single source of truth for all default capture values.
const DefaultConfigPath = "config/capture.defaults.json"

// CaptureConfig represents the root configuration for a capture run.
// Every stage of the pipeline receives the values it needs from here;
// nothing reads ambient path constants.
type CaptureConfig struct {
	// Device params
	DeviceIndex *int `json:"device_index,omitempty"`
	FrameWidth  *int `json:"frame_width,omitempty"`
	FrameHeight *int `json:"frame_height,omitempty"`

	// Sequence params
	FrameCount *int    `json:"frame_count,omitempty"`
	FrameDelay *string `json:"frame_delay,omitempty"` // duration string like "200ms"
	OutputDir  *string `json:"output_dir,omitempty"`

	// Scene params
	CameraAngleX *float64 `json:"camera_angle_x,omitempty"` // horizontal FOV in radians

	// Optional surfaces
	Preview  *bool   `json:"preview,omitempty"`
	PlotPath *string `json:"plot_path,omitempty"` // empty disables the trajectory plot
	DBPath   *string `json:"db_path,omitempty"`   // empty disables the session ledger
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyCaptureConfig returns a CaptureConfig with all fields set to nil.
// Use LoadCaptureConfig to load actual values from a config file.
func EmptyCaptureConfig() *CaptureConfig {
	return &CaptureConfig{}
}

// LoadCaptureConfig loads a CaptureConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadCaptureConfig(path string) (*CaptureConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyCaptureConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical capture defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *CaptureConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadCaptureConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Merge returns a config where every field set on override wins over base.
// Neither input is modified.
func Merge(base, override *CaptureConfig) *CaptureConfig {
	if base == nil {
		base = EmptyCaptureConfig()
	}
	if override == nil {
		override = EmptyCaptureConfig()
	}

	merged := *base
	if override.DeviceIndex != nil {
		merged.DeviceIndex = override.DeviceIndex
	}
	if override.FrameWidth != nil {
		merged.FrameWidth = override.FrameWidth
	}
	if override.FrameHeight != nil {
		merged.FrameHeight = override.FrameHeight
	}
	if override.FrameCount != nil {
		merged.FrameCount = override.FrameCount
	}
	if override.FrameDelay != nil {
		merged.FrameDelay = override.FrameDelay
	}
	if override.OutputDir != nil {
		merged.OutputDir = override.OutputDir
	}
	if override.CameraAngleX != nil {
		merged.CameraAngleX = override.CameraAngleX
	}
	if override.Preview != nil {
		merged.Preview = override.Preview
	}
	if override.PlotPath != nil {
		merged.PlotPath = override.PlotPath
	}
	if override.DBPath != nil {
		merged.DBPath = override.DBPath
	}
	return &merged
}

// Validate checks that the configuration values are valid.
func (c *CaptureConfig) Validate() error {
	// Validate DeviceIndex if set
	if c.DeviceIndex != nil {
		if *c.DeviceIndex < 0 {
			return fmt.Errorf("device_index must be non-negative, got %d", *c.DeviceIndex)
		}
	}

	// Validate frame dimensions if set
	if c.FrameWidth != nil {
		if *c.FrameWidth <= 0 {
			return fmt.Errorf("frame_width must be positive, got %d", *c.FrameWidth)
		}
	}
	if c.FrameHeight != nil {
		if *c.FrameHeight <= 0 {
			return fmt.Errorf("frame_height must be positive, got %d", *c.FrameHeight)
		}
	}

	// Validate FrameCount if set
	if c.FrameCount != nil {
		if *c.FrameCount < 0 {
			return fmt.Errorf("frame_count must be non-negative, got %d", *c.FrameCount)
		}
	}

	// Validate FrameDelay can be parsed if set
	if c.FrameDelay != nil && *c.FrameDelay != "" {
		d, err := time.ParseDuration(*c.FrameDelay)
		if err != nil {
			return fmt.Errorf("invalid frame_delay '%s': %w", *c.FrameDelay, err)
		}
		if d < 0 {
			return fmt.Errorf("frame_delay must be non-negative, got %s", d)
		}
	}

	// Validate CameraAngleX if set. The scene format stores the horizontal
	// FOV in radians, so anything at or beyond pi is not a real lens.
	if c.CameraAngleX != nil {
		if *c.CameraAngleX <= 0 || *c.CameraAngleX >= math.Pi {
			return fmt.Errorf("camera_angle_x must be in (0, pi) radians, got %f", *c.CameraAngleX)
		}
	}

	return nil
}

// GetDeviceIndex returns the device_index value or the default.
func (c *CaptureConfig) GetDeviceIndex() int {
	if c.DeviceIndex == nil {
		return 0 // default: first camera
	}
	return *c.DeviceIndex
}

// GetFrameWidth returns the frame_width value or the default.
func (c *CaptureConfig) GetFrameWidth() int {
	if c.FrameWidth == nil {
		return 640 // default
	}
	return *c.FrameWidth
}

// GetFrameHeight returns the frame_height value or the default.
func (c *CaptureConfig) GetFrameHeight() int {
	if c.FrameHeight == nil {
		return 480 // default
	}
	return *c.FrameHeight
}

// GetFrameCount returns the frame_count value or the default.
func (c *CaptureConfig) GetFrameCount() int {
	if c.FrameCount == nil {
		return 20 // default
	}
	return *c.FrameCount
}

// GetFrameDelay parses and returns the FrameDelay as a time.Duration.
func (c *CaptureConfig) GetFrameDelay() time.Duration {
	if c.FrameDelay == nil || *c.FrameDelay == "" {
		return 200 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.FrameDelay)
	if err != nil {
		return 200 * time.Millisecond // default on parse error
	}
	return d
}

// GetOutputDir returns the output_dir value or the default.
func (c *CaptureConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "ngp_test" // default
	}
	return *c.OutputDir
}

// GetCameraAngleX returns the camera_angle_x value or the default.
func (c *CaptureConfig) GetCameraAngleX() float64 {
	if c.CameraAngleX == nil {
		return 0.8 // default: approximate webcam FOV in radians
	}
	return *c.CameraAngleX
}

// GetPreview returns the preview value or the default.
func (c *CaptureConfig) GetPreview() bool {
	if c.Preview == nil {
		return true // default: show the capture window
	}
	return *c.Preview
}

// GetPlotPath returns the plot_path value or the default.
func (c *CaptureConfig) GetPlotPath() string {
	if c.PlotPath == nil {
		return "" // default: plotting disabled
	}
	return *c.PlotPath
}

// GetDBPath returns the db_path value or the default.
func (c *CaptureConfig) GetDBPath() string {
	if c.DBPath == nil {
		return "" // default: session ledger disabled
	}
	return *c.DBPath
}
