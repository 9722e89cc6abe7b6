package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lox/akterm/internal/export"
)

const (
	DefaultLatitude  = 48.1372
	DefaultLongitude = 11.5756
	DefaultTimezone  = "UTC"
	DefaultProject   = "muenchen_stadt"
	DefaultOutDir    = "data/processed"
)

// Config is the validated configuration of a single pipeline run.
type Config struct {
	Year      int
	WindPath  string
	CloudPath string
	OutDir    string
	Project   string

	Latitude  float64
	Longitude float64
	Timezone  string

	Workers int
	Header  export.Header

	// Optional sinks; empty disables them.
	DBPath      string
	MetricsFile string
	ChartPath   string
}

// DefaultConfig returns the Munich city defaults without input paths.
func DefaultConfig() Config {
	return Config{
		OutDir:    DefaultOutDir,
		Project:   DefaultProject,
		Latitude:  DefaultLatitude,
		Longitude: DefaultLongitude,
		Timezone:  DefaultTimezone,
		Header:    export.DefaultHeader,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Year < 1800 || c.Year > 9999 {
		return fmt.Errorf("invalid year %d", c.Year)
	}
	if c.WindPath == "" {
		return errors.New("wind file is required")
	}
	if c.CloudPath == "" {
		return errors.New("cloud file is required")
	}
	if c.OutDir == "" {
		return errors.New("output directory is required")
	}
	if c.Project == "" || c.Project != filepath.Base(c.Project) {
		return fmt.Errorf("invalid project name %q", c.Project)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Workers)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ProjectDir is the directory all outputs of the run are written to.
func (c Config) ProjectDir() string {
	return filepath.Join(c.OutDir, c.Project)
}
