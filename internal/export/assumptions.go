package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/akterm/internal/models"
	"github.com/lox/akterm/internal/stability"
)

// AssumptionsFileName is the name of the assumptions document.
const AssumptionsFileName = "assumptions.json"

// RunInfo identifies the run an assumptions document describes.
type RunInfo struct {
	RunID     string
	Year      int
	Project   string
	Latitude  float64
	Longitude float64
	Timezone  string
}

type Assumptions struct {
	RunID         string          `json:"run_id,omitempty"`
	TimezoneInput string          `json:"timezone_input"`
	TimezoneLocal string          `json:"timezone_local"`
	Location      Location        `json:"location"`
	Wind          WindConvention  `json:"wind"`
	Cloud         CloudConvention `json:"cloud"`
	VDIThresholds VDIThresholds   `json:"vdi_thresholds"`
	Year          int             `json:"year"`
	Project       string          `json:"project"`
	Outputs       Outputs         `json:"outputs"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type WindConvention struct {
	RoundingMS    float64 `json:"rounding_ms"`
	InvalidMarker int     `json:"invalid_marker"`
	DirectionCol  string  `json:"direction_col"`
	SpeedCol      string  `json:"speed_col"`
}

type CloudConvention struct {
	InvalidMarker   int    `json:"invalid_marker"`
	BinsDay         string `json:"bins_day"`
	BinsNight       string `json:"bins_night"`
	FallbackNoCloud bool   `json:"fallback_no_cloud"`
}

type VDIThresholds struct {
	WindBins          []float64 `json:"wind_bins"`
	TransitionWindows []string  `json:"transition_windows"`
	SummerUplift      bool      `json:"summer_uplift"`
	WinterRule        string    `json:"winter_rule"`
}

type Outputs struct {
	CSV         string `json:"csv"`
	AKTERM      string `json:"akterm"`
	Assumptions string `json:"assumptions"`
}

// NewAssumptions documents the conventions a run was computed with.
func NewAssumptions(run RunInfo) Assumptions {
	bounds := stability.WindBinning.Bounds
	return Assumptions{
		RunID:         run.RunID,
		TimezoneInput: "UTC (DWD Timestamps)",
		TimezoneLocal: run.Timezone,
		Location:      Location{Lat: run.Latitude, Lon: run.Longitude},
		Wind: WindConvention{
			RoundingMS:    0.1,
			InvalidMarker: models.InvalidMarker,
			DirectionCol:  "wind_dir_deg",
			SpeedCol:      "wind_speed_ms",
		},
		Cloud: CloudConvention{
			InvalidMarker:   models.InvalidMarker,
			BinsDay:         "0-2 / 3-5 / 6-8",
			BinsNight:       "0-6 / 7-8",
			FallbackNoCloud: true,
		},
		VDIThresholds: VDIThresholds{
			WindBins: append([]float64{}, bounds[1:len(bounds)-1]...),
			TransitionWindows: []string{
				stability.WindowSA1ToSA2.String(),
				stability.WindowSA2ToSA3.String(),
				stability.WindowSU2ToSU1.String(),
				stability.WindowSU1ToSU.String(),
				stability.WindowSUToSU1.String(),
			},
			SummerUplift: true,
			WinterRule:   "IV -> III/2 in Dec/Jan/Feb",
		},
		Year:    run.Year,
		Project: run.Project,
		Outputs: Outputs{
			CSV:         ClassFileName(run.Year),
			AKTERM:      AKTERMFileName(run.Year, run.Project),
			Assumptions: AssumptionsFileName,
		},
	}
}

// WriteAssumptionsFile writes a as indented JSON.
func WriteAssumptionsFile(path string, a Assumptions) error {
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal assumptions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write assumptions: %w", err)
	}
	return nil
}
