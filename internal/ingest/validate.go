package ingest

import (
	"encoding/json"
	"math"

	"github.com/lox/akterm/internal/metrics"
	"github.com/lox/akterm/internal/models"
)

const (
	FlagTimestampInvalid  = "timestamp_invalid"
	FlagWindSpeedInvalid  = "wind_speed_invalid"
	FlagWindDirInvalid    = "wind_dir_invalid"
	FlagWindDirOutOfRange = "wind_dir_out_of_range"
	FlagWindSpeedUnlikely = "wind_speed_unlikely"
	FlagCloudMissing      = "cloud_missing"
)

// ValidateObservation returns the quality flags for an observation. Flags do
// not change classification; they are reported and archived.
func ValidateObservation(obs *models.Observation) []string {
	var flags []string

	if obs.Timestamp.IsZero() {
		flags = append(flags, FlagTimestampInvalid)
	}

	if obs.WindSpeed == models.InvalidMarker || math.IsNaN(obs.WindSpeed) {
		flags = append(flags, FlagWindSpeedInvalid)
	} else if obs.WindSpeed < 0 || obs.WindSpeed > 60 {
		flags = append(flags, FlagWindSpeedUnlikely)
	}

	if obs.WindDir == models.InvalidMarker || math.IsNaN(obs.WindDir) {
		flags = append(flags, FlagWindDirInvalid)
	} else if obs.WindDir < 0 || obs.WindDir > 360 {
		flags = append(flags, FlagWindDirOutOfRange)
	}

	if !obs.Cloud.Valid {
		flags = append(flags, FlagCloudMissing)
	}

	return flags
}

// ApplyQualityFlags sets QualityFlags on every observation and returns the
// number of observations per flag.
func ApplyQualityFlags(obs []models.Observation) map[string]int {
	summary := make(map[string]int)
	for i := range obs {
		flags := ValidateObservation(&obs[i])
		obs[i].QualityFlags = flags
		for _, f := range flags {
			summary[f]++
			metrics.QualityFlags.WithLabelValues(f).Inc()
		}
	}
	return summary
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
