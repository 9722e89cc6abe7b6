package models

import (
	"database/sql"
	"time"
)

// InvalidMarker is the DWD sentinel for an invalid or missing measurement.
const InvalidMarker = -999

// Observation is one hourly record after wind and cloud files are merged.
type Observation struct {
	StationID    int
	Timestamp    time.Time // UTC; zero when RawTimestamp could not be parsed
	RawTimestamp string
	Local        time.Time
	WindSpeed    float64 // m/s, one decimal; InvalidMarker when invalid, NaN when absent
	WindDir      float64 // degrees; InvalidMarker when invalid, NaN when absent
	WindQN       sql.NullInt64
	Cloud        sql.NullFloat64 // oktas 0-8
	CloudFlag    sql.NullString  // V_N_I: "P" (observer) or "I" (instrument)
	CloudQN      sql.NullInt64
	QualityFlags []string
}

// InvalidWind reports whether speed or direction carries the invalid marker.
func (o Observation) InvalidWind() bool {
	return o.WindSpeed == InvalidMarker || o.WindDir == InvalidMarker
}

// Run is one archived pipeline execution.
type Run struct {
	ID           int64
	RunID        string
	Project      string
	Year         int
	Latitude     float64
	Longitude    float64
	Timezone     string
	WindPath     sql.NullString
	CloudPath    sql.NullString
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	Observations sql.NullInt64
	Undefined    sql.NullInt64
	Success      bool
	ErrorMessage sql.NullString
}

// ClassCount is the number of observations with a given final class in a month.
// Class is the class label; an empty label counts undefined classes.
type ClassCount struct {
	Month time.Month
	Class string
	Count int
}
