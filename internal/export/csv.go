package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lox/akterm/internal/stability"
)

var dayNightColumns = []string{
	"STATIONS_ID", "MESS_DATUM", "QN_3", "wind_speed_ms", "wind_dir_deg",
	"cloud_qn", "cloud_cover_oktas", "cloud_cover_flag",
	"timestamp", "timestamp_local", "SA", "SU", "day_night",
}

var classColumns = []string{
	"klasse_kt", "klasse_kn", "ausbreitungsklasse_base", "transition_window",
	"no_cloud_window", "ausbreitungsklasse_no_cloud", "ausbreitungsklasse", "quality_flags",
}

// DayNightFileName and ClassFileName name the two CSV tables of a year.
func DayNightFileName(year int) string {
	return fmt.Sprintf("merged_wind_cloud_%d_day_night.csv", year)
}

func ClassFileName(year int) string {
	return fmt.Sprintf("merged_wind_cloud_%d_day_night_ausbreitung.csv", year)
}

// WriteDayNightCSV writes the merged observations with sun events and the day
// flag.
func WriteDayNightCSV(w io.Writer, rows []stability.Classified) error {
	return writeCSV(w, dayNightColumns, rows, dayNightRecord)
}

// WriteClassCSV writes the day/night table extended by every intermediate and
// final stability class.
func WriteClassCSV(w io.Writer, rows []stability.Classified) error {
	cols := append(append([]string{}, dayNightColumns...), classColumns...)
	return writeCSV(w, cols, rows, func(c stability.Classified) []string {
		return append(dayNightRecord(c),
			c.DayClass.String(),
			c.NightClass.String(),
			c.BaseClass.String(),
			c.Window.String(),
			c.NoCloudWindow.String(),
			c.NoCloudClass.String(),
			c.Class.String(),
			strings.Join(c.QualityFlags, "|"),
		)
	})
}

// WriteCSVFile creates path and writes rows with write.
func WriteCSVFile(path string, rows []stability.Classified, write func(io.Writer, []stability.Classified) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeCSV(w io.Writer, header []string, rows []stability.Classified, record func(stability.Classified) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range rows {
		if err := cw.Write(record(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func dayNightRecord(c stability.Classified) []string {
	rec := []string{
		strconv.Itoa(c.StationID),
		c.RawTimestamp,
		nullInt(c.WindQN.Int64, c.WindQN.Valid),
		formatFloat(c.WindSpeed),
		formatFloat(c.WindDir),
		nullInt(c.CloudQN.Int64, c.CloudQN.Valid),
		"",
		c.CloudFlag.String,
		formatTime(c.Timestamp),
		formatTime(c.Local),
		formatTime(c.Sunrise),
		formatTime(c.Sunset),
		strconv.FormatBool(c.IsDay),
	}
	if c.Cloud.Valid {
		rec[6] = formatFloat(c.Cloud.Float64)
	}
	return rec
}

func nullInt(v int64, valid bool) string {
	if !valid {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
