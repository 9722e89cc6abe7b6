package export

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/akterm/internal/models"
	"github.com/lox/akterm/internal/stability"
)

func classified(ts time.Time, dir, speed float64, class stability.Class) stability.Classified {
	return stability.Classified{
		Observation: models.Observation{
			StationID:    3379,
			Timestamp:    ts,
			RawTimestamp: ts.Format("2006010215"),
			Local:        ts,
			WindSpeed:    speed,
			WindDir:      dir,
			Cloud:        sql.NullFloat64{Float64: 4, Valid: true},
		},
		Result: stability.Result{Class: class},
	}
}

func TestFormatLine(t *testing.T) {
	c := classified(time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC), 180, 3.2, stability.ClassIII1)
	assert.Equal(t, "AK 03379 2021 06 15 12 00 180 32 III/1 3 ", FormatLine(c))
}

func TestFormatLine_Undefined(t *testing.T) {
	c := classified(time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC), 180, 3.2, stability.ClassUndefined)
	assert.Equal(t, "AK 03379 2021 06 15 12 00 180 32   -999", FormatLine(c))
}

func TestFormatLine_WritesUTC(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	c := classified(time.Date(2021, 6, 15, 14, 0, 0, 0, berlin), 90, 1.0, stability.ClassV)
	assert.Equal(t, "AK 03379 2021 06 15 12 00 90 10 V 6 ", FormatLine(c))
}

func TestFormatLine_MissingAndRounding(t *testing.T) {
	c := classified(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), math.NaN(), math.NaN(), stability.ClassI)
	assert.Equal(t, "AK 03379 2021 01 01 00 00   I 1 ", FormatLine(c))

	// Half to even.
	c = classified(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 182.5, 0.25, stability.ClassII)
	assert.Equal(t, "AK 03379 2021 01 01 00 00 182 2 II 2 ", FormatLine(c))

	c = classified(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), -999, -999, stability.ClassUndefined)
	assert.Equal(t, "AK 03379 2021 01 01 00 00 -999 -9990   -999", FormatLine(c))
}

func TestWriteAKTERM(t *testing.T) {
	rows := []stability.Classified{
		classified(time.Date(2020, 12, 31, 23, 0, 0, 0, time.UTC), 90, 1, stability.ClassI),
		classified(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 90, 1, stability.ClassI),
		classified(time.Date(2021, 12, 31, 23, 0, 0, 0, time.UTC), 270, 5.5, stability.ClassIII1),
		classified(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 90, 1, stability.ClassI),
	}

	var buf bytes.Buffer
	n, err := WriteAKTERM(&buf, rows, 2021, DefaultHeader)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "* AKTERM-Zeitreihe, Bayerisches Landesamt fuer Umwelt (LfU)", lines[0])
	assert.Equal(t, "* Station Muenchen-Stadt mit Bedeckung Muenchen-Stadt", lines[1])
	assert.Equal(t, "* Zeitraum 01.01.2021 - 31.12.2021 (UTC).", lines[2])
	assert.Equal(t, "AK 03379 2021 01 01 00 00 90 10 I 1 ", lines[3])
	assert.Equal(t, "AK 03379 2021 12 31 23 00 270 55 III/1 3 ", lines[4])
}

func TestWriteAKTERMFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muenchen", AKTERMFileName(2021, "muenchen"))
	header := Header{Title: "Test", Station: "Station X"}

	n, err := WriteAKTERMFile(path, nil, 2021, header)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "* Test\n* Station X\n* Zeitraum 01.01.2021 - 31.12.2021 (UTC).\n", string(b))
	assert.Equal(t, "akterm_2021_muenchen.akt", filepath.Base(path))
}

func TestWriteClassCSV(t *testing.T) {
	c := classified(time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC), 180, 3.2, stability.ClassIII1)
	c.IsDay = true
	c.DayClass = stability.ClassIII2
	c.NightClass = stability.ClassII
	c.BaseClass = stability.ClassIII2
	c.Window = stability.WindowSU1ToSU
	c.QualityFlags = []string{"a", "b"}

	var buf bytes.Buffer
	require.NoError(t, WriteClassCSV(&buf, []stability.Classified{c}))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	row := map[string]string{}
	for i, h := range recs[0] {
		row[h] = recs[1][i]
	}
	assert.Equal(t, "3379", row["STATIONS_ID"])
	assert.Equal(t, "2021061512", row["MESS_DATUM"])
	assert.Equal(t, "3.2", row["wind_speed_ms"])
	assert.Equal(t, "4", row["cloud_cover_oktas"])
	assert.Equal(t, "true", row["day_night"])
	assert.Equal(t, "2021-06-15T12:00:00Z", row["timestamp"])
	assert.Equal(t, "III/2", row["klasse_kt"])
	assert.Equal(t, "II", row["klasse_kn"])
	assert.Equal(t, "SU-1..SU", row["transition_window"])
	assert.Equal(t, "", row["ausbreitungsklasse_no_cloud"])
	assert.Equal(t, "III/1", row["ausbreitungsklasse"])
	assert.Equal(t, "a|b", row["quality_flags"])
}

func TestWriteDayNightCSV(t *testing.T) {
	c := classified(time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC), 180, 3.2, stability.ClassIII1)
	c.Cloud = sql.NullFloat64{}

	path := filepath.Join(t.TempDir(), DayNightFileName(2021))
	require.NoError(t, WriteCSVFile(path, []stability.Classified{c}, WriteDayNightCSV))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Len(t, recs[0], len(dayNightColumns))
	assert.Equal(t, "", recs[1][6])
	assert.Equal(t, "merged_wind_cloud_2021_day_night.csv", filepath.Base(path))
}

func TestAssumptions(t *testing.T) {
	a := NewAssumptions(RunInfo{
		RunID:     "run-1",
		Year:      2021,
		Project:   "muenchen_stadt",
		Latitude:  48.1372,
		Longitude: 11.5756,
		Timezone:  "UTC",
	})
	path := filepath.Join(t.TempDir(), AssumptionsFileName)
	require.NoError(t, WriteAssumptionsFile(path, a))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Equal(t, "UTC (DWD Timestamps)", doc["timezone_input"])
	assert.Equal(t, []any{1.2, 2.3, 3.3, 4.3}, doc["vdi_thresholds"].(map[string]any)["wind_bins"])
	outputs := doc["outputs"].(map[string]any)
	assert.Equal(t, "akterm_2021_muenchen_stadt.akt", outputs["akterm"])
	assert.Equal(t, "merged_wind_cloud_2021_day_night_ausbreitung.csv", outputs["csv"])
}
