package ingest

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/lox/akterm/internal/metrics"
	"github.com/lox/akterm/internal/models"
)

// MessDatumLayout is the DWD hourly timestamp layout (UTC).
const MessDatumLayout = "2006010215"

// WindRecord is one row of a DWD hourly wind product (FF).
type WindRecord struct {
	StationID    int
	Timestamp    time.Time
	RawTimestamp string
	QN           sql.NullInt64
	Speed        float64 // F, m/s rounded to one decimal
	Dir          float64 // D, degrees
}

// CloudRecord is one row of a DWD hourly cloudiness product (N).
type CloudRecord struct {
	StationID    int
	Timestamp    time.Time
	RawTimestamp string
	QN           sql.NullInt64
	Oktas        sql.NullFloat64 // V_N, 0-8
	Flag         sql.NullString  // V_N_I
}

var (
	windColumns  = []string{"STATIONS_ID", "MESS_DATUM", "F", "D"}
	cloudColumns = []string{"STATIONS_ID", "MESS_DATUM", "V_N"}
)

// ErrMissingColumn is returned when a product file lacks a required column.
var ErrMissingColumn = errors.New("missing column")

type productReader struct {
	r      *csv.Reader
	header map[string]int
	line   int
}

func newProductReader(r io.Reader, required []string) (*productReader, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	headers, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty product file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	header := make(map[string]int, len(headers))
	for i, h := range headers {
		header[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return &productReader{r: cr, header: header, line: 1}, nil
}

// next returns the next record, or io.EOF.
func (p *productReader) next() ([]string, error) {
	rec, err := p.r.Read()
	p.line++
	if err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("line %d: %w", p.line, err)
	}
	return rec, nil
}

func (p *productReader) get(rec []string, col string) string {
	if i, ok := p.header[col]; ok && i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

// ReadWind parses a DWD wind product. Rows with an unparseable MESS_DATUM are
// kept with a zero Timestamp.
func ReadWind(r io.Reader) ([]WindRecord, error) {
	pr, err := newProductReader(r, windColumns)
	if err != nil {
		return nil, fmt.Errorf("wind: %w", err)
	}

	var out []WindRecord
	for {
		rec, err := pr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wind: %w", err)
		}
		station, err := strconv.Atoi(pr.get(rec, "STATIONS_ID"))
		if err != nil {
			return nil, fmt.Errorf("wind: line %d: station id: %w", pr.line, err)
		}
		raw := pr.get(rec, "MESS_DATUM")
		out = append(out, WindRecord{
			StationID:    station,
			Timestamp:    parseMessDatum(raw),
			RawTimestamp: raw,
			QN:           parseNullInt(pr.get(rec, "QN_3")),
			Speed:        roundTenth(parseFloat(pr.get(rec, "F"))),
			Dir:          parseFloat(pr.get(rec, "D")),
		})
	}
	return out, nil
}

// ReadCloud parses a DWD cloudiness product. Cover values outside 0..8
// (DWD uses -1 and -999) are treated as missing.
func ReadCloud(r io.Reader) ([]CloudRecord, error) {
	pr, err := newProductReader(r, cloudColumns)
	if err != nil {
		return nil, fmt.Errorf("cloud: %w", err)
	}

	var out []CloudRecord
	for {
		rec, err := pr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cloud: %w", err)
		}
		station, err := strconv.Atoi(pr.get(rec, "STATIONS_ID"))
		if err != nil {
			return nil, fmt.Errorf("cloud: line %d: station id: %w", pr.line, err)
		}
		raw := pr.get(rec, "MESS_DATUM")
		cr := CloudRecord{
			StationID:    station,
			Timestamp:    parseMessDatum(raw),
			RawTimestamp: raw,
			QN:           parseNullInt(pr.get(rec, "QN_8")),
		}
		if v := parseFloat(pr.get(rec, "V_N")); v >= 0 && v <= 8 {
			cr.Oktas = sql.NullFloat64{Float64: v, Valid: true}
		}
		if f := pr.get(rec, "V_N_I"); f != "" && f != "-999" {
			cr.Flag = sql.NullString{String: f, Valid: true}
		}
		out = append(out, cr)
	}
	return out, nil
}

// LoadWind reads a wind product file and keeps rows of year (UTC). year 0
// keeps everything.
func LoadWind(path string, year int) ([]WindRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wind: %w", err)
	}
	defer f.Close()

	recs, err := ReadWind(f)
	if err != nil {
		return nil, err
	}
	metrics.ObservationsLoaded.WithLabelValues("wind").Add(float64(len(recs)))

	kept := recs[:0]
	for _, r := range recs {
		if inYear(r.Timestamp, year) {
			kept = append(kept, r)
		}
	}
	log.Printf("ingest: %s: %d wind rows, %d in %d", path, len(recs), len(kept), year)
	return kept, nil
}

// LoadCloud reads a cloudiness product file and keeps rows of year (UTC).
func LoadCloud(path string, year int) ([]CloudRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cloud: %w", err)
	}
	defer f.Close()

	recs, err := ReadCloud(f)
	if err != nil {
		return nil, err
	}
	metrics.ObservationsLoaded.WithLabelValues("cloud").Add(float64(len(recs)))

	kept := recs[:0]
	for _, r := range recs {
		if inYear(r.Timestamp, year) {
			kept = append(kept, r)
		}
	}
	log.Printf("ingest: %s: %d cloud rows, %d in %d", path, len(recs), len(kept), year)
	return kept, nil
}

type mergeKey struct {
	station int
	unix    int64
}

// Merge left-joins cloud records onto wind records by station and timestamp.
// Wind order is preserved; the first cloud row wins for duplicate keys.
func Merge(wind []WindRecord, cloud []CloudRecord) []models.Observation {
	byKey := make(map[mergeKey]CloudRecord, len(cloud))
	for _, c := range cloud {
		if c.Timestamp.IsZero() {
			continue
		}
		k := mergeKey{c.StationID, c.Timestamp.Unix()}
		if _, ok := byKey[k]; !ok {
			byKey[k] = c
		}
	}

	out := make([]models.Observation, 0, len(wind))
	for _, w := range wind {
		obs := models.Observation{
			StationID:    w.StationID,
			Timestamp:    w.Timestamp,
			RawTimestamp: w.RawTimestamp,
			WindSpeed:    w.Speed,
			WindDir:      w.Dir,
			WindQN:       w.QN,
		}
		if !w.Timestamp.IsZero() {
			if c, ok := byKey[mergeKey{w.StationID, w.Timestamp.Unix()}]; ok {
				obs.Cloud = c.Oktas
				obs.CloudFlag = c.Flag
				obs.CloudQN = c.QN
			}
		}
		out = append(out, obs)
	}
	return out
}

// FilterYear keeps observations whose UTC timestamp lies in year. Rows without
// a timestamp are kept so that validation can reject them.
func FilterYear(obs []models.Observation, year int) []models.Observation {
	out := make([]models.Observation, 0, len(obs))
	for _, o := range obs {
		if inYear(o.Timestamp, year) {
			out = append(out, o)
		}
	}
	return out
}

// Localize returns a copy of obs with Local set to the timestamp in loc.
func Localize(obs []models.Observation, loc *time.Location) []models.Observation {
	out := make([]models.Observation, len(obs))
	for i, o := range obs {
		if !o.Timestamp.IsZero() {
			o.Local = o.Timestamp.In(loc)
		}
		out[i] = o
	}
	return out
}

// LoadAndMerge loads both products for year, merges them and attaches local
// timestamps and quality flags.
func LoadAndMerge(windPath, cloudPath string, year int, loc *time.Location) ([]models.Observation, error) {
	wind, err := LoadWind(windPath, year)
	if err != nil {
		return nil, err
	}
	cloud, err := LoadCloud(cloudPath, year)
	if err != nil {
		return nil, err
	}

	obs := Localize(FilterYear(Merge(wind, cloud), year), loc)
	summary := ApplyQualityFlags(obs)
	for flag, n := range summary {
		log.Printf("ingest: quality flag %s on %d observations", flag, n)
	}
	return obs, nil
}

func inYear(ts time.Time, year int) bool {
	if year == 0 || ts.IsZero() {
		return true
	}
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)
	return !ts.Before(start) && ts.Before(end)
}

func parseMessDatum(s string) time.Time {
	ts, err := time.ParseInLocation(MessDatumLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseNullInt(s string) sql.NullInt64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func roundTenth(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.RoundToEven(v*10) / 10
}
