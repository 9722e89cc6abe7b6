// Package export writes classified observations as AKTERM time series, CSV
// tables and the assumptions document.
package export

import (
	"bufio"
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

// ErrorMarker is written in the last AKTERM column when the class is undefined.
const ErrorMarker = "-999"

// Header holds the comment lines written before the AKTERM records.
type Header struct {
	Title   string
	Station string
}

// DefaultHeader is the header of the LfU Munich city series.
var DefaultHeader = Header{
	Title:   "AKTERM-Zeitreihe, Bayerisches Landesamt fuer Umwelt (LfU)",
	Station: "Station Muenchen-Stadt mit Bedeckung Muenchen-Stadt",
}

// Lines returns the three header lines for year.
func (h Header) Lines(year int) []string {
	return []string{
		"* " + h.Title,
		"* " + h.Station,
		fmt.Sprintf("* Zeitraum 01.01.%d - 31.12.%d (UTC).", year, year),
	}
}

// FormatLine renders one AKTERM record. The timestamp is written in UTC.
func FormatLine(c stability.Classified) string {
	var date [5]string
	if !c.Timestamp.IsZero() {
		ts := c.Timestamp.UTC()
		date = [5]string{
			fmt.Sprintf("%04d", ts.Year()),
			fmt.Sprintf("%02d", int(ts.Month())),
			fmt.Sprintf("%02d", ts.Day()),
			fmt.Sprintf("%02d", ts.Hour()),
			fmt.Sprintf("%02d", ts.Minute()),
		}
	}

	label, code, marker := "", "", ErrorMarker
	if c.Class.Valid() {
		label = c.Class.String()
		code = strconv.Itoa(c.Class.Code())
		marker = ""
	}

	fields := []string{
		"AK",
		fmt.Sprintf("%05d", c.StationID),
		date[0], date[1], date[2], date[3], date[4],
		roundInt(c.WindDir),
		roundInt(c.WindSpeed * 10),
		label,
		code,
		marker,
	}
	return strings.Join(fields, " ")
}

// WriteAKTERM writes the header and one record per observation whose UTC
// timestamp lies in year. It returns the number of records written.
func WriteAKTERM(w io.Writer, rows []stability.Classified, year int, header Header) (int, error) {
	bw := bufio.NewWriter(w)
	for _, line := range header.Lines(year) {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return 0, err
		}
	}

	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	n := 0
	for _, c := range rows {
		if c.Timestamp.Before(start) || !c.Timestamp.Before(end) {
			continue
		}
		if _, err := bw.WriteString(FormatLine(c) + "\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// WriteAKTERMFile writes an AKTERM file, creating parent directories.
func WriteAKTERMFile(path string, rows []stability.Classified, year int, header Header) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create akterm: %w", err)
	}
	n, err := WriteAKTERM(f, rows, year, header)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("write akterm: %w", err)
	}
	return n, f.Close()
}

// AKTERMFileName is the file name of the AKTERM series of a project.
func AKTERMFileName(year int, project string) string {
	return fmt.Sprintf("akterm_%d_%s.akt", year, project)
}

func roundInt(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatInt(int64(math.RoundToEven(v)), 10)
}
