package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/lox/akterm/internal/ingest"
	"github.com/lox/akterm/internal/models"
	"github.com/lox/akterm/internal/stability"
)

// InsertClassifications archives the classified observations of a run in a
// single transaction. Rows already stored for the run are left unchanged.
func (s *Store) InsertClassifications(runID string, rows []stability.Classified) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO classifications (run_id, station_id, observed_at, local_month, local_hour,
			wind_speed, wind_dir, cloud_oktas, is_day, day_class, night_class, base_class,
			transition_window, no_cloud_class, class, class_code, quality_flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, station_id, observed_at) DO NOTHING
	`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, c := range rows {
		local := c.Local
		if local.IsZero() {
			local = c.Timestamp.In(s.loc)
		}
		res, err := stmt.Exec(runID, c.StationID, c.Timestamp.UTC(), int(local.Month()), local.Hour(),
			nullFloat(c.WindSpeed), nullFloat(c.WindDir), c.Cloud, c.IsDay,
			nullString(c.DayClass.String()), nullString(c.NightClass.String()), nullString(c.BaseClass.String()),
			nullString(c.Window.String()), nullString(c.NoCloudClass.String()),
			nullString(c.Class.String()), nullCode(c.Class), nullString(ingest.QualityFlagsToJSON(c.QualityFlags)))
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert classification %s: %w", c.Timestamp.Format(time.RFC3339), err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ClassDistribution counts the final classes of a run per local month.
// Undefined classes are counted under the empty label.
func (s *Store) ClassDistribution(runID string) ([]models.ClassCount, error) {
	rows, err := s.db.Query(`
		SELECT local_month, COALESCE(class, ''), COUNT(*)
		FROM classifications
		WHERE run_id = ?
		GROUP BY local_month, COALESCE(class, '')
		ORDER BY local_month, COALESCE(class_code, 99)
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.ClassCount
	for rows.Next() {
		var cc models.ClassCount
		var month int
		if err := rows.Scan(&month, &cc.Class, &cc.Count); err != nil {
			return nil, err
		}
		cc.Month = time.Month(month)
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// CountClassifications returns the number of archived rows of a run.
func (s *Store) CountClassifications(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM classifications WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullCode(c stability.Class) sql.NullInt64 {
	if !c.Valid() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(c.Code()), Valid: true}
}
