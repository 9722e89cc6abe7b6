package store

import (
	"database/sql"
	"fmt"

	"github.com/lox/akterm/internal/models"
)

// StartRun records the start of a pipeline run and returns it with its row id.
func (s *Store) StartRun(run models.Run) (*models.Run, error) {
	run.StartedAt = s.clock.Now().UTC()
	run.Success = false

	result, err := s.db.Exec(`
		INSERT INTO runs (run_id, project, year, latitude, longitude, timezone, wind_path, cloud_path, started_at, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE)
	`, run.RunID, run.Project, run.Year, run.Latitude, run.Longitude, run.Timezone, run.WindPath, run.CloudPath, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// CompleteRun stores the outcome of a run. A nil runErr marks it successful.
func (s *Store) CompleteRun(run *models.Run, runErr error) error {
	if run == nil {
		return nil
	}

	run.FinishedAt = sql.NullTime{Time: s.clock.Now().UTC(), Valid: true}
	run.Success = runErr == nil
	if runErr != nil {
		run.ErrorMessage = sql.NullString{String: runErr.Error(), Valid: true}
	}

	_, err := s.db.Exec(`
		UPDATE runs SET
			finished_at = ?,
			observations = ?,
			undefined = ?,
			success = ?,
			error_message = ?
		WHERE id = ?
	`, run.FinishedAt, run.Observations, run.Undefined, run.Success, run.ErrorMessage, run.ID)
	return err
}

const runColumns = `id, run_id, project, year, latitude, longitude, timezone, wind_path, cloud_path,
	started_at, finished_at, observations, undefined, success, error_message`

func scanRun(sc interface{ Scan(...any) error }) (models.Run, error) {
	var r models.Run
	err := sc.Scan(&r.ID, &r.RunID, &r.Project, &r.Year, &r.Latitude, &r.Longitude, &r.Timezone,
		&r.WindPath, &r.CloudPath, &r.StartedAt, &r.FinishedAt, &r.Observations, &r.Undefined,
		&r.Success, &r.ErrorMessage)
	return r, err
}

// GetRuns returns the most recent runs, newest first.
func (s *Store) GetRuns(limit int) ([]models.Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a run by its run id, or nil when it does not exist.
func (s *Store) GetRun(runID string) (*models.Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
