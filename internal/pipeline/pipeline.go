// Package pipeline runs the batch: load and merge DWD products, classify,
// and write every output of a year.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lox/akterm/internal/export"
	"github.com/lox/akterm/internal/ingest"
	"github.com/lox/akterm/internal/metrics"
	"github.com/lox/akterm/internal/models"
	"github.com/lox/akterm/internal/report"
	"github.com/lox/akterm/internal/stability"
	"github.com/lox/akterm/internal/store"
	"github.com/lox/akterm/internal/sun"
)

// Result lists what a run produced.
type Result struct {
	RunID        string
	Observations int
	Undefined    int
	Records      int // AKTERM records written

	DayNightCSV string
	ClassCSV    string
	AKTERM      string
	Assumptions string
	Chart       string
	Metrics     string
}

// Runner executes pipeline runs for one configuration.
type Runner struct {
	cfg      Config
	loc      *time.Location
	newRunID func() string
}

func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, loc: loc, newRunID: uuid.NewString}, nil
}

// Run executes the pipeline. When a database is configured the run and its
// classifications are archived, including failed runs.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: r.newRunID()}
	log.Printf("run: %s year=%d project=%s tz=%s", res.RunID, r.cfg.Year, r.cfg.Project, r.cfg.Timezone)

	var (
		st  *store.Store
		run *models.Run
	)
	if r.cfg.DBPath != "" {
		var err error
		if st, err = store.Open(r.cfg.DBPath, r.loc); err != nil {
			return nil, err
		}
		defer st.Close()

		run, err = st.StartRun(models.Run{
			RunID:     res.RunID,
			Project:   r.cfg.Project,
			Year:      r.cfg.Year,
			Latitude:  r.cfg.Latitude,
			Longitude: r.cfg.Longitude,
			Timezone:  r.cfg.Timezone,
			WindPath:  sql.NullString{String: r.cfg.WindPath, Valid: true},
			CloudPath: sql.NullString{String: r.cfg.CloudPath, Valid: true},
		})
		if err != nil {
			return nil, err
		}
	}

	rows, err := r.execute(ctx, res)

	if st != nil {
		if err == nil {
			var n int
			if n, err = st.InsertClassifications(res.RunID, rows); err == nil {
				log.Printf("store: archived %d classifications", n)
			}
		}
		run.Observations = sql.NullInt64{Int64: int64(res.Observations), Valid: true}
		run.Undefined = sql.NullInt64{Int64: int64(res.Undefined), Valid: true}
		if cerr := st.CompleteRun(run, err); cerr != nil {
			log.Printf("store: complete run %s: %v", res.RunID, cerr)
		}
	}

	if r.cfg.MetricsFile != "" {
		if merr := metrics.WriteTextfile(r.cfg.MetricsFile); merr != nil {
			log.Printf("run: write metrics: %v", merr)
		} else {
			res.Metrics = r.cfg.MetricsFile
		}
	}

	if err != nil {
		return nil, err
	}
	log.Printf("run: %s done, %d observations, %d undefined, %d akterm records",
		res.RunID, res.Observations, res.Undefined, res.Records)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, res *Result) ([]stability.Classified, error) {
	if err := r.checkInputs(); err != nil {
		return nil, err
	}
	dir := r.cfg.ProjectDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	start := time.Now()
	obs, err := ingest.LoadAndMerge(r.cfg.WindPath, r.cfg.CloudPath, r.cfg.Year, r.loc)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	metrics.RunDuration.WithLabelValues("load").Observe(time.Since(start).Seconds())
	log.Printf("run: %d merged observations", len(obs))

	start = time.Now()
	cache := sun.NewCache(sun.NewCalculator(r.cfg.Latitude, r.cfg.Longitude, r.loc))
	rows, err := stability.NewClassifier(cache, r.cfg.Workers).ClassifyBatch(ctx, obs)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	metrics.RunDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	log.Printf("run: classified %d observations over %d dates", len(rows), cache.Len())

	res.Observations = len(rows)
	for _, c := range rows {
		if !c.Class.Valid() {
			res.Undefined++
		}
	}

	start = time.Now()
	if err := r.writeOutputs(dir, rows, res); err != nil {
		return nil, err
	}
	metrics.RunDuration.WithLabelValues("export").Observe(time.Since(start).Seconds())
	return rows, nil
}

func (r *Runner) checkInputs() error {
	for _, p := range []string{r.cfg.WindPath, r.cfg.CloudPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("input: %w", err)
		}
	}
	return nil
}

func (r *Runner) writeOutputs(dir string, rows []stability.Classified, res *Result) error {
	year := r.cfg.Year

	res.DayNightCSV = filepath.Join(dir, export.DayNightFileName(year))
	if err := export.WriteCSVFile(res.DayNightCSV, rows, export.WriteDayNightCSV); err != nil {
		return err
	}

	res.ClassCSV = filepath.Join(dir, export.ClassFileName(year))
	if err := export.WriteCSVFile(res.ClassCSV, rows, export.WriteClassCSV); err != nil {
		return err
	}

	res.AKTERM = filepath.Join(dir, export.AKTERMFileName(year, r.cfg.Project))
	n, err := export.WriteAKTERMFile(res.AKTERM, rows, year, r.cfg.Header)
	if err != nil {
		return err
	}
	res.Records = n

	res.Assumptions = filepath.Join(dir, export.AssumptionsFileName)
	a := export.NewAssumptions(export.RunInfo{
		RunID:     res.RunID,
		Year:      year,
		Project:   r.cfg.Project,
		Latitude:  r.cfg.Latitude,
		Longitude: r.cfg.Longitude,
		Timezone:  r.cfg.Timezone,
	})
	if err := export.WriteAssumptionsFile(res.Assumptions, a); err != nil {
		return err
	}

	if r.cfg.ChartPath != "" {
		title := fmt.Sprintf("Stability classes %d %s", year, r.cfg.Project)
		if err := report.WriteChart(r.cfg.ChartPath, report.Tally(rows), title); err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		res.Chart = r.cfg.ChartPath
	}
	return nil
}
