package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/akterm/internal/export"
	"github.com/lox/akterm/internal/ingest"
	"github.com/lox/akterm/internal/pipeline"
	"github.com/lox/akterm/internal/report"
	"github.com/lox/akterm/internal/store"
	"github.com/lox/akterm/internal/sun"
)

type CLI struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`

	Run   RunCmd   `cmd:"" help:"Classify a year of DWD observations and write the AKTERM series."`
	Fetch FetchCmd `cmd:"" help:"Download a DWD product archive and extract it."`
	Sun   SunCmd   `cmd:"" help:"Print sunrise and sunset for a date range."`
	Runs  RunsCmd  `cmd:"" help:"List archived runs or show the class distribution of one run."`
}

type SiteFlags struct {
	Latitude  float64 `name:"lat" default:"48.1372" env:"AKTERM_LATITUDE" help:"Site latitude in degrees."`
	Longitude float64 `name:"lon" default:"11.5756" env:"AKTERM_LONGITUDE" help:"Site longitude in degrees."`
	Timezone  string  `name:"tz" default:"UTC" env:"AKTERM_TIMEZONE" help:"IANA timezone for local hours and dates."`
}

type RunCmd struct {
	SiteFlags `embed:""`

	Year    int    `required:"" env:"AKTERM_YEAR" help:"Target year."`
	Wind    string `required:"" type:"existingfile" env:"AKTERM_WIND_FILE" help:"DWD hourly wind product (FF)."`
	Cloud   string `required:"" type:"existingfile" env:"AKTERM_CLOUD_FILE" help:"DWD hourly cloudiness product (N)."`
	OutDir  string `default:"data/processed" env:"AKTERM_OUT_DIR" help:"Output root directory."`
	Project string `default:"muenchen_stadt" env:"AKTERM_PROJECT" help:"Project name, used as output subdirectory."`
	Workers int    `default:"0" env:"AKTERM_WORKERS" help:"Classification workers (0 uses all CPUs)."`
	DB      string `env:"AKTERM_DB" help:"SQLite database to archive the run in."`
	Metrics string `name:"metrics-file" env:"AKTERM_METRICS_FILE" help:"Write Prometheus metrics in textfile format."`
	Chart   string `env:"AKTERM_CHART" help:"Write a PNG of the monthly class distribution."`
	Title   string `name:"header-title" env:"AKTERM_HEADER_TITLE" help:"First AKTERM header line."`
	Station string `name:"header-station" env:"AKTERM_HEADER_STATION" help:"Second AKTERM header line."`
}

func (c *RunCmd) config() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Year = c.Year
	cfg.WindPath = c.Wind
	cfg.CloudPath = c.Cloud
	cfg.OutDir = c.OutDir
	cfg.Project = c.Project
	cfg.Latitude = c.Latitude
	cfg.Longitude = c.Longitude
	cfg.Timezone = c.Timezone
	cfg.Workers = c.Workers
	cfg.DBPath = c.DB
	cfg.MetricsFile = c.Metrics
	cfg.ChartPath = c.Chart
	if c.Title != "" {
		cfg.Header.Title = c.Title
	}
	if c.Station != "" {
		cfg.Header.Station = c.Station
	}
	return cfg
}

func (c *RunCmd) Run(ctx context.Context) error {
	runner, err := pipeline.NewRunner(c.config())
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d observations, %d undefined\n", res.RunID, res.Observations, res.Undefined)
	for _, p := range []string{res.DayNightCSV, res.ClassCSV, res.AKTERM, res.Assumptions, res.Chart, res.Metrics} {
		if p != "" {
			fmt.Println("  " + p)
		}
	}
	return nil
}

type FetchCmd struct {
	URL  string `required:"" help:"HTTP(S) or FTP URL of the product (zip archives are extracted)."`
	Dest string `default:"data/raw" env:"AKTERM_RAW_DIR" help:"Destination directory."`
}

func (c *FetchCmd) Run(ctx context.Context) error {
	path, err := ingest.NewFetcher(nil).Download(ctx, c.URL, c.Dest)
	if err != nil {
		return err
	}
	log.Printf("fetch: saved %s", path)
	fmt.Println(path)
	return nil
}

type SunCmd struct {
	SiteFlags `embed:""`

	From string `required:"" help:"First date (YYYY-MM-DD)."`
	To   string `help:"Last date (YYYY-MM-DD), defaults to --from."`
}

func (c *SunCmd) Run() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	from, err := time.ParseInLocation(time.DateOnly, c.From, loc)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to := from
	if c.To != "" {
		if to, err = time.ParseInLocation(time.DateOnly, c.To, loc); err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s", c.To, c.From)
	}

	calc := sun.NewCalculator(c.Latitude, c.Longitude, loc)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSUNRISE\tSUNSET\tSR (h)\tSS (h)")
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		st, err := calc.Times(d)
		if err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", d.Format(time.DateOnly))
			log.Printf("sun: %s: %v", d.Format(time.DateOnly), err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\n",
			d.Format(time.DateOnly),
			st.Sunrise.Format("15:04:05"),
			st.Sunset.Format("15:04:05"),
			sun.DecimalHours(st.Sunrise),
			sun.DecimalHours(st.Sunset))
	}
	return tw.Flush()
}

type RunsCmd struct {
	DB    string `required:"" env:"AKTERM_DB" help:"SQLite database."`
	Limit int    `default:"20" help:"Number of runs to list."`
	RunID string `name:"run" help:"Show the monthly class distribution of this run."`
	Chart string `help:"Render the distribution of --run to a PNG."`
}

func (c *RunsCmd) Run() error {
	st, err := store.Open(c.DB, time.UTC)
	if err != nil {
		return err
	}
	defer st.Close()

	if c.RunID != "" {
		return c.distribution(st)
	}

	runs, err := st.GetRuns(c.Limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tPROJECT\tYEAR\tSTARTED\tOBS\tUNDEFINED\tSTATUS")
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "failed"
			if r.ErrorMessage.Valid {
				status += ": " + r.ErrorMessage.String
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
			r.RunID, r.Project, r.Year, r.StartedAt.Format(time.DateTime),
			r.Observations.Int64, r.Undefined.Int64, status)
	}
	return tw.Flush()
}

func (c *RunsCmd) distribution(st *store.Store) error {
	run, err := st.GetRun(c.RunID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", c.RunID)
	}
	counts, err := st.ClassDistribution(c.RunID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tCLASS\tCOUNT")
	for _, cc := range counts {
		class := cc.Class
		if class == "" {
			class = export.ErrorMarker
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", cc.Month, class, cc.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if c.Chart == "" {
		return nil
	}
	d, err := report.FromCounts(counts)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Stability classes %d %s", run.Year, run.Project)
	if err := report.WriteChart(c.Chart, d, title); err != nil {
		return err
	}
	log.Printf("runs: wrote %s", c.Chart)
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("akterm"),
		kong.Description("VDI 3782 stability classes and AKTERM export from DWD hourly observations."),
		kong.UsageOnError(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(); err != nil {
		log.Fatalf("%s: %v", kctx.Command(), err)
	}
}
