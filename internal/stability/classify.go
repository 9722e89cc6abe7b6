package stability

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/lox/akterm/internal/metrics"
	"github.com/lox/akterm/internal/models"
	"github.com/lox/akterm/internal/sun"
)

// Result is everything derived for one observation.
type Result struct {
	IsDay        bool
	Sunrise      time.Time
	Sunset       time.Time
	DeltaSunrise float64 // hours
	DeltaSunset  float64 // hours

	WindBin         WindBin
	DayClass        Class
	NightClass      Class
	BaseClass       Class
	Window          Window
	TransitionClass Class

	// Set only when cloud cover is missing.
	NoCloudWindow NoCloudWindow
	NoCloudClass  Class

	Class       Class
	InvalidWind bool
}

// Classified pairs an observation with its result.
type Classified struct {
	models.Observation
	Result
}

// Classify derives the stability class of a single observation. st must be
// the sun events of the observation's local date. The only error is a
// *ValidationError for an observation without a usable timestamp.
func Classify(obs models.Observation, st sun.Times) (Result, error) {
	if obs.Timestamp.IsZero() && obs.Local.IsZero() {
		return Result{}, &ValidationError{Index: -1, StationID: obs.StationID, Raw: obs.RawTimestamp}
	}
	local := obs.Local
	if local.IsZero() {
		local = obs.Timestamp.In(st.Sunrise.Location())
	}

	r := Result{
		Sunrise:     st.Sunrise,
		Sunset:      st.Sunset,
		InvalidWind: obs.InvalidWind(),
	}

	wind := obs.WindSpeed
	if r.InvalidWind {
		wind = math.NaN()
	}
	cloud := math.NaN()
	if obs.Cloud.Valid {
		cloud = obs.Cloud.Float64
	}

	r.IsDay = IsDay(local, st)
	r.WindBin = NewWindBin(wind)
	r.DayClass = DayClass(r.WindBin, NewDayCloudBin(cloud))
	r.NightClass = NightClass(r.WindBin, NewNightCloudBin(cloud))
	r.BaseClass = BaseClass(r.IsDay, r.DayClass, r.NightClass)

	r.DeltaSunrise = hoursBetween(local, st.Sunrise)
	r.DeltaSunset = hoursBetween(local, st.Sunset)
	r.Window = TransitionWindow(r.DeltaSunrise, r.DeltaSunset)
	r.TransitionClass = ResolveTransition(r.NightClass, r.DayClass, r.Window, r.BaseClass, local.Month(), wind, cloud)

	class := r.TransitionClass
	if math.IsNaN(cloud) {
		r.NoCloudWindow = FallbackWindow(r.DeltaSunrise, r.DeltaSunset)
		r.NoCloudClass = FallbackClass(NewNoCloudWindBin(wind), r.NoCloudWindow)
		class = r.NoCloudClass
	}

	class = ApplySeasonal(class, local.Month(), local.Hour(), wind, cloud)
	if r.InvalidWind {
		class = ClassUndefined
	}
	r.Class = class
	return r, nil
}

// Classifier classifies batches of observations concurrently.
type Classifier struct {
	cache    *sun.Cache
	workers  int
	classify func(models.Observation, sun.Times) (Result, error)
}

// NewClassifier returns a classifier backed by cache. workers <= 0 uses
// GOMAXPROCS.
func NewClassifier(cache *sun.Cache, workers int) *Classifier {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Classifier{cache: cache, workers: workers, classify: Classify}
}

// ClassifyBatch validates every timestamp, computes sun events once per local
// date and classifies all observations. The output order matches the input.
// The batch fails as a whole on the first invalid timestamp.
func (c *Classifier) ClassifyBatch(ctx context.Context, obs []models.Observation) ([]Classified, error) {
	locals := make([]time.Time, len(obs))
	for i, o := range obs {
		switch {
		case !o.Local.IsZero():
			locals[i] = o.Local
		case !o.Timestamp.IsZero():
			locals[i] = o.Timestamp.In(c.cache.Location())
		default:
			metrics.ValidationFailures.Inc()
			return nil, &ValidationError{Index: i, StationID: o.StationID, Raw: o.RawTimestamp}
		}
	}

	if _, err := c.cache.Precompute(locals); err != nil {
		return nil, fmt.Errorf("sun times: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]Classified, len(obs))
	jobs := make(chan int, c.workers*4)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	// The first error stops feeding and makes workers drain the queue.
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				o := obs[i]
				o.Local = locals[i]
				st, err := c.cache.Get(o.Local)
				if err != nil {
					fail(fmt.Errorf("sun times for %s: %w", o.Local.Format(time.DateOnly), err))
					continue
				}
				r, err := c.classify(o, st)
				if err != nil {
					fail(err)
					continue
				}
				out[i] = Classified{Observation: o, Result: r}
			}
		}()
	}

feed:
	for i := range obs {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		select {
		case <-ctx.Done():
			fail(ctx.Err())
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	for _, cl := range out {
		metrics.ObservationsClassified.WithLabelValues(classMetricLabel(cl.Class)).Inc()
	}
	return out, nil
}

func classMetricLabel(c Class) string {
	if !c.Valid() {
		return "undefined"
	}
	return c.String()
}
