package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tether/pkg/buildinfo"
	"github.com/matzehuels/tether/pkg/cache"
)

// Report is the outcome of a scenario run. It only depends on the
// scenario and the engine version, so it can be cached.
type Report struct {
	Name          string       `json:"name"`
	ScenarioHash  string       `json:"scenario_hash"`
	EngineVersion string       `json:"engine_version"`
	Steps         []StepReport `json:"steps"`
}

// Final returns the report of the last step.
func (r *Report) Final() StepReport {
	if len(r.Steps) == 0 {
		return StepReport{Candidate: -1}
	}
	return r.Steps[len(r.Steps)-1]
}

// Result is a Report plus per-run information.
type Result struct {
	RunID    string        `json:"run_id"`
	Report   *Report       `json:"report"`
	CacheHit bool          `json:"cache_hit"`
	Duration time.Duration `json:"duration"`
}

// RunOptions controls a single run.
type RunOptions struct {
	// Refresh ignores cached reports.
	Refresh bool
}

// Runner executes scenarios with caching. It keeps no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer
// uses DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Run validates sc, then returns its cached report or replays it.
func (r *Runner) Run(ctx context.Context, sc *Scenario, opts RunOptions) (*Result, error) {
	start := time.Now()
	if err := sc.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", res.RunID[:8], "scenario", sc.Name)

	hash := sc.Hash()
	key := r.Keyer.ReportKey(hash, cache.ReportKeyOpts{
		EngineVersion: buildinfo.Short(),
		Validation:    sc.Strategy.Validation,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rep Report
			if err := json.Unmarshal(data, &rep); err == nil {
				res.Report = &rep
				res.CacheHit = true
				res.Duration = time.Since(start)
				logger.Debug("report cache hit", "key", key)
				return res, nil
			}
		} else if err != nil {
			logger.Warn("cache read failed", "err", err)
		}
	}

	rep, err := r.replay(sc, hash, logger)
	if err != nil {
		return nil, err
	}
	res.Report = rep
	res.Duration = time.Since(start)

	if data, err := json.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.ReportTTL); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}

	final := rep.Final()
	logger.Info("scenario replayed",
		"steps", len(rep.Steps),
		"candidate", final.Candidate,
		"mode", final.Mode,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) replay(sc *Scenario, hash string, logger *log.Logger) (*Report, error) {
	st, err := NewStage(sc, logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	rep := &Report{
		Name:          sc.Name,
		ScenarioHash:  hash,
		EngineVersion: buildinfo.Short(),
		Steps:         make([]StepReport, 0, len(sc.Steps)),
	}
	for i, step := range sc.Steps {
		rep.Steps = append(rep.Steps, st.Do(i, step))
	}
	return rep, nil
}

// String summarizes a step for logs and terminals.
func (s StepReport) String() string {
	if s.Error != "" {
		return fmt.Sprintf("#%d %s: %s", s.Index, s.Action, s.Error)
	}
	if s.Position == nil {
		return fmt.Sprintf("#%d %s: no position", s.Index, s.Action)
	}
	return fmt.Sprintf("#%d %s: candidate %d (%s) at %g,%g %gx%g",
		s.Index, s.Action, s.Candidate, s.Mode,
		s.Overlay.Left, s.Overlay.Top, s.Overlay.Width, s.Overlay.Height)
}
