package autoarima

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mashuzza/DTSA-5301/sarima"
	"github.com/mashuzza/DTSA-5301/stats"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

// Candidate records one fitted (or failed) model of the search.
type Candidate struct {
	Order    sarima.Order
	Constant bool
	Score    float64
	Err      error
}

// Result represents the outcome of the automatic order search.
type Result struct {
	Model     *sarima.Model
	Order     sarima.Order
	Constant  bool
	Criterion string
	Score     float64

	// ModelsEvaluated counts all candidate fits across differencing plans.
	ModelsEvaluated int
	// ModelsFailed counts the candidates that did not converge.
	ModelsFailed int
	// Candidates lists every candidate in evaluation order.
	Candidates []Candidate
}

// Forecast forecasts h steps ahead with the selected model.
func (r *Result) Forecast(h int) (*sarima.ForecastResult, error) {
	return r.Model.Forecast(h)
}

// Search selects a SARIMA order for the series by minimising the configured
// information criterion.
//
// The seasonal difference D comes from the seasonal strength and the regular
// difference d from a unit root test on the seasonally differenced series.
// Those orders are a heuristic: when no candidate converges under them, the
// neighbouring plans (d+1, D), (d-1, D) and (d, 1-D) are searched in turn.
func Search(ctx context.Context, series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg, err := config.validate()
	if err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	m := 0
	if cfg.Seasonal {
		m = cfg.SeasonalM
		if series.Len() < 2*m {
			return nil, &stats.InsufficientDataError{Op: "seasonal order search", Length: series.Len(), Required: 2 * m}
		}
	}

	d, sd, err := chooseDifferencing(series, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Info("differencing chosen", "d", d, "D", sd, "test", cfg.StationTest)

	s := &searcher{cfg: cfg, series: series, m: m}
	var last error
	for _, plan := range differencingPlans(d, sd, cfg) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		best, err := s.run(ctx, plan)
		if err != nil {
			return nil, err
		}
		if best != nil {
			cfg.Logger.Info("model selected",
				"order", best.order.String(),
				"constant", best.spec.constant,
				"criterion", cfg.Criterion,
				"score", best.score,
				"models", len(s.trace),
			)
			return s.result(best), nil
		}
		if f := s.lastFailure(); f != nil {
			last = f
		}
		cfg.Logger.Warn("no converging model for differencing plan", "d", plan.d, "D", plan.sd)
	}

	return nil, &NoConvergingModelError{Attempts: len(s.trace), Last: last}
}

// chooseDifferencing picks D with the seasonal strength test and d with the
// unit root test on the seasonally differenced series.
func chooseDifferencing(series *timeseries.Series, cfg *Config) (d, sd int, err error) {
	x := series
	if cfg.Seasonal && cfg.MaxSD > 0 {
		sd = stats.NSDiffs(series, cfg.SeasonalM, cfg.MaxSD)
		if sd > 0 {
			x, err = stats.Difference(series, 0, sd, cfg.SeasonalM)
			if err != nil {
				return 0, 0, err
			}
		}
	}
	d = stats.NDiffs(x, min(cfg.MaxD, 2-sd), cfg.StationTest)
	return d, sd, nil
}

type plan struct {
	d, sd int
}

// differencingPlans returns the heuristic plan followed by its valid
// neighbours, without duplicates.
func differencingPlans(d, sd int, cfg *Config) []plan {
	candidates := []plan{{d, sd}, {d + 1, sd}, {d - 1, sd}}
	if cfg.Seasonal {
		candidates = append(candidates, plan{d, 1 - sd})
	}

	var plans []plan
	seen := make(map[plan]bool)
	for _, p := range candidates {
		if p.d < 0 || p.d > cfg.MaxD || p.sd < 0 || p.sd > cfg.MaxSD || p.d+p.sd > 2 || seen[p] {
			continue
		}
		seen[p] = true
		plans = append(plans, p)
	}
	return plans
}

// spec identifies a candidate within one differencing plan.
type spec struct {
	p, q, sp, sq int
	constant     bool
}

func (s spec) key() string {
	c := 0
	if s.constant {
		c = 1
	}
	return fmt.Sprintf("%d,%d,%d,%d,%d", s.p, s.q, s.sp, s.sq, c)
}

func (s spec) numParams() int {
	k := s.p + s.q + s.sp + s.sq + 1
	if s.constant {
		k++
	}
	return k
}

type evaluation struct {
	spec  spec
	order sarima.Order
	model *sarima.Model
	score float64
	err   error
}

func (e *evaluation) ok() bool {
	return e.err == nil
}

// better is the total order of the search: score, then parameter count, then key.
func better(a, b *evaluation) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	if ka, kb := a.spec.numParams(), b.spec.numParams(); ka != kb {
		return ka < kb
	}
	return a.spec.key() < b.spec.key()
}

type searcher struct {
	cfg    *Config
	series *timeseries.Series
	m      int

	// per plan
	plan   plan
	cache  map[string]*evaluation
	fitted int

	trace []*evaluation
}

// run searches one differencing plan and returns its best converging
// candidate, or nil when none converged.
func (s *searcher) run(ctx context.Context, p plan) (*evaluation, error) {
	s.plan = p
	s.cache = make(map[string]*evaluation)
	s.fitted = 0

	if s.cfg.Stepwise {
		return s.stepwise(ctx)
	}
	return s.grid(ctx)
}

func (s *searcher) stepwise(ctx context.Context) (*evaluation, error) {
	starts := []spec{
		{p: 2, q: 2, sp: 1, sq: 1, constant: true},
		{constant: true},
		{p: 1, sp: 1, constant: true},
		{q: 1, sq: 1, constant: true},
		{},
	}
	evals, err := s.evaluate(ctx, starts)
	if err != nil {
		return nil, err
	}
	best := pickBest(nil, evals)

	for best != nil && s.fitted < s.cfg.MaxModels {
		evals, err := s.evaluate(ctx, s.neighbours(best.spec))
		if err != nil {
			return nil, err
		}
		next := pickBest(best, evals)
		if next == best {
			break
		}
		s.cfg.Logger.Debug("stepwise move", "from", best.spec.key(), "to", next.spec.key(), "score", next.score)
		best = next
	}
	return best, nil
}

func (s *searcher) grid(ctx context.Context) (*evaluation, error) {
	var specs []spec
	for p := 0; p <= s.cfg.MaxP; p++ {
		for q := 0; q <= s.cfg.MaxQ; q++ {
			for sp := 0; sp <= s.cfg.MaxSP; sp++ {
				for sq := 0; sq <= s.cfg.MaxSQ; sq++ {
					if p+q+sp+sq > s.cfg.MaxOrder {
						continue
					}
					specs = append(specs, spec{p: p, q: q, sp: sp, sq: sq, constant: true}, spec{p: p, q: q, sp: sp, sq: sq})
				}
			}
		}
	}
	evals, err := s.evaluate(ctx, specs)
	if err != nil {
		return nil, err
	}
	return pickBest(nil, evals), nil
}

// pickBest returns the best converging evaluation, starting from current.
func pickBest(current *evaluation, evals []*evaluation) *evaluation {
	best := current
	for _, e := range evals {
		if e.ok() && (best == nil || better(e, best)) {
			best = e
		}
	}
	return best
}

func (s *searcher) neighbours(c spec) []spec {
	return []spec{
		{c.p + 1, c.q, c.sp, c.sq, c.constant},
		{c.p - 1, c.q, c.sp, c.sq, c.constant},
		{c.p, c.q + 1, c.sp, c.sq, c.constant},
		{c.p, c.q - 1, c.sp, c.sq, c.constant},
		{c.p, c.q, c.sp + 1, c.sq, c.constant},
		{c.p, c.q, c.sp - 1, c.sq, c.constant},
		{c.p, c.q, c.sp, c.sq + 1, c.constant},
		{c.p, c.q, c.sp, c.sq - 1, c.constant},
		{c.p, c.q, c.sp, c.sq, !c.constant},
	}
}

// normalize maps a spec onto the plan, or reports false when it is outside
// the search space.
func (s *searcher) normalize(c spec) (spec, bool) {
	if c.p < 0 || c.q < 0 || c.sp < 0 || c.sq < 0 ||
		c.p > s.cfg.MaxP || c.q > s.cfg.MaxQ {
		return c, false
	}
	if !s.cfg.Seasonal {
		c.sp, c.sq = 0, 0
	} else if c.sp > s.cfg.MaxSP || c.sq > s.cfg.MaxSQ {
		return c, false
	}
	if c.constant && !s.constantAllowed() {
		c.constant = false
	}
	return c, true
}

func (s *searcher) constantAllowed() bool {
	switch s.plan.d + s.plan.sd {
	case 0:
		return true
	case 1:
		return s.cfg.AllowDrift
	default:
		return false
	}
}

func (s *searcher) sarimaOrder(c spec) sarima.Order {
	o := sarima.Order{P: c.p, D: s.plan.d, Q: c.q, SP: c.sp, SD: s.plan.sd, SQ: c.sq}
	if s.cfg.Seasonal {
		o.M = s.m
	}
	return o
}

// evaluate fits the new candidates among specs concurrently and returns the
// evaluations of all valid specs in input order. Cached candidates are not
// refitted; candidates beyond the model budget are dropped.
func (s *searcher) evaluate(ctx context.Context, specs []spec) ([]*evaluation, error) {
	var out, pending []*evaluation
	for _, raw := range specs {
		c, ok := s.normalize(raw)
		if !ok {
			continue
		}
		if e, ok := s.cache[c.key()]; ok {
			out = append(out, e)
			continue
		}
		if s.fitted >= s.cfg.MaxModels {
			continue
		}
		e := &evaluation{spec: c, order: s.sarimaOrder(c)}
		s.cache[c.key()] = e
		s.fitted++
		pending = append(pending, e)
		out = append(out, e)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, e := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.fit(e)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, e := range pending {
		s.trace = append(s.trace, e)
		if e.ok() {
			s.cfg.Logger.Debug("candidate fitted", "order", e.order.String(), "constant", e.spec.constant, "score", e.score)
		} else {
			s.cfg.Logger.Debug("candidate failed", "order", e.order.String(), "constant", e.spec.constant, "error", e.err)
		}
	}
	return out, nil
}

// fit estimates one candidate. It only writes to e.
func (s *searcher) fit(e *evaluation) {
	model, err := sarima.Fit(s.series, e.order, &sarima.FitOptions{IncludeConstant: e.spec.constant})
	if err != nil {
		e.err = err
		return
	}
	score := criterion(model, s.cfg.Criterion)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		e.err = errNonFiniteCriterion
		return
	}
	e.model = model
	e.score = score
}

func criterion(model *sarima.Model, name string) float64 {
	switch name {
	case "aic":
		return model.AIC
	case "bic":
		return model.BIC
	default:
		return model.AICc
	}
}

func (s *searcher) lastFailure() error {
	for i := len(s.trace) - 1; i >= 0; i-- {
		if s.trace[i].err != nil {
			return s.trace[i].err
		}
	}
	return nil
}

func (s *searcher) result(best *evaluation) *Result {
	r := &Result{
		Model:     best.model,
		Order:     best.model.Order,
		Constant:  best.spec.constant,
		Criterion: s.cfg.Criterion,
		Score:     best.score,
	}
	for _, e := range s.trace {
		c := Candidate{Order: e.order, Constant: e.spec.constant, Score: e.score, Err: e.err}
		if e.err != nil {
			r.ModelsFailed++
			c.Score = math.Inf(1)
		}
		r.Candidates = append(r.Candidates, c)
	}
	r.ModelsEvaluated = len(s.trace)
	return r
}

// Ranked returns the converged candidates sorted best first under the
// search's total order.
func (r *Result) Ranked() []Candidate {
	var ranked []Candidate
	for _, c := range r.Candidates {
		if c.Err == nil {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return better(ranked[i].evaluation(), ranked[j].evaluation())
	})
	return ranked
}

func (c Candidate) evaluation() *evaluation {
	o := c.Order
	return &evaluation{
		spec:  spec{p: o.P, q: o.Q, sp: o.SP, sq: o.SQ, constant: c.Constant},
		order: o,
		score: c.Score,
	}
}
