// Package engine drives the estimation workflow: it invokes the property
// oracle, races its completion against a possible handoff signal under one
// bounded wait, and routes the outcome through scoring, aggregation, ARV,
// and allowance to a final estimate, or to a pending "needs more input"
// result when the address is ambiguous and the caller supplied nothing yet.
//
// State machine per call:
//
//	Start → OracleInvoked → {SpecificResolved | HandoffEmitted}
//	      → {PendingInput (terminal) | Final (terminal)}
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renovalab/renovest/internal/config"
	"github.com/renovalab/renovest/internal/handoff"
	"github.com/renovalab/renovest/internal/oracle"
	"github.com/renovalab/renovest/internal/property"
	"github.com/renovalab/renovest/internal/scoring"
	"github.com/renovalab/renovest/internal/valuation"
)

// fallbackCurrentValue stands in for a resolved property whose record lacks
// a current value. It keeps the specific-property path total rather than
// failing a request the oracle answered.
const fallbackCurrentValue = 250000

// Logger records workflow progress. It matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Engine is the workflow orchestrator.
type Engine struct {
	oracle      oracle.Oracle
	scorer      *scoring.Scorer
	aggregator  *valuation.Aggregator
	calculator  *valuation.Calculator
	arvParams   valuation.ARVParams
	allowance   valuation.AllowanceParams
	assumptions handoff.Assumptions
	timeout     time.Duration
	logger      Logger
}

// Option customizes the engine instance.
type Option func(*Engine)

// WithLogger injects a workflow logger.
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeout overrides the bounded wait ceiling.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithClock injects a deterministic clock for the ARV age adjustment
// (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.calculator = valuation.NewCalculator(e.arvParams, valuation.WithClock(clock))
	}
}

// New wires an engine to a property oracle using the project configuration.
func New(propertyOracle oracle.Oracle, project config.ProjectConfig, opts ...Option) (*Engine, error) {
	if propertyOracle == nil {
		return nil, fmt.Errorf("engine: property oracle is required")
	}
	e := &Engine{
		oracle:      propertyOracle,
		scorer:      scoring.New(project.Scoring),
		aggregator:  valuation.NewAggregator(project.Aggregate),
		calculator:  valuation.NewCalculator(project.ARV),
		arvParams:   project.ARV,
		allowance:   project.Allowance,
		assumptions: project.Oracle.DefaultAssumptions,
		timeout:     time.Duration(project.Oracle.TimeoutSeconds) * time.Second,
		logger:      nopLogger{},
	}
	if e.timeout <= 0 {
		e.timeout = 10 * time.Second
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type lookupOutcome struct {
	result oracle.Result
	err    error
}

// Estimate runs one estimation call end to end. The only blocking point is
// the race between oracle completion and handoff emission; every stage after
// the branch decision is synchronous pure arithmetic. The oracle goroutine
// is never cancelled when it loses the race; it finishes in the background
// for logging, but its late result is not awaited further.
func (e *Engine) Estimate(ctx context.Context, req Request) (Result, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return Result{}, ErrInvalidInput
	}
	if ctx == nil {
		ctx = context.Background()
	}

	run := &estimationRun{
		id:      uuid.NewString(),
		address: address,
		request: req,
		trace:   []State{StateStart, StateOracleInvoked},
	}
	e.logger.Printf("engine: run %s: lookup %q (follow_up=%t)", run.id, address, req.FollowUp)

	signals := handoff.NewEmitter()
	results := make(chan lookupOutcome, 1)
	go func() {
		res, err := e.oracle.Lookup(ctx, address, signals)
		if err != nil {
			e.logger.Printf("engine: run %s: oracle completed with error: %v", run.id, err)
		} else {
			e.logger.Printf("engine: run %s: oracle completed (%s, %d candidates)", run.id, res.Kind, len(res.Candidates))
		}
		results <- lookupOutcome{result: res, err: err}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case out := <-results:
		return e.fromOracleResult(run, out)
	case sig := <-signals.Signal():
		return e.fromHandoffSignal(run, sig, results, timer)
	case <-timer.C:
		return Result{}, fmt.Errorf("%w (waited %s for %q)", ErrOracleTimeout, e.timeout, address)
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (e *Engine) fromOracleResult(run *estimationRun, out lookupOutcome) (Result, error) {
	if out.err != nil {
		return Result{}, fmt.Errorf("engine: oracle lookup for %q: %w", run.address, out.err)
	}
	if err := out.result.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", oracle.ErrMalformedOutput, err)
	}
	switch out.result.Kind {
	case oracle.KindSpecific:
		run.push(StateSpecificResolved)
		return e.finalizeSpecific(run, *out.result.Property)
	default:
		run.push(StateHandoffEmitted)
		return e.resolveAmbiguous(run, *out.result.Handoff, out.result.Candidates)
	}
}

// fromHandoffSignal handles the branch where the side-channel signal wins
// the race. Without caller details the call pauses immediately; with them,
// the same single deadline keeps running while we await the oracle's
// candidate list.
func (e *Engine) fromHandoffSignal(run *estimationRun, sig handoff.Request, results <-chan lookupOutcome, timer *time.Timer) (Result, error) {
	run.push(StateHandoffEmitted)
	e.logger.Printf("engine: run %s: handoff signal %s (%s)", run.id, sig.EventID, sig.Reason)

	if run.request.Details.Empty() && !run.request.FollowUp {
		// Candidates may already have landed; take them if so, but never
		// wait. The pause response must be prompt.
		var neighbours []property.Record
		select {
		case out := <-results:
			if out.err == nil {
				neighbours = out.result.Candidates
			}
		default:
		}
		return run.pending(sig, neighbours), nil
	}

	select {
	case out := <-results:
		if out.err != nil {
			return Result{}, fmt.Errorf("engine: oracle lookup for %q: %w", run.address, out.err)
		}
		if out.result.Kind == oracle.KindSpecific {
			run.push(StateSpecificResolved)
			return e.finalizeSpecific(run, *out.result.Property)
		}
		return e.resolveAmbiguous(run, sig, out.result.Candidates)
	case <-timer.C:
		return Result{}, fmt.Errorf("%w (handoff received but candidates never arrived for %q)", ErrOracleTimeout, run.address)
	}
}

func (e *Engine) resolveAmbiguous(run *estimationRun, sig handoff.Request, candidates []property.Record) (Result, error) {
	if run.request.Details.Empty() && !run.request.FollowUp {
		run.push(StatePendingInput)
		return run.pending(sig, candidates), nil
	}
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("%w (no neighbouring records for %q)", valuation.ErrNoComparables, run.address)
	}

	target := matchTarget(run.request.Details, sig.DefaultAssumptions, e.assumptions)
	scored := e.scorer.Score(candidates, target)
	agg, err := e.aggregator.Aggregate(scored, run.address)
	if err != nil {
		return Result{}, fmt.Errorf("engine: aggregate comparables for %q: %w", run.address, err)
	}

	// Year built and property type come from the strongest comparable; the
	// caller-supplied (or assumed) dimensions drive the rest of the ARV math.
	best := agg.Comparables[0].Record
	input := valuation.ARVInput{
		LivingArea:   target.SquareFootage,
		Bedrooms:     target.Bedrooms,
		Bathrooms:    target.Bathrooms,
		YearBuilt:    best.YearBuilt,
		PropertyType: best.PropertyType,
		Address:      run.address,
	}
	arv := e.calculator.Compute(agg.CurrentValue, input)
	allowance := valuation.Allowance(arv.Value, agg.CurrentValue, e.allowance)

	run.push(StateFinal)
	e.logger.Printf("engine: run %s: final via %s (chv=%.0f arv=%.0f allowance=%.0f)",
		run.id, agg.Method, agg.CurrentValue, arv.Value, allowance)

	res := run.finalResult(agg.CurrentValue, arv, allowance, input, e.allowance, MethodNeighbouringProperties, chvFormula(agg))
	res.Comparables = Comparables{
		Renovated: scoredRecords(agg.Comparables),
		AsIs:      valuedRecords(candidates),
	}
	res.AgentData.NeighbouringProperties = candidates
	res.AgentData.MatchingProperties = scored
	return res, nil
}

func (e *Engine) finalizeSpecific(run *estimationRun, rec property.Record) (Result, error) {
	chv := float64(fallbackCurrentValue)
	chvDesc := fmt.Sprintf("CHV = fixed fallback value %d (resolved record carried no current value)", fallbackCurrentValue)
	if rec.HasValue() {
		chv = *rec.CurrentValue
		chvDesc = "CHV = current value of the resolved property"
	}
	input := valuation.ARVInput{
		LivingArea:   rec.LivingArea,
		Bedrooms:     rec.Bedrooms,
		Bathrooms:    rec.Bathrooms,
		YearBuilt:    rec.YearBuilt,
		PropertyType: rec.PropertyType,
		Address:      run.address,
	}
	arv := e.calculator.Compute(chv, input)
	allowance := valuation.Allowance(arv.Value, chv, e.allowance)

	run.push(StateFinal)
	e.logger.Printf("engine: run %s: final via specific property (chv=%.0f arv=%.0f allowance=%.0f)",
		run.id, chv, arv.Value, allowance)

	res := run.finalResult(chv, arv, allowance, input, e.allowance, MethodSpecificProperty, chvDesc)
	res.Comparables = Comparables{
		Renovated: []property.Record{rec},
		AsIs:      []property.Record{rec},
	}
	res.AgentData.NeighbouringProperties = []property.Record{rec}
	return res, nil
}

// estimationRun accumulates per-call state for result assembly.
type estimationRun struct {
	id      string
	address string
	request Request
	trace   []State
}

func (r *estimationRun) push(s State) {
	r.trace = append(r.trace, s)
}

func (r *estimationRun) pending(sig handoff.Request, neighbours []property.Record) Result {
	if len(r.trace) == 0 || r.trace[len(r.trace)-1] != StatePendingInput {
		r.push(StatePendingInput)
	}
	sigCopy := sig
	return Result{
		RunID:             r.id,
		PropertyAddress:   r.address,
		HandoffEvent:      &sigCopy,
		RequiresUserInput: true,
		CalculationDetails: CalculationDetails{
			CalculationMethod: MethodNeighbouringProperties,
		},
		AgentData: AgentData{
			NeighbouringProperties: neighbours,
			AgentWorkflow:          r.trace,
		},
	}
}

func (r *estimationRun) finalResult(chv float64, arv valuation.ARV, allowance float64, input valuation.ARVInput, ap valuation.AllowanceParams, method, chvDesc string) Result {
	details := PropertyDetails{
		ListPrice:    chv,
		PropertyType: input.PropertyType,
	}
	if input.LivingArea != nil {
		details.LivingArea = *input.LivingArea
	}
	if input.Bedrooms != nil {
		details.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		details.Bathrooms = *input.Bathrooms
	}
	if input.YearBuilt != nil {
		details.YearBuilt = *input.YearBuilt
	}
	return Result{
		RunID:               r.id,
		PropertyAddress:     r.address,
		ARV:                 arv.Value,
		CHV:                 chv,
		RenovationAllowance: allowance,
		PropertyDetails:     details,
		CalculationDetails: CalculationDetails{
			ARVFormula:        fmt.Sprintf("ARV = CHV × %.4f (adjusted multiplier)", arv.Multiplier),
			CHVFormula:        chvDesc,
			RenovationFormula: fmt.Sprintf("allowance = max(0, round(ARV × %.2f − CHV))", ap.TARR),
			CalculationMethod: method,
		},
		AgentData: AgentData{
			AgentWorkflow: r.trace,
		},
	}
}

// matchTarget merges caller details over the handoff defaults; the engine's
// configured assumptions back-stop a handoff that somehow carried none.
func matchTarget(details *property.UserDetails, sig handoff.Assumptions, fallback handoff.Assumptions) scoring.Target {
	assumed := sig
	if assumed == (handoff.Assumptions{}) {
		assumed = fallback
	}
	target := scoring.Target{
		SquareFootage: property.Float(assumed.SquareFootage),
		Bedrooms:      property.Int(assumed.Bedrooms),
		Bathrooms:     property.Float(assumed.Bathrooms),
	}
	if details == nil {
		return target
	}
	if details.SquareFootage != nil {
		target.SquareFootage = details.SquareFootage
	}
	if details.Bedrooms != nil {
		target.Bedrooms = details.Bedrooms
	}
	if details.Bathrooms != nil {
		target.Bathrooms = details.Bathrooms
	}
	return target
}

func chvFormula(agg valuation.Aggregation) string {
	switch agg.Method {
	case valuation.MethodExactMatch:
		return fmt.Sprintf("CHV = exact comparable match (%s)", agg.Comparables[0].Record.FullAddress())
	case valuation.MethodSameStreet:
		return fmt.Sprintf("CHV = same-street strong match (%s)", agg.Comparables[0].Record.FullAddress())
	case valuation.MethodSimpleAverage:
		return fmt.Sprintf("CHV = arithmetic mean of %d comparables", len(agg.Comparables))
	default:
		return fmt.Sprintf("CHV = match-score weighted average of %d comparables", len(agg.Comparables))
	}
}

func scoredRecords(scored []scoring.Scored) []property.Record {
	out := make([]property.Record, len(scored))
	for i, s := range scored {
		out[i] = s.Record
	}
	return out
}

func valuedRecords(records []property.Record) []property.Record {
	out := make([]property.Record, 0, len(records))
	for _, rec := range records {
		if rec.HasValue() {
			out = append(out, rec)
		}
	}
	return out
}
