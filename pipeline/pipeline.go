// Package pipeline runs the plan-vs-actuals reconciliation end to end:
// five uploaded files in, one final report and its side reports out.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"planact/importer"
	"planact/normalization"
	"planact/quality"
	"planact/reconcile"
	"planact/table"
)

// Stage names reported to the Observer.
const (
	StageRead             = "read inputs"
	StageShopfloor        = "normalize shopfloor"
	StageOrderBook        = "normalize order book"
	StagePivot            = "order book pivot"
	StageProductMapping   = "normalize product mapping"
	StageLoadingPlan      = "reshape loading plan"
	StagePlanVsActuals    = "merge plan vs actuals"
	StageSignoff          = "reconcile sign-off"
	StageVPOLevel         = "enrich vpo level"
	StageProductJoin      = "join product mapping"
	StageOrderBookMapping = "order book mapping"
)

// Options configures a Pipeline.
type Options struct {
	Normalization normalization.Options
	Logger        *slog.Logger
	Observer      Observer
}

// Pipeline runs the stages in order. A Pipeline holds no per-run state and
// may be shared by concurrent requests.
type Pipeline struct {
	norm     normalization.Options
	logger   *slog.Logger
	observer Observer
}

// New creates a pipeline. Zero options fall back to the defaults.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		norm:     opts.Normalization,
		logger:   opts.Logger,
		observer: opts.Observer,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.observer == nil {
		p.observer = nopObserver{}
	}
	defaults := normalization.DefaultOptions()
	if p.norm.TeamLabel == "" {
		p.norm.TeamLabel = defaults.TeamLabel
	}
	if p.norm.PlanFixedColumns <= 0 {
		p.norm.PlanFixedColumns = defaults.PlanFixedColumns
	}
	return p
}

// Result carries the final report and every intermediate a user may export.
type Result struct {
	RunID            string
	Final            *table.Table
	PlanVsActuals    *reconcile.PlanVsActuals
	Signoff          *reconcile.Signoff
	OrderBook        *normalization.OrderBook
	Pivot            *normalization.OrderBookPivot
	OrderBookMapping *table.Table
	Warnings         []quality.Warning
}

// CrossTab returns the schedule by date matrix of planned and actual output.
func (r *Result) CrossTab() *reconcile.CrossTab { return r.PlanVsActuals.CrossTab }

type run struct {
	p     *Pipeline
	ctx   context.Context
	id    string
	log   *slog.Logger
	warns quality.Warnings
}

// Run executes every stage. It fails with a *quality.MissingInputsError when
// any of the five files is absent, and with the first stage error otherwise;
// no partial result is returned on failure.
func (p *Pipeline) Run(ctx context.Context, inputs Inputs) (*Result, error) {
	r := &run{p: p, ctx: ctx, id: uuid.New().String()}
	r.log = p.logger.With("run_id", r.id)

	if missing := inputs.Missing(); len(missing) > 0 {
		labels := make([]string, len(missing))
		for i, m := range missing {
			labels[i] = m.Label()
		}
		return nil, &quality.MissingInputsError{Roles: labels}
	}

	start := time.Now()
	r.log.InfoContext(ctx, "reconciliation started")
	res, err := r.execute(inputs)
	if err != nil {
		r.log.WarnContext(ctx, "reconciliation failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	r.log.InfoContext(ctx, "reconciliation finished",
		"rows", res.Final.Len(), "warnings", len(res.Warnings), "duration", time.Since(start))
	return res, nil
}

func (r *run) execute(inputs Inputs) (*Result, error) {
	res := &Result{RunID: r.id}
	norm := r.p.norm
	norm.Logger = r.log

	raw := make(map[Role]*table.Table, len(inputs))
	err := r.stage(StageRead, func() (int, error) {
		rows := 0
		for _, role := range Roles() {
			in := inputs[role]
			t, err := importer.Read(role.Source(), in.Data)
			if err != nil {
				return 0, err
			}
			r.log.Debug("input decoded", "role", role, "file", in.Name,
				"format", importer.DetectFormat(in.Data), "rows", t.Len(), "columns", len(t.Columns()))
			raw[role] = t
			rows += t.Len()
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	var floor *normalization.Shopfloor
	if err := r.stage(StageShopfloor, func() (int, error) {
		var err error
		floor, err = normalization.NormalizeShopfloor(raw[RoleShopfloor], norm)
		if err != nil {
			return 0, err
		}
		r.warns.Merge(floor.Warnings)
		return len(floor.Records), nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(StageOrderBook, func() (int, error) {
		var err error
		res.OrderBook, err = normalization.NormalizeOrderBook(raw[RoleOrderBook], norm)
		if err != nil {
			return 0, err
		}
		r.warns.Merge(res.OrderBook.Warnings)
		return len(res.OrderBook.Groups), nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(StagePivot, func() (int, error) {
		res.Pivot = normalization.BuildOrderBookPivot(res.OrderBook.Groups)
		r.warns.Merge(res.Pivot.Warnings)
		return len(res.Pivot.Rows), nil
	}); err != nil {
		return nil, err
	}

	var mapping *normalization.ProductMapping
	if err := r.stage(StageProductMapping, func() (int, error) {
		var err error
		mapping, err = normalization.NormalizeProductMapping(raw[RoleProductMapping], norm)
		if err != nil {
			return 0, err
		}
		return mapping.Table.Len(), nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(StageOrderBookMapping, func() (int, error) {
		var err error
		res.OrderBookMapping, err = reconcile.MergeOrderBookWithMapping(res.OrderBook, mapping)
		if err != nil {
			return 0, fmt.Errorf("order book mapping: %w", err)
		}
		return res.OrderBookMapping.Len(), nil
	}); err != nil {
		return nil, err
	}

	var plan *normalization.LoadingPlan
	if err := r.stage(StageLoadingPlan, func() (int, error) {
		var err error
		plan, err = normalization.ReshapeLoadingPlan(raw[RoleLoadingPlan], norm)
		if err != nil {
			return 0, err
		}
		r.warns.Merge(plan.Warnings)
		return len(plan.Records), nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(StagePlanVsActuals, func() (int, error) {
		res.PlanVsActuals = reconcile.MergePlanVsActuals(plan, floor, r.log)
		r.warns.Merge(res.PlanVsActuals.Warnings)
		return len(res.PlanVsActuals.Rows), nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(StageSignoff, func() (int, error) {
		var err error
		res.Signoff, err = reconcile.ReconcileSignoff(raw[RoleSignoff], floor, r.log)
		if err != nil {
			return 0, err
		}
		r.warns.Merge(res.Signoff.Warnings)
		return res.Signoff.Table.Len(), nil
	}); err != nil {
		return nil, err
	}

	var vpo *table.Table
	if err := r.stage(StageVPOLevel, func() (int, error) {
		var err error
		vpo, err = reconcile.EnrichVPOLevel(res.PlanVsActuals.Table(), res.Pivot)
		if err != nil {
			return 0, fmt.Errorf("vpo level: %w", err)
		}
		return vpo.Len(), nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(StageProductJoin, func() (int, error) {
		var err error
		res.Final, err = reconcile.JoinProductMapping(vpo, mapping)
		if err != nil {
			return 0, fmt.Errorf("product join: %w", err)
		}
		return res.Final.Len(), nil
	}); err != nil {
		return nil, err
	}

	res.Warnings = r.warns.List()
	for _, w := range res.Warnings {
		r.log.Warn("data quality warning", "stage", w.Stage, "code", w.Code, "count", w.Count, "message", w.Message)
	}
	return res, nil
}

// stage runs fn between observer notifications. Cancellation is checked
// before each stage; a running stage is never interrupted.
func (r *run) stage(name string, fn func() (int, error)) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.p.observer.StageStarted(r.ctx, r.id, name)
	start := time.Now()
	rows, err := fn()
	r.p.observer.StageFinished(r.ctx, StageEvent{
		RunID:    r.id,
		Stage:    name,
		Rows:     rows,
		Duration: time.Since(start),
		Err:      err,
	})
	return err
}
