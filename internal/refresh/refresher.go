// Package refresh drives the schema object refresh pipeline: validate the
// project, select the working set, fetch definitions, render stubs, and
// reconcile the on-disk stub caches. Progress and the terminal status are
// published on an event bus; the same outcome is returned as a structured
// Result.
package refresh

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/fauxforce/fauxforce/internal/cache"
	"github.com/fauxforce/fauxforce/internal/describe"
	"github.com/fauxforce/fauxforce/internal/errors"
	"github.com/fauxforce/fauxforce/internal/event"
	"github.com/fauxforce/fauxforce/internal/generator"
	"github.com/fauxforce/fauxforce/internal/logging"
	"github.com/fauxforce/fauxforce/internal/project"
	"github.com/fauxforce/fauxforce/internal/schema"
)

// Pipeline stage names, published via StageChangedEvent.
const (
	StageValidating  = "validating"
	StageListing     = "listing"
	StageFetching    = "fetching"
	StageGenerating  = "generating"
	StageReconciling = "reconciling"
	StageDone        = "done"
)

// Config carries the required collaborators for a Refresher.
type Config struct {
	Transport describe.Transport
	Bus       *event.Bus
	Locks     *project.Locks // optional; a private registry is used when nil
}

// Refresher runs full and minimal refreshes. All state is per-invocation:
// a Refresher is safe for concurrent use, and runs against the same project
// root are serialized through the lock registry.
type Refresher struct {
	transport describe.Transport
	bus       *event.Bus
	locks     *project.Locks
	gen       generator.Generator
	rec       cache.Reconciler
	logger    *logging.Logger
}

// New creates a Refresher with the given configuration and options.
func New(cfg Config, opts ...Option) (*Refresher, error) {
	if cfg.Transport == nil {
		return nil, stderrors.New("refresh: Transport is required")
	}
	if cfg.Bus == nil {
		return nil, stderrors.New("refresh: Bus is required")
	}

	rc := &refresherConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.logger == nil {
		rc.logger = logging.NopLogger()
	}
	if rc.gen == nil {
		rc.gen = generator.New()
	}
	if rc.rec == nil {
		rc.rec = cache.NewDir(rc.logger)
	}

	locks := cfg.Locks
	if locks == nil {
		locks = project.NewLocks()
	}

	return &Refresher{
		transport: cfg.Transport,
		bus:       cfg.Bus,
		locks:     locks,
		gen:       rc.gen,
		rec:       rc.rec,
		logger:    rc.logger,
	}, nil
}

// RefreshFull re-lists the org's schema, fetches full definitions for the
// selected category, and converges the matching stub caches. Cancellation is
// polled at four checkpoints; a tripped checkpoint performs no further
// transport calls or filesystem writes.
func (r *Refresher) RefreshFull(ctx context.Context, root string, category schema.Category, source schema.Source) schema.Result {
	release := r.locks.Acquire(root)
	defer release()

	run := r.newRun(root, source)
	run.log = run.log.WithCategory(category.String())
	run.log.Info("starting full refresh")

	if !category.Valid() {
		return run.fail(fmt.Errorf("unknown refresh category %q", category))
	}

	run.stage(StageValidating)
	if err := project.Validate(root); err != nil {
		return run.fail(err)
	}

	// Checkpoint 1: before the global listing call.
	if ctx.Err() != nil {
		return run.cancelled()
	}

	run.stage(StageListing)
	listing, err := r.transport.ListAll(ctx)
	if err != nil {
		return run.fail(err)
	}

	working := schema.Filter(listing, category)
	standard := schema.Filter(working, schema.CategoryStandard)
	custom := schema.Filter(working, schema.CategoryCustom)
	run.info(fmt.Sprintf("fetched %d schema objects (%d standard, %d custom)",
		len(working), len(standard), len(custom)))

	// Checkpoint 2: after listing, before the batch metadata fetch.
	if ctx.Err() != nil {
		return run.cancelled()
	}

	run.stage(StageFetching)
	defs, err := r.transport.FetchDefinitions(ctx, schema.Names(working))
	if err != nil {
		return run.fail(err)
	}
	run.info(fmt.Sprintf("fetched definitions for %d objects", len(defs)))

	var standardDefs, customDefs []schema.ObjectDefinition
	for _, def := range defs {
		if def.Custom {
			customDefs = append(customDefs, def)
		} else {
			standardDefs = append(standardDefs, def)
		}
	}

	// Checkpoint 3: after the fetch, before per-category generation.
	if ctx.Err() != nil {
		return run.cancelled()
	}

	data := &schema.ResultData{}

	if category == schema.CategoryStandard || category == schema.CategoryAll {
		count, err := run.generateAndReconcile(r, standardDefs, project.StandardDir(root), "standard")
		if err != nil {
			return run.fail(err)
		}
		data.StandardObjects = &count
	}

	// Checkpoint 4: after the first category, before the second.
	if ctx.Err() != nil {
		return run.cancelled()
	}

	if category == schema.CategoryCustom || category == schema.CategoryAll {
		count, err := run.generateAndReconcile(r, customDefs, project.CustomDir(root), "custom")
		if err != nil {
			return run.fail(err)
		}
		data.CustomObjects = &count
	}

	return run.succeed(data)
}

// RefreshMinimal renders the fixed startup subset of standard objects and
// converges the standard stub cache, with no describe call at all.
func (r *Refresher) RefreshMinimal(ctx context.Context, root string, source schema.Source) schema.Result {
	release := r.locks.Acquire(root)
	defer release()

	run := r.newRun(root, source)
	run.log.Info("starting minimal refresh")

	run.stage(StageValidating)
	if err := project.Validate(root); err != nil {
		return run.fail(err)
	}

	// Checkpoint 1: before rendering the minimal set.
	if ctx.Err() != nil {
		return run.cancelled()
	}

	run.stage(StageGenerating)
	stubs := make(map[string]string)
	for _, def := range minimalDefinitions() {
		text, issues := r.gen.Render(def)
		run.warnIssues(issues)
		stubs[def.Name] = text
	}

	// Checkpoint 2: after rendering, before the write pass.
	if ctx.Err() != nil {
		return run.cancelled()
	}

	run.stage(StageReconciling)
	counts, err := r.rec.Reconcile(project.StandardDir(root), stubs)
	if err != nil {
		return run.fail(err)
	}
	run.info(fmt.Sprintf("wrote %d standard object stubs (%d unchanged, %d deleted)",
		counts.Total(), counts.Unchanged, counts.Deleted))

	total := counts.Total()
	return run.succeed(&schema.ResultData{StandardObjects: &total})
}

// newRun builds the per-invocation reporting state.
func (r *Refresher) newRun(root string, source schema.Source) *run {
	return &run{
		bus: r.bus,
		log: r.logger.WithProject(root).With("source", source.String()),
	}
}

// run bundles the event and log reporting for one invocation so the exit
// event is emitted exactly once, as the last observable action.
type run struct {
	bus     *event.Bus
	log     *logging.Logger
	current string
}

// stage publishes a stage transition.
func (u *run) stage(name string) {
	prev := u.current
	u.current = name
	u.bus.Publish(event.NewStageChangedEvent(prev, name))
}

// info publishes a progress string and logs it.
func (u *run) info(msg string) {
	u.log.Info(msg)
	u.bus.Publish(event.NewInfoEvent(msg))
}

// warnIssues logs skipped-field issues. Field issues are warnings only;
// they never reach the error channel or flip the exit code.
func (u *run) warnIssues(issues []errors.FieldIssue) {
	for _, issue := range issues {
		u.log.Warn("skipped field", "object", issue.Object, "field", issue.Field, "reason", issue.Reason)
	}
}

// generateAndReconcile renders one category's definitions and converges its
// stub directory, returning the resulting stub count.
func (u *run) generateAndReconcile(r *Refresher, defs []schema.ObjectDefinition, dir, label string) (int, error) {
	u.stage(StageGenerating)
	stubs := make(map[string]string, len(defs))
	for _, def := range defs {
		text, issues := r.gen.Render(def)
		u.warnIssues(issues)
		stubs[def.Name] = text
	}

	u.stage(StageReconciling)
	counts, err := r.rec.Reconcile(dir, stubs)
	if err != nil {
		return 0, err
	}

	u.info(fmt.Sprintf("wrote %d %s object stubs (%d unchanged, %d deleted)",
		counts.Total(), label, counts.Unchanged, counts.Deleted))
	return counts.Total(), nil
}

// fail reports a fatal error on the stderr/error channels, emits a failure
// exit, and returns the error-shaped result.
func (u *run) fail(err error) schema.Result {
	u.log.Error("refresh failed", "error", err)
	u.bus.Publish(event.NewStderrEvent(err.Error()))
	u.bus.Publish(event.NewErrorEvent(err))
	u.bus.Publish(event.NewExitEvent(event.ExitFailure))
	return schema.Failure(err)
}

// cancelled reports a cooperative stop. Cancellation is not an error: the
// exit is success-shaped and no counts are attached.
func (u *run) cancelled() schema.Result {
	u.log.Info("refresh cancelled")
	u.bus.Publish(event.NewExitEvent(event.ExitSuccess))
	return schema.CancelledResult()
}

// succeed emits the terminal success exit and returns the data result.
func (u *run) succeed(data *schema.ResultData) schema.Result {
	u.stage(StageDone)
	u.log.Info("refresh complete")
	u.bus.Publish(event.NewExitEvent(event.ExitSuccess))
	return schema.Result{Data: data}
}
