package refresh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fauxforce/fauxforce/internal/cache"
	"github.com/fauxforce/fauxforce/internal/errors"
	"github.com/fauxforce/fauxforce/internal/event"
	"github.com/fauxforce/fauxforce/internal/project"
	"github.com/fauxforce/fauxforce/internal/schema"
)

// newProjectRoot creates a temp directory with the project marker file.
func newProjectRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, project.MarkerFile), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

// recorder captures every published event in order. The bus dispatches
// synchronously on the publisher's goroutine, so no locking is needed here.
type recorder struct {
	events []event.Event
}

func record(bus *event.Bus) *recorder {
	r := &recorder{}
	bus.SubscribeAll(func(e event.Event) {
		r.events = append(r.events, e)
	})
	return r
}

// exits returns the codes of all ExitEvents seen, in order.
func (r *recorder) exits() []int {
	var codes []int
	for _, e := range r.events {
		if exit, ok := e.(event.ExitEvent); ok {
			codes = append(codes, exit.Code)
		}
	}
	return codes
}

func (r *recorder) count(eventType string) int {
	n := 0
	for _, e := range r.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// assertExitLast verifies exactly one exit event was published, with the
// given code, and that nothing was published after it.
func (r *recorder) assertExitLast(t *testing.T, code int) {
	t.Helper()
	codes := r.exits()
	if len(codes) != 1 {
		t.Fatalf("got %d exit events (%v), want exactly 1", len(codes), codes)
	}
	if codes[0] != code {
		t.Errorf("exit code = %d, want %d", codes[0], code)
	}
	if len(r.events) == 0 || r.events[len(r.events)-1].EventType() != event.TypeExit {
		t.Errorf("exit event must be the last published event, got %s last",
			r.events[len(r.events)-1].EventType())
	}
}

type fakeTransport struct {
	listing    []schema.ObjectSummary
	listErr    error
	defs       []schema.ObjectDefinition
	fetchErr   error
	listCalls  int
	fetchCalls int
	fetchNames []string
}

func (f *fakeTransport) ListAll(ctx context.Context) ([]schema.ObjectSummary, error) {
	f.listCalls++
	return f.listing, f.listErr
}

func (f *fakeTransport) FetchDefinitions(ctx context.Context, names []string) ([]schema.ObjectDefinition, error) {
	f.fetchCalls++
	f.fetchNames = names
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var defs []schema.ObjectDefinition
	for _, d := range f.defs {
		for _, n := range names {
			if d.Name == n {
				defs = append(defs, d)
			}
		}
	}
	return defs, nil
}

type reconcileCall struct {
	dir   string
	stubs map[string]string
}

type fakeReconciler struct {
	calls  []reconcileCall
	err    error
	onCall func() // runs after recording, before returning
}

func (f *fakeReconciler) Reconcile(dir string, stubs map[string]string) (cache.Counts, error) {
	f.calls = append(f.calls, reconcileCall{dir: dir, stubs: stubs})
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return cache.Counts{}, f.err
	}
	return cache.Counts{Written: len(stubs)}, nil
}

// orgSchema is the fixture both full-refresh tests share: three standard
// objects and two custom ones.
func orgSchema() *fakeTransport {
	summary := func(name string, custom bool) schema.ObjectSummary {
		return schema.ObjectSummary{Name: name, Label: name, Custom: custom, Queryable: true}
	}
	def := func(name string, custom bool) schema.ObjectDefinition {
		return schema.ObjectDefinition{
			Name:   name,
			Label:  name,
			Custom: custom,
			Fields: []schema.FieldDefinition{{Name: "Id", Type: "id", Required: true}},
		}
	}
	return &fakeTransport{
		listing: []schema.ObjectSummary{
			summary("Account", false),
			summary("Contact", false),
			summary("User", false),
			summary("Invoice__c", true),
			summary("Shipment__c", true),
		},
		defs: []schema.ObjectDefinition{
			def("Account", false),
			def("Contact", false),
			def("User", false),
			def("Invoice__c", true),
			def("Shipment__c", true),
		},
	}
}

func newTestRefresher(t *testing.T, transport *fakeTransport, rec *fakeReconciler) (*Refresher, *recorder) {
	t.Helper()
	bus := event.NewBus()
	rc := record(bus)
	var opts []Option
	if rec != nil {
		opts = append(opts, WithReconciler(rec))
	}
	r, err := New(Config{Transport: transport, Bus: bus}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, rc
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Config{Bus: event.NewBus()}); err == nil {
		t.Error("expected error for nil Transport")
	}
	if _, err := New(Config{Transport: &fakeTransport{}}); err == nil {
		t.Error("expected error for nil Bus")
	}
}

func TestRefreshFull_AllCategories(t *testing.T) {
	root := newProjectRoot(t)
	transport := orgSchema()
	rec := &fakeReconciler{}
	r, rc := newTestRefresher(t, transport, rec)

	result := r.RefreshFull(context.Background(), root, schema.CategoryAll, schema.SourceManual)

	if result.Err != nil {
		t.Fatalf("RefreshFull: %v", result.Err)
	}
	if result.Data == nil || result.Data.Cancelled {
		t.Fatalf("result.Data = %+v, want uncancelled data", result.Data)
	}
	if result.Data.StandardObjects == nil || *result.Data.StandardObjects != 3 {
		t.Errorf("StandardObjects = %v, want 3", result.Data.StandardObjects)
	}
	if result.Data.CustomObjects == nil || *result.Data.CustomObjects != 2 {
		t.Errorf("CustomObjects = %v, want 2", result.Data.CustomObjects)
	}

	if len(rec.calls) != 2 {
		t.Fatalf("reconciler called %d times, want 2", len(rec.calls))
	}
	if rec.calls[0].dir != project.StandardDir(root) {
		t.Errorf("first reconcile dir = %s, want standard cache", rec.calls[0].dir)
	}
	if rec.calls[1].dir != project.CustomDir(root) {
		t.Errorf("second reconcile dir = %s, want custom cache", rec.calls[1].dir)
	}
	if _, ok := rec.calls[1].stubs["Invoice__c"]; !ok {
		t.Error("custom reconcile should include Invoice__c")
	}

	rc.assertExitLast(t, event.ExitSuccess)
	if rc.count(event.TypeError) != 0 {
		t.Error("successful refresh must not publish error events")
	}
	if rc.count(event.TypeInfo) == 0 {
		t.Error("refresh should publish progress info events")
	}
}

func TestRefreshFull_SingleCategory(t *testing.T) {
	tests := []struct {
		category     schema.Category
		wantDir      func(root string) string
		wantStandard bool
	}{
		{schema.CategoryStandard, project.StandardDir, true},
		{schema.CategoryCustom, project.CustomDir, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			root := newProjectRoot(t)
			rec := &fakeReconciler{}
			r, rc := newTestRefresher(t, orgSchema(), rec)

			result := r.RefreshFull(context.Background(), root, tt.category, schema.SourceManual)
			if result.Err != nil {
				t.Fatalf("RefreshFull: %v", result.Err)
			}

			if len(rec.calls) != 1 {
				t.Fatalf("reconciler called %d times, want 1", len(rec.calls))
			}
			if rec.calls[0].dir != tt.wantDir(root) {
				t.Errorf("reconcile dir = %s", rec.calls[0].dir)
			}

			if tt.wantStandard {
				if result.Data.StandardObjects == nil || result.Data.CustomObjects != nil {
					t.Errorf("want only StandardObjects set, got %+v", result.Data)
				}
			} else {
				if result.Data.CustomObjects == nil || result.Data.StandardObjects != nil {
					t.Errorf("want only CustomObjects set, got %+v", result.Data)
				}
			}
			rc.assertExitLast(t, event.ExitSuccess)
		})
	}
}

func TestRefreshFull_ProjectNotFound(t *testing.T) {
	transport := orgSchema()
	rec := &fakeReconciler{}
	r, rc := newTestRefresher(t, transport, rec)

	result := r.RefreshFull(context.Background(), t.TempDir(), schema.CategoryAll, schema.SourceManual)

	if result.Err == nil {
		t.Fatal("expected an error for a directory without the project marker")
	}
	if !errors.Is(result.Err, errors.ErrProjectNotFound) {
		t.Errorf("error = %v, want ErrProjectNotFound", result.Err)
	}
	if result.Data != nil {
		t.Errorf("failed result must carry no data, got %+v", result.Data)
	}

	if transport.listCalls != 0 || transport.fetchCalls != 0 {
		t.Error("validation failure must not reach the transport")
	}
	if len(rec.calls) != 0 {
		t.Error("validation failure must not touch the cache")
	}

	rc.assertExitLast(t, event.ExitFailure)
	if rc.count(event.TypeStderr) != 1 || rc.count(event.TypeError) != 1 {
		t.Errorf("want one stderr and one error event, got %d/%d",
			rc.count(event.TypeStderr), rc.count(event.TypeError))
	}
}

func TestRefreshFull_InvalidCategory(t *testing.T) {
	r, rc := newTestRefresher(t, orgSchema(), &fakeReconciler{})

	result := r.RefreshFull(context.Background(), newProjectRoot(t), schema.Category("BOGUS"), schema.SourceManual)
	if result.Err == nil {
		t.Fatal("expected error for unknown category")
	}
	rc.assertExitLast(t, event.ExitFailure)
}

func TestRefreshFull_ListFailure(t *testing.T) {
	transport := orgSchema()
	transport.listErr = errors.NewDescribeError("listing schema objects", fmt.Errorf("boom"))
	rec := &fakeReconciler{}
	r, rc := newTestRefresher(t, transport, rec)

	result := r.RefreshFull(context.Background(), newProjectRoot(t), schema.CategoryAll, schema.SourceManual)

	if !errors.Is(result.Err, errors.ErrDescribeFailed) {
		t.Errorf("error = %v, want ErrDescribeFailed", result.Err)
	}
	if transport.fetchCalls != 0 {
		t.Error("list failure must not trigger a definition fetch")
	}
	if len(rec.calls) != 0 {
		t.Error("list failure must not touch the cache")
	}
	rc.assertExitLast(t, event.ExitFailure)
}

func TestRefreshFull_ReconcileFailure(t *testing.T) {
	rec := &fakeReconciler{
		err: errors.NewCacheWriteError("writing stub", fmt.Errorf("disk full")),
	}
	r, rc := newTestRefresher(t, orgSchema(), rec)

	result := r.RefreshFull(context.Background(), newProjectRoot(t), schema.CategoryAll, schema.SourceManual)

	if !errors.Is(result.Err, errors.ErrCacheWrite) {
		t.Errorf("error = %v, want ErrCacheWrite", result.Err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("reconciler called %d times, want 1; a failed category aborts the run", len(rec.calls))
	}
	rc.assertExitLast(t, event.ExitFailure)
}

func TestRefreshFull_CancelledBeforeStart(t *testing.T) {
	transport := orgSchema()
	rec := &fakeReconciler{}
	r, rc := newTestRefresher(t, transport, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.RefreshFull(ctx, newProjectRoot(t), schema.CategoryAll, schema.SourceManual)

	if result.Err != nil {
		t.Fatalf("cancellation is not an error, got %v", result.Err)
	}
	if result.Data == nil || !result.Data.Cancelled {
		t.Fatalf("result.Data = %+v, want Cancelled", result.Data)
	}
	if result.Data.StandardObjects != nil || result.Data.CustomObjects != nil {
		t.Error("cancelled result must carry no counts")
	}

	if transport.listCalls != 0 || transport.fetchCalls != 0 {
		t.Error("cancelled run must not reach the transport")
	}
	if len(rec.calls) != 0 {
		t.Error("cancelled run must not touch the cache")
	}
	rc.assertExitLast(t, event.ExitSuccess)
}

func TestRefreshFull_CancelledBetweenCategories(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &fakeReconciler{onCall: cancel} // fires during the standard pass
	transport := orgSchema()
	r, rc := newTestRefresher(t, transport, rec)

	result := r.RefreshFull(ctx, newProjectRoot(t), schema.CategoryAll, schema.SourceManual)

	if result.Data == nil || !result.Data.Cancelled {
		t.Fatalf("result.Data = %+v, want Cancelled", result.Data)
	}
	// Even though the standard pass completed, a cancelled run reports no
	// counts at all.
	if result.Data.StandardObjects != nil || result.Data.CustomObjects != nil {
		t.Error("cancelled result must carry no counts")
	}
	if len(rec.calls) != 1 {
		t.Errorf("reconciler called %d times, want 1; the custom pass must be skipped", len(rec.calls))
	}
	rc.assertExitLast(t, event.ExitSuccess)
}

func TestRefreshFull_CancelledAfterListing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	transport := orgSchema()
	rec := &fakeReconciler{}
	bus := event.NewBus()
	rc := record(bus)
	// Cancel as soon as the listing's progress event lands, so the next
	// checkpoint trips before the definition fetch.
	bus.Subscribe(event.TypeInfo, func(event.Event) { cancel() })

	r, err := New(Config{Transport: transport, Bus: bus}, WithReconciler(rec))
	if err != nil {
		t.Fatal(err)
	}

	result := r.RefreshFull(ctx, newProjectRoot(t), schema.CategoryAll, schema.SourceManual)

	if result.Data == nil || !result.Data.Cancelled {
		t.Fatalf("result.Data = %+v, want Cancelled", result.Data)
	}
	if transport.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1", transport.listCalls)
	}
	if transport.fetchCalls != 0 {
		t.Error("cancellation after listing must skip the definition fetch")
	}
	if len(rec.calls) != 0 {
		t.Error("cancellation after listing must not touch the cache")
	}
	rc.assertExitLast(t, event.ExitSuccess)
}

func TestRefreshFull_StageEvents(t *testing.T) {
	r, rc := newTestRefresher(t, orgSchema(), &fakeReconciler{})

	result := r.RefreshFull(context.Background(), newProjectRoot(t), schema.CategoryAll, schema.SourceManual)
	if result.Err != nil {
		t.Fatal(result.Err)
	}

	var stages []string
	for _, e := range rc.events {
		if sc, ok := e.(event.StageChangedEvent); ok {
			stages = append(stages, sc.CurrentStage)
		}
	}
	if len(stages) == 0 {
		t.Fatal("no stage events published")
	}
	if stages[0] != StageValidating {
		t.Errorf("first stage = %s, want %s", stages[0], StageValidating)
	}
	if stages[len(stages)-1] != StageDone {
		t.Errorf("last stage = %s, want %s", stages[len(stages)-1], StageDone)
	}
}

func TestRefreshMinimal(t *testing.T) {
	root := newProjectRoot(t)
	transport := orgSchema()
	rec := &fakeReconciler{}
	r, rc := newTestRefresher(t, transport, rec)

	result := r.RefreshMinimal(context.Background(), root, schema.SourceStartupMin)

	if result.Err != nil {
		t.Fatalf("RefreshMinimal: %v", result.Err)
	}
	if result.Data.StandardObjects == nil || *result.Data.StandardObjects != MinimalSetSize() {
		t.Errorf("StandardObjects = %v, want %d", result.Data.StandardObjects, MinimalSetSize())
	}
	if result.Data.CustomObjects != nil {
		t.Error("minimal refresh must not report custom counts")
	}

	if transport.listCalls != 0 || transport.fetchCalls != 0 {
		t.Error("minimal refresh must not call the transport at all")
	}
	if len(rec.calls) != 1 || rec.calls[0].dir != project.StandardDir(root) {
		t.Errorf("want one reconcile of the standard cache, got %+v", rec.calls)
	}
	if _, ok := rec.calls[0].stubs["Account"]; !ok {
		t.Error("minimal set should include Account")
	}
	rc.assertExitLast(t, event.ExitSuccess)
}

func TestRefreshMinimal_ProjectNotFound(t *testing.T) {
	rec := &fakeReconciler{}
	r, rc := newTestRefresher(t, orgSchema(), rec)

	result := r.RefreshMinimal(context.Background(), t.TempDir(), schema.SourceStartupMin)

	if !errors.Is(result.Err, errors.ErrProjectNotFound) {
		t.Errorf("error = %v, want ErrProjectNotFound", result.Err)
	}
	if len(rec.calls) != 0 {
		t.Error("validation failure must not touch the cache")
	}
	rc.assertExitLast(t, event.ExitFailure)
}

func TestRefreshMinimal_Cancelled(t *testing.T) {
	rec := &fakeReconciler{}
	r, rc := newTestRefresher(t, orgSchema(), rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.RefreshMinimal(ctx, newProjectRoot(t), schema.SourceStartupMin)

	if result.Data == nil || !result.Data.Cancelled {
		t.Fatalf("result.Data = %+v, want Cancelled", result.Data)
	}
	if len(rec.calls) != 0 {
		t.Error("cancelled minimal refresh must not touch the cache")
	}
	rc.assertExitLast(t, event.ExitSuccess)
}

func TestRefreshFull_SerializesPerProject(t *testing.T) {
	root := newProjectRoot(t)
	transport := orgSchema()
	locks := project.NewLocks()

	bus := event.NewBus()
	var inFlight, maxInFlight int
	rec := &fakeReconciler{}
	r, err := New(Config{Transport: transport, Bus: bus, Locks: locks}, WithReconciler(rec))
	if err != nil {
		t.Fatal(err)
	}

	// The bus is synchronous and every run publishes from inside the lock,
	// so overlapping runs would interleave their stage events.
	bus.Subscribe(event.TypeStageChanged, func(e event.Event) {
		sc := e.(event.StageChangedEvent)
		if sc.CurrentStage == StageValidating {
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
		}
		if sc.CurrentStage == StageDone {
			inFlight--
		}
	})

	done := make(chan struct{})
	for range 4 {
		go func() {
			r.RefreshFull(context.Background(), root, schema.CategoryStandard, schema.SourceManual)
			done <- struct{}{}
		}()
	}
	for range 4 {
		<-done
	}

	if maxInFlight != 1 {
		t.Errorf("maxInFlight = %d, want 1; runs on one project must serialize", maxInFlight)
	}
	if len(rec.calls) != 4 {
		t.Errorf("reconciler called %d times, want 4", len(rec.calls))
	}
}
