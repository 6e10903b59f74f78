// Package orchestrator drives one command from folder selection through
// job execution, classification and rendering. Only one job runs at a time.
package orchestrator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dkoosis/lens/internal/progress"
	"github.com/dkoosis/lens/pkg/classify"
	"github.com/dkoosis/lens/pkg/collect"
	"github.com/dkoosis/lens/pkg/job"
	"github.com/dkoosis/lens/pkg/render"
)

// ErrBusy is logged when an invocation is refused because a job is running.
var ErrBusy = errors.New("another job is already running")

// Selector asks the user for exactly one folder. An empty path with a nil
// error means the user declined.
type Selector interface {
	SelectFolder(ctx context.Context, kind job.Kind) (string, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, kind job.Kind) (string, error)

// SelectFolder calls f.
func (f SelectorFunc) SelectFolder(ctx context.Context, kind job.Kind) (string, error) {
	return f(ctx, kind)
}

// StaticSelector always selects the same folder; "" selects nothing.
type StaticSelector string

// SelectFolder returns the fixed folder.
func (s StaticSelector) SelectFolder(context.Context, job.Kind) (string, error) {
	return string(s), nil
}

// Notifier receives interim views while a job runs. Notify is called from
// the goroutine draining the job's stderr.
type Notifier interface {
	Notify(v render.View)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(v render.View)

// Notify calls f.
func (f NotifierFunc) Notify(v render.View) { f(v) }

// Progress starts a non-cancellable progress display.
type Progress interface {
	Start(title string) progress.Indicator
}

// StateHook observes every state transition.
type StateHook func(kind job.Kind, from, to State)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNotifier sets the interim view sink.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithProgress sets the progress display.
func WithProgress(p Progress) Option {
	return func(o *Orchestrator) { o.progress = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithStateHook registers a transition observer.
func WithStateHook(h StateHook) Option {
	return func(o *Orchestrator) { o.hook = h }
}

// WithRunner runs one command kind on a dedicated runner instead of the
// default one.
func WithRunner(kind job.Kind, r job.Runner) Option {
	return func(o *Orchestrator) { o.runners[kind] = r }
}

// Orchestrator runs commands end to end.
type Orchestrator struct {
	invoker  *job.Invoker
	runner   job.Runner
	runners  map[job.Kind]job.Runner
	selector Selector
	notifier Notifier
	progress Progress
	logger   *zap.Logger
	hook     StateHook

	busy sync.Mutex

	mu    sync.Mutex
	state State
}

// New returns an orchestrator that builds jobs with inv, runs them on
// runner and asks sel for folders.
func New(inv *job.Invoker, runner job.Runner, sel Selector, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		invoker:  inv,
		runner:   runner,
		runners:  make(map[job.Kind]job.Runner),
		selector: sel,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Invoke runs one command and returns the single view that reports it.
// A call made while another job is running returns an informational view
// and launches nothing.
func (o *Orchestrator) Invoke(ctx context.Context, kind job.Kind) render.View {
	if !o.busy.TryLock() {
		o.logger.Info("invocation refused", zap.Stringer("kind", kind), zap.Error(ErrBusy))
		return render.Busy(kind)
	}
	defer o.busy.Unlock()
	defer o.transition(kind, Idle)

	o.transition(kind, AwaitingSelection)
	folder, err := o.selector.SelectFolder(ctx, kind)
	if err != nil {
		o.transition(kind, ReportedFailure)
		return render.Error(kind, "Folder selection failed: "+err.Error())
	}
	if folder == "" {
		o.transition(kind, ReportedFailure)
		return render.NoSelection(kind)
	}

	j := o.invoker.Build(kind, folder)
	o.logger.Debug("job built",
		zap.String("job", j.ID),
		zap.Stringer("kind", kind),
		zap.String("command", j.CommandLine()))

	o.transition(kind, JobRunning)
	outcome := o.run(ctx, j)

	o.transition(kind, Classifying)
	result := classify.Classify(kind, outcome)
	o.logger.Debug("job classified",
		zap.String("job", j.ID),
		zap.Stringer("status", result.Status),
		zap.Stringer("reason", result.Reason),
		zap.Int("exit_code", result.ExitCode))

	view := render.FromResult(kind, result)
	if result.OK() {
		o.transition(kind, Rendered)
	} else {
		o.transition(kind, ReportedFailure)
	}
	return view
}

func (o *Orchestrator) run(ctx context.Context, j job.Job) collect.Outcome {
	var onChunk collect.ChunkFunc
	switch j.Kind {
	case job.Analyze:
		o.notify(render.StartNotice(j.Kind, j.Target))
		onChunk = func(stream collect.Stream, chunk string) {
			if stream == collect.Stderr {
				o.notify(render.LiveDiagnostic(j.Kind, chunk))
			}
		}
	default:
		if o.progress != nil {
			ind := o.progress.Start(render.ProgressTitle(j.Kind))
			defer ind.Stop()
		}
	}
	return o.runnerFor(j.Kind).Run(ctx, j, onChunk)
}

func (o *Orchestrator) runnerFor(kind job.Kind) job.Runner {
	if r, ok := o.runners[kind]; ok {
		return r
	}
	return o.runner
}

func (o *Orchestrator) notify(v render.View) {
	if o.notifier != nil {
		o.notifier.Notify(v)
	}
}

func (o *Orchestrator) transition(kind job.Kind, to State) {
	o.mu.Lock()
	from := o.state
	o.state = to
	o.mu.Unlock()

	o.logger.Debug("state transition",
		zap.Stringer("kind", kind),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	if o.hook != nil {
		o.hook(kind, from, to)
	}
}
