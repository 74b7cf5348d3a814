package countdown

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tickworks/countdown/internal/errorutil"
	"github.com/tickworks/countdown/internal/syncutil"
	"github.com/tickworks/countdown/internal/types"
	"github.com/tickworks/countdown/internal/util"
	"github.com/tickworks/countdown/log"
)

// EngineFactory creates engines for a [Manager].
type EngineFactory interface {
	NewEngine(ctx context.Context, cfg Config, opts *Options) (*Engine, error)
}

// EngineFactoryFunc adapts a function to the [EngineFactory] interface.
type EngineFactoryFunc func(ctx context.Context, cfg Config, opts *Options) (*Engine, error)

func (f EngineFactoryFunc) NewEngine(ctx context.Context, cfg Config, opts *Options) (*Engine, error) {
	return errtrace.Wrap2(f(ctx, cfg, opts))
}

// EngineHandler is notified about engines created by a [Manager].
type EngineHandler func(ctx context.Context, eng *Engine)

// Outcome tells how a run finished.
type Outcome string

const (
	// OutcomeCompleted means the run counted down to zero.
	OutcomeCompleted Outcome = "completed"
	// OutcomeAborted means the run was stopped before reaching zero.
	OutcomeAborted Outcome = "aborted"
)

// FinishedRun is a record of a finished run kept by a [Manager].
type FinishedRun struct {
	ID        string        `json:"id"`
	Outcome   Outcome       `json:"outcome"`
	Config    Config        `json:"config"`
	Remaining time.Duration `json:"remaining"`
	EndedAt   time.Time     `json:"ended_at"`
}

// ManagerOptions are the options for a [Manager].
type ManagerOptions struct {
	// EngineFactory is the engine factory.
	// If nil, [New] is used.
	EngineFactory EngineFactory
	// Stats, if set, is bound to every engine the manager creates.
	Stats *StatsRecorder
	// HistorySize caps the finished runs kept in memory.
	// If 0, 128 is used. If negative, no history is kept.
	HistorySize int
	// Logger is the logger.
	// If nil, the [log.Default] is used.
	Logger *slog.Logger
}

func (o *ManagerOptions) factory() EngineFactory {
	if o == nil || o.EngineFactory == nil {
		return EngineFactoryFunc(New)
	}
	return o.EngineFactory
}

func (o *ManagerOptions) historySize() int {
	if o == nil || o.HistorySize == 0 {
		return 128
	}
	if o.HistorySize < 0 {
		return 0
	}
	return o.HistorySize
}

func (o *ManagerOptions) stats() *StatsRecorder {
	if o == nil {
		return nil
	}
	return o.Stats
}

func (o *ManagerOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Manager owns a set of engines addressed by ID and remembers recently
// finished runs.
type Manager struct {
	factory EngineFactory
	stats   *StatsRecorder
	log     *slog.Logger

	engines syncutil.RWMap[string, *Engine]
	history *lru.Cache[string, FinishedRun]

	onNewEngine types.CallbackManager[EngineHandler]

	closing   atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewManager creates a new [Manager].
// Options are optional, if nil, default values are used (see [ManagerOptions]).
func NewManager(opts *ManagerOptions) *Manager {
	mgr := &Manager{
		factory: opts.factory(),
		stats:   opts.stats(),
		log:     opts.log(),
	}
	if size := opts.historySize(); size > 0 {
		mgr.history = util.Must2(lru.New[string, FinishedRun](size))
	}
	return mgr
}

// NewEngine creates an engine, registers it under its ID and binds the
// manager hooks. With [Config.AutoStart] set, the run starts after the
// hooks and creation callbacks had a chance to observe the engine.
func (mgr *Manager) NewEngine(ctx context.Context, cfg Config, opts *Options) (*Engine, error) {
	if mgr.closing.Load() {
		return nil, errtrace.Wrap(ErrManagerClosed)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	createCfg := cfg
	createCfg.AutoStart = false
	eng, err := mgr.factory.NewEngine(ctx, createCfg, opts)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if _, exists := mgr.engines.GetOrSet(eng.ID(), eng); exists {
		_ = eng.Close()
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrEngineExists, "id %q", eng.ID()))
	}

	if mgr.stats != nil {
		BindStatsRecorder(mgr.stats, eng)
	}
	eng.OnStateChanged(mgr.engineStateHdlr(eng))

	for fn := range mgr.onNewEngine.All() {
		fn(ctx, eng)
	}

	if cfg.AutoStart {
		if err := eng.Start(ctx); err != nil {
			mgr.engines.Del(eng.ID())
			_ = eng.Close()
			return nil, errtrace.Wrap(err)
		}
	}
	return eng, nil
}

// engineStateHdlr records finished runs. Reconfiguring a counting engine
// counts as an aborted run.
func (mgr *Manager) engineStateHdlr(eng *Engine) StateChangedHandler {
	return func(ctx context.Context, from, to State) {
		if from != StateCounting || to != StateIdle {
			return
		}
		if mgr.history == nil {
			return
		}

		rem := eng.Remaining()
		outcome := OutcomeAborted
		if rem == 0 {
			outcome = OutcomeCompleted
		}
		mgr.history.Add(eng.ID(), FinishedRun{
			ID:        eng.ID(),
			Outcome:   outcome,
			Config:    eng.Config(),
			Remaining: rem,
			EndedAt:   eng.clock.Now(),
		})

		mgr.log.LogAttrs(ctx, slog.LevelDebug, "countdown run finished",
			slog.Any("engine", eng),
			slog.String("outcome", string(outcome)),
		)
	}
}

// LoadEngine returns the registered engine with the given ID.
func (mgr *Manager) LoadEngine(id string) (*Engine, error) {
	eng, ok := mgr.engines.Get(id)
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrEngineNotFound, "id %q", id))
	}
	return eng, nil
}

// RemoveEngine closes the engine with the given ID and drops it from the
// manager.
func (mgr *Manager) RemoveEngine(ctx context.Context, id string) error {
	eng, ok := mgr.engines.GetAndDel(id)
	if !ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrEngineNotFound, "id %q", id))
	}
	if err := eng.Close(); err != nil {
		return errtrace.Wrap(err)
	}

	mgr.log.LogAttrs(ctx, slog.LevelDebug, "engine removed", slog.Any("engine", eng))
	return nil
}

// Engines returns an iterator over a snapshot of the registered engines.
func (mgr *Manager) Engines() iter.Seq[*Engine] {
	return func(yield func(*Engine) bool) {
		for _, eng := range mgr.engines.All() {
			if !yield(eng) {
				return
			}
		}
	}
}

// Len returns the number of registered engines.
func (mgr *Manager) Len() int { return mgr.engines.Len() }

// FinishedRuns returns the remembered finished runs, oldest first.
func (mgr *Manager) FinishedRuns() []FinishedRun {
	if mgr.history == nil {
		return nil
	}
	return mgr.history.Values()
}

// OnNewEngine binds a callback to be called when an engine is created.
// The callback can be unbound by calling the returned unbind function.
func (mgr *Manager) OnNewEngine(fn EngineHandler) (unbind func()) {
	return mgr.onNewEngine.Add(fn)
}

// Close closes all registered engines and rejects further engine creation.
func (mgr *Manager) Close(ctx context.Context) error {
	mgr.closeOnce.Do(func() {
		mgr.closing.Store(true)
		mgr.closeErr = mgr.close(ctx)
	})
	return errtrace.Wrap(mgr.closeErr)
}

func (mgr *Manager) close(ctx context.Context) error {
	if mgr.closed.Load() {
		return nil
	}

	var errs []error
	for id, eng := range mgr.engines.All() {
		if err := eng.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close engine %q: %w", id, err))
		}
	}
	mgr.engines.Clear()
	mgr.closed.Store(true)

	mgr.log.LogAttrs(ctx, slog.LevelDebug, "engine manager closed")

	if len(errs) == 0 {
		return nil
	}
	return errtrace.Wrap(errorutil.JoinPrefix("failed to close engine manager:", errs...))
}
