// Package engine schedules the configuration matrix: it pre-registers
// every profile, orders them for dominance-friendly evaluation, prunes
// predictable work, and runs the rest on concurrent workers serialized
// per shared cache directory.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkoosis/tmx/internal/config"
	"github.com/dkoosis/tmx/internal/matrix"
	"github.com/dkoosis/tmx/internal/toolchain"
)

// DefaultPollInterval is how often the scheduling loop checks worker
// liveness to decide whether the table needs a repaint.
const DefaultPollInterval = 250 * time.Millisecond

// FatalError is raised by a worker whose failure the outcome policy
// judged run-ending. It carries the context the operator needs to
// reproduce the failure.
type FatalError struct {
	Profile matrix.Profile
	Command string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal failure: %s\n  command: %s", e.Profile, e.Command)
}

// Options configures an Engine. Matrix and Runner are required; the rest
// default sensibly.
type Options struct {
	Config       config.Config
	Matrix       *matrix.Matrix
	Runner       toolchain.Runner
	PollInterval time.Duration
	// OnPoll is invoked by the scheduling loop each time the number of
	// running workers changes, so the caller can repaint without a render
	// per completion under high concurrency.
	OnPoll func()
}

// Engine owns the scheduling loop, the worker pool, and the per-resource
// lock table for one run.
type Engine struct {
	cfg    config.Config
	mat    *matrix.Matrix
	run    toolchain.Runner
	poll   time.Duration
	onPoll func()

	// locks is built from the full key set before any worker starts and
	// never mutated afterwards, so workers index it without coordination.
	locks map[string]*sync.Mutex

	running atomic.Int64
}

// New creates an engine.
func New(opts Options) *Engine {
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Engine{
		cfg:    opts.Config,
		mat:    opts.Matrix,
		run:    opts.Runner,
		poll:   poll,
		onPoll: opts.OnPoll,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Execute runs the full matrix for the given test identifiers. It returns
// nil when no fatal failure occurred; otherwise the first FatalError a
// worker raised. Non-fatal failures are recorded in the matrix and do not
// surface as errors.
func (e *Engine) Execute(ctx context.Context, tests []string) error {
	space := e.cfg.Rules.Space(e.cfg.Env())

	var profiles []matrix.Profile
	for _, test := range tests {
		profiles = append(profiles, matrix.Generate(test, space)...)
	}

	// Pre-register every slot and build the lock table before any worker
	// exists: workers then only ever write their own pre-allocated slot
	// and read an immutable lock map.
	keySet := make(map[string]bool)
	for _, p := range profiles {
		e.mat.Register(p)
		keySet[toolchain.ResourceKey(p)] = true
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
		e.locks[key] = &sync.Mutex{}
	}
	if err := toolchain.EnsureWorkDirs(e.cfg.Dir, keys); err != nil {
		return err
	}

	var wg sync.WaitGroup
	fatal := make(chan *FatalError, 1)

	queue := newQueue(profiles)
	for queue.Len() > 0 {
		p := queue.pop()
		if e.mat.Decided(p) {
			continue
		}
		if matrix.Dominated(p, e.mat) {
			e.mat.Set(p, matrix.Skip)
			continue
		}
		wg.Add(1)
		e.running.Add(1)
		go e.work(ctx, p, &wg, fatal)
	}

	e.await(&wg)

	select {
	case err := <-fatal:
		return err
	default:
		return nil
	}
}

// work runs one profile. The resource lock guards only the external
// invocation; the matrix write targets this worker's own slot.
func (e *Engine) work(ctx context.Context, p matrix.Profile, wg *sync.WaitGroup, fatal chan<- *FatalError) {
	defer wg.Done()
	defer e.running.Add(-1)

	command := toolchain.Command(p, e.cfg)

	lock := e.locks[toolchain.ResourceKey(p)]
	lock.Lock()
	code := e.run(ctx, command)
	lock.Unlock()

	status := matrix.Pass
	if code != 0 {
		status = matrix.Fail
	}
	e.mat.Set(p, status)

	if status.Failed() && e.cfg.Rules.Fatal(p, e.cfg.Env()) {
		select {
		case fatal <- &FatalError{Profile: p, Command: command}:
		default: // a fatal failure is already recorded; first one wins
		}
	}
}

// await blocks until every worker finishes, polling on a fixed interval
// and repainting only when the running count changes.
func (e *Engine) await(wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	last := e.running.Load()
	ticker := time.NewTicker(e.poll)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			if e.onPoll != nil {
				e.onPoll()
			}
			return
		case <-ticker.C:
			if cur := e.running.Load(); cur != last {
				last = cur
				if e.onPoll != nil {
					e.onPoll()
				}
			}
		}
	}
}

// Diagnose performs the single diagnostic re-run for a fatal failure: the
// same test at the least aggressive optimization mode, recorded as Info
// and never judged. A no-op when that configuration was already attempted.
func (e *Engine) Diagnose(ctx context.Context, fatal *FatalError) {
	p := fatal.Profile
	p.Opt = matrix.OptDebug
	if p != fatal.Profile && e.mat.Contains(p) {
		return
	}

	lock, ok := e.locks[toolchain.ResourceKey(p)]
	if !ok {
		lock = &sync.Mutex{}
	}
	lock.Lock()
	e.run(ctx, toolchain.Command(p, e.cfg))
	lock.Unlock()

	e.mat.Set(p, matrix.Info)
}
