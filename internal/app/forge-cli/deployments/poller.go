package deployments

import (
	"context"
	"errors"
	"sync"
	"time"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
)

const DefaultPollInterval = 5 * time.Second

var ErrPollerRunning = errors.New("poller is already running")

// FetchFunc loads the current state of a polled resource.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// PollResult is one delivered fetch outcome.
type PollResult[T any] struct {
	Value T
	Err   error
	// Generation increases with every Refresh. Results from older generations are never delivered.
	Generation uint64
}

// Poller refetches a resource on a fixed interval until it reaches a terminal state.
type Poller[T any] struct {
	fetch    FetchFunc[T]
	done     func(T) bool
	deliver  func(PollResult[T])
	interval time.Duration

	mu          sync.Mutex
	generation  uint64
	cancelFetch context.CancelFunc
	refresh     chan struct{}
	running     bool
}

// NewPoller creates a poller. done reports when polling should stop; deliver receives every
// current-generation result, including errors. A zero interval means DefaultPollInterval.
func NewPoller[T any](
	fetch FetchFunc[T],
	done func(T) bool,
	deliver func(PollResult[T]),
	interval time.Duration,
) *Poller[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller[T]{
		fetch:    fetch,
		done:     done,
		deliver:  deliver,
		interval: interval,
		refresh:  make(chan struct{}, 1),
	}
}

// Run fetches immediately and then on every tick until done reports true or ctx ends.
// It returns nil when polling stopped because the resource became terminal.
func (p *Poller[T]) Run(ctx context.Context) error {
	loop := p.Start()
	if loop == nil {
		return ErrPollerRunning
	}
	return loop(ctx)
}

// Start claims the poller and returns its polling loop, or nil when a loop is already claimed.
// The claim is released when the loop returns.
func (p *Poller[T]) Start() func(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true
	return p.loop
}

// Running reports whether a polling loop is claimed and will observe the next Refresh.
func (p *Poller[T]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller[T]) loop(ctx context.Context) error {
	defer p.release()

	// the first fetch is immediate, so a refresh sent before the loop began is already served
	select {
	case <-p.refresh:
	default:
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		if result, current := p.fetchOnce(ctx); current {
			p.deliver(result)
			if result.Err == nil && p.done(result.Value) && p.stopIfIdle() {
				logger.Debug("polling stopped, resource is terminal")
				return nil
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(p.interval)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-p.refresh:
		}
	}
}

// stopIfIdle releases the claim unless a refresh arrived after the last fetch started.
func (p *Poller[T]) stopIfIdle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.refresh) > 0 {
		return false
	}
	p.running = false
	return true
}

func (p *Poller[T]) release() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

// Refresh requests an immediate authoritative refetch. A fetch already in flight is canceled
// and its result discarded. It reports false when no loop is running to serve the request,
// in which case the caller has to start one.
func (p *Poller[T]) Refresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	if p.cancelFetch != nil {
		p.cancelFetch()
	}
	if !p.running {
		return false
	}
	select {
	case p.refresh <- struct{}{}:
	default:
	}
	return true
}

// Generation returns the current refresh generation.
func (p *Poller[T]) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

func (p *Poller[T]) fetchOnce(ctx context.Context) (PollResult[T], bool) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	gen := p.generation
	p.cancelFetch = cancel
	p.mu.Unlock()

	value, err := p.fetch(fetchCtx)

	p.mu.Lock()
	p.cancelFetch = nil
	stale := gen != p.generation
	p.mu.Unlock()

	if stale || ctx.Err() != nil {
		return PollResult[T]{}, false
	}
	if err != nil && errors.Is(err, context.Canceled) {
		return PollResult[T]{}, false
	}
	return PollResult[T]{Value: value, Err: err, Generation: gen}, true
}

// NewGroupsPoller polls a project's grouped deployments until nothing is in flight.
func NewGroupsPoller(
	client api.ClientInterface,
	project, group string,
	interval time.Duration,
	deliver func(PollResult[Snapshot]),
) *Poller[Snapshot] {
	fetch := func(ctx context.Context) (Snapshot, error) {
		return FetchGroups(ctx, client, project, group)
	}
	done := func(s Snapshot) bool {
		return s.InFlight == 0
	}
	return NewPoller(fetch, done, deliver, interval)
}

// NewDeploymentPoller polls one deployment until its status is terminal.
func NewDeploymentPoller(
	client api.ClientInterface,
	project, deploymentID string,
	interval time.Duration,
	deliver func(PollResult[models.Deployment]),
) *Poller[models.Deployment] {
	fetch := func(ctx context.Context) (models.Deployment, error) {
		return client.GetDeployment(ctx, project, deploymentID)
	}
	done := func(d models.Deployment) bool {
		return d.Status.IsTerminal()
	}
	return NewPoller(fetch, done, deliver, interval)
}
