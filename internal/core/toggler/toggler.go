package toggler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"randomizer/internal/core/model"
)

var (
	// ErrAlreadyStarted is returned when Start, or a configuration change, is
	// attempted on a toggler that has already been started once.
	ErrAlreadyStarted = errors.New("toggler already started")
	// ErrRegistrationClosed is returned when actions are added after Start.
	ErrRegistrationClosed = errors.New("action registration closed")
)

// Action is invoked on the loop goroutine after a toggle. A non-nil error
// terminates the loop.
type Action func() error

// Options contains runtime options for Toggler.
type Options struct {
	// Rand drives random interval sampling. Seeded from the clock when nil.
	Rand *rand.Rand
	// Sleep implements the suspension points. Defaults to a context-aware timer.
	Sleep SleepFunc
}

// Toggler flips a boolean state on a fixed or random interval and runs the
// actions registered for the new state.
//
// A Toggler runs at most once: after Stop, or after the loop ended on its
// own, Start returns ErrAlreadyStarted and a new Toggler must be built.
type Toggler struct {
	mu         sync.Mutex
	config     model.TogglerConfig
	options    Options
	rng        *rand.Rand
	state      bool
	toggles    uint64
	onActions  []Action
	offActions []Action
	events     []chan Event
	started    bool
	running    bool
	finished   bool
	cancel     context.CancelFunc
	done       chan struct{}
	err        error
}

// New creates a Toggler with the provided configuration. The configuration
// is not checked here; Start rejects an invalid one so the host can still
// correct it with Configure.
func New(config model.TogglerConfig, options Options) *Toggler {
	if options.Sleep == nil {
		options.Sleep = sleepWithContext
	}
	rng := options.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Toggler{
		config:  config,
		options: options,
		rng:     rng,
		done:    make(chan struct{}),
	}
}

// Config returns the current configuration.
func (toggler *Toggler) Config() model.TogglerConfig {
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	return toggler.config
}

// Configure validates and replaces the configuration. It is only allowed
// before Start; an invalid config leaves the current one in place.
func (toggler *Toggler) Configure(config model.TogglerConfig) error {
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	if toggler.started {
		return ErrAlreadyStarted
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("configure toggler: %w", err)
	}
	toggler.config = config
	return nil
}

// OnStateOn appends actions run, in order, each time the state becomes true.
func (toggler *Toggler) OnStateOn(actions ...Action) error {
	return toggler.register(&toggler.onActions, actions)
}

// OnStateOff appends actions run, in order, each time the state becomes false.
func (toggler *Toggler) OnStateOff(actions ...Action) error {
	return toggler.register(&toggler.offActions, actions)
}

func (toggler *Toggler) register(list *[]Action, actions []Action) error {
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	if toggler.started {
		return ErrRegistrationClosed
	}
	for _, action := range actions {
		if action != nil {
			*list = append(*list, action)
		}
	}
	return nil
}

// Subscribe registers a new observer channel. Slow observers miss events.
// The channel is closed when the loop exits.
func (toggler *Toggler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	if toggler.finished {
		close(ch)
		return ch
	}
	toggler.events = append(toggler.events, ch)
	return ch
}

// Start validates the configuration and launches the toggle loop. It must be
// called at most once; later calls return ErrAlreadyStarted.
func (toggler *Toggler) Start(ctx context.Context) error {
	toggler.mu.Lock()
	if toggler.started {
		toggler.mu.Unlock()
		return ErrAlreadyStarted
	}
	if err := toggler.config.Validate(); err != nil {
		toggler.mu.Unlock()
		return fmt.Errorf("start toggler: %w", err)
	}
	runCtx, cancel := context.WithCancel(ctx)
	toggler.started = true
	toggler.running = true
	toggler.cancel = cancel
	onActions := append([]Action(nil), toggler.onActions...)
	offActions := append([]Action(nil), toggler.offActions...)
	toggler.emitLocked(Event{
		Type: EventStarted,
		At:   time.Now(),
	})
	toggler.mu.Unlock()

	go toggler.run(runCtx, onActions, offActions)
	return nil
}

// Stop cancels the loop and waits for it to exit. It is safe to call more
// than once, and before Start. It must not be called from an Action.
func (toggler *Toggler) Stop() {
	toggler.mu.Lock()
	if !toggler.started {
		toggler.started = true
		toggler.finishLocked(nil)
		toggler.mu.Unlock()
		close(toggler.done)
		return
	}
	cancel := toggler.cancel
	toggler.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-toggler.done
}

// Wait blocks until the loop exits and returns the error that ended it, or
// nil when it was cancelled. Wait returns immediately if Start was never
// called.
func (toggler *Toggler) Wait() error {
	toggler.mu.Lock()
	started := toggler.started
	toggler.mu.Unlock()
	if !started {
		return nil
	}
	<-toggler.done
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	return toggler.err
}

// Done is closed once the loop has exited.
func (toggler *Toggler) Done() <-chan struct{} {
	return toggler.done
}

// State returns the current toggle value.
func (toggler *Toggler) State() bool {
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	return toggler.state
}

// Toggles returns how many toggles have happened.
func (toggler *Toggler) Toggles() uint64 {
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	return toggler.toggles
}

// Running reports whether the loop is active.
func (toggler *Toggler) Running() bool {
	toggler.mu.Lock()
	defer toggler.mu.Unlock()
	return toggler.running
}

func (toggler *Toggler) run(ctx context.Context, onActions, offActions []Action) {
	err := toggler.loop(ctx, onActions, offActions)
	if err != nil {
		log.Printf("[Toggler] loop terminated: %v", err)
	}

	toggler.mu.Lock()
	toggler.cancel()
	toggler.finishLocked(err)
	toggler.mu.Unlock()
	close(toggler.done)
}

func (toggler *Toggler) loop(ctx context.Context, onActions, offActions []Action) error {
	if !toggler.options.Sleep(ctx, toggler.config.InitDelay) {
		return nil
	}

	for {
		state, count, next := toggler.flip()

		actions := offActions
		if state {
			actions = onActions
		}
		for _, action := range actions {
			if err := action(); err != nil {
				if ctx.Err() != nil {
					// Failed because the loop was cancelled under it.
					return nil
				}
				return fmt.Errorf("toggle %d: %w", count, err)
			}
		}

		if !toggler.options.Sleep(ctx, next) {
			return nil
		}
	}
}

func (toggler *Toggler) flip() (bool, uint64, time.Duration) {
	toggler.mu.Lock()
	defer toggler.mu.Unlock()

	toggler.state = !toggler.state
	toggler.toggles++
	next := toggler.nextIntervalLocked()

	toggler.emitLocked(Event{
		Type:   EventToggle,
		State:  toggler.state,
		Toggle: toggler.toggles,
		Next:   next,
		At:     time.Now(),
	})
	return toggler.state, toggler.toggles, next
}

func (toggler *Toggler) nextIntervalLocked() time.Duration {
	if toggler.config.Mode == model.IntervalRandom {
		return Range{
			Min: toggler.config.MinInterval,
			Max: toggler.config.MaxInterval,
		}.Random(toggler.rng)
	}
	return toggler.config.Interval
}

func (toggler *Toggler) finishLocked(err error) {
	toggler.running = false
	toggler.finished = true
	toggler.err = err

	event := Event{
		Type:   EventStopped,
		State:  toggler.state,
		Toggle: toggler.toggles,
		At:     time.Now(),
	}
	if err != nil {
		event.Type = EventFailed
		event.Err = err
	}
	toggler.emitLocked(event)

	for _, ch := range toggler.events {
		close(ch)
	}
	toggler.events = nil
}

func (toggler *Toggler) emitLocked(event Event) {
	for _, ch := range toggler.events {
		select {
		case ch <- event:
		default:
		}
	}
}
