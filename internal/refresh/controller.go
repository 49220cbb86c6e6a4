// Package refresh drives the pipeline. Two producers — the periodic cron
// tick and the debounced change signal — plus explicit kicks all feed one
// capacity-1 trigger channel consumed by a single goroutine, so at most one
// cycle is ever in flight and triggers arriving mid-cycle are coalesced
// away rather than queued up.
package refresh

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// State is where the in-flight cycle currently is. Between cycles the
// controller sits in Idle.
type State int32

const (
	Idle State = iota
	Scraping
	Classifying
	Aggregating
	Presenting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scraping:
		return "scraping"
	case Classifying:
		return "classifying"
	case Aggregating:
		return "aggregating"
	case Presenting:
		return "presenting"
	default:
		return "unknown"
	}
}

type Controller struct {
	runCycle func()
	debounce time.Duration

	triggers chan struct{}
	stop     chan struct{}
	done     chan struct{}

	state     atomic.Int32
	coalesced atomic.Int64

	mu      sync.Mutex
	pending *time.Timer
	stopped bool
}

func NewController(runCycle func(), debounce time.Duration) *Controller {
	return &Controller{
		runCycle: runCycle,
		debounce: debounce,
		triggers: make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (c *Controller) State() State { return State(c.state.Load()) }

// Advance is called by the pipeline as it moves through its stages so the
// state is observable from outside the cycle.
func (c *Controller) Advance(s State) { c.state.Store(int32(s)) }

// Coalesced counts triggers dropped because a cycle was already in flight
// or already queued.
func (c *Controller) Coalesced() int64 { return c.coalesced.Load() }

// Kick requests a cycle. It reports false when the trigger was coalesced:
// either a cycle is in flight or one is already waiting. A started cycle
// always runs to completion; there is no cancellation, because a cycle is
// a synchronous pass over an already-materialized snapshot.
func (c *Controller) Kick() bool {
	if c.State() != Idle {
		c.coalesced.Add(1)
		return false
	}
	select {
	case c.triggers <- struct{}{}:
		return true
	default:
		c.coalesced.Add(1)
		return false
	}
}

// NotifyChange is the mutation-side trigger: bursts inside the debounce
// window collapse into a single deferred kick.
func (c *Controller) NotifyChange() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = time.AfterFunc(c.debounce, func() { c.Kick() })
}

// Start parses schedule as a six-field cron expression (seconds first) and
// launches the tick producer and the single consumer. The schedule loop
// follows the sleep-until-next pattern rather than holding a cron runtime.
func (c *Controller) Start(schedule string, loc *time.Location) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return err
	}
	log.Printf("refresh scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now().In(loc)
			wait := sched.Next(now).Sub(now)
			select {
			case <-c.stop:
				return
			case <-time.After(wait):
				c.Kick()
			}
		}
	}()

	go func() {
		defer close(c.done)
		for {
			select {
			case <-c.stop:
				return
			case <-c.triggers:
				c.Advance(Scraping)
				c.runCycle()
				c.Advance(Idle)
			}
		}
	}()
	return nil
}

// Stop halts both producers and waits for an in-flight cycle to finish.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	if c.pending != nil {
		c.pending.Stop()
	}
	c.mu.Unlock()

	close(c.stop)
	<-c.done
}

// RunOnce executes one cycle synchronously, bypassing the trigger channel.
// Used for the explicit settings-save rerun and in tests.
func (c *Controller) RunOnce() {
	if !c.state.CompareAndSwap(int32(Idle), int32(Scraping)) {
		c.coalesced.Add(1)
		return
	}
	c.runCycle()
	c.Advance(Idle)
}
