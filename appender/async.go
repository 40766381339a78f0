package appender

import (
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/logtree/core"
)

// AsyncConfig holds configuration for async appender
type AsyncConfig struct {
	Options
	// BufferSize is the size of the queue (default: 1000)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining queue on Close (default: 5s)
	DrainTimeout time.Duration
	// Appenders receive the events from the background goroutine
	Appenders []Appender
}

// Async queues events and forwards them to its child appenders from a
// single background goroutine, so callers never wait on slow I/O unless
// the queue is full and the level's policy is Block.
type Async struct {
	Skeleton
	children       Set
	queue          chan *core.Event
	wg             sync.WaitGroup
	closed         chan struct{}
	closeOnce      sync.Once
	// sendMu orders enqueues before the closed signal
	sendMu         sync.RWMutex
	overflowPolicy map[core.Level]OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
	stats          *Stats
}

// NewAsync creates the appender and starts its worker
func NewAsync(cfg AsyncConfig) *Async {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}

	a := &Async{
		queue:          make(chan *core.Event, cfg.BufferSize),
		closed:         make(chan struct{}),
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		drainTimeout:   cfg.DrainTimeout,
		stats:          NewStats(),
	}
	a.Init(cfg.Options)
	for _, child := range cfg.Appenders {
		a.children.Add(child)
	}

	a.wg.Add(1)
	go a.process()
	return a
}

// AddAppender attaches a child
func (a *Async) AddAppender(child Appender) { a.children.Add(child) }

// RemoveAppender detaches a child
func (a *Async) RemoveAppender(child Appender) bool { return a.children.Remove(child) }

// Appenders returns the children
func (a *Async) Appenders() []Appender {
	return append([]Appender(nil), a.children.Snapshot()...)
}

// DoAppend enqueues e according to the overflow policy of its level
func (a *Async) DoAppend(e *core.Event) {
	if !a.Accepts(e) {
		return
	}

	a.sendMu.RLock()
	defer a.sendMu.RUnlock()
	select {
	case <-a.closed:
		// the worker is gone; nothing would drain the queue
		a.forward(e)
		return
	default:
	}

	switch policyFor(a.overflowPolicy, e.Level) {
	case Block:
		select {
		case a.queue <- e:
			return
		default:
		}
		timer := time.NewTimer(a.blockTimeout)
		defer timer.Stop()
		select {
		case a.queue <- e:
		case <-timer.C:
			// Timeout - fall back to synchronous write
			a.stats.IncrementBlocked()
			a.forward(e)
		}

	case DropOldest:
		select {
		case a.queue <- e:
			return
		default:
		}
		select {
		case old := <-a.queue:
			a.stats.IncrementDropped(old.Level)
		default:
		}
		select {
		case a.queue <- e:
		default:
			a.stats.IncrementDropped(e.Level)
		}

	default:
		select {
		case a.queue <- e:
		default:
			a.stats.IncrementDropped(e.Level)
		}
	}
}

func (a *Async) forward(e *core.Event) {
	a.children.AppendLoop(e)
	a.stats.IncrementProcessed()
}

// process drains the queue until Close, then flushes what is left within
// the drain timeout
func (a *Async) process() {
	defer a.wg.Done()

	for {
		select {
		case e := <-a.queue:
			a.forward(e)
		case <-a.closed:
			deadline := time.NewTimer(a.drainTimeout)
			defer deadline.Stop()
			for {
				select {
				case e := <-a.queue:
					a.forward(e)
				case <-deadline.C:
					return
				default:
					return
				}
			}
		}
	}
}

// signalClose stops the worker once no DoAppend is mid-enqueue
func (a *Async) signalClose() {
	a.sendMu.Lock()
	defer a.sendMu.Unlock()
	a.closeOnce.Do(func() { close(a.closed) })
}

// Len returns the number of queued events
func (a *Async) Len() int { return len(a.queue) }

// Stats returns a snapshot of the current statistics
func (a *Async) Stats() Snapshot {
	return a.stats.Snapshot()
}

// Close stops the worker after draining the queue, then closes every
// child. Close errors of the children are combined.
func (a *Async) Close() error {
	if !a.MarkClosed() {
		return nil
	}
	a.signalClose()
	a.wg.Wait()

	var err error
	for _, child := range a.children.RemoveAll() {
		err = multierr.Append(err, child.Close())
	}
	return err
}
