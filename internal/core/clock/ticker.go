package clock

import (
	"sync"
	"time"
)

// Ticker publishes the current wall-clock time once per interval.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	subs     []chan time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewTicker creates a stopped ticker. A non-positive interval means one second.
func NewTicker(clock Clock, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Ticker{interval: interval, clock: clock}
}

// Interval returns the tick period.
func (ticker *Ticker) Interval() time.Duration {
	return ticker.interval
}

// Subscribe registers a new observer channel. Slow observers miss ticks
// rather than blocking the loop.
func (ticker *Ticker) Subscribe(buffer int) <-chan time.Time {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan time.Time, buffer)
	ticker.mu.Lock()
	ticker.subs = append(ticker.subs, ch)
	ticker.mu.Unlock()
	return ch
}

// Start launches the ticking loop. Calling Start twice is a no-op.
func (ticker *Ticker) Start() {
	ticker.mu.Lock()
	if ticker.running {
		ticker.mu.Unlock()
		return
	}
	ticker.running = true
	ticker.stopCh = make(chan struct{})
	ticker.doneCh = make(chan struct{})
	stopCh, doneCh := ticker.stopCh, ticker.doneCh
	ticker.mu.Unlock()

	go ticker.run(stopCh, doneCh)
}

// Stop terminates the loop, waits for it to exit and closes observers.
func (ticker *Ticker) Stop() {
	ticker.mu.Lock()
	if !ticker.running {
		ticker.mu.Unlock()
		return
	}
	ticker.running = false
	close(ticker.stopCh)
	doneCh := ticker.doneCh
	subs := ticker.subs
	ticker.subs = nil
	ticker.mu.Unlock()

	<-doneCh
	for _, ch := range subs {
		close(ch)
	}
}

func (ticker *Ticker) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	timeTicker := time.NewTicker(ticker.interval)
	defer timeTicker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timeTicker.C:
			ticker.publish(ticker.clock.Now())
		}
	}
}

func (ticker *Ticker) publish(now time.Time) {
	ticker.mu.Lock()
	subs := append([]chan time.Time(nil), ticker.subs...)
	ticker.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- now:
		default:
		}
	}
}
