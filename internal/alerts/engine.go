package alerts

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidStartTime = errors.New("alerts: invalid start time")
	ErrStopped          = errors.New("alerts: engine stopped")
)

// EventAlert fires when a calendar event created from a confirmed date
// mention comes due.
type EventAlert struct {
	EventID string
	Title   string
	StartAt time.Time
}

type alertQueue []EventAlert

func (q alertQueue) Len() int { return len(q) }

func (q alertQueue) Less(i, j int) bool {
	return q[i].StartAt.Before(q[j].StartAt)
}

func (q alertQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *alertQueue) Push(x any) {
	*q = append(*q, x.(EventAlert))
}

func (q *alertQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Engine delivers EventAlerts on a channel at their start time. Alerts for
// deleted events can be cancelled; cancellation is lazy, applied when the
// alert reaches the head of the queue.
type Engine struct {
	mu        sync.Mutex
	queue     alertQueue
	cancelled map[string]bool
	out       chan EventAlert
	wakeup    chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
	dropped   uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:     make(alertQueue, 0),
		cancelled: make(map[string]bool),
		out:       make(chan EventAlert, bufferSize),
		wakeup:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

func (e *Engine) C() <-chan EventAlert {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(alert EventAlert) error {
	if alert.StartAt.IsZero() {
		return ErrInvalidStartTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	delete(e.cancelled, alert.EventID)
	heap.Push(&e.queue, alert)
	e.signalWakeup()
	return nil
}

// Cancel suppresses any pending alert for the event.
func (e *Engine) Cancel(eventID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.cancelled[eventID] = true
}

// Dropped counts alerts lost to a full output channel.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.StartAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, alert := range e.popDue(time.Now().UTC()) {
				select {
				case e.out <- alert:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (EventAlert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 && e.cancelled[e.queue[0].EventID] {
		alert := heap.Pop(&e.queue).(EventAlert)
		delete(e.cancelled, alert.EventID)
	}
	if len(e.queue) == 0 {
		return EventAlert{}, false
	}
	return e.queue[0], true
}

func (e *Engine) popDue(now time.Time) []EventAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]EventAlert, 0)
	for len(e.queue) > 0 {
		next := e.queue[0]
		if next.StartAt.After(now) {
			break
		}
		alert := heap.Pop(&e.queue).(EventAlert)
		if e.cancelled[alert.EventID] {
			delete(e.cancelled, alert.EventID)
			continue
		}
		out = append(out, alert)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
