// Package eventloop provides the designated consumer context for deferred
// calls: producers on any goroutine enqueue zero-argument callbacks which the
// loop goroutine runs, at most once per enqueue, at the top of its next cycle
// before any timer work.
package eventloop

import (
	"regexp"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/sirupsen/logrus"
)

type EventLoop struct {
	lock   sync.Mutex
	calls  *linkedlistqueue.Queue
	wake   chan struct{}
	timers *TimerList

	loopGoId atomic.Int64
	running  atomic.Bool
	quitFlag bool // loop goroutine only
}

func MakeEventLoop() *EventLoop {
	return &EventLoop{
		calls:  linkedlistqueue.New(),
		wake:   make(chan struct{}, 1),
		timers: MakeTimerList(),
	}
}

// PushCall enqueues fn to run on the loop goroutine. Callers already on the
// loop goroutine pass fromOtherThread=false; calls from elsewhere without
// that flag get a diagnostic warning unless suppressWarning is set.
func (el *EventLoop) PushCall(fn func(), fromOtherThread bool, suppressWarning bool) {
	if fn == nil {
		return
	}
	if !fromOtherThread && !suppressWarning {
		if loopId := el.loopGoId.Load(); loopId != 0 && loopId != curGoId() {
			logrus.Warnf("eventloop: PushCall from goroutine %d but loop runs on goroutine %d (pass fromOtherThread)", curGoId(), loopId)
		}
	}
	el.lock.Lock()
	el.calls.Enqueue(fn)
	el.lock.Unlock()
	el.wakeUp()
}

// NewTimer registers fn to run on the loop goroutine after delay, repeating
// at that interval when repeat is set. Returns the timer id.
func (el *EventLoop) NewTimer(delay time.Duration, repeat bool, fn func()) int {
	id := el.timers.Add(delay, repeat, fn)
	el.wakeUp()
	return id
}

// CancelTimer removes a timer. Canceling an unknown id is a no-op.
func (el *EventLoop) CancelTimer(id int) {
	el.timers.Cancel(id)
}

// Quit requests the loop to exit. It is itself a pushed call, so it is safe
// from any goroutine and takes effect at the next cycle boundary.
func (el *EventLoop) Quit() {
	el.PushCall(func() {
		el.quitFlag = true
	}, true, true)
}

func (el *EventLoop) Running() bool {
	return el.running.Load()
}

// Run executes the loop on the calling goroutine until Quit. Each cycle
// drains every pending pushed call first, then runs expired timers, then
// sleeps until the next timer deadline or a wake.
func (el *EventLoop) Run() {
	el.loopGoId.Store(curGoId())
	el.running.Store(true)
	defer func() {
		el.running.Store(false)
		el.loopGoId.Store(0)
	}()

	for {
		el.runPendingCalls()
		if el.quitFlag {
			return
		}
		el.timers.RunExpired(time.Now())

		var timerCh <-chan time.Time
		var sleepTimer *time.Timer
		if wait, ok := el.timers.NextDeadlineIn(time.Now()); ok {
			sleepTimer = time.NewTimer(wait)
			timerCh = sleepTimer.C
		}
		select {
		case <-el.wake:
		case <-timerCh:
		}
		if sleepTimer != nil {
			sleepTimer.Stop()
		}
	}
}

func (el *EventLoop) runPendingCalls() {
	for {
		el.lock.Lock()
		val, ok := el.calls.Dequeue()
		el.lock.Unlock()
		if !ok {
			return
		}
		val.(func())()
	}
}

func (el *EventLoop) wakeUp() {
	select {
	case el.wake <- struct{}{}:
	default:
	}
}

var goIdRegexp = regexp.MustCompile(`^goroutine\s+(\d+)\s`)

// curGoId parses the current goroutine's id out of its stack header.
func curGoId() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	match := goIdRegexp.FindSubmatch(buf[:n])
	if match == nil {
		return 0
	}
	id, _ := strconv.ParseInt(string(match[1]), 10, 64)
	return id
}
