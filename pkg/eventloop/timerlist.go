package eventloop

import (
	"sync"
	"time"
)

type timer struct {
	id       int
	deadline time.Time
	interval time.Duration
	repeat   bool
	fn       func()
}

// TimerList holds the loop's timers. Callbacks run on whatever goroutine
// calls RunExpired (the loop goroutine in practice), outside the list lock.
type TimerList struct {
	lock   sync.Mutex
	timers []*timer
	nextId int
}

func MakeTimerList() *TimerList {
	return &TimerList{nextId: 1}
}

func (tl *TimerList) Add(delay time.Duration, repeat bool, fn func()) int {
	tl.lock.Lock()
	defer tl.lock.Unlock()
	id := tl.nextId
	tl.nextId++
	tl.timers = append(tl.timers, &timer{
		id:       id,
		deadline: time.Now().Add(delay),
		interval: delay,
		repeat:   repeat,
		fn:       fn,
	})
	return id
}

func (tl *TimerList) Cancel(id int) bool {
	tl.lock.Lock()
	defer tl.lock.Unlock()
	for i, t := range tl.timers {
		if t.id == id {
			tl.timers = append(tl.timers[:i], tl.timers[i+1:]...)
			return true
		}
	}
	return false
}

// RunExpired runs every timer whose deadline is at or before now, oldest
// deadline first, and re-arms repeating timers. The number of runs is capped
// at the initially-expired count so a timer that re-arms itself at zero
// delay cannot spin the cycle forever. Returns how many timers ran.
func (tl *TimerList) RunExpired(now time.Time) int {
	expiredCount := tl.countExpired(now)
	ranCount := 0
	for timersToRun := expiredCount; timersToRun > 0; timersToRun-- {
		t := tl.takeNextExpired(now)
		if t == nil {
			break
		}
		t.fn()
		ranCount++
		if t.repeat {
			tl.rearm(t, now)
		}
	}
	return ranCount
}

// NextDeadlineIn returns the duration until the earliest pending timer, or
// false when no timers are registered. An already-passed deadline yields 0.
func (tl *TimerList) NextDeadlineIn(now time.Time) (time.Duration, bool) {
	tl.lock.Lock()
	defer tl.lock.Unlock()
	if len(tl.timers) == 0 {
		return 0, false
	}
	earliest := tl.timers[0].deadline
	for _, t := range tl.timers[1:] {
		if t.deadline.Before(earliest) {
			earliest = t.deadline
		}
	}
	wait := earliest.Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

func (tl *TimerList) Size() int {
	tl.lock.Lock()
	defer tl.lock.Unlock()
	return len(tl.timers)
}

func (tl *TimerList) countExpired(now time.Time) int {
	tl.lock.Lock()
	defer tl.lock.Unlock()
	count := 0
	for _, t := range tl.timers {
		if !t.deadline.After(now) {
			count++
		}
	}
	return count
}

// takeNextExpired removes and returns the expired timer with the earliest
// deadline, or nil when none remain expired.
func (tl *TimerList) takeNextExpired(now time.Time) *timer {
	tl.lock.Lock()
	defer tl.lock.Unlock()
	bestIdx := -1
	for i, t := range tl.timers {
		if t.deadline.After(now) {
			continue
		}
		if bestIdx == -1 || t.deadline.Before(tl.timers[bestIdx].deadline) {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return nil
	}
	t := tl.timers[bestIdx]
	tl.timers = append(tl.timers[:bestIdx], tl.timers[bestIdx+1:]...)
	return t
}

func (tl *TimerList) rearm(t *timer, now time.Time) {
	tl.lock.Lock()
	defer tl.lock.Unlock()
	t.deadline = now.Add(t.interval)
	tl.timers = append(tl.timers, t)
}
