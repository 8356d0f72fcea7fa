package eventloop

import (
	"testing"
	"time"
)

func TestTimerListRunExpired(t *testing.T) {
	tl := MakeTimerList()
	now := time.Now()

	var ran []string
	tl.Add(-20*time.Millisecond, false, func() { ran = append(ran, "older") })
	tl.Add(-10*time.Millisecond, false, func() { ran = append(ran, "newer") })
	tl.Add(time.Hour, false, func() { ran = append(ran, "future") })

	count := tl.RunExpired(now)
	if count != 2 {
		t.Fatalf("Expected 2 expired timers to run, got %d", count)
	}
	if len(ran) != 2 || ran[0] != "older" || ran[1] != "newer" {
		t.Errorf("Expected [older newer], got %v", ran)
	}
	if tl.Size() != 1 {
		t.Errorf("Expected 1 timer remaining, got %d", tl.Size())
	}
}

func TestTimerListRepeatRearms(t *testing.T) {
	tl := MakeTimerList()

	fired := 0
	tl.Add(0, true, func() { fired++ })

	// each pass runs the timer once; the re-armed deadline is relative to
	// the pass's now, so advancing now re-expires it
	now := time.Now()
	tl.RunExpired(now)
	tl.RunExpired(now.Add(time.Millisecond))
	if fired != 2 {
		t.Errorf("Expected 2 fires, got %d", fired)
	}
	if tl.Size() != 1 {
		t.Errorf("Repeating timer should stay registered, got size %d", tl.Size())
	}
}

func TestTimerListRunBoundedPerPass(t *testing.T) {
	tl := MakeTimerList()

	// a zero-delay repeating timer must run once per pass, not spin
	fired := 0
	tl.Add(0, true, func() { fired++ })

	count := tl.RunExpired(time.Now().Add(time.Millisecond))
	if count != 1 {
		t.Errorf("Expected exactly 1 run per pass, got %d", count)
	}
	if fired != 1 {
		t.Errorf("Expected 1 fire, got %d", fired)
	}
}

func TestTimerListCancel(t *testing.T) {
	tl := MakeTimerList()

	fired := false
	id := tl.Add(-time.Millisecond, false, func() { fired = true })

	if !tl.Cancel(id) {
		t.Error("Cancel of live timer should return true")
	}
	if tl.Cancel(id) {
		t.Error("Cancel of unknown id should return false")
	}
	tl.RunExpired(time.Now())
	if fired {
		t.Error("Canceled timer must not run")
	}
}

func TestTimerListNextDeadlineIn(t *testing.T) {
	tl := MakeTimerList()
	now := time.Now()

	if _, ok := tl.NextDeadlineIn(now); ok {
		t.Error("Empty list should report no deadline")
	}

	tl.Add(time.Second, false, func() {})
	tl.Add(10*time.Millisecond, false, func() {})

	wait, ok := tl.NextDeadlineIn(now)
	if !ok {
		t.Fatal("Expected a deadline")
	}
	if wait <= 0 || wait > 20*time.Millisecond {
		t.Errorf("Expected wait near 10ms, got %v", wait)
	}

	// a deadline already in the past clamps to zero
	tl.Add(-time.Second, false, func() {})
	wait, ok = tl.NextDeadlineIn(now)
	if !ok || wait != 0 {
		t.Errorf("Expected zero wait for expired deadline, got %v (ok %v)", wait, ok)
	}
}
