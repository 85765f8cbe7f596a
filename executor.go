// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

import "time"

// SpinStatus classifies the outcome of one Spin call.
type SpinStatus int

const (
	// SpinNoTasks: both stores are empty; nothing to do.
	SpinNoTasks SpinStatus = iota
	// SpinExecutedTask: one future's step function ran.
	SpinExecutedTask
	// SpinShouldWait: only timed futures remain and none is due yet;
	// the earliest wake-up instant is in SpinResult.NextWakeUp.
	SpinShouldWait
	// SpinFailed: a step ran but its future could not be re-enqueued;
	// the future was dropped and its handle reads Cancelled.
	SpinFailed
)

// SpinResult is the outcome of one Spin call. NextWakeUp is meaningful
// only when Status is SpinShouldWait.
type SpinResult struct {
	NextWakeUp time.Time
	Status     SpinStatus
}

// timedFuture pairs a future with its wake-up instant, kept as
// milliseconds relative to the executor epoch so the heap key is a
// fixed-size integer that cannot wrap under any realistic uptime.
type timedFuture struct {
	fut      Future
	wakeUpMS uint64
}

func timedFutureCmp(a, b *timedFuture) int {
	switch {
	case a.wakeUpMS < b.wakeUpMS:
		return -1
	case a.wakeUpMS > b.wakeUpMS:
		return 1
	default:
		return 0
	}
}

// Executor is a single-threaded cooperative executor: a FIFO deque of
// ready futures plus a min-heap of timed futures, drained one step at a
// time by Spin. It is not safe for concurrent use; BackgroundExecutor
// wraps it with a driver goroutine and a mutex for multi-goroutine
// producers.
type Executor struct {
	tasks *Deque[Future]
	timed *PQueue[timedFuture]
	epoch time.Time
	stats Metrics
}

// NewExecutor creates an executor whose ready and timed stores each hold
// capacity futures (the ready store rounds up to a power of 2). Panics
// if capacity < 1. Use the Builder for
// asymmetric store sizes.
func NewExecutor(capacity int) *Executor {
	return newExecutor(capacity, capacity)
}

func newExecutor(taskCapacity, timedCapacity int) *Executor {
	return &Executor{
		tasks: NewDeque[Future](taskCapacity),
		timed: NewPQueue[timedFuture](timedCapacity, timedFutureCmp),
		epoch: time.Now(),
	}
}

// Cap returns the capacity of the ready store.
func (e *Executor) Cap() int {
	return e.tasks.Cap()
}

// TimedCap returns the capacity of the timed store.
func (e *Executor) TimedCap() int {
	return e.timed.Cap()
}

// Len returns the total number of queued futures across both stores.
func (e *Executor) Len() int {
	return e.tasks.Len() + e.timed.Len()
}

// Metrics returns the executor's live scheduling counters.
func (e *Executor) Metrics() *Metrics {
	return &e.stats
}

// Spawn transfers ownership of the future to the executor, queueing it
// at the back of the ready FIFO. On a full store the future's drop hook
// runs, its handle (if any) moves to Cancelled, and ErrWouldBlock is
// returned. Obtain the Handle before spawning.
func (e *Executor) Spawn(f Future) error {
	if err := e.tasks.PushBack(&f); err != nil {
		if f.handle != nil {
			f.handle.markCancelled()
		}
		f.destroy()
		return err
	}
	e.stats.Spawned.Add(1)
	return nil
}

// SpawnFunc spawns a future built from step alone and returns its
// handle. Convenience for callers that only need cancellation or status
// observation.
func (e *Executor) SpawnFunc(step StepFunc) (*Handle, error) {
	f := NewFuture(step, nil)
	h := f.Handle()
	if err := e.Spawn(f); err != nil {
		return nil, err
	}
	return h, nil
}

// nextFuture picks the future to execute, applying the ordering
// contract: a due timed future is popped, but if the ready FIFO is
// non-empty the FIFO head runs first and the timed future is demoted to
// the back of the FIFO as an immediate task. FIFO order among non-timed
// futures is preserved.
func (e *Executor) nextFuture() (Future, SpinResult) {
	var fut Future
	res := SpinResult{Status: SpinNoTasks}
	if tf, err := e.timed.Peek(); err == nil {
		wakeUp := e.epoch.Add(time.Duration(tf.wakeUpMS) * time.Millisecond)
		if !wakeUp.After(time.Now()) {
			t, _ := e.timed.Pop()
			if f, err := e.tasks.PopFront(); err == nil {
				fut = f
				// Cannot fail: PopFront just freed a slot.
				e.tasks.PushBack(&t.fut)
			} else {
				fut = t.fut
			}
			res.Status = SpinExecutedTask
		} else if f, err := e.tasks.PopFront(); err == nil {
			fut = f
			res.Status = SpinExecutedTask
		} else {
			res.Status = SpinShouldWait
			res.NextWakeUp = wakeUp
		}
	} else if f, err := e.tasks.PopFront(); err == nil {
		fut = f
		res.Status = SpinExecutedTask
	}
	return fut, res
}

// Spin processes at most one future and returns what happened. Cancelled
// and idle futures are dropped without counting as the executed task, so
// a single call may retire several of those before running a body or
// reporting an empty executor.
func (e *Executor) Spin() SpinResult {
	var fut Future
	var res SpinResult
	for {
		fut, res = e.nextFuture()
		if res.Status == SpinNoTasks || res.Status == SpinShouldWait {
			return res
		}
		if fut.handle != nil && !fut.handle.claim() {
			fut.destroy()
			e.stats.CancelSkips.Add(1)
			continue
		}
		if fut.step == nil {
			if fut.handle != nil {
				fut.handle.markCancelled()
			}
			fut.destroy()
			e.stats.IdleDrops.Add(1)
			continue
		}
		break
	}

	r := fut.step(e)
	e.stats.Steps.Add(1)

	if r.Ready {
		if fut.handle != nil {
			fut.handle.markReady()
		}
		fut.destroy()
		e.stats.Completed.Add(1)
		return res
	}

	// Re-publish Pending before the future re-enters a store; a racing
	// Cancel lands here and the next claim observes it.
	if fut.handle != nil {
		fut.handle.markPending()
	}
	if r.HasWakeUp {
		tf := timedFuture{fut: fut, wakeUpMS: e.wakeUpMS(r.WakeUp)}
		if err := e.timed.Push(&tf); err != nil {
			if tf.fut.handle != nil {
				tf.fut.handle.markCancelled()
			}
			tf.fut.destroy()
			e.stats.EnqueueFailures.Add(1)
			res.Status = SpinFailed
			return res
		}
		e.stats.TimedReschedules.Add(1)
	} else {
		if err := e.tasks.PushBack(&fut); err != nil {
			if fut.handle != nil {
				fut.handle.markCancelled()
			}
			fut.destroy()
			e.stats.EnqueueFailures.Add(1)
			res.Status = SpinFailed
			return res
		}
		e.stats.Reschedules.Add(1)
	}
	return res
}

// wakeUpMS converts an absolute wake-up instant to milliseconds past the
// epoch, saturating at zero for instants in the past.
func (e *Executor) wakeUpMS(wakeUp time.Time) uint64 {
	d := wakeUp.Sub(e.epoch)
	if d < 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

// Close drains both stores: every residual future's drop hook runs and
// its handle moves to Cancelled, so waiters are not left expecting a
// Ready that will never come. The executor is unusable afterwards.
func (e *Executor) Close() {
	e.tasks.Clear(func(f *Future) {
		if f.handle != nil {
			f.handle.markCancelled()
		}
		f.destroy()
		e.stats.Drained.Add(1)
	})
	e.timed.Clear(func(t *timedFuture) {
		if t.fut.handle != nil {
			t.fut.handle.markCancelled()
		}
		t.fut.destroy()
		e.stats.Drained.Add(1)
	})
}
