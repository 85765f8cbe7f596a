// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// StepFunc is one cooperative step of a future. It runs to completion;
// the executor never preempts it. The executor passes itself so a step
// may spawn children. On a background executor this is the inner
// single-threaded executor and its plain Spawn is safe to call from
// inside a step (no outer lock is involved).
//
// The returned StepResult is the future's explicit continuation state:
// finished, run again as soon as possible, or run again at a wake-up
// instant.
type StepFunc func(ex *Executor) StepResult

// StepResult carries a step function's continuation state.
//
//   - Ready: the future finished; the executor marks it Ready and drops it.
//   - !Ready, !HasWakeUp: re-enqueue at the back of the ready FIFO.
//   - !Ready, HasWakeUp: re-enqueue in the timed store; eligible to run
//     again once WakeUp has passed.
type StepResult struct {
	WakeUp    time.Time
	Ready     bool
	HasWakeUp bool
}

// Done returns the StepResult of a finished future.
func Done() StepResult {
	return StepResult{Ready: true}
}

// Yield returns the StepResult of a future that wants to run again as
// soon as possible.
func Yield() StepResult {
	return StepResult{}
}

// YieldUntil returns the StepResult of a future that wants to run again
// once wakeUp has passed. A rescheduled future's wake-up instant is the
// one returned by the latest step, not the original.
func YieldUntil(wakeUp time.Time) StepResult {
	return StepResult{HasWakeUp: true, WakeUp: wakeUp}
}

// Future is a cooperatively scheduled unit of work: a step function, an
// optional drop hook, and an optional status handle. Ownership transfers
// into the executor on spawn; after a successful Spawn the caller must
// not use the Future value again, only the Handle obtained beforehand.
//
// For every successfully spawned future, the drop hook runs exactly
// once: when the future finishes, when it is skipped after cancellation,
// or when the executor is closed with the future still queued.
//
// A Future with a nil step function is an idle future: the executor
// drops it without executing anything (the drop hook still runs).
type Future struct {
	step   StepFunc
	drop   func()
	handle *Handle
}

// NewFuture creates a future from a step function and an optional drop
// hook. Either may be nil.
//
// Example:
//
//	n := 0
//	f := taskex.NewFuture(func(*taskex.Executor) taskex.StepResult {
//		n++
//		if n < 3 {
//			return taskex.Yield()
//		}
//		return taskex.Done()
//	}, nil)
//	ex.Spawn(f)
func NewFuture(step StepFunc, drop func()) Future {
	return Future{step: step, drop: drop}
}

// Handle returns the future's status handle, allocating it on first
// call; subsequent calls return the same handle. Call it before
// spawning: the executor owns the future afterwards.
func (f *Future) Handle() *Handle {
	if f.handle == nil {
		f.handle = &Handle{}
		f.handle.status.StoreRelaxed(uint64(StatusPending))
	}
	return f.handle
}

// destroy runs the drop hook. Exactly one call per spawned future, on
// whichever path retires it.
func (f *Future) destroy() {
	if f.drop != nil {
		f.drop()
	}
	f.step = nil
	f.drop = nil
	f.handle = nil
}

// Handle is a shared observer of one future's status. It is a weak-style
// observer: discarding every handle never cancels the future, and a
// cancelled future is still drained by the executor so its drop hook
// runs. All methods are safe to call from any goroutine.
type Handle struct {
	status atomix.Uint64
}

// Status returns the future's current status.
func (h *Handle) Status() Status {
	return Status(h.status.LoadAcquire())
}

// Cancel requests cancellation. It is asynchronous and idempotent.
//
// Cancelling a Pending future prevents its body from ever running; the
// drop hook still runs when the executor next encounters it. If the
// future is Executing, Cancel waits for the step call to return: the
// executor re-publishes Pending on re-enqueue and the cancellation lands
// there, so the body is not invoked again. Cancelling a Ready or already
// Cancelled future is a no-op.
func (h *Handle) Cancel() {
	sw := spin.Wait{}
	for {
		switch Status(h.status.LoadAcquire()) {
		case StatusReady, StatusCancelled:
			return
		case StatusPending:
			if h.status.CompareAndSwapAcqRel(uint64(StatusPending), uint64(StatusCancelled)) {
				return
			}
		}
		sw.Once()
	}
}

// claim moves Pending → Executing, taking ownership of the next step
// call. Returns false if the future was cancelled; the acquire on the
// CAS makes all writes prior to the cancellation (and to the spawn)
// visible to the step function. Only the executor calls this, so Ready
// and Executing are never observed here.
func (h *Handle) claim() bool {
	sw := spin.Wait{}
	for {
		switch Status(h.status.LoadAcquire()) {
		case StatusCancelled:
			return false
		case StatusPending:
			if h.status.CompareAndSwapAcqRel(uint64(StatusPending), uint64(StatusExecuting)) {
				return true
			}
		}
		sw.Once()
	}
}

// markReady publishes the terminal Ready state. The release pairs with
// the acquire in Status, so a waiter that reads Ready also sees every
// write the final step made.
func (h *Handle) markReady() {
	h.status.StoreRelease(uint64(StatusReady))
}

// markCancelled publishes the terminal Cancelled state. Used when the
// executor retires a future without completing it: teardown, a failed
// re-enqueue, a failed spawn, or an idle future.
func (h *Handle) markCancelled() {
	h.status.StoreRelease(uint64(StatusCancelled))
}

// markPending re-publishes Pending after a step returned not-ready,
// before the future re-enters a store. A racing Cancel lands here.
func (h *Handle) markPending() {
	h.status.StoreRelease(uint64(StatusPending))
}
