// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"v.io/x/lib/nsync"
)

// bgInner is the state shared between the driver goroutine and external
// holders. The executor, the flags, and the condvar's predicates are
// strictly protected by mu; the suspend counter is the only field
// modified outside the lock (producers raise it before locking, and the
// driver polls it to decide whether to yield).
type bgInner struct {
	mu            sync.Mutex
	cv            nsync.CV
	ex            *Executor
	suspended     atomix.Int64
	stopRequested bool
	running       bool
}

// suspendAndLock increments the suspend counter before taking the lock,
// so the driver, which checks the counter at the top of every iteration,
// backs off instead of racing producers for the mutex.
func (in *bgInner) suspendAndLock() {
	in.suspended.AddAcqRel(1)
	in.mu.Lock()
}

// unlockAndResume decrements the suspend counter, wakes the driver, and
// releases the lock.
func (in *bgInner) unlockAndResume() {
	in.suspended.AddAcqRel(-1)
	in.cv.Broadcast()
	in.mu.Unlock()
}

// runForever is the driver loop. It holds the mutex for its entire
// lifetime except while parked in the condvar: when a suspender is
// present, when the executor has no work, or until the earliest timed
// wake-up. Within the last millisecond of a wake-up it re-iterates
// instead of waiting, to avoid oversleeping past the instant.
func (in *bgInner) runForever() {
	in.mu.Lock()
	in.running = true
loop:
	for !in.stopRequested {
		if in.suspended.LoadAcquire() > 0 {
			// Re-check the stop flag at the loop top after every wake,
			// so a stop requested during a suspension is not followed by
			// a final park that nothing will signal.
			in.cv.Wait(&in.mu)
			continue
		}
		r := in.ex.Spin()
		switch r.Status {
		case SpinNoTasks:
			in.cv.Wait(&in.mu)
		case SpinShouldWait:
			if time.Until(r.NextWakeUp) > time.Millisecond {
				outcome := in.cv.WaitWithDeadline(&in.mu, r.NextWakeUp, nil)
				if outcome != nsync.OK && outcome != nsync.Expired {
					break loop
				}
			}
		}
	}
	in.running = false
	in.cv.Broadcast()
	in.mu.Unlock()
}

// BackgroundExecutor wraps an Executor with a dedicated driver goroutine
// so producers on other goroutines can spawn work, pause execution, or
// wait for shutdown. All methods are safe for concurrent use, except
// that Close must not race another Close on the same value.
//
// Example:
//
//	be, _ := taskex.NewBackground(taskex.DefaultCapacity)
//	h, _ := be.SpawnFunc(func(*taskex.Executor) taskex.StepResult {
//		doWork()
//		return taskex.Done()
//	})
//	// ... h.Status(), h.Cancel() ...
//	be.Close()
type BackgroundExecutor struct {
	inner *bgInner
	done  chan struct{}
}

// NewBackground creates a background executor whose stores each hold
// capacity futures (the ready store rounds up to a power of 2), and
// starts its driver goroutine. Panics if capacity < 1.
func NewBackground(capacity int) (*BackgroundExecutor, error) {
	return newBackground(newExecutor(capacity, capacity))
}

func newBackground(ex *Executor) (*BackgroundExecutor, error) {
	in := &bgInner{ex: ex}
	be := &BackgroundExecutor{inner: in, done: make(chan struct{})}
	go func() {
		defer close(be.done)
		in.runForever()
	}()
	return be, nil
}

// Spawn hands the future to the inner executor under the suspend-and-
// lock protocol, guaranteeing the driver is not inside Spin while the
// ready store is modified. Returns ErrWouldBlock on a full store and
// ErrClosed on a closed executor; on either error the future's drop
// hook has run and its handle reads Cancelled.
func (be *BackgroundExecutor) Spawn(f Future) error {
	in := be.getInner()
	if in == nil {
		if f.handle != nil {
			f.handle.markCancelled()
		}
		f.destroy()
		return ErrClosed
	}
	in.suspendAndLock()
	err := in.ex.Spawn(f)
	in.unlockAndResume()
	return err
}

// SpawnFunc spawns a future built from step alone and returns its
// handle.
func (be *BackgroundExecutor) SpawnFunc(step StepFunc) (*Handle, error) {
	f := NewFuture(step, nil)
	h := f.Handle()
	if err := be.Spawn(f); err != nil {
		return nil, err
	}
	return h, nil
}

// Suspend pauses the driver: after Suspend returns, the driver does not
// call Spin until a matching Resume. Suspends nest; each must be paired
// with exactly one Resume. Queued futures stay queued and their handles
// remain valid (in particular, Cancel works while suspended).
func (be *BackgroundExecutor) Suspend() error {
	in := be.getInner()
	if in == nil {
		return ErrClosed
	}
	in.suspendAndLock()
	in.mu.Unlock()
	return nil
}

// Resume undoes one Suspend and wakes the driver. Calling Resume without
// a matching Suspend is a usage error with undefined behavior.
func (be *BackgroundExecutor) Resume() error {
	in := be.getInner()
	if in == nil {
		return ErrClosed
	}
	in.mu.Lock()
	in.unlockAndResume()
	return nil
}

// Close stops the driver, waits for it to exit, joins the goroutine, and
// drains both stores (every residual future's drop hook runs, handles
// move to Cancelled). Close does not wait for outstanding Suspends: the
// driver observes the stop request even while suspended, and futures it
// did not get to run are drained. Subsequent method calls
// return ErrClosed. Close on an already-closed executor returns
// ErrClosed.
func (be *BackgroundExecutor) Close() error {
	in := be.getInner()
	if in == nil {
		return ErrClosed
	}
	in.suspendAndLock()
	in.stopRequested = true
	in.suspended.AddAcqRel(-1)
	in.cv.Broadcast()
	for in.running {
		in.cv.Wait(&in.mu)
	}
	in.mu.Unlock()
	<-be.done
	in.ex.Close()
	be.inner = nil
	return nil
}

// Metrics returns the inner executor's live counters, or nil if the
// executor is closed.
func (be *BackgroundExecutor) Metrics() *Metrics {
	in := be.getInner()
	if in == nil {
		return nil
	}
	return in.ex.Metrics()
}

func (be *BackgroundExecutor) getInner() *bgInner {
	if be == nil {
		return nil
	}
	return be.inner
}
