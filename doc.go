// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package taskex provides a bounded cooperative task executor for
// embedding in runtimes that drive many small stateful jobs: an IoT or
// pub-sub stack's keep-alives, lease timers, and retransmission loops.
//
// Two layered engines are offered:
//
//   - Executor: single-threaded; the caller drives it one step at a
//     time with Spin.
//   - BackgroundExecutor: wraps an Executor with a dedicated driver
//     goroutine, so producers spawn from anywhere and the driver sleeps
//     whenever there is nothing due.
//
// # Quick Start
//
// Spawn a future and drive it to completion:
//
//	ex := taskex.NewExecutor(taskex.DefaultCapacity)
//	n := 0
//	ex.Spawn(taskex.NewFuture(func(*taskex.Executor) taskex.StepResult {
//		n++
//		if n < 3 {
//			return taskex.Yield() // run again next spin
//		}
//		return taskex.Done()
//	}, nil))
//	for ex.Spin().Status == taskex.SpinExecutedTask {
//	}
//
// Or let a driver goroutine do the spinning:
//
//	be, _ := taskex.NewBackground(taskex.DefaultCapacity)
//	defer be.Close()
//	h, _ := be.SpawnFunc(step)
//
// # Step Protocol
//
// A future's step function runs to completion; the executor never
// preempts it. The returned StepResult is the future's explicit
// continuation state:
//
//	taskex.Done()          // finished; drop hook runs, handle reads Ready
//	taskex.Yield()         // re-run as soon as possible (back of the FIFO)
//	taskex.YieldUntil(t)   // re-run once t has passed (timed store)
//
// Ready futures run in spawn order. A timed future whose instant has
// passed does not preempt the FIFO: it is demoted to the back of the
// ready queue, so FIFO tasks keep their ordering at any given instant.
//
// # Cancellation
//
// Obtain the Handle before spawning, then cancel or observe from any
// goroutine:
//
//	f := taskex.NewFuture(step, cleanup)
//	h := f.Handle()
//	be.Spawn(f)
//	h.Cancel()                 // body will not run (again)
//	_ = h.Status()             // Pending, Executing, Ready, or Cancelled
//
// Cancellation is asynchronous and idempotent. A future cancelled
// mid-step finishes the current call; if that call does not finish the
// future, the cancellation lands as it is re-enqueued and the executor
// drops it the next time it comes up, without running the body again.
// The drop hook runs on every path: finish,
// cancellation, failed enqueue, and executor close.
//
// # Suspension
//
// Suspend pauses the background driver without draining anything;
// Resume lets it continue. Suspends nest. Spawn uses the same protocol
// internally, so the driver is never inside Spin while a producer
// touches the stores.
//
// # Capacity and Errors
//
// Both stores are sized at construction and never grow. Spawning into a
// full store (or a step re-enqueueing into one) drops the future and
// drives its handle to Cancelled. Spawn then returns [ErrWouldBlock] —
// an alias of [iox.ErrWouldBlock] for ecosystem consistency — and Spin
// reports SpinFailed for a failed re-enqueue. Operations on
// a closed BackgroundExecutor return [ErrClosed].
//
// # Thread Safety
//
//   - Executor: single goroutine only.
//   - BackgroundExecutor: all methods safe for concurrent use; the
//     inner executor is protected by the driver's mutex.
//   - Handle: safe from any goroutine.
//   - Deque, PQueue: single goroutine only.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions
// in the status CAS loops, and [v.io/x/lib/nsync] for the
// deadline-capable condition variable that parks the driver goroutine.
package taskex
