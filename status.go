// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

// Status is the observable lifecycle state of a spawned future.
//
// Transitions form a DAG:
//
//	Pending → Executing | Cancelled
//	Executing → Pending | Ready | Cancelled
//
// Ready and Cancelled are terminal: once either is observed, the future's
// body will not run again and its drop hook has run or is about to run.
// Any sequence of Status reads by a single observer is monotone within
// this DAG.
type Status uint64

const (
	// StatusPending means the future is queued and eligible to run.
	StatusPending Status = 0
	// StatusReady means the future finished; its last step returned ready.
	StatusReady Status = 1
	// StatusCancelled means the future was cancelled, or dropped by the
	// executor without completing (teardown, failed re-enqueue).
	StatusCancelled Status = 2
	// StatusExecuting means the executor is inside the future's step
	// function right now.
	StatusExecuting Status = 3
)

// String returns the status name for diagnostics.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusReady:
		return "Ready"
	case StatusCancelled:
		return "Cancelled"
	case StatusExecuting:
		return "Executing"
	default:
		return "Unknown"
	}
}
