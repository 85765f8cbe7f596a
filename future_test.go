// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex_test

import (
	"testing"

	"code.hybscloud.com/taskex"
)

func TestHandleLazyAllocation(t *testing.T) {
	f := taskex.NewFuture(func(*taskex.Executor) taskex.StepResult {
		return taskex.Done()
	}, nil)

	h1 := f.Handle()
	h2 := f.Handle()
	if h1 == nil {
		t.Fatal("Handle returned nil")
	}
	if h1 != h2 {
		t.Fatal("repeated Handle calls returned different handles")
	}
	if got := h1.Status(); got != taskex.StatusPending {
		t.Fatalf("initial status: got %v, want Pending", got)
	}
}

func TestStatusValues(t *testing.T) {
	// The enum values are part of the API surface.
	for _, tc := range []struct {
		status taskex.Status
		value  uint64
		name   string
	}{
		{taskex.StatusPending, 0, "Pending"},
		{taskex.StatusReady, 1, "Ready"},
		{taskex.StatusCancelled, 2, "Cancelled"},
		{taskex.StatusExecuting, 3, "Executing"},
	} {
		if uint64(tc.status) != tc.value {
			t.Errorf("%s: got %d, want %d", tc.name, uint64(tc.status), tc.value)
		}
		if tc.status.String() != tc.name {
			t.Errorf("String: got %q, want %q", tc.status.String(), tc.name)
		}
	}
}

func TestCancelIdempotent(t *testing.T) {
	f := taskex.NewFuture(func(*taskex.Executor) taskex.StepResult {
		return taskex.Done()
	}, nil)
	h := f.Handle()

	h.Cancel()
	if got := h.Status(); got != taskex.StatusCancelled {
		t.Fatalf("after Cancel: got %v, want Cancelled", got)
	}
	// cancel∘cancel ≡ cancel
	h.Cancel()
	if got := h.Status(); got != taskex.StatusCancelled {
		t.Fatalf("after second Cancel: got %v, want Cancelled", got)
	}
}

func TestCancelAfterReadyIsNoOp(t *testing.T) {
	ex := taskex.NewExecutor(4)
	h, err := ex.SpawnFunc(func(*taskex.Executor) taskex.StepResult {
		return taskex.Done()
	})
	if err != nil {
		t.Fatalf("SpawnFunc: %v", err)
	}

	if r := ex.Spin(); r.Status != taskex.SpinExecutedTask {
		t.Fatalf("Spin: got %v, want SpinExecutedTask", r.Status)
	}
	if got := h.Status(); got != taskex.StatusReady {
		t.Fatalf("status: got %v, want Ready", got)
	}

	h.Cancel()
	if got := h.Status(); got != taskex.StatusReady {
		t.Fatalf("status after Cancel on Ready: got %v, want Ready", got)
	}
}

func TestStatusMonotoneThroughReschedule(t *testing.T) {
	ex := taskex.NewExecutor(4)
	h, err := ex.SpawnFunc(func() taskex.StepFunc {
		n := 0
		return func(*taskex.Executor) taskex.StepResult {
			n++
			if n < 2 {
				return taskex.Yield()
			}
			return taskex.Done()
		}
	}())
	if err != nil {
		t.Fatalf("SpawnFunc: %v", err)
	}

	if got := h.Status(); got != taskex.StatusPending {
		t.Fatalf("before first spin: got %v, want Pending", got)
	}
	ex.Spin()
	// Re-enqueued: back to Pending, not a terminal state.
	if got := h.Status(); got != taskex.StatusPending {
		t.Fatalf("after first spin: got %v, want Pending", got)
	}
	ex.Spin()
	if got := h.Status(); got != taskex.StatusReady {
		t.Fatalf("after second spin: got %v, want Ready", got)
	}
}
