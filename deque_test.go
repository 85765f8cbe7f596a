// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/taskex"
)

func TestDequeBasic(t *testing.T) {
	d := taskex.NewDeque[int](3)

	if d.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", d.Cap())
	}
	if !d.Empty() || d.Len() != 0 {
		t.Fatalf("new deque not empty: len=%d", d.Len())
	}

	for i := range 4 {
		v := i + 100
		if err := d.PushBack(&v); err != nil {
			t.Fatalf("PushBack(%d): %v", i, err)
		}
	}

	v := 999
	if err := d.PushBack(&v); !errors.Is(err, taskex.ErrWouldBlock) {
		t.Fatalf("PushBack on full: got %v, want ErrWouldBlock", err)
	}
	if err := d.PushFront(&v); !errors.Is(err, taskex.ErrWouldBlock) {
		t.Fatalf("PushFront on full: got %v, want ErrWouldBlock", err)
	}

	for i := range 4 {
		val, err := d.PopFront()
		if err != nil {
			t.Fatalf("PopFront(%d): %v", i, err)
		}
		if val != i+100 {
			t.Fatalf("PopFront(%d): got %d, want %d", i, val, i+100)
		}
	}

	if _, err := d.PopFront(); !errors.Is(err, taskex.ErrWouldBlock) {
		t.Fatalf("PopFront on empty: got %v, want ErrWouldBlock", err)
	}
	if _, err := d.PopBack(); !errors.Is(err, taskex.ErrWouldBlock) {
		t.Fatalf("PopBack on empty: got %v, want ErrWouldBlock", err)
	}
}

func TestDequeBothEnds(t *testing.T) {
	d := taskex.NewDeque[int](4)

	// Build 1 2 3 4 using both ends: PushBack(3), PushFront(2), PushBack(4), PushFront(1)
	for _, op := range []struct {
		front bool
		v     int
	}{{false, 3}, {true, 2}, {false, 4}, {true, 1}} {
		v := op.v
		var err error
		if op.front {
			err = d.PushFront(&v)
		} else {
			err = d.PushBack(&v)
		}
		if err != nil {
			t.Fatalf("push %d: %v", op.v, err)
		}
	}

	if f, err := d.Front(); err != nil || *f != 1 {
		t.Fatalf("Front: got %v,%v, want 1", f, err)
	}
	if b, err := d.Back(); err != nil || *b != 4 {
		t.Fatalf("Back: got %v,%v, want 4", b, err)
	}

	if v, err := d.PopBack(); err != nil || v != 4 {
		t.Fatalf("PopBack: got %d,%v, want 4", v, err)
	}
	for want := 1; want <= 3; want++ {
		v, err := d.PopFront()
		if err != nil || v != want {
			t.Fatalf("PopFront: got %d,%v, want %d", v, err, want)
		}
	}
}

func TestDequeWrapAround(t *testing.T) {
	d := taskex.NewDeque[int](4)

	// Cycle enough elements through to wrap the ring several times.
	next := 0
	for range 3 {
		v := next
		if err := d.PushBack(&v); err != nil {
			t.Fatalf("prefill: %v", err)
		}
		next++
	}
	for i := range 20 {
		v := next
		if err := d.PushBack(&v); err != nil {
			t.Fatalf("PushBack(%d): %v", i, err)
		}
		next++
		got, err := d.PopFront()
		if err != nil {
			t.Fatalf("PopFront(%d): %v", i, err)
		}
		if got != next-4 {
			t.Fatalf("PopFront(%d): got %d, want %d", i, got, next-4)
		}
	}
	if d.Len() != 3 {
		t.Fatalf("Len after cycling: got %d, want 3", d.Len())
	}
}

func TestDequeWrapAroundFront(t *testing.T) {
	d := taskex.NewDeque[int](4)

	// PushFront from an empty deque wraps head below the ring start.
	for i := range 4 {
		v := i
		if err := d.PushFront(&v); err != nil {
			t.Fatalf("PushFront(%d): %v", i, err)
		}
	}
	// Head-pushed order reverses on PopFront.
	for want := 3; want >= 0; want-- {
		v, err := d.PopFront()
		if err != nil || v != want {
			t.Fatalf("PopFront: got %d,%v, want %d", v, err, want)
		}
	}
}

func TestDequeClearDropsResiduals(t *testing.T) {
	d := taskex.NewDeque[string](4)
	for _, s := range []string{"a", "b", "c"} {
		s := s
		if err := d.PushBack(&s); err != nil {
			t.Fatalf("PushBack(%q): %v", s, err)
		}
	}

	var dropped []string
	d.Clear(func(s *string) { dropped = append(dropped, *s) })

	if len(dropped) != 3 || dropped[0] != "a" || dropped[1] != "b" || dropped[2] != "c" {
		t.Fatalf("Clear drops: got %v, want [a b c]", dropped)
	}
	if !d.Empty() {
		t.Fatalf("deque not empty after Clear: len=%d", d.Len())
	}

	// The deque is reusable after Clear.
	s := "x"
	if err := d.PushBack(&s); err != nil {
		t.Fatalf("PushBack after Clear: %v", err)
	}
	if v, err := d.PopFront(); err != nil || v != "x" {
		t.Fatalf("PopFront after Clear: got %q,%v", v, err)
	}
}

func TestDequeCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewDeque(0) did not panic")
		}
	}()
	taskex.NewDeque[int](0)
}
