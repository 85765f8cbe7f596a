// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

// DefaultCapacity is the store capacity used when no explicit size is
// configured: 16 futures in the ready FIFO and 16 in the timed store.
const DefaultCapacity = 16

// Options configures executor construction.
type Options struct {
	taskCapacity  int
	timedCapacity int
}

// Builder creates executors with fluent configuration. Use it when the
// two stores need different sizes; NewExecutor and NewBackground cover
// the symmetric case.
//
// Example:
//
//	ex := taskex.New(64).TimedCapacity(8).Build()
//	be, _ := taskex.New(64).BuildBackground()
type Builder struct {
	opts Options
}

// New creates a builder with both store capacities set to capacity.
// Deque capacity rounds up to the next power of 2 at build time.
// Panics if capacity < 1.
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("taskex: capacity must be >= 1")
	}
	return &Builder{opts: Options{
		taskCapacity:  capacity,
		timedCapacity: capacity,
	}}
}

// TaskCapacity sets the ready FIFO capacity. Panics if n < 1.
func (b *Builder) TaskCapacity(n int) *Builder {
	if n < 1 {
		panic("taskex: capacity must be >= 1")
	}
	b.opts.taskCapacity = n
	return b
}

// TimedCapacity sets the timed store capacity. Panics if n < 1.
func (b *Builder) TimedCapacity(n int) *Builder {
	if n < 1 {
		panic("taskex: capacity must be >= 1")
	}
	b.opts.timedCapacity = n
	return b
}

// Build creates a single-threaded executor with the configured sizes.
func (b *Builder) Build() *Executor {
	return newExecutor(b.opts.taskCapacity, b.opts.timedCapacity)
}

// BuildBackground creates a background executor with the configured
// sizes and starts its driver goroutine.
func (b *Builder) BuildBackground() (*BackgroundExecutor, error) {
	return newBackground(newExecutor(b.opts.taskCapacity, b.opts.timedCapacity))
}

// roundToPow2 rounds n up to the next power of 2, with a minimum of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
