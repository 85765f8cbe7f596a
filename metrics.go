// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

import "code.hybscloud.com/atomix"

// Metrics tracks scheduling statistics for one executor. Counters are
// incremented by the executor's single worker and may be read from any
// goroutine; use Snapshot for a consistent point-in-time copy when
// comparing counters against each other.
type Metrics struct {
	// Spawned counts futures accepted by Spawn.
	Spawned atomix.Uint64
	// Steps counts step function invocations.
	Steps atomix.Uint64
	// Completed counts futures whose step returned ready.
	Completed atomix.Uint64
	// Reschedules counts re-enqueues into the ready FIFO.
	Reschedules atomix.Uint64
	// TimedReschedules counts re-enqueues into the timed store.
	TimedReschedules atomix.Uint64
	// CancelSkips counts futures dropped without execution because
	// their handle read Cancelled.
	CancelSkips atomix.Uint64
	// IdleDrops counts futures dropped for having no step function.
	IdleDrops atomix.Uint64
	// EnqueueFailures counts futures dropped because a re-enqueue hit a
	// full store (the SpinFailed path).
	EnqueueFailures atomix.Uint64
	// Drained counts futures dropped by Close with work outstanding.
	Drained atomix.Uint64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Spawned          uint64
	Steps            uint64
	Completed        uint64
	Reschedules      uint64
	TimedReschedules uint64
	CancelSkips      uint64
	IdleDrops        uint64
	EnqueueFailures  uint64
	Drained          uint64
}

// Snapshot copies the counters out with acquire loads.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Spawned:          m.Spawned.LoadAcquire(),
		Steps:            m.Steps.LoadAcquire(),
		Completed:        m.Completed.LoadAcquire(),
		Reschedules:      m.Reschedules.LoadAcquire(),
		TimedReschedules: m.TimedReschedules.LoadAcquire(),
		CancelSkips:      m.CancelSkips.LoadAcquire(),
		IdleDrops:        m.IdleDrops.LoadAcquire(),
		EnqueueFailures:  m.EnqueueFailures.LoadAcquire(),
		Drained:          m.Drained.LoadAcquire(),
	}
}

// Retired returns the total number of spawned futures whose drop hook
// has run: every spawned future ends up in exactly one of these buckets.
// Futures rejected by Spawn are not counted.
func (s MetricsSnapshot) Retired() uint64 {
	return s.Completed + s.CancelSkips + s.IdleDrops + s.EnqueueFailures + s.Drained
}
