// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Spawn: the executor's ready store is full (backpressure)
// For Deque/PQueue operations: the store is full or empty
//
// The stores never allocate after construction, so a full store is the
// only capacity failure a spawn can hit. ErrWouldBlock is a control flow
// signal, not a failure; the caller retries later or gives up. The
// spawned future's drop hook has already run by the time the error is
// returned, and its handle (if any) reads Cancelled.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrClosed indicates an operation on a background executor that was
// never started or has already been closed. A future passed to a
// failing Spawn is dropped before the error is returned.
var ErrClosed = errors.New("taskex: executor closed")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
