// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package taskex

// RaceEnabled is true when the race detector is active.
// Stress tests use it to scale down iteration counts, since the
// detector slows the cancel/claim interleavings they exercise by an
// order of magnitude.
const RaceEnabled = true
