// Package sweep enumerates the start states of a parameter sweep.
//
// A [Scheduler] walks an N-dimensional grid like a mixed-radix odometer: the
// last axis varies fastest and an axis that reaches its division count wraps
// to zero and carries into the axis before it. Points are handed out in
// batches so that workers touch the shared scheduler only once per batch.
//
// # Thread Safety
//
// Scheduler is NOT safe for concurrent use. Wrap it in a [Locked] to share it
// between workers; the lock is held for a single [Locked.Next] call.
package sweep
