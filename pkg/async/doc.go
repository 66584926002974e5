// Package async runs functions on their own goroutine and hands back a typed
// Future for the result.
//
//	future := async.Async(ctx, tasks, run)
//	report, err := future.Await()
//
// A context that is already done prevents the function from starting. Panics
// are recovered and reported as *PanicError, which matches ErrPanic; Recover
// offers the same conversion for synchronous calls. The deferred task queue
// uses both to keep failing background work away from the request path.
package async
