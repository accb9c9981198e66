// Package pool implements a bounded worker pool over an unbounded task queue.
//
// A Pool starts a fixed number of workers at construction. Each worker loops
// over dequeue, resolve, emit: it takes one host from the shared task queue,
// resolves it with a fresh Resolver and pushes the record onto the results
// queue. Only the dequeue is serialized; resolving runs concurrently across
// workers.
//
// Lifecycle:
//
//	Running  -> accepting Submit, workers active
//	Closing  -> task queue closed, workers draining what is already queued
//	Closed   -> every worker joined; terminal, the pool cannot be restarted
//
// Submit never blocks. The task queue grows with the backlog, so a producer
// much faster than the workers grows memory without bound.
package pool
