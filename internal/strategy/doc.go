// Package strategy drives hosts through a Resolver and into a Sink.
//
// Three interchangeable strategies produce the same multiset of records and
// differ only in concurrency shape:
//
//   - Sequential resolves every host on the calling goroutine, in input order.
//   - FanOut starts one goroutine per host and joins them in launch order, so
//     output follows input order regardless of completion timing. It has no
//     cap: very large inputs mean that many concurrent fetches, sockets and
//     goroutines.
//   - Pool pushes hosts through a bounded worker pool. Output follows
//     completion order and carries no ordering guarantee.
//
// Per-host failures never reach this package; the Resolver degrades them.
// What does surface is a unit of work that could not be joined (a panic),
// which fails the whole run.
package strategy
