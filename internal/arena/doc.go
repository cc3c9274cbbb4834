// Package arena provides the page-backed block cache that stores trajectory
// samples.
//
// Blocks are fixed-size ([BlockSize]) regions obtained through anonymous
// memory mapping. On Linux the mapping is populated eagerly so the pages are
// resident before the solver writes to them. Released blocks are kept on a
// bounded free list and handed out again, newest first, which amortises the
// mapping cost across many short-lived solvers.
//
// # Thread Safety
//
// A [Cache] is NOT safe for concurrent use. Each worker is expected to own a
// private cache.
package arena
