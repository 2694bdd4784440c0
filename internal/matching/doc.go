// Package matching scores employees against tasks and ranks the best candidates.
//
// Score is pure and synchronous. Ranker performs the store reads (active
// employees and per-employee pending-task counts) concurrently and orders the
// results with a stable sort, so the outcome never depends on I/O timing.
package matching
