// Package interpreter executes a process tree.
//
// Every node merges its parameter overlay over the inherited context once on
// entry and hands deep copies of the merged context to its children. Sequential
// children run in order and stop at the first failure. Parallel children run
// in their own goroutines; the node returns the first failure it observes while
// the remaining children keep running to completion without being observed.
package interpreter
