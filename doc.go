// Package observe provides a generic, thread-safe subject/observer primitive.
//
// A Subject holds an ordered registry of observers and fans typed events out
// to all of them with Notify. Observers embed Base, which tracks the subjects
// they are attached to so that either side can be torn down in any order
// without leaving a stale reference on the other: closing an observer removes
// it from every subject silently, and emptying a subject clears the reciprocal
// link on every observer.
//
// Dispatch is synchronous and runs on the notifying goroutine, in attachment
// order. The package has no goroutines, queues, or timers of its own.
package observe
