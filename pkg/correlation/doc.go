// Package correlation implements the pattern-correlation engine's core
// state machine: contexts, conditions, state, actions, and the pattern
// index that dispatches events to the contexts interested in them.
//
// The package is deliberately free of any concurrency: every type here is
// driven synchronously by a single caller (the reactor, in
// pkg/reactor), which is the sole owner of mutable state per spec §5.
package correlation
