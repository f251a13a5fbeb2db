// Package valuation holds the value and estimation collaborators used by the
// store's aggregate recompute and the engine's exobiology handlers.
//
// The interfaces are what the rest of the module depends on. Standard,
// DefaultBioValues and RuleEstimator are simple built-in implementations so
// the command line tool works without external data.
package valuation
