// Package pokedex defines the creature record model shared by every stage of
// the dashboard pipeline: the immutable [Table] of [Row] values, the typed
// [Stat] and [Dimension] columns, the generation partition, and the sentinel
// errors the loader, filter engine and aggregator return.
package pokedex
