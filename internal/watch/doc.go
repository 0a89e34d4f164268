// Package watch re-renders dashboards when the dataset CSV changes.
//
// [Run] watches the directory holding the file, coalesces editor write
// bursts with a [Debouncer] and calls a [RunFunc] once per burst. Each
// run's rows are compared with the previous load: [Summary] describes the
// dataset in a few lines and [Diff] shows what changed between two
// summaries. Status lines go to [Options.Out].
package watch
