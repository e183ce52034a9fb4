// Package cli defines the command-line interface for pype.
//
// The interface is flat: positional arguments are the expression chain,
// three switches control the output policy (show-error, show-bool,
// show-none), and embedded groups configure logging and, when built with
// the pprof tag, profiling. Input is seeded from standard input unless
// --arg values are given or the terminal is interactive.
package cli
