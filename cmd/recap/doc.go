// Package main hosts the recap CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the daemon API: submitting recordings, listing jobs,
// inspecting stage results, and downloading report workbooks. The serve
// command runs the daemon itself in the foreground.
package main
