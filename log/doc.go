// Package log provides pluggable logging for longformqa.
//
// The package defines a small Logger interface plus two implementations: a
// DefaultLogger on top of the standard library, and GologLogger on top of
// kataras/golog for leveled, colored output. A package-level default logger
// lets callers enable logging globally without threading logger objects
// through every component:
//
//	log.SetLogLevel(log.LogLevelDebug)
//
// or with golog:
//
//	gl := log.NewGologLogger(golog.Default)
//	gl.SetLevel(log.LogLevelDebug)
//	log.SetDefaultLogger(gl)
//
// The evaluation loop and the multi-hop pipeline report retries, constraint
// failures and per-example errors through this package.
package log
