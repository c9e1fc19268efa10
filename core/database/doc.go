// Package database provides the optional connection backing the run-history
// store. A local sqlite file is the default; mysql is supported for shared
// deployments where several operators query the same sync history.
package database
