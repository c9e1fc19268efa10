// Package reports exposes persisted run reports over a small HTTP API so
// operators can browse past syncs without shell access to the log directory.
package reports
