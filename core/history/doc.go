// Package history stores one summary row per completed sync run, so
// operators can answer "when did we last sync, and how did it go" without
// grepping report files.
package history
