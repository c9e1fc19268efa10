// Package report builds and persists the audit record of one sync run.
//
// A RunReport accumulates every decision the run makes - updates, no-change
// entries, not-found and duplicate conflicts, flagged items, and caught
// errors - together with aggregate counts. It is written out as one JSON
// document per run; the field names form a stable contract consumed by the
// report viewer, the email notifier, and the restore command.
package report
