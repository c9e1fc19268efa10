// Package notify emails run reports to operators. Gated on the run outcome:
// errors and warnings notify by default, clean runs only when configured.
package notify
