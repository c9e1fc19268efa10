package notify

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"stocksync/core/identifier"
	"stocksync/core/report"
)

// Notifier delivers a run report to the configured recipients.
// Delivery is best effort; failures are logged by the caller, never escalated
// to run failure.
type Notifier interface {
	Send(r *report.RunReport) error
}

// mailSender abstracts gomail's dialer for testing.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends run reports over SMTP.
type EmailNotifier struct {
	cfg    Config
	sender mailSender
}

// New creates a notifier from configuration.
func New(cfg Config) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
	}
}

// ShouldSend applies the send-on-* gates to the run outcome.
func (n *EmailNotifier) ShouldSend(r *report.RunReport) bool {
	switch {
	case r.HasErrors():
		return n.cfg.SendOnErrors
	case r.HasWarnings():
		return n.cfg.SendOnWarnings
	default:
		return n.cfg.SendOnSuccess
	}
}

// Send delivers the report if the configured gates allow it.
func (n *EmailNotifier) Send(r *report.RunReport) error {
	if !n.ShouldSend(r) {
		return nil
	}

	status := "SUCCESS"
	if r.HasErrors() {
		status = "ERRORS"
	} else if r.HasWarnings() {
		status = "WARNINGS"
	}

	subject := fmt.Sprintf("%s %s - %s", n.cfg.SubjectPrefix, status, r.Timestamp.Format("2006-01-02 15:04"))

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.Recipients()...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", buildBody(r))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// buildBody renders the plain-text report email.
func buildBody(r *report.RunReport) string {
	var b strings.Builder
	s := r.Summary

	fmt.Fprintf(&b, "Inventory sync completed at %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
	if r.DryRun {
		b.WriteString("Mode: DRY RUN (no catalog changes were made)\n")
	}
	fmt.Fprintf(&b, "Suppliers: %s\n\n", strings.Join(r.SuppliersProcessed, ", "))

	b.WriteString("SUMMARY\n")
	fmt.Fprintf(&b, "  Total from suppliers:  %d\n", s.TotalSupplierProducts)
	fmt.Fprintf(&b, "  Matched in catalog:    %d\n", s.MatchedProducts)
	fmt.Fprintf(&b, "  Updated:               %d\n", s.UpdatedInCatalog)
	fmt.Fprintf(&b, "  No change needed:      %d\n", s.NoChange)
	fmt.Fprintf(&b, "  Not found:             %d\n", s.NotFoundInCatalog)
	fmt.Fprintf(&b, "  Duplicate identifiers: %d\n", s.DuplicateIdentifiers)
	fmt.Fprintf(&b, "  Flagged for review:    %d\n", s.FlaggedForReview)
	fmt.Fprintf(&b, "  Errors:                %d\n", s.Errors)

	if len(r.Flagged) > 0 {
		fmt.Fprintf(&b, "\nFLAGGED FOR REVIEW (%d)\n", len(r.Flagged))
		for _, f := range r.Flagged {
			fmt.Fprintf(&b, "  %s [%s]: %d -> %d (%s)\n",
				identifier.Format(f.EAN, f.SKU), f.Supplier, f.OldQty, f.NewQty, f.Reason)
		}
	}

	if len(r.NotFound) > 0 {
		fmt.Fprintf(&b, "\nNOT FOUND IN CATALOG (%d)\n", len(r.NotFound))
		for _, nf := range r.NotFound {
			fmt.Fprintf(&b, "  %s [%s]\n", identifier.Format(nf.EAN, nf.SKU), nf.Supplier)
		}
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\nERRORS (%d)\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  [%s] %s\n", e.Type, e.Message)
		}
	}

	return b.String()
}
