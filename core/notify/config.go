package notify

import "strings"

// Config holds configuration for email notifications.
type Config struct {
	// SMTPHost is the SMTP server hostname. Empty disables notifications.
	SMTPHost string `mapstructure:"smtp_host" default:""`
	// SMTPPort is the SMTP server port.
	SMTPPort int `mapstructure:"smtp_port" default:"587"`
	// Username is the SMTP authentication username.
	Username string `mapstructure:"username" default:""`
	// Password is the SMTP authentication password.
	Password string `mapstructure:"password" default:""`
	// From is the sender address.
	From string `mapstructure:"from" default:""`
	// To is a comma-separated list of recipient addresses.
	To string `mapstructure:"to" default:""`
	// SendOnSuccess sends a report even for clean runs.
	SendOnSuccess bool `mapstructure:"send_on_success" default:"false"`
	// SendOnWarnings sends when the run has not-found/flagged/duplicate entries.
	SendOnWarnings bool `mapstructure:"send_on_warnings" default:"true"`
	// SendOnErrors sends when the run recorded errors.
	SendOnErrors bool `mapstructure:"send_on_errors" default:"true"`
	// SubjectPrefix is prepended to every subject line.
	SubjectPrefix string `mapstructure:"subject_prefix" default:"[Inventory Sync]"`
}

// Enabled reports whether the configuration is complete enough to send mail.
func (c Config) Enabled() bool {
	return c.SMTPHost != "" && c.Username != "" && c.To != ""
}

// Recipients splits the To list into individual addresses.
func (c Config) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(c.To, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
