// Package notify delivers stored submissions to the configured outside
// integrations. Every sink treats a missing configuration as a successful
// no-op so environments without those integrations keep working.
package notify

import (
	"context"

	"github.com/spec-kit/registry-service/internal/domain"
)

// Notifier delivers one submission to one channel.
type Notifier interface {
	Name() string
	Enabled() bool
	Notify(ctx context.Context, submission domain.Submission) error
}

// orNA substitutes N/A for empty optional values in human-readable output.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// sheetType is the discriminator used by both spreadsheet integrations.
func sheetType(s domain.Submission) string {
	if s.Type == domain.SubmissionTypeContact {
		return "contact"
	}
	return "registration"
}
