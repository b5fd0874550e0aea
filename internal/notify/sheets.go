package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/spec-kit/registry-service/internal/domain"
)

// Spreadsheet tab names.
const (
	SheetRegistrations = "Registrations"
	SheetContacts      = "Contacts"
)

// rowAppender appends a single row to a tab.
type rowAppender interface {
	AppendRow(ctx context.Context, sheet string, row []interface{}) error
}

// SheetsNotifier appends each submission directly to a Google spreadsheet
// using a service account, as an alternative to the webhook script.
type SheetsNotifier struct {
	appender rowAppender
}

// NewSheetsNotifier connects to the Sheets API. Empty arguments return a
// disabled notifier.
func NewSheetsNotifier(ctx context.Context, credentialsPath, spreadsheetID string) (*SheetsNotifier, error) {
	if credentialsPath == "" || spreadsheetID == "" {
		return &SheetsNotifier{}, nil
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsNotifier{appender: &sheetsClient{srv: srv, spreadsheetID: spreadsheetID}}, nil
}

func (n *SheetsNotifier) Name() string  { return "sheets" }
func (n *SheetsNotifier) Enabled() bool { return n.appender != nil }

// Notify appends one row to the tab matching the submission type.
func (n *SheetsNotifier) Notify(ctx context.Context, submission domain.Submission) error {
	if !n.Enabled() {
		return nil
	}
	sheet, row := sheetRow(submission)
	return n.appender.AppendRow(ctx, sheet, row)
}

func sheetRow(s domain.Submission) (string, []interface{}) {
	ts := s.CreatedAt.UTC().Format(time.RFC3339)
	if s.Contact != nil {
		return SheetContacts, []interface{}{
			ts, s.Name, s.Email, s.Contact.Organization, string(s.Contact.InterestType), s.Contact.Message,
		}
	}
	r := s.Registration
	if r == nil {
		r = &domain.Registration{}
	}
	return SheetRegistrations, []interface{}{
		ts, s.Name, s.Email, r.ZipCode, string(r.Role), r.BusinessName, r.YouthClub,
		r.InterestedInTickets, r.InterestedInPartnership, r.Comment,
	}
}

type sheetsClient struct {
	srv           *sheetsv4.Service
	spreadsheetID string
}

func (c *sheetsClient) AppendRow(ctx context.Context, sheet string, row []interface{}) error {
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:Z", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
