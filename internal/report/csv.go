// Package report renders admin exports of stored submissions.
package report

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/spec-kit/registry-service/internal/domain"
)

// Filename is the attachment name for CSV exports.
const Filename = "submissions.csv"

// Columns is the fixed export header order.
var Columns = []string{
	"created_at",
	"type",
	"full_name",
	"email",
	"zip_code",
	"role",
	"business_name",
	"youth_club",
	"interested_in_tickets",
	"interested_in_partnership",
	"submission_type",
	"support_reason",
	"organization",
	"interest_type",
	"message",
}

// WriteCSV writes a header row plus one row per submission. Every field is
// quoted and embedded quotes are doubled, so empty values render as "".
func WriteCSV(w io.Writer, submissions []domain.Submission) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, Columns); err != nil {
		return err
	}
	for i := range submissions {
		if err := writeRow(bw, Row(&submissions[i])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Row flattens a submission in Columns order.
func Row(s *domain.Submission) []string {
	row := make([]string, len(Columns))
	row[0] = s.CreatedAt.UTC().Format(time.RFC3339)
	row[1] = string(s.Type)
	row[2] = s.Name
	row[3] = s.Email
	if r := s.Registration; r != nil {
		row[4] = r.ZipCode
		row[5] = string(r.Role)
		row[6] = r.BusinessName
		row[7] = r.YouthClub
		row[8] = r.InterestedInTickets
		row[9] = r.InterestedInPartnership
		row[10] = r.Source
		row[11] = r.Comment
	}
	if c := s.Contact; c != nil {
		row[12] = c.Organization
		row[13] = string(c.InterestType)
		row[14] = c.Message
	}
	return row
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(field)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
