package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/registry-service/internal/domain"
)

func fixtures() []domain.Submission {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.Submission{
		{
			ID: "reg_1", Type: domain.SubmissionTypeRegistration, CreatedAt: at,
			Name: `Jane "JD" Doe`, Email: "jane@x.com",
			Registration: &domain.Registration{
				ZipCode: "89101", Role: domain.RoleBusinessOwner, BusinessName: "Doe, Inc.",
				Comment: "line one\nline two", Source: domain.DefaultRegistrationSource,
			},
		},
		{
			ID: "con_1", Type: domain.SubmissionTypeContact, CreatedAt: at,
			Name: "Sam", Email: "sam@fund.io",
			Contact: &domain.ContactInquiry{InterestType: domain.InterestOther, Message: `He said "hi"`},
		},
	}
}

func TestWriteCSV_HeaderAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, `"created_at","type","full_name","email","zip_code","role","business_name","youth_club","interested_in_tickets","interested_in_partnership","submission_type","support_reason","organization","interest_type","message"`+"\r\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, fixtures()[1:]))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"2026-01-02T03:04:05Z","contact","Sam","sam@fund.io","","","","","","","","","","other","He said ""hi"""`, lines[1])
}

func TestWriteCSV_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	items := fixtures()
	require.NoError(t, WriteCSV(&buf, items))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(items)+1)

	for _, record := range records {
		assert.Len(t, record, len(Columns))
	}
	assert.Equal(t, `Jane "JD" Doe`, records[1][2])
	assert.Equal(t, "Doe, Inc.", records[1][6])
	assert.Equal(t, "line one\nline two", records[1][11])
	assert.Equal(t, `He said "hi"`, records[2][14])
}
