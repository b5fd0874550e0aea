package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/spec-kit/registry-service/internal/config"
	"github.com/spec-kit/registry-service/internal/domain"
)

var createdAt = time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC)

func sampleRegistration() domain.Submission {
	return domain.Submission{
		ID:        "reg_abc",
		Type:      domain.SubmissionTypeRegistration,
		CreatedAt: createdAt,
		Name:      "Jane Doe",
		Email:     "jane@x.com",
		Registration: &domain.Registration{
			ZipCode: "89101",
			Role:    domain.RoleFan,
			Comment: `Bring "real" soccer <here>`,
			Source:  domain.DefaultRegistrationSource,
		},
	}
}

func sampleContact() domain.Submission {
	return domain.Submission{
		ID:        "con_abc",
		Type:      domain.SubmissionTypeContact,
		CreatedAt: createdAt,
		Name:      "Sam",
		Email:     "sam@fund.io",
		Contact: &domain.ContactInquiry{
			InterestType: domain.InterestInvestment,
			Message:      "We would like to discuss an investment.",
		},
	}
}

func TestWebhookNotifier_PostsPayload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	n.now = func() time.Time { return createdAt }
	require.True(t, n.Enabled())
	require.NoError(t, n.Notify(context.Background(), sampleRegistration()))

	assert.Equal(t, "registration", got["sheetType"])
	assert.Equal(t, "2026-05-01T12:30:00Z", got["timestamp"])
	assert.Equal(t, "Jane Doe", got["fullName"])
	assert.Equal(t, "fan", got["role"])
	assert.Equal(t, "community_registry", got["submissionType"])
}

func TestWebhookNotifier_ContactShape(t *testing.T) {
	payload := webhookPayload(sampleContact(), createdAt)
	assert.Equal(t, "contact", payload["sheetType"])
	assert.Equal(t, "Sam", payload["name"])
	assert.Equal(t, "investment", payload["interestType"])
	assert.NotContains(t, payload, "fullName")
}

func TestWebhookNotifier_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, time.Second).Notify(context.Background(), sampleContact())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookNotifier_HonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := NewWebhookNotifier(srv.URL, time.Minute).Notify(ctx, sampleContact())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestUnconfiguredSinksAreSuccessfulNoops(t *testing.T) {
	sheets, err := NewSheetsNotifier(context.Background(), "", "")
	require.NoError(t, err)

	sinks := []Notifier{
		NewWebhookNotifier("", time.Second),
		NewMailer(config.NotificationConfig{}),
		sheets,
	}
	for _, sink := range sinks {
		assert.False(t, sink.Enabled(), sink.Name())
		assert.NoError(t, sink.Notify(context.Background(), sampleRegistration()), sink.Name())
	}
}

func TestRenderNotification_Registration(t *testing.T) {
	subject, text, html, err := renderNotification(sampleRegistration())
	require.NoError(t, err)

	assert.Equal(t, SubjectRegistration, subject)
	assert.Contains(t, text, "Name: Jane Doe")
	assert.Contains(t, text, "Business Name: N/A")
	assert.Contains(t, text, "Youth Club: N/A")
	assert.Contains(t, text, `Bring "real" soccer <here>`)
	assert.Contains(t, text, "Submitted at: 2026-05-01T12:30:00Z")

	assert.Contains(t, html, "&lt;here&gt;")
	assert.NotContains(t, html, "<here>")
}

func TestRenderNotification_Contact(t *testing.T) {
	subject, text, _, err := renderNotification(sampleContact())
	require.NoError(t, err)
	assert.Equal(t, SubjectContact, subject)
	assert.Contains(t, text, "Organization: N/A")
	assert.Contains(t, text, "Interest Type: Investment")
	assert.Contains(t, text, "Message:\nWe would like to discuss an investment.")
}

func TestMailer_SendsComposedMessage(t *testing.T) {
	m := NewMailer(config.NotificationConfig{
		AdminEmail:   "admin@example.com",
		SMTPUser:     "bot@example.com",
		SMTPPassword: "secret",
	})
	var sent *mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}

	require.NoError(t, m.Notify(context.Background(), sampleContact()))
	require.NotNil(t, sent)
	recipients, err := sent.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com"}, recipients)
}

type recordingAppender struct {
	sheet string
	row   []interface{}
}

func (r *recordingAppender) AppendRow(_ context.Context, sheet string, row []interface{}) error {
	r.sheet = sheet
	r.row = row
	return nil
}

func TestSheetsNotifier_AppendsToMatchingTab(t *testing.T) {
	rec := &recordingAppender{}
	n := &SheetsNotifier{appender: rec}

	require.NoError(t, n.Notify(context.Background(), sampleContact()))
	assert.Equal(t, SheetContacts, rec.sheet)
	assert.Equal(t, []interface{}{"2026-05-01T12:30:00Z", "Sam", "sam@fund.io", "", "investment", "We would like to discuss an investment."}, rec.row)

	require.NoError(t, n.Notify(context.Background(), sampleRegistration()))
	assert.Equal(t, SheetRegistrations, rec.sheet)
	assert.Len(t, rec.row, 10)
}
