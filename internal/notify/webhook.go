package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/registry-service/internal/domain"
)

// WebhookNotifier posts each submission as JSON to a spreadsheet sync endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewWebhookNotifier returns a notifier for url. An empty url disables it.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (w *WebhookNotifier) Name() string  { return "webhook" }
func (w *WebhookNotifier) Enabled() bool { return w.url != "" }

// Notify sends the payload. Non-2xx responses are errors.
func (w *WebhookNotifier) Notify(ctx context.Context, submission domain.Submission) error {
	if !w.Enabled() {
		return nil
	}

	body, err := json.Marshal(webhookPayload(submission, w.now()))
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook call: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// webhookPayload flattens the submission into the camelCase shape the sync
// script expects, tagged with sheetType and an ISO timestamp.
func webhookPayload(s domain.Submission, now time.Time) map[string]interface{} {
	payload := map[string]interface{}{
		"sheetType": sheetType(s),
		"timestamp": now.UTC().Format(time.RFC3339Nano),
		"id":        s.ID,
		"email":     s.Email,
	}
	switch {
	case s.Contact != nil:
		payload["name"] = s.Name
		payload["organization"] = s.Contact.Organization
		payload["interestType"] = string(s.Contact.InterestType)
		payload["message"] = s.Contact.Message
	case s.Registration != nil:
		r := s.Registration
		payload["fullName"] = s.Name
		payload["zipCode"] = r.ZipCode
		payload["role"] = string(r.Role)
		payload["businessName"] = r.BusinessName
		payload["youthClub"] = r.YouthClub
		payload["interestedInTickets"] = r.InterestedInTickets
		payload["interestedInPartnership"] = r.InterestedInPartnership
		payload["comment"] = r.Comment
		payload["submissionType"] = r.Source
	}
	return payload
}
