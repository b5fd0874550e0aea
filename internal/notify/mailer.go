package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/spec-kit/registry-service/internal/config"
	"github.com/spec-kit/registry-service/internal/domain"
)

// Subjects for admin notification mail.
const (
	SubjectRegistration = "New Registration"
	SubjectContact      = "New Contact Inquiry"
)

var htmlBody = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: system-ui, sans-serif; line-height: 1.6;">
  <h1>{{.Title}}</h1>
  {{range .Fields}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>
  {{end}}{{if .Body}}<div style="background:#f8fafc;padding:16px;">
    <strong>{{.BodyLabel}}:</strong>
    <p>{{.Body}}</p>
  </div>{{end}}
  <p style="font-size:12px;color:#94a3b8;">Submitted at: {{.SubmittedAt}}</p>
</body>
</html>`))

type mailField struct {
	Label string
	Value string
}

type mailView struct {
	Title       string
	Fields      []mailField
	BodyLabel   string
	Body        string
	SubmittedAt string
}

// sendFunc delivers a composed message.
type sendFunc func(ctx context.Context, msg *mail.Msg) error

// Mailer emails the admin address about each submission.
type Mailer struct {
	cfg  config.NotificationConfig
	send sendFunc
}

// NewMailer returns a mailer using SMTP settings from cfg. Without SMTP
// credentials it is disabled.
func NewMailer(cfg config.NotificationConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	m.send = m.dialAndSend
	return m
}

func (m *Mailer) Name() string  { return "email" }
func (m *Mailer) Enabled() bool { return m.cfg.EmailEnabled() }

// Notify composes and sends the notification.
func (m *Mailer) Notify(ctx context.Context, submission domain.Submission) error {
	if !m.Enabled() {
		return nil
	}
	msg, err := m.compose(submission)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *Mailer) compose(s domain.Submission) (*mail.Msg, error) {
	subject, text, html, err := renderNotification(s)
	if err != nil {
		return nil, err
	}
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender()); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(m.cfg.AdminEmail); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(m.cfg.SMTPHost,
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.SMTPUser),
		mail.WithPassword(m.cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// renderNotification builds the subject plus plain-text and HTML bodies.
func renderNotification(s domain.Submission) (subject, text, html string, err error) {
	view := mailView{SubmittedAt: s.CreatedAt.UTC().Format(time.RFC3339)}

	switch {
	case s.Contact != nil:
		subject = SubjectContact
		view.Title = SubjectContact
		view.Fields = []mailField{
			{"Name", s.Name},
			{"Email", s.Email},
			{"Organization", orNA(s.Contact.Organization)},
			{"Interest Type", interestLabel(s.Contact.InterestType)},
		}
		view.BodyLabel = "Message"
		view.Body = s.Contact.Message
	case s.Registration != nil:
		r := s.Registration
		subject = SubjectRegistration
		view.Title = SubjectRegistration
		view.Fields = []mailField{
			{"Name", s.Name},
			{"Email", s.Email},
			{"Zip Code", r.ZipCode},
			{"Role", string(r.Role)},
			{"Business Name", orNA(r.BusinessName)},
			{"Youth Club", orNA(r.YouthClub)},
			{"Interested in Tickets", orNA(r.InterestedInTickets)},
			{"Interested in Partnership", orNA(r.InterestedInPartnership)},
		}
		view.BodyLabel = "Comment"
		view.Body = r.Comment
	default:
		return "", "", "", fmt.Errorf("submission %s has no payload", s.ID)
	}

	var b strings.Builder
	b.WriteString(view.Title)
	b.WriteString("\n\n")
	for _, f := range view.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	body := view.Body
	if body == "" {
		body = "No " + strings.ToLower(view.BodyLabel) + " provided"
	}
	fmt.Fprintf(&b, "\n%s:\n%s\n\n---\nSubmitted at: %s", view.BodyLabel, body, view.SubmittedAt)

	var h bytes.Buffer
	if err := htmlBody.Execute(&h, view); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	return subject, b.String(), h.String(), nil
}

func interestLabel(t domain.InterestType) string {
	switch t {
	case domain.InterestInvestment:
		return "Investment"
	case domain.InterestOwnership:
		return "Ownership"
	case domain.InterestPartnership:
		return "Partnership"
	case domain.InterestOther:
		return "Other"
	default:
		return string(t)
	}
}
