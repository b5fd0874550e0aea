package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spec-kit/registry-service/internal/domain"
	"github.com/spec-kit/registry-service/internal/report"
	"github.com/spec-kit/registry-service/internal/repository"
	apperrors "github.com/spec-kit/registry-service/pkg/util"
)

const (
	dateOnly         = "2006-01-02"
	msgReportFailed  = "Failed to load submissions"
	msgInvalidFilter = "Invalid filter"
)

// ReportQuery is the raw admin filter input.
type ReportQuery struct {
	Type     string
	Role     string
	Search   string
	Start    string
	End      string
	Page     int
	PageSize int
}

// ReportPage is one page of admin results.
type ReportPage struct {
	Data     []domain.Submission `json:"data"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

// ReportService parses admin filters and reads the submission store.
type ReportService struct {
	submissions repository.SubmissionRepository
	location    *time.Location
}

// NewReportService constructs the service. Date-only bounds are interpreted in loc.
func NewReportService(submissions repository.SubmissionRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{submissions: submissions, location: loc}
}

// List returns the requested page along with the total match count.
func (s *ReportService) List(ctx context.Context, q ReportQuery) (*ReportPage, error) {
	filter, err := s.Filter(q)
	if err != nil {
		return nil, err
	}
	size := q.PageSize
	if size == 0 {
		size = repository.DefaultPageSize
	}
	page := repository.NewPage(q.Page, size)

	rows, total, err := s.submissions.List(ctx, filter, page)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable(msgReportFailed, err)
	}
	return &ReportPage{Data: rows, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

// Export writes every matching submission as CSV.
func (s *ReportService) Export(ctx context.Context, q ReportQuery, w io.Writer) error {
	filter, err := s.Filter(q)
	if err != nil {
		return err
	}
	rows, err := s.submissions.ListAll(ctx, filter)
	if err != nil {
		return apperrors.NewUpstreamUnavailable(msgReportFailed, err)
	}
	return report.WriteCSV(w, rows)
}

// Filter converts the raw query into a store filter. Date-only bounds cover
// the whole day: start at 00:00:00 and end at 23:59:59.999999999.
func (s *ReportService) Filter(q ReportQuery) (repository.SubmissionFilter, error) {
	filter := repository.SubmissionFilter{Search: strings.TrimSpace(q.Search)}

	if typ := strings.TrimSpace(q.Type); typ != "" && typ != "all" {
		t := domain.SubmissionType(typ)
		if t != domain.SubmissionTypeRegistration && t != domain.SubmissionTypeContact {
			return filter, invalidFilter("type")
		}
		filter.Type = t
	}
	if role := strings.TrimSpace(q.Role); role != "" && role != "all" {
		r := domain.Role(role)
		if !r.IsValid() {
			return filter, invalidFilter("role")
		}
		filter.Role = r
	}
	if start := strings.TrimSpace(q.Start); start != "" {
		t, err := s.parseBound(start, false)
		if err != nil {
			return filter, invalidFilter("start")
		}
		filter.CreatedFrom = &t
	}
	if end := strings.TrimSpace(q.End); end != "" {
		t, err := s.parseBound(end, true)
		if err != nil {
			return filter, invalidFilter("end")
		}
		filter.CreatedTo = &t
	}
	return filter, nil
}

func (s *ReportService) parseBound(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	day, err := time.ParseInLocation(dateOnly, raw, s.location)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return day.UTC(), nil
}

func invalidFilter(field string) error {
	return apperrors.NewValidationError(msgInvalidFilter, map[string]any{"field": field, "reason": "InvalidFilter"})
}
