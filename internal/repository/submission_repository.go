package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/registry-service/internal/domain"
)

// Pagination bounds for admin listings.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// ErrStoreUnavailable is returned when a backing store cannot be reached or read.
var ErrStoreUnavailable = errors.New("submission store unavailable")

// SubmissionFilter narrows listings, exports and aggregates. Zero values match everything.
type SubmissionFilter struct {
	Type        domain.SubmissionType
	Role        domain.Role
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// MaxPageNumber keeps Offset from overflowing. Pages past the data are empty.
const MaxPageNumber = math.MaxInt / MaxPageSize

// NewPage clamps number to [1, MaxPageNumber] and size to [1, MaxPageSize].
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows preceding the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// SubmissionRepository abstracts submission persistence. Implementations are
// selected at startup; callers never branch on the backing choice.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	ExistsByEmail(ctx context.Context, typ domain.SubmissionType, email string) (bool, error)
	List(ctx context.Context, filter SubmissionFilter, page Page) ([]domain.Submission, int, error)
	ListAll(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error)
	Counts(ctx context.Context, filter SubmissionFilter) (domain.Counts, error)
	RecentComments(ctx context.Context, minLength, limit int) ([]domain.Submission, error)
	Ping(ctx context.Context) error
}

// Matches applies the filter to a single submission in memory.
func (f SubmissionFilter) Matches(s *domain.Submission) bool {
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.Role != "" && s.RoleOf() != f.Role {
		return false
	}
	if f.CreatedFrom != nil && s.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && s.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(s.Name), term) && !strings.Contains(strings.ToLower(s.Email), term) {
			return false
		}
	}
	return true
}

// countOf accumulates registration aggregates.
func countOf(counts *domain.Counts, s *domain.Submission) {
	if s.Type != domain.SubmissionTypeRegistration {
		return
	}
	counts.Supporters++
	role := s.RoleOf()
	if role.IsYouth() {
		counts.Youth++
	}
	if role == domain.RoleBusinessOwner {
		counts.Businesses++
	}
}
