package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/registry-service/internal/domain"
)

const submissionColumns = `id, submission_type, created_at, full_name, email,
        COALESCE(zip_code,''), COALESCE(role,''), COALESCE(business_name,''), COALESCE(youth_club,''),
        COALESCE(interested_in_tickets,''), COALESCE(interested_in_partnership,''),
        COALESCE(support_reason,''), COALESCE(source,''),
        COALESCE(organization,''), COALESCE(interest_type,''), COALESCE(message,'')`

type postgresSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubmissionRepository returns the hosted-table implementation.
func NewPostgresSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &postgresSubmissionRepository{pool: pool}
}

var insertColumns = []string{
	"id", "submission_type", "created_at", "full_name", "email", "zip_code", "role",
	"business_name", "youth_club", "interested_in_tickets", "interested_in_partnership", "support_reason",
	"source", "organization", "interest_type", "message",
}

func insertQuery() string {
	placeholders := make([]string, len(insertColumns))
	for i := range insertColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO submissions (%s) VALUES (%s)",
		strings.Join(insertColumns, ", "), strings.Join(placeholders, ","))
}

// insertArgs lines up with insertColumns.
func insertArgs(s *domain.Submission) []any {
	reg := s.Registration
	if reg == nil {
		reg = &domain.Registration{}
	}
	contact := s.Contact
	if contact == nil {
		contact = &domain.ContactInquiry{}
	}
	return []any{
		s.ID,
		string(s.Type),
		s.CreatedAt,
		s.Name,
		s.Email,
		nullable(reg.ZipCode),
		nullable(string(reg.Role)),
		nullable(reg.BusinessName),
		nullable(reg.YouthClub),
		nullable(reg.InterestedInTickets),
		nullable(reg.InterestedInPartnership),
		nullable(reg.Comment),
		nullable(reg.Source),
		nullable(contact.Organization),
		nullable(string(contact.InterestType)),
		nullable(contact.Message),
	}
}

func (r *postgresSubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	_, err := r.pool.Exec(ctx, insertQuery(), insertArgs(s)...)
	return err
}

func (r *postgresSubmissionRepository) ExistsByEmail(ctx context.Context, typ domain.SubmissionType, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM submissions WHERE submission_type=$1 AND LOWER(email)=LOWER($2))`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, string(typ), email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresSubmissionRepository) List(ctx context.Context, filter SubmissionFilter, page Page) ([]domain.Submission, int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM submissions WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		submissionColumns, where, page.Size, page.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := scanSubmissions(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *postgresSubmissionRepository) ListAll(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE %s ORDER BY created_at DESC`, submissionColumns, where)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (r *postgresSubmissionRepository) Counts(ctx context.Context, filter SubmissionFilter) (domain.Counts, error) {
	filter.Type = domain.SubmissionTypeRegistration
	where, args := buildWhere(filter)
	query := `SELECT COUNT(*),
            COUNT(*) FILTER (WHERE role IN ('parent','player')),
            COUNT(*) FILTER (WHERE role = 'business_owner')
        FROM submissions WHERE ` + where

	var counts domain.Counts
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&counts.Supporters, &counts.Youth, &counts.Businesses); err != nil {
		return domain.Counts{}, err
	}
	return counts, nil
}

func (r *postgresSubmissionRepository) RecentComments(ctx context.Context, minLength, limit int) ([]domain.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions
        WHERE submission_type=$1 AND char_length(btrim(COALESCE(support_reason,''))) > $2
        ORDER BY created_at DESC LIMIT $3`, submissionColumns)
	rows, err := r.pool.Query(ctx, query, string(domain.SubmissionTypeRegistration), minLength, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, err := scanSubmissions(rows)
	if err != nil {
		return nil, err
	}
	// oldest first, matching the file store
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (r *postgresSubmissionRepository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("postgres not configured")
	}
	return r.pool.Ping(ctx)
}

// buildWhere renders the filter as a parameterized clause list.
func buildWhere(filter SubmissionFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		clauses = append(clauses, fmt.Sprintf("submission_type=$%d", len(args)))
	}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(`(full_name ILIKE %s ESCAPE '\' OR email ILIKE %s ESCAPE '\')`, placeholder, placeholder))
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// submissionRow holds one row selected with submissionColumns.
type submissionRow struct {
	sub      domain.Submission
	reg      domain.Registration
	contact  domain.ContactInquiry
	typ      string
	role     string
	interest string
}

// targets lines up with submissionColumns.
func (row *submissionRow) targets() []any {
	return []any{
		&row.sub.ID,
		&row.typ,
		&row.sub.CreatedAt,
		&row.sub.Name,
		&row.sub.Email,
		&row.reg.ZipCode,
		&row.role,
		&row.reg.BusinessName,
		&row.reg.YouthClub,
		&row.reg.InterestedInTickets,
		&row.reg.InterestedInPartnership,
		&row.reg.Comment,
		&row.reg.Source,
		&row.contact.Organization,
		&row.interest,
		&row.contact.Message,
	}
}

func (row *submissionRow) submission() domain.Submission {
	s := row.sub
	s.Type = domain.SubmissionType(row.typ)
	switch s.Type {
	case domain.SubmissionTypeContact:
		contact := row.contact
		contact.InterestType = domain.InterestType(row.interest)
		s.Contact = &contact
	default:
		reg := row.reg
		reg.Role = domain.Role(row.role)
		s.Registration = &reg
	}
	return s
}

func scanSubmissions(rows pgx.Rows) ([]domain.Submission, error) {
	result := []domain.Submission{}
	for rows.Next() {
		var row submissionRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, err
		}
		result = append(result, row.submission())
	}
	return result, rows.Err()
}
