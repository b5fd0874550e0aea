package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/registry-service/internal/domain"
)

const (
	registrationsFile = "registrations.json"
	contactsFile      = "contacts.json"
)

// fileSubmissionRepository keeps each submission type in its own JSON array file.
// Every insert reads, appends and rewrites the whole file. Writes within one
// process are serialized and replaced atomically, but separate processes
// sharing the directory can still lose updates.
type fileSubmissionRepository struct {
	mu  sync.RWMutex
	dir string
}

// NewFileSubmissionRepository returns a JSON-file backed implementation rooted at dir.
func NewFileSubmissionRepository(dir string) (SubmissionRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &fileSubmissionRepository{dir: dir}, nil
}

func (r *fileSubmissionRepository) Create(_ context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := fileFor(submission.Type)
	items, err := r.read(name)
	if err != nil {
		return err
	}
	items = append(items, *submission)
	return r.write(name, items)
}

func (r *fileSubmissionRepository) ExistsByEmail(_ context.Context, typ domain.SubmissionType, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.read(fileFor(typ))
	if err != nil {
		return false, err
	}
	for i := range items {
		if strings.EqualFold(items[i].Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fileSubmissionRepository) List(ctx context.Context, filter SubmissionFilter, page Page) ([]domain.Submission, int, error) {
	all, err := r.ListAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	start := page.Offset()
	if start >= total {
		return []domain.Submission{}, total, nil
	}
	end := start + page.Size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *fileSubmissionRepository) ListAll(_ context.Context, filter SubmissionFilter) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	switch filter.Type {
	case "":
		names = []string{registrationsFile, contactsFile}
	default:
		names = []string{fileFor(filter.Type)}
	}

	result := []domain.Submission{}
	for _, name := range names {
		items, err := r.read(name)
		if err != nil {
			return nil, err
		}
		for i := range items {
			if filter.Matches(&items[i]) {
				result = append(result, items[i])
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fileSubmissionRepository) Counts(_ context.Context, filter SubmissionFilter) (domain.Counts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter.Type = domain.SubmissionTypeRegistration
	items, err := r.read(registrationsFile)
	if err != nil {
		return domain.Counts{}, err
	}
	var counts domain.Counts
	for i := range items {
		if filter.Matches(&items[i]) {
			countOf(&counts, &items[i])
		}
	}
	return counts, nil
}

func (r *fileSubmissionRepository) RecentComments(_ context.Context, minLength, limit int) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.read(registrationsFile)
	if err != nil {
		return nil, err
	}
	result := []domain.Submission{}
	for i := range items {
		reg := items[i].Registration
		if reg != nil && len([]rune(strings.TrimSpace(reg.Comment))) > minLength {
			result = append(result, items[i])
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

func (r *fileSubmissionRepository) Ping(_ context.Context) error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrStoreUnavailable, r.dir)
	}
	return nil
}

// read returns the stored array; a missing file is an empty collection. A
// corrupt file is an error so the next insert does not overwrite it.
func (r *fileSubmissionRepository) read(name string) ([]domain.Submission, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, name, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []domain.Submission{}, nil
	}
	var items []domain.Submission
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStoreUnavailable, name, err)
	}
	return items, nil
}

func (r *fileSubmissionRepository) write(name string, items []domain.Submission) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(r.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrStoreUnavailable, name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", ErrStoreUnavailable, name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", ErrStoreUnavailable, name, err)
	}
	return nil
}

func fileFor(typ domain.SubmissionType) string {
	if typ == domain.SubmissionTypeContact {
		return contactsFile
	}
	return registrationsFile
}
