package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/ErlanBelekov/learning-management-system/internal/metrics"
	"github.com/ErlanBelekov/learning-management-system/internal/repository"
)

const defaultCandidateStatus = "hired"

type CandidateUsecase struct {
	repo   repository.CandidateRepository
	logger *slog.Logger
}

func NewCandidateUsecase(repo repository.CandidateRepository, logger *slog.Logger) *CandidateUsecase {
	return &CandidateUsecase{repo: repo, logger: logger.With("component", "candidate_usecase")}
}

type SaveCandidateInput struct {
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	Degree       string
	HiredCity    string
	HiredDate    string
	Status       string
}

func (u *CandidateUsecase) Save(ctx context.Context, in SaveCandidateInput) (*domain.HiredCandidate, error) {
	c, err := candidateFromFields(in)
	if err != nil {
		return nil, err
	}
	saved, err := u.repo.Upsert(ctx, c)
	if err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "candidate saved", "candidate_id", saved.ID)
	return saved, nil
}

func (u *CandidateUsecase) List(ctx context.Context) ([]*domain.HiredCandidate, error) {
	return u.repo.List(ctx)
}

func (u *CandidateUsecase) FindByFirstName(ctx context.Context, firstName string) (*domain.HiredCandidate, error) {
	c, err := u.repo.FindByFirstName(ctx, firstName)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return c, nil
}

// ImportFile imports the CSV file at path.
func (u *CandidateUsecase) ImportFile(ctx context.Context, path string) ([]*domain.HiredCandidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candidate file: %w", err)
	}
	defer f.Close()
	return u.Import(ctx, f)
}

// Import parses the whole file before writing anything, so a malformed row
// leaves the store untouched. Rows are upserted by email.
func (u *CandidateUsecase) Import(ctx context.Context, r io.Reader) ([]*domain.HiredCandidate, error) {
	parsed, err := parseCandidates(r)
	if err != nil {
		return nil, err
	}

	saved := make([]*domain.HiredCandidate, 0, len(parsed))
	for _, c := range parsed {
		s, err := u.repo.Upsert(ctx, c)
		if err != nil {
			metrics.CandidatesImportedTotal.Add(float64(len(saved)))
			return saved, fmt.Errorf("import candidate %s: %w", c.Email, err)
		}
		saved = append(saved, s)
	}

	metrics.CandidatesImportedTotal.Add(float64(len(saved)))
	u.logger.InfoContext(ctx, "candidates imported", "count", len(saved))
	return saved, nil
}

func candidateFromFields(in SaveCandidateInput) (*domain.HiredCandidate, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.ErrInvalidCandidate.WithMessage("email is required")
	}
	hired, err := parseHiredDate(in.HiredDate)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = defaultCandidateStatus
	}
	return &domain.HiredCandidate{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		MobileNumber: strings.TrimSpace(in.MobileNumber),
		Degree:       strings.TrimSpace(in.Degree),
		HiredCity:    strings.TrimSpace(in.HiredCity),
		HiredDate:    hired,
		Status:       status,
	}, nil
}
