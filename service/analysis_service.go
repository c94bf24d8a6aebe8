package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecopulse/domain"
	"ecopulse/repository"
)

type AnalysisService struct {
	submissions repository.SubmissionRepository
	now         func() time.Time
}

// NewAnalysisService creates a new AnalysisService that logs submissions to repo.
func NewAnalysisService(repo repository.SubmissionRepository) *AnalysisService {
	return &AnalysisService{
		submissions: repo,
		now:         time.Now,
	}
}

// Welcome returns the greeting served on the root route.
func (s *AnalysisService) Welcome() domain.WelcomeMessage {
	return domain.WelcomeMessage{Message: WelcomeMessage}
}

// Analyze records the submission and returns the EcoScore for it.
// The score does not depend on the input.
func (s *AnalysisService) Analyze(
	ctx context.Context,
	input domain.AnalysisInput,
) domain.AnalysisResult {

	submission := s.newSubmission(input)

	// Guardar la solicitud (no crítico si falla)
	if err := s.submissions.Save(ctx, submission); err != nil {
		log.Printf("Warning: failed to save submission %s: %v", submission.ID, err)
	}

	return PlaceholderResult()
}

// Stats reports how many analyses were requested, per input kind.
func (s *AnalysisService) Stats(ctx context.Context) (domain.SubmissionStats, error) {
	return s.submissions.Stats(ctx)
}

func (s *AnalysisService) newSubmission(input domain.AnalysisInput) domain.Submission {
	submission := domain.Submission{
		ID:         uuid.NewString(),
		Kind:       domain.SubmissionEmpty,
		ReceivedAt: s.now().UTC(),
	}

	switch {
	case input.File != nil:
		submission.Kind = domain.SubmissionFile
		submission.Fingerprint = input.File.SHA256
	case strings.TrimSpace(input.URL) != "":
		submission.Kind = domain.SubmissionURL
		sum := sha256.Sum256([]byte(strings.TrimSpace(input.URL)))
		submission.Fingerprint = hex.EncodeToString(sum[:])
	}
	return submission
}

// PlaceholderResult builds a fresh copy of the fixed EcoScore response.
func PlaceholderResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		EcoScore: domain.EcoScore{
			Carbon:        PlaceholderCarbon,
			Recyclability: PlaceholderRecyclability,
			Sourcing:      PlaceholderSourcing,
		},
		Alternatives: []string{PlaceholderAlternative},
	}
}
