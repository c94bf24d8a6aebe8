package repository

import (
	"context"

	"ecopulse/domain"
)

type SubmissionRepository interface {
	Save(ctx context.Context, submission domain.Submission) error
	Stats(ctx context.Context) (domain.SubmissionStats, error)
}
