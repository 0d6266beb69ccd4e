package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/model"
	"github.com/siriuscareer/career-admin/internal/service"
)

// Creator persists a single test. *service.TestService satisfies it.
type Creator interface {
	Create(ctx context.Context, test *model.Test) (*model.Test, error)
}

// Report summarizes a seeding run.
type Report struct {
	Created []string
	Skipped []string
}

// Seeder creates tests whose slug does not exist yet and skips the rest.
type Seeder struct {
	creator Creator
	log     zerolog.Logger
}

func NewSeeder(creator Creator, log zerolog.Logger) *Seeder {
	return &Seeder{
		creator: creator,
		log:     log.With().Str("component", "seeder").Logger(),
	}
}

// Run creates every test in order. It stops at the first failure other than
// an existing slug.
func (s *Seeder) Run(ctx context.Context, tests []*model.Test) (Report, error) {
	var report Report
	for _, t := range tests {
		created, err := s.creator.Create(ctx, t)
		if errors.Is(err, service.ErrSlugConflict) {
			s.log.Info().Str("slug", t.Slug).Msg("Test already exists, skipping")
			report.Skipped = append(report.Skipped, t.Slug)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("seed %s: %w", t.Slug, err)
		}

		s.log.Info().
			Str("slug", created.Slug).
			Int64("id", created.ID).
			Int("questions", len(created.Questions)).
			Msg("Test seeded")
		report.Created = append(report.Created, created.Slug)
	}
	return report, nil
}
