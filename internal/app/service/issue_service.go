package service

import (
	"context"
	"fmt"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/metrics"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"go.uber.org/zap"
)

// Issuer mints a new link record and the secret that gates it.
type Issuer interface {
	Issue(ctx context.Context, link, notifyEmail string) (*model.Link, error)
}

type issueService struct {
	links     repository.LinkRepository
	publisher *IssuePublisher
	logger    *zap.Logger
	newSecret func() (string, error)
}

// NewIssueService returns an Issuer backed by the given repository. The
// publisher may be nil when no event stream is configured.
func NewIssueService(links repository.LinkRepository, publisher *IssuePublisher, logger *zap.Logger) Issuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &issueService{
		links:     links,
		publisher: publisher,
		logger:    logger,
		newSecret: NewSecret,
	}
}

// Issue persists exactly one new link record with a fresh secret and returns
// it. The destination is stored as submitted; normalization happens at
// resolution time. No scan entry is written at issuance.
func (s *issueService) Issue(ctx context.Context, link, notifyEmail string) (*model.Link, error) {
	secret, err := s.newSecret()
	if err != nil {
		return nil, fmt.Errorf("issue link: %w", err)
	}

	rec := &model.Link{Link: link, Secret: secret}
	if err := s.links.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("issue link: %w", err)
	}
	metrics.LinksIssued.Inc()

	// Notification is best effort; issuance already succeeded.
	if s.publisher != nil {
		if err := s.publisher.Publish(rec, notifyEmail); err != nil {
			s.logger.Error("failed to publish issue event",
				zap.Uint("code_id", rec.ID),
				zap.Error(err))
		}
	}

	return rec, nil
}
