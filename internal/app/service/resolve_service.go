package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"go.uber.org/zap"
)

// Outcome is the terminal state of a resolution attempt.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeRejected Outcome = "rejected"
	OutcomeNotFound Outcome = "not-found"
)

// Rejection reasons carried in Resolution.Reason.
const (
	ReasonMalformedID    = "malformed-id"
	ReasonSecretMismatch = "secret-mismatch"
)

// Resolution is the result of one attempt to turn an (id, secret) pair into
// a destination link. CodeID is the parsed id, zero when it never parsed.
type Resolution struct {
	Outcome Outcome
	CodeID  int64
	Link    string
	Reason  string
}

// Resolver turns a presented (id, secret) pair into a Resolution.
type Resolver interface {
	Resolve(ctx context.Context, rawID, presentedSecret string) Resolution
}

// ResolveService loads the link record for an attempt, checks the presented
// secret, and normalizes the destination on success. It performs the one
// store read and nothing else; audit logging is the caller's step.
type ResolveService struct {
	links  repository.LinkRepository
	logger *zap.Logger
}

// NewResolveService creates the resolution service.
func NewResolveService(links repository.LinkRepository, logger *zap.Logger) *ResolveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolveService{links: links, logger: logger}
}

func (s *ResolveService) Resolve(ctx context.Context, rawID, presentedSecret string) Resolution {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		// No store read for an id that never parsed.
		return Resolution{Outcome: OutcomeRejected, Reason: ReasonMalformedID}
	}

	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return Resolution{Outcome: OutcomeNotFound, CodeID: id}
		}
		// Infrastructure failure. The caller sees the same not-found
		// outcome as a missing record, but the operator log keeps them
		// apart.
		s.logger.Error("failed to read link record",
			zap.Int64("code_id", id),
			zap.Error(err))
		return Resolution{Outcome: OutcomeNotFound, CodeID: id}
	}

	if subtle.ConstantTimeCompare([]byte(link.Secret), []byte(presentedSecret)) != 1 {
		return Resolution{Outcome: OutcomeRejected, CodeID: id, Reason: ReasonSecretMismatch}
	}

	return Resolution{Outcome: OutcomeResolved, CodeID: id, Link: NormalizeLink(link.Link)}
}

// NormalizeLink ensures the destination carries an explicit scheme,
// prefixing http:// when neither http:// nor https:// is present. Applied
// only to the resolved copy; the stored record is never touched.
func NormalizeLink(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "http://" + raw
}
