package service

import (
	"context"
	"fmt"
	"time"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/metrics"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"go.uber.org/zap"
)

// ScanDateLayout renders timestamps the way the scan table has always held
// them: an en-US locale string, e.g. "6/9/2024, 3:04:05 PM".
const ScanDateLayout = "1/2/2006, 3:04:05 PM"

// ScanLoggerOptions tune how attempts are recorded.
type ScanLoggerOptions struct {
	// Timezone scan timestamps are captured in. Defaults to
	// America/Los_Angeles.
	Timezone string
	// AuditMalformed also records attempts whose id never parsed (logged
	// with code id 0). Attempts that reached a record lookup are always
	// recorded regardless of this setting.
	AuditMalformed bool
}

// ScanLogger appends one scan row per resolution attempt. Writes fail soft:
// a failure is logged and counted but never surfaces to the caller, so the
// resolution outcome already determined stays untouched.
type ScanLogger struct {
	scans          repository.ScanRepository
	logger         *zap.Logger
	loc            *time.Location
	auditMalformed bool
	now            func() time.Time
}

// NewScanLogger creates a scan logger. It fails only when the configured
// timezone is unknown.
func NewScanLogger(scans repository.ScanRepository, logger *zap.Logger, opts ScanLoggerOptions) (*ScanLogger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tz := opts.Timezone
	if tz == "" {
		tz = "America/Los_Angeles"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("scan logger: load timezone %q: %w", tz, err)
	}
	return &ScanLogger{
		scans:          scans,
		logger:         logger,
		loc:            loc,
		auditMalformed: opts.AuditMalformed,
		now:            time.Now,
	}, nil
}

// RecordAttempt applies the audit policy to a finished resolution and writes
// the scan row. Exactly one row results for every attempt that reached a
// record lookup; malformed-id attempts are written only when configured.
func (l *ScanLogger) RecordAttempt(ctx context.Context, res Resolution) {
	if res.Outcome == OutcomeRejected && res.Reason == ReasonMalformedID && !l.auditMalformed {
		return
	}
	l.Record(ctx, res.CodeID, res.Outcome == OutcomeResolved)
}

// Record appends a single scan row for the given code id and outcome.
func (l *ScanLogger) Record(ctx context.Context, codeID int64, success bool) {
	scan := &model.Scan{
		CodeID:  codeID,
		Success: success,
		Date:    l.now().In(l.loc).Format(ScanDateLayout),
	}
	if err := l.scans.Create(ctx, scan); err != nil {
		metrics.ScanWriteFailures.Inc()
		l.logger.Error("failed to record scan",
			zap.Int64("code_id", codeID),
			zap.Bool("success", success),
			zap.Error(err))
	}
}
