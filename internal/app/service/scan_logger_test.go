package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
)

type mockScanRepository struct {
	createFn func(ctx context.Context, scan *model.Scan) error
	created  []model.Scan
}

func (m *mockScanRepository) Create(ctx context.Context, scan *model.Scan) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, scan); err != nil {
			return err
		}
	}
	m.created = append(m.created, *scan)
	return nil
}

func (m *mockScanRepository) ListByCodeID(ctx context.Context, codeID int64, limit, offset int) ([]model.Scan, error) {
	var result []model.Scan
	for _, s := range m.created {
		if s.CodeID == codeID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockScanRepository) CountByCodeID(ctx context.Context, codeID int64) (int64, int64, error) {
	var total, succeeded int64
	for _, s := range m.created {
		if s.CodeID == codeID {
			total++
			if s.Success {
				succeeded++
			}
		}
	}
	return total, succeeded, nil
}

func newTestScanLogger(t *testing.T, repo repository.ScanRepository, opts ScanLoggerOptions) *ScanLogger {
	t.Helper()
	l, err := NewScanLogger(repo, nil, opts)
	if err != nil {
		t.Fatalf("NewScanLogger returned error: %v", err)
	}
	// 22:04:05 UTC on June 9 2024 is 3:04:05 PM in Los Angeles.
	l.now = func() time.Time {
		return time.Date(2024, 6, 9, 22, 4, 5, 0, time.UTC)
	}
	return l
}

func TestScanLogger_Record_WritesOneRow(t *testing.T) {
	repo := &mockScanRepository{}
	l := newTestScanLogger(t, repo, ScanLoggerOptions{})

	l.Record(context.Background(), 7, true)

	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one scan row, got %d", len(repo.created))
	}
	row := repo.created[0]
	if row.CodeID != 7 || !row.Success {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.Date != "6/9/2024, 3:04:05 PM" {
		t.Fatalf("unexpected date string: %q", row.Date)
	}
}

func TestScanLogger_Record_FailsSoft(t *testing.T) {
	repo := &mockScanRepository{
		createFn: func(ctx context.Context, scan *model.Scan) error {
			return &repository.StorageWriteError{Table: "scans", Err: errors.New("disk full")}
		},
	}
	l := newTestScanLogger(t, repo, ScanLoggerOptions{})

	// Must not panic or surface the failure in any way.
	l.Record(context.Background(), 7, false)

	if len(repo.created) != 0 {
		t.Fatalf("expected no scan row after write failure, got %d", len(repo.created))
	}
}

func TestScanLogger_RecordAttempt_AuditsBothOutcomes(t *testing.T) {
	repo := &mockScanRepository{}
	l := newTestScanLogger(t, repo, ScanLoggerOptions{})
	ctx := context.Background()

	l.RecordAttempt(ctx, Resolution{Outcome: OutcomeResolved, CodeID: 1, Link: "http://example.com"})
	l.RecordAttempt(ctx, Resolution{Outcome: OutcomeRejected, CodeID: 1, Reason: ReasonSecretMismatch})
	l.RecordAttempt(ctx, Resolution{Outcome: OutcomeNotFound, CodeID: 999})

	if len(repo.created) != 3 {
		t.Fatalf("expected 3 scan rows, got %d", len(repo.created))
	}
	if !repo.created[0].Success || repo.created[0].CodeID != 1 {
		t.Fatalf("unexpected success row: %+v", repo.created[0])
	}
	if repo.created[1].Success {
		t.Fatalf("mismatch attempt must be recorded as failure: %+v", repo.created[1])
	}
	if repo.created[2].Success || repo.created[2].CodeID != 999 {
		t.Fatalf("not-found attempt must be recorded as failure for its id: %+v", repo.created[2])
	}
}

func TestScanLogger_RecordAttempt_MalformedIDSkippedByDefault(t *testing.T) {
	repo := &mockScanRepository{}
	l := newTestScanLogger(t, repo, ScanLoggerOptions{})

	l.RecordAttempt(context.Background(), Resolution{Outcome: OutcomeRejected, Reason: ReasonMalformedID})

	if len(repo.created) != 0 {
		t.Fatalf("expected malformed-id attempt to be skipped, got %d rows", len(repo.created))
	}
}

func TestScanLogger_RecordAttempt_MalformedIDAuditedWhenConfigured(t *testing.T) {
	repo := &mockScanRepository{}
	l := newTestScanLogger(t, repo, ScanLoggerOptions{AuditMalformed: true})

	l.RecordAttempt(context.Background(), Resolution{Outcome: OutcomeRejected, Reason: ReasonMalformedID})

	if len(repo.created) != 1 {
		t.Fatalf("expected malformed-id attempt to be recorded, got %d rows", len(repo.created))
	}
	if repo.created[0].Success || repo.created[0].CodeID != 0 {
		t.Fatalf("unexpected malformed-id row: %+v", repo.created[0])
	}
}

func TestScanLogger_UnknownTimezone(t *testing.T) {
	if _, err := NewScanLogger(&mockScanRepository{}, nil, ScanLoggerOptions{Timezone: "Not/AZone"}); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
