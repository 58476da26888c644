package repository

import (
	"context"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"gorm.io/gorm"
)

// ScanRepository defines the data access contract for the scan audit trail.
// The trail is append-only, so the interface offers no update or delete.
type ScanRepository interface {
	Create(ctx context.Context, scan *model.Scan) error
	ListByCodeID(ctx context.Context, codeID int64, limit, offset int) ([]model.Scan, error)
	CountByCodeID(ctx context.Context, codeID int64) (total int64, succeeded int64, err error)
}

type scanRepository struct {
	db *gorm.DB
}

// NewScanRepository returns a GORM-backed ScanRepository.
func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *model.Scan) error {
	if err := r.db.WithContext(ctx).Create(scan).Error; err != nil {
		return &StorageWriteError{Table: "scans", Err: err}
	}
	return nil
}

func (r *scanRepository) ListByCodeID(ctx context.Context, codeID int64, limit, offset int) ([]model.Scan, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var result []model.Scan
	if err := r.db.WithContext(ctx).
		Where("code_id = ?", codeID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&result).Error; err != nil {
		return nil, &StorageReadError{Table: "scans", Err: err}
	}

	return result, nil
}

func (r *scanRepository) CountByCodeID(ctx context.Context, codeID int64) (int64, int64, error) {
	var total, succeeded int64
	if err := r.db.WithContext(ctx).Model(&model.Scan{}).
		Where("code_id = ?", codeID).
		Count(&total).Error; err != nil {
		return 0, 0, &StorageReadError{Table: "scans", Err: err}
	}
	if err := r.db.WithContext(ctx).Model(&model.Scan{}).
		Where("code_id = ? AND success = ?", codeID, true).
		Count(&succeeded).Error; err != nil {
		return 0, 0, &StorageReadError{Table: "scans", Err: err}
	}
	return total, succeeded, nil
}
