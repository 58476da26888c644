package repository

import (
	"context"
	"errors"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"gorm.io/gorm"
)

// LinkRepository defines the data access contract for link records.
// Links are created once and never mutated or deleted afterwards.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByID(ctx context.Context, id int64) (*model.Link, error)
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return &StorageWriteError{Table: "links", Err: err}
	}
	return nil
}

func (r *linkRepository) GetByID(ctx context.Context, id int64) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, &StorageReadError{Table: "links", Err: err}
	}
	return &link, nil
}
