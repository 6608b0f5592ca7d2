package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/convodash/convodash/internal/audit/domain"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, event *domain.EventLog) error {
	return r.db.WithContext(ctx).Create(event).Error
}
