package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
)

// FileRepository defines the interface for file row access
type FileRepository interface {
	Create(ctx context.Context, file *domain.File) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.File, error)
	FindByName(ctx context.Context, name string) (*domain.File, error)
	ListVisible(ctx context.Context, viewer *uuid.UUID) ([]*domain.File, error)
	ListCreatedBefore(ctx context.Context, before time.Time) ([]*domain.File, error)
	ExistingNames(ctx context.Context, names []string) (map[string]bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

type fileRepositoryImpl struct {
	db *gorm.DB
}

// NewFileRepository creates a new instance of FileRepository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepositoryImpl{db: db}
}

func (r *fileRepositoryImpl) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.File, error) {
	var file domain.File
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// ListVisible returns public files plus, when viewer is set, the viewer's own
func (r *fileRepositoryImpl) ListVisible(ctx context.Context, viewer *uuid.UUID) ([]*domain.File, error) {
	q := r.db.WithContext(ctx).Model(&domain.File{})
	if viewer != nil {
		q = q.Where("private = ? OR owner_id = ?", false, *viewer)
	} else {
		q = q.Where("private = ?", false)
	}

	var files []*domain.File
	if err := q.Order("created_at ASC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepositoryImpl) ListCreatedBefore(ctx context.Context, before time.Time) ([]*domain.File, error) {
	var files []*domain.File
	err := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Order("created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ExistingNames reports which of names have a row
func (r *fileRepositoryImpl) ExistingNames(ctx context.Context, names []string) (map[string]bool, error) {
	found := make(map[string]bool, len(names))
	if len(names) == 0 {
		return found, nil
	}

	var existing []string
	err := r.db.WithContext(ctx).
		Model(&domain.File{}).
		Where("name IN ?", names).
		Pluck("name", &existing).Error
	if err != nil {
		return nil, err
	}
	for _, n := range existing {
		found[n] = true
	}
	return found, nil
}

func (r *fileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.File{}).Error
}

func (r *fileRepositoryImpl) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.File{}).Error
}
