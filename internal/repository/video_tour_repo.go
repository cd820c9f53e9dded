package repository

import (
	"PropTour/internal/model"
	"context"

	"gorm.io/gorm"
)

type VideoTourRepo interface {
	Create(ctx context.Context, tour *model.VideoTour) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByListing(ctx context.Context, listingID string) (int64, error)
	ListByListing(ctx context.Context, listingID string, offset, limit int) ([]*model.VideoTour, error)
	GetByID(ctx context.Context, id string, userID string) (*model.VideoTour, error)
	Update(ctx context.Context, id string, userID string, fields map[string]interface{}) (*model.VideoTour, error)
	Delete(ctx context.Context, id string, userID string) error
}

type VideoTourRepoImpl struct {
	db *gorm.DB
}

func NewVideoTourRepository(db *gorm.DB) VideoTourRepo {
	return &VideoTourRepoImpl{
		db: db,
	}
}

func (s VideoTourRepoImpl) Create(ctx context.Context, tour *model.VideoTour) error {
	return s.db.WithContext(ctx).Create(tour).Error
}

func (s VideoTourRepoImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.VideoTour{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s VideoTourRepoImpl) CountByListing(ctx context.Context, listingID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.VideoTour{}).Where("listing_id = ?", listingID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s VideoTourRepoImpl) ListByListing(ctx context.Context, listingID string, offset, limit int) ([]*model.VideoTour, error) {
	var tours []*model.VideoTour
	err := s.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("uploaded_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tours).Error
	if err != nil {
		return nil, err
	}
	return tours, nil
}

func (s VideoTourRepoImpl) GetByID(ctx context.Context, id string, userID string) (*model.VideoTour, error) {
	var tour model.VideoTour
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&tour).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// Update 先按归属校验行存在，再应用可变字段。
// 不依赖 RowsAffected，避免无变化更新被误判为不存在
func (s VideoTourRepoImpl) Update(ctx context.Context, id string, userID string, fields map[string]interface{}) (*model.VideoTour, error) {
	var tour model.VideoTour
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&tour).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&tour).Updates(fields).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (s VideoTourRepoImpl) Delete(ctx context.Context, id string, userID string) error {
	tx := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.VideoTour{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
