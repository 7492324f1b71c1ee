package repository

import (
	"errors"

	"fileshare/internal/model"

	"gorm.io/gorm"
)

type FileRepository interface {
	Create(rec *model.FileRecord) error
	FindByUser(userID uint) ([]model.FileRecord, error)
	FindByID(id string) (*model.FileRecord, error)
	FindByShareToken(token string) (*model.FileRecord, error)
	TokenExists(token string) (bool, error)
	Update(rec *model.FileRecord) error
	Delete(id string) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(rec *model.FileRecord) error {
	return r.db.Create(rec).Error
}

// FindByUser returns the user's records in insertion order.
func (r *fileRepository) FindByUser(userID uint) ([]model.FileRecord, error) {
	var records []model.FileRecord
	err := r.db.Where("user_id = ?", userID).Order("seq ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileRepository) FindByID(id string) (*model.FileRecord, error) {
	var rec model.FileRecord
	if err := r.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *fileRepository) FindByShareToken(token string) (*model.FileRecord, error) {
	var rec model.FileRecord
	if err := r.db.Where("share_token = ?", token).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *fileRepository) TokenExists(token string) (bool, error) {
	var count int64
	err := r.db.Model(&model.FileRecord{}).Where("share_token = ?", token).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *fileRepository) Update(rec *model.FileRecord) error {
	return r.db.Save(rec).Error
}

// Delete removes the record with that id. Deleting an absent id is a
// no-op, not an error.
func (r *fileRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.FileRecord{}).Error
}
