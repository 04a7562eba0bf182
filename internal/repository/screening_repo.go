package repository

import (
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"

	"gorm.io/gorm"
)

type ScreeningRepository struct {
	db *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

func (r *ScreeningRepository) Create(rec *models.ScreeningRecord) error {
	return r.db.Create(rec).Error
}

func (r *ScreeningRepository) ListByUser(userID uint) ([]models.ScreeningRecord, error) {
	var list []models.ScreeningRecord
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}
