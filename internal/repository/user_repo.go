package repository

import (
	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListDoctors returns verified doctors, online first, optionally filtered by
// name and specialization substrings.
func (r *UserRepository) ListDoctors(nameQuery, specQuery string) ([]models.User, error) {
	q := r.db.Where("role = ? AND is_verified = ?", domain.RoleDoctor, true)
	if nameQuery != "" {
		q = q.Where("full_name LIKE ?", "%"+nameQuery+"%")
	}
	if specQuery != "" {
		q = q.Where("specialization LIKE ?", "%"+specQuery+"%")
	}
	var doctors []models.User
	err := q.Order("is_online DESC, full_name ASC").Find(&doctors).Error
	return doctors, err
}

func (r *UserRepository) SetVerified(doctorID uint, verified bool) error {
	return r.db.Model(&models.User{}).Where("id = ? AND role = ?", doctorID, domain.RoleDoctor).
		Update("is_verified", verified).Error
}
