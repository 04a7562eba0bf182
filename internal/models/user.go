package models

import (
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	FullName     string    `gorm:"size:100" json:"full_name"`
	Role         string    `gorm:"size:20;not null;index" json:"role"` // PASIEN | DOKTER | ADMIN
	ProfileImage string    `gorm:"size:255" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Doctor-only columns; zero-valued for patients.
	Specialization    string `gorm:"size:100" json:"specialization,omitempty"`
	ConsultationPrice int64  `gorm:"default:0" json:"consultation_price"`
	Bio               string `gorm:"type:text" json:"bio,omitempty"`
	IsVerified        bool   `gorm:"default:false" json:"is_verified"`
	IsOnline          bool   `gorm:"default:false" json:"is_online"`

	// Balance accumulates the doctor's share of settled consultations.
	Balance int64 `gorm:"default:0" json:"balance"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsDoctor() bool  { return u.Role == domain.RoleDoctor }
func (u *User) IsPatient() bool { return u.Role == domain.RolePatient }
func (u *User) IsAdmin() bool   { return u.Role == domain.RoleAdmin }
