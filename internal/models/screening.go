package models

import "time"

// ScreeningRecord stores one anemia screening submission: uploaded image URLs,
// the predictor's hemoglobin estimate, and the combined risk assessment.
type ScreeningRecord struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	EyeImageURL  string `gorm:"size:255" json:"eye_image_url"`
	NailImageURL string `gorm:"size:255" json:"nail_image_url"`

	HbPrediction float64 `gorm:"not null" json:"hb_prediction"` // g/dL

	SymptomsList  string  `gorm:"type:text" json:"symptoms_list"`
	SymptomsScore float64 `gorm:"not null" json:"symptoms_score"`

	FinalScore float64   `gorm:"not null" json:"final_score"`        // 0-100
	RiskLevel  string    `gorm:"size:20;not null" json:"risk_level"` // RENDAH | SEDANG | TINGGI
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ScreeningRecord) TableName() string {
	return "screening_records"
}
