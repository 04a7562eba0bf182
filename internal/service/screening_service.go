package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/DAVIPRADIPTA/website-anemware/internal/models"
	"github.com/DAVIPRADIPTA/website-anemware/internal/repository"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/predictor"
)

// Symptom weights for the adolescent screening questionnaire. Levels are
// 0 = no, 1 = sometimes (half weight), 2 = often (full weight).
var symptomWeights = map[string]float64{
	"lemas":       15,
	"pusing":      10,
	"fokus":       10,
	"pucat":       15,
	"jantung":     10,
	"haid_banyak": 20,
	"haid_lama":   20,
}

var levelMultiplier = map[int]float64{0: 0, 1: 0.5, 2: 1.0}

// Final score blends the physical estimate with reported symptoms.
const (
	hbWeight      = 0.6
	symptomWeight = 0.4
)

const (
	RiskLow    = "RENDAH"
	RiskMedium = "SEDANG"
	RiskHigh   = "TINGGI"
)

// ScreeningService runs the anemia screening pipeline: opaque hemoglobin
// prediction plus weighted symptom scoring.
type ScreeningService struct {
	repo      *repository.ScreeningRepository
	predictor predictor.Predictor
}

func NewScreeningService(repo *repository.ScreeningRepository, p predictor.Predictor) *ScreeningService {
	return &ScreeningService{repo: repo, predictor: p}
}

// ScoreSymptoms computes the weighted symptom score (capped at 100) and a
// human-readable summary of the reported symptoms.
func ScoreSymptoms(symptoms map[string]int) (float64, string) {
	var total float64
	var parts []string
	keys := make([]string, 0, len(symptoms))
	for k := range symptoms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		weight, ok := symptomWeights[key]
		if !ok {
			continue
		}
		level := symptoms[key]
		mult, ok := levelMultiplier[level]
		if !ok {
			continue
		}
		total += weight * mult
		if level > 0 {
			label := "Kadang"
			if level == 2 {
				label = "Sering"
			}
			parts = append(parts, fmt.Sprintf("%s (%s)", key, label))
		}
	}
	return math.Min(total, 100), strings.Join(parts, ", ")
}

// HbRiskScore converts a hemoglobin level (g/dL) into a 0-100 risk score:
// 14 and above is healthy, 6 and below is severe.
func HbRiskScore(hb float64) float64 {
	switch {
	case hb >= 14:
		return 0
	case hb <= 6:
		return 100
	default:
		return (14 - hb) / (14 - 6) * 100
	}
}

// RiskLevel buckets a combined score into the displayed risk band.
func RiskLevel(score float64) string {
	switch {
	case score <= 30:
		return RiskLow
	case score <= 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ScreeningResult is the outcome returned to the patient.
type ScreeningResult struct {
	RecordID     uint    `json:"id"`
	HbPrediction float64 `json:"hb"`
	RiskLevel    string  `json:"risk"`
	FinalScore   float64 `json:"score"`
	Symptoms     string  `json:"symptoms"`
}

// Submit scores one screening: the predictor estimates hemoglobin from the
// uploaded images (averaged when both kinds are present), symptoms are weighted,
// and the blended result is persisted.
func (s *ScreeningService) Submit(ctx context.Context, userID uint, eyeImageURL, nailImageURL string, symptoms map[string]int) (*ScreeningResult, error) {
	if eyeImageURL == "" && nailImageURL == "" {
		return nil, ErrValidation
	}

	images := make(map[predictor.ImageKind]string)
	if eyeImageURL != "" {
		images[predictor.KindEye] = eyeImageURL
	}
	if nailImageURL != "" {
		images[predictor.KindNail] = nailImageURL
	}
	predictions, err := s.predictor.Predict(ctx, images)
	if err != nil {
		return nil, err
	}

	var hb float64
	eyeHb, nailHb := predictions[predictor.KindEye], predictions[predictor.KindNail]
	switch {
	case eyeHb != nil && nailHb != nil:
		hb = (*eyeHb + *nailHb) / 2
	case eyeHb != nil:
		hb = *eyeHb
	case nailHb != nil:
		hb = *nailHb
	}

	symptomScore, summary := ScoreSymptoms(symptoms)
	finalScore := HbRiskScore(hb)*hbWeight + symptomScore*symptomWeight
	risk := RiskLevel(finalScore)

	rec := &models.ScreeningRecord{
		UserID:        userID,
		EyeImageURL:   eyeImageURL,
		NailImageURL:  nailImageURL,
		HbPrediction:  round2(hb),
		SymptomsList:  summary,
		SymptomsScore: symptomScore,
		FinalScore:    round2(finalScore),
		RiskLevel:     risk,
	}
	if err := s.repo.Create(rec); err != nil {
		return nil, err
	}
	return &ScreeningResult{
		RecordID:     rec.ID,
		HbPrediction: rec.HbPrediction,
		RiskLevel:    risk,
		FinalScore:   rec.FinalScore,
		Symptoms:     summary,
	}, nil
}

// History returns the user's past screenings, newest first.
func (s *ScreeningService) History(ctx context.Context, userID uint) ([]models.ScreeningRecord, error) {
	return s.repo.ListByUser(userID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
