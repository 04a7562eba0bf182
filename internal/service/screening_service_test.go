package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/DAVIPRADIPTA/website-anemware/internal/repository"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/predictor"
)

type fakePredictor struct {
	results map[predictor.ImageKind]*float64
	err     error
}

func (f *fakePredictor) Predict(ctx context.Context, images map[predictor.ImageKind]string) (map[predictor.ImageKind]*float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[predictor.ImageKind]*float64)
	for kind := range images {
		out[kind] = f.results[kind]
	}
	return out, nil
}

func hbPtr(v float64) *float64 { return &v }

func TestScoreSymptoms(t *testing.T) {
	cases := []struct {
		name     string
		symptoms map[string]int
		want     float64
	}{
		{"none", map[string]int{}, 0},
		{"all no", map[string]int{"lemas": 0, "pusing": 0}, 0},
		{"sometimes halves weight", map[string]int{"lemas": 1}, 7.5},
		{"often full weight", map[string]int{"lemas": 2}, 15},
		{"mixed", map[string]int{"lemas": 2, "pusing": 1, "haid_banyak": 2}, 40},
		{"everything often caps at 100", map[string]int{
			"lemas": 2, "pusing": 2, "fokus": 2, "pucat": 2,
			"jantung": 2, "haid_banyak": 2, "haid_lama": 2,
		}, 100},
		{"unknown key ignored", map[string]int{"batuk": 2, "lemas": 2}, 15},
		{"out-of-range level ignored", map[string]int{"lemas": 5}, 0},
	}
	for _, tc := range cases {
		got, _ := ScoreSymptoms(tc.symptoms)
		if got != tc.want {
			t.Fatalf("%s: score = %v, want %v", tc.name, got, tc.want)
		}
	}

	_, summary := ScoreSymptoms(map[string]int{"lemas": 1, "pusing": 2, "fokus": 0})
	if summary != "lemas (Kadang), pusing (Sering)" {
		t.Fatalf("summary = %q", summary)
	}
}

func TestHbRiskScore(t *testing.T) {
	cases := []struct {
		hb   float64
		want float64
	}{
		{15.2, 0},
		{14, 0},
		{6, 100},
		{4.5, 100},
		{10, 50},
		{12, 25},
	}
	for _, tc := range cases {
		if got := HbRiskScore(tc.hb); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("hb %v: score = %v, want %v", tc.hb, got, tc.want)
		}
	}
}

func TestRiskLevel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, RiskLow},
		{30, RiskLow},
		{30.1, RiskMedium},
		{70, RiskMedium},
		{70.1, RiskHigh},
		{100, RiskHigh},
	}
	for _, tc := range cases {
		if got := RiskLevel(tc.score); got != tc.want {
			t.Fatalf("score %v: level = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestSubmitAveragesBothImages(t *testing.T) {
	db := newTestDB(t)
	patient := createPatient(t, db, "rina@test.local")
	pred := &fakePredictor{results: map[predictor.ImageKind]*float64{
		predictor.KindEye:  hbPtr(10),
		predictor.KindNail: hbPtr(12),
	}}
	svc := NewScreeningService(repository.NewScreeningRepository(db), pred)

	result, err := svc.Submit(context.Background(), patient.ID,
		"https://img.test/eye.jpg", "https://img.test/nail.jpg",
		map[string]int{"lemas": 2, "pusing": 1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.HbPrediction != 11 {
		t.Fatalf("hb = %v, want average 11", result.HbPrediction)
	}
	// hb risk (14-11)/8*100 = 37.5, symptoms 20: 37.5*0.6 + 20*0.4 = 30.5
	if result.FinalScore != 30.5 {
		t.Fatalf("final score = %v, want 30.5", result.FinalScore)
	}
	if result.RiskLevel != RiskMedium {
		t.Fatalf("risk = %q, want %q", result.RiskLevel, RiskMedium)
	}

	history, err := svc.History(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].RiskLevel != RiskMedium {
		t.Fatalf("history = %+v", history)
	}
}

func TestSubmitSingleImage(t *testing.T) {
	db := newTestDB(t)
	patient := createPatient(t, db, "rina@test.local")
	pred := &fakePredictor{results: map[predictor.ImageKind]*float64{
		predictor.KindEye: hbPtr(14),
	}}
	svc := NewScreeningService(repository.NewScreeningRepository(db), pred)

	result, err := svc.Submit(context.Background(), patient.ID, "https://img.test/eye.jpg", "", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.HbPrediction != 14 || result.FinalScore != 0 || result.RiskLevel != RiskLow {
		t.Fatalf("healthy single-image result = %+v", result)
	}
}

func TestSubmitRequiresAnImage(t *testing.T) {
	db := newTestDB(t)
	svc := NewScreeningService(repository.NewScreeningRepository(db), &fakePredictor{})

	if _, err := svc.Submit(context.Background(), 1, "", "", map[string]int{"lemas": 2}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSubmitPropagatesPredictorError(t *testing.T) {
	db := newTestDB(t)
	patient := createPatient(t, db, "rina@test.local")
	svc := NewScreeningService(repository.NewScreeningRepository(db), &fakePredictor{err: errors.New("model offline")})

	if _, err := svc.Submit(context.Background(), patient.ID, "https://img.test/eye.jpg", "", nil); err == nil {
		t.Fatalf("expected predictor error to propagate")
	}
	history, _ := svc.History(context.Background(), patient.ID)
	if len(history) != 0 {
		t.Fatalf("failed screening persisted a record")
	}
}
