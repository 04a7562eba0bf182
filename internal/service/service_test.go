package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/midtrans"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One in-memory database per connection otherwise.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Consultation{},
		&models.Payment{},
		&models.ChatMessage{},
		&models.Withdrawal{},
		&models.ScreeningRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, u *models.User) *models.User {
	t.Helper()
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createPatient(t *testing.T, db *gorm.DB, email string) *models.User {
	return createUser(t, db, &models.User{Email: email, FullName: "Patient " + email, Role: domain.RolePatient})
}

func createDoctor(t *testing.T, db *gorm.DB, email string, price int64) *models.User {
	return createUser(t, db, &models.User{
		Email:             email,
		FullName:          "Dr " + email,
		Role:              domain.RoleDoctor,
		IsVerified:        true,
		ConsultationPrice: price,
	})
}

// fakeGateway records payment-link requests and can be told to fail.
type fakeGateway struct {
	fail   bool
	orders []string
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, orderID string, amount int64, customer midtrans.CustomerDetails) (*midtrans.SnapResponse, error) {
	if f.fail {
		return nil, errors.New("gateway down")
	}
	f.orders = append(f.orders, orderID)
	return &midtrans.SnapResponse{Token: "tok-" + orderID, RedirectURL: "https://pay.test/" + orderID}, nil
}

func (f *fakeGateway) GetStatus(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error) {
	if f.fail {
		return nil, errors.New("gateway down")
	}
	return &midtrans.TransactionStatus{OrderID: orderID, TransactionStatus: domain.GatewaySettlement}, nil
}

// recordingNotifier collects published events.
type recordingNotifier struct {
	rooms  []string
	events []string
	fail   bool
}

func (r *recordingNotifier) Publish(room, event string, payload interface{}) error {
	if r.fail {
		return errors.New("publish failed")
	}
	r.rooms = append(r.rooms, room)
	r.events = append(r.events, event)
	return nil
}
