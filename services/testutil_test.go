package services

import (
	"testing"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"github.com/google/uuid"
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
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Fundi{},
		&models.ServiceCategory{},
		&models.ServiceRequest{},
		&models.JobAssignment{},
		&models.Earning{},
		&models.Payout{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createRequest(t *testing.T, db *gorm.DB, customerID uuid.UUID, totalCents int64) *models.ServiceRequest {
	t.Helper()

	request := &models.ServiceRequest{
		Reference:  "FC-" + uuid.New().String()[:8],
		CustomerID: customerID,
		CategoryID: uuid.New(),
		Status:     StatusPending,
		Address:    "12 Riverside Drive",
		TotalCents: totalCents,
		Currency:   "USD",
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	return request
}

func createAssignment(t *testing.T, db *gorm.DB, requestID, fundiID uuid.UUID, payoutCents int64) *models.JobAssignment {
	t.Helper()

	assignment := &models.JobAssignment{
		ServiceRequestID: requestID,
		FundiID:          fundiID,
		Status:           "assigned",
		PayoutCents:      payoutCents,
		AssignedAt:       time.Now(),
	}
	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}
	return assignment
}

func createFundi(t *testing.T, db *gorm.DB, accountID string, payoutsEnabled bool) *models.Fundi {
	t.Helper()

	fundi := &models.Fundi{
		UserID:         uuid.New(),
		Status:         "active",
		PayoutsEnabled: payoutsEnabled,
	}
	if accountID != "" {
		fundi.PayoutAccountID = &accountID
	}
	if err := db.Create(fundi).Error; err != nil {
		t.Fatalf("failed to create fundi: %v", err)
	}
	return fundi
}

func createEarning(t *testing.T, db *gorm.DB, fundiID uuid.UUID, amountCents int64, status string, availableAt *time.Time) *models.Earning {
	t.Helper()

	earning := &models.Earning{
		FundiID:         fundiID,
		JobAssignmentID: uuid.New(),
		AmountCents:     amountCents,
		Status:          status,
		AvailableAt:     availableAt,
	}
	if err := db.Create(earning).Error; err != nil {
		t.Fatalf("failed to create earning: %v", err)
	}
	return earning
}
