// Package testing provides test utilities and database setup for integration tests
package testing

import (
	"fmt"
	"math/rand"

	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAdmin creates an active admin with the given email and password
func (tf *TestFixtures) CreateTestAdmin(email, password string) (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// CreateTestRepairRequest creates a repair request with sensible defaults.
// Pass a non-nil mutate function to adjust fields before saving.
func (tf *TestFixtures) CreateTestRepairRequest(mutate func(*models.RepairRequest)) (*models.RepairRequest, error) {
	n := rand.Intn(900000) + 100000

	req := &models.RepairRequest{
		TicketID:      models.NewTicketID(utils.UTCNow()),
		CustomerName:  "Test Customer",
		CustomerEmail: fmt.Sprintf("customer.%d@example.com", n),
		CustomerPhone: fmt.Sprintf("+31 6 %d0000", n%10000),
		DeviceBrand:   "Apple",
		DeviceModel:   "iPhone 14",
		IssueCategory: "Screen",
		SpecificIssue: "Cracked display",
		Description:   "Dropped on the pavement, glass shattered",
		Urgency:       models.UrgencyNormal,
		PickupAddress: "Main Street 1, 1000 AA Amsterdam",
		GDPRConsent:   true,
		Status:        models.StatusNew,
		Priority:      models.PriorityMedium,
	}
	if mutate != nil {
		mutate(req)
	}

	if err := tf.DB.DB.Create(req).Error; err != nil {
		return nil, fmt.Errorf("failed to create test repair request: %w", err)
	}

	return req, nil
}

// CreateTestContactMessage creates an unread contact message
func (tf *TestFixtures) CreateTestContactMessage(mutate func(*models.ContactMessage)) (*models.ContactMessage, error) {
	n := rand.Intn(900000) + 100000

	msg := &models.ContactMessage{
		Name:    "Test Sender",
		Email:   fmt.Sprintf("sender.%d@example.com", n),
		Subject: "Question about repairs",
		Message: "Do you also repair water damaged laptops?",
		IsRead:  utils.ToPtr(false),
	}
	if mutate != nil {
		mutate(msg)
	}

	if err := tf.DB.DB.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contact message: %w", err)
	}

	return msg, nil
}
