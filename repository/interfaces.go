// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/fixnet/fixnet/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// RepairRequestRepository defines operations for repair requests
type RepairRequestRepository interface {
	Repository[models.RepairRequest, models.RepairRequestFilter]
	ByTicketID(ctx context.Context, ticketID string) (*models.RepairRequest, error)
	// UpdateFields applies the given column updates to the row identified by
	// ticketID, but only when the row's updated_at still equals seenUpdatedAt.
	// Returns the number of rows modified (0 means the row vanished or changed
	// underneath the caller).
	UpdateFields(ctx context.Context, ticketID string, seenUpdatedAt time.Time, fields map[string]any) (int64, error)
	DeleteByTicketID(ctx context.Context, ticketID string) (int64, error)
	StatusCounts(ctx context.Context) (map[models.RepairStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	// CompletedRevenue sums actual_cost over completed requests that have one
	CompletedRevenue(ctx context.Context) (float64, error)
}

// AdminRepository defines operations for admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Admin, error)
	ByEmail(ctx context.Context, email string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// ContactMessageRepository defines operations for contact messages
type ContactMessageRepository interface {
	Repository[models.ContactMessage, models.ContactMessageFilter]
	ByUUID(ctx context.Context, uuid string) (*models.ContactMessage, error)
	MarkRead(ctx context.Context, uuid string) (int64, error)
	DeleteByUUID(ctx context.Context, uuid string) (int64, error)
}
