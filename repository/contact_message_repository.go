package repository

import (
	"context"

	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/utils"
	"gorm.io/gorm"
)

// ContactMessageRepositoryImpl implements ContactMessageRepository interface
type ContactMessageRepositoryImpl struct {
	*BaseRepository[models.ContactMessage, models.ContactMessageFilter]
}

// NewContactMessageRepository creates a new contact message repository
func NewContactMessageRepository(db *gorm.DB) ContactMessageRepository {
	return &ContactMessageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ContactMessage, models.ContactMessageFilter](db),
	}
}

// ByUUID retrieves a contact message by UUID
func (r *ContactMessageRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.ContactMessage, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.ContactMessageFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ContactMessageRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContactMessageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves contact messages based on filter criteria
func (r *ContactMessageRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactMessageFilter, orderBy string, limit, offset int) ([]*models.ContactMessage, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ContactMessage{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ContactMessage
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of contact messages matching filter
func (r *ContactMessageRepositoryImpl) Count(ctx context.Context, filter models.ContactMessageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ContactMessage{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any contact message matches the filter
func (r *ContactMessageRepositoryImpl) Exists(ctx context.Context, filter models.ContactMessageFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// MarkRead flags a contact message as read; returns rows affected
func (r *ContactMessageRepositoryImpl) MarkRead(ctx context.Context, uuidStr string) (int64, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return 0, err
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	res := db.Model(&models.ContactMessage{}).
		Where("uuid = ?", parsed).
		Update("is_read", true)
	if res.Error != nil {
		err = res.Error
		return 0, err
	}
	return res.RowsAffected, nil
}

// DeleteByUUID removes a contact message; returns rows affected
func (r *ContactMessageRepositoryImpl) DeleteByUUID(ctx context.Context, uuidStr string) (int64, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return 0, err
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	res := db.Where("uuid = ?", parsed).Delete(&models.ContactMessage{})
	if res.Error != nil {
		err = res.Error
		return 0, err
	}
	return res.RowsAffected, nil
}
