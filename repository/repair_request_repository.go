package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fixnet/fixnet/models"
	"gorm.io/gorm"
)

// RepairRequestRepositoryImpl implements RepairRequestRepository interface
type RepairRequestRepositoryImpl struct {
	*BaseRepository[models.RepairRequest, models.RepairRequestFilter]
}

// NewRepairRequestRepository creates a new repair request repository
func NewRepairRequestRepository(db *gorm.DB) RepairRequestRepository {
	return &RepairRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.RepairRequest, models.RepairRequestFilter](db),
	}
}

// ByTicketID retrieves a repair request by its public ticket identifier
func (r *RepairRequestRepositoryImpl) ByTicketID(ctx context.Context, ticketID string) (*models.RepairRequest, error) {
	db := r.getDB(ctx)
	var row models.RepairRequest
	if err := db.Where("ticket_id = ?", ticketID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// escapeLike escapes LIKE metacharacters so search terms match literally
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// applyFilter applies filter criteria to a GORM query
func (r *RepairRequestRepositoryImpl) applyFilter(query *gorm.DB, filter models.RepairRequestFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.TicketID != nil {
		query = query.Where("ticket_id = ?", *filter.TicketID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerEmail != nil {
		query = query.Where("customer_email = ?", *filter.CustomerEmail)
	}
	if filter.Search != nil && *filter.Search != "" {
		term := "%" + escapeLike(*filter.Search) + "%"
		query = query.Where(
			"customer_name ILIKE ? OR customer_email ILIKE ? OR customer_phone ILIKE ? OR ticket_id ILIKE ? OR device_brand ILIKE ? OR device_model ILIKE ? OR specific_issue ILIKE ?",
			term, term, term, term, term, term, term,
		)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves repair requests based on filter criteria
func (r *RepairRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.RepairRequestFilter, orderBy string, limit, offset int) ([]*models.RepairRequest, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.RepairRequest{})

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

	var rows []*models.RepairRequest
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of repair requests matching filter
func (r *RepairRequestRepositoryImpl) Count(ctx context.Context, filter models.RepairRequestFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.RepairRequest{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any repair request matches the filter
func (r *RepairRequestRepositoryImpl) Exists(ctx context.Context, filter models.RepairRequestFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// UpdateFields conditionally updates the row identified by ticketID. The write
// only lands when updated_at still matches what the caller read, so concurrent
// modifications surface as zero rows affected instead of silently losing data.
func (r *RepairRequestRepositoryImpl) UpdateFields(ctx context.Context, ticketID string, seenUpdatedAt time.Time, fields map[string]any) (int64, error) {
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

	res := db.Model(&models.RepairRequest{}).
		Where("ticket_id = ? AND updated_at = ?", ticketID, seenUpdatedAt).
		Updates(fields)
	if res.Error != nil {
		err = res.Error
		return 0, err
	}
	return res.RowsAffected, nil
}

// DeleteByTicketID removes a repair request; returns rows affected
func (r *RepairRequestRepositoryImpl) DeleteByTicketID(ctx context.Context, ticketID string) (int64, error) {
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

	res := db.Where("ticket_id = ?", ticketID).Delete(&models.RepairRequest{})
	if res.Error != nil {
		err = res.Error
		return 0, err
	}
	return res.RowsAffected, nil
}

// StatusCounts returns the number of repair requests per lifecycle state
func (r *RepairRequestRepositoryImpl) StatusCounts(ctx context.Context) (map[models.RepairStatus]int64, error) {
	db := r.getDB(ctx)

	type row struct {
		Status models.RepairStatus
		Count  int64
	}
	var rows []row
	err := db.Model(&models.RepairRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.RepairStatus]int64, len(rows))
	for _, rr := range rows {
		counts[rr.Status] = rr.Count
	}
	return counts, nil
}

// CountCreatedSince returns the number of repair requests created at or after the given time
func (r *RepairRequestRepositoryImpl) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.RepairRequest{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CompletedRevenue sums actual_cost over completed repair requests
func (r *RepairRequestRepositoryImpl) CompletedRevenue(ctx context.Context) (float64, error) {
	db := r.getDB(ctx)
	var total float64
	err := db.Model(&models.RepairRequest{}).
		Where("status = ? AND actual_cost IS NOT NULL", models.StatusCompleted).
		Select("COALESCE(SUM(actual_cost), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
