package repository

import (
	"context"

	"github.com/glintshop/customer-options/models"
	"gorm.io/gorm"
)

// OrderItemOptionRepositoryImpl implements OrderItemOptionRepository
type OrderItemOptionRepositoryImpl struct {
	*BaseRepository[models.OrderItemOption, models.OrderItemOptionFilter]
}

// NewOrderItemOptionRepository creates a new repository for order item options
func NewOrderItemOptionRepository(db *gorm.DB) OrderItemOptionRepository {
	return &OrderItemOptionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.OrderItemOption, models.OrderItemOptionFilter](db),
	}
}

// ListByOrderItem returns all option choices persisted for an order item.
func (r *OrderItemOptionRepositoryImpl) ListByOrderItem(ctx context.Context, orderItemID uint) ([]*models.OrderItemOption, error) {
	db := r.getDB(ctx)

	var rows []*models.OrderItemOption
	err := db.Where("order_item_id = ?", orderItemID).Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *OrderItemOptionRepositoryImpl) applyFilter(db *gorm.DB, filter models.OrderItemOptionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.OrderItemID != nil {
		db = db.Where("order_item_id = ?", *filter.OrderItemID)
	}
	if filter.CustomerOptionID != nil {
		db = db.Where("customer_option_id = ?", *filter.CustomerOptionID)
	}
	return db
}

// ByFilter retrieves order item options based on filter criteria.
func (r *OrderItemOptionRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderItemOptionFilter, orderBy string, limit, offset int) ([]*models.OrderItemOption, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.OrderItemOption{}), filter)

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

	var rows []*models.OrderItemOption
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of order item options matching the filter.
func (r *OrderItemOptionRepositoryImpl) Count(ctx context.Context, filter models.OrderItemOptionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.OrderItemOption{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any order item option matching the filter exists.
func (r *OrderItemOptionRepositoryImpl) Exists(ctx context.Context, filter models.OrderItemOptionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
