package repository

import (
	"context"
	"time"

	"github.com/glintshop/customer-options/models"
	"gorm.io/gorm"
)

// CustomerOptionValuePriceRepositoryImpl implements CustomerOptionValuePriceRepository
type CustomerOptionValuePriceRepositoryImpl struct {
	*BaseRepository[models.CustomerOptionValuePrice, models.CustomerOptionValuePriceFilter]
}

// NewCustomerOptionValuePriceRepository creates a new repository for option value prices
func NewCustomerOptionValuePriceRepository(db *gorm.DB) CustomerOptionValuePriceRepository {
	return &CustomerOptionValuePriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomerOptionValuePrice, models.CustomerOptionValuePriceFilter](db),
	}
}

// ByValueChannelProduct returns every price for the exact scope. A nil
// productID matches only channel-wide rows (product_id IS NULL), never
// product-specific ones. Date ranges are filtered by the caller.
func (r *CustomerOptionValuePriceRepositoryImpl) ByValueChannelProduct(ctx context.Context, valueID, channelID uint, productID *uint) ([]*models.CustomerOptionValuePrice, error) {
	db := r.getDB(ctx)

	query := db.Where("customer_option_value_id = ? AND channel_id = ?", valueID, channelID)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	} else {
		query = query.Where("product_id IS NULL")
	}

	var rows []*models.CustomerOptionValuePrice
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByProduct returns every price scoped to the product.
func (r *CustomerOptionValuePriceRepositoryImpl) ListByProduct(ctx context.Context, productID uint) ([]*models.CustomerOptionValuePrice, error) {
	db := r.getDB(ctx)

	var rows []*models.CustomerOptionValuePrice
	err := db.Where("product_id = ?", productID).Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ActiveForValueChannel resolves the price applying at the given instant.
// Product-specific rows win over channel-wide ones; within a scope a
// date-restricted row wins over an open-ended one.
func (r *CustomerOptionValuePriceRepositoryImpl) ActiveForValueChannel(ctx context.Context, valueID, channelID uint, productID *uint, at time.Time) (*models.CustomerOptionValuePrice, error) {
	if productID != nil {
		rows, err := r.ByValueChannelProduct(ctx, valueID, channelID, productID)
		if err != nil {
			return nil, err
		}
		if price := pickActive(rows, at); price != nil {
			return price, nil
		}
	}

	rows, err := r.ByValueChannelProduct(ctx, valueID, channelID, nil)
	if err != nil {
		return nil, err
	}
	return pickActive(rows, at), nil
}

func pickActive(rows []*models.CustomerOptionValuePrice, at time.Time) *models.CustomerOptionValuePrice {
	var open *models.CustomerOptionValuePrice
	for _, row := range rows {
		if !row.IsActiveAt(at) {
			continue
		}
		if row.DateValid() != nil {
			return row
		}
		open = row
	}
	return open
}

// applyFilter applies filter conditions to the GORM query
func (r *CustomerOptionValuePriceRepositoryImpl) applyFilter(db *gorm.DB, filter models.CustomerOptionValuePriceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.CustomerOptionValueID != nil {
		db = db.Where("customer_option_value_id = ?", *filter.CustomerOptionValueID)
	}
	if filter.ChannelID != nil {
		db = db.Where("channel_id = ?", *filter.ChannelID)
	}
	if filter.ProductID != nil {
		db = db.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	return db
}

// ByFilter retrieves prices based on filter criteria.
func (r *CustomerOptionValuePriceRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerOptionValuePriceFilter, orderBy string, limit, offset int) ([]*models.CustomerOptionValuePrice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerOptionValuePrice{}), filter)

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

	var rows []*models.CustomerOptionValuePrice
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of prices matching the filter.
func (r *CustomerOptionValuePriceRepositoryImpl) Count(ctx context.Context, filter models.CustomerOptionValuePriceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerOptionValuePrice{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any price matching the filter exists.
func (r *CustomerOptionValuePriceRepositoryImpl) Exists(ctx context.Context, filter models.CustomerOptionValuePriceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
