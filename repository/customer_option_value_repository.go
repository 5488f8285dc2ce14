package repository

import (
	"context"
	"errors"

	"github.com/glintshop/customer-options/models"
	"gorm.io/gorm"
)

// CustomerOptionValueRepositoryImpl implements CustomerOptionValueRepository
type CustomerOptionValueRepositoryImpl struct {
	*BaseRepository[models.CustomerOptionValue, models.CustomerOptionValueFilter]
}

// NewCustomerOptionValueRepository creates a new repository for customer option values
func NewCustomerOptionValueRepository(db *gorm.DB) CustomerOptionValueRepository {
	return &CustomerOptionValueRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomerOptionValue, models.CustomerOptionValueFilter](db),
	}
}

// ByCodeAndOption retrieves a value by its (code, option) identity.
func (r *CustomerOptionValueRepositoryImpl) ByCodeAndOption(ctx context.Context, code string, customerOptionID uint) (*models.CustomerOptionValue, error) {
	db := r.getDB(ctx)

	var value models.CustomerOptionValue
	err := db.Where("code = ? AND customer_option_id = ?", code, customerOptionID).Last(&value).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}

// ListByOption returns all values of one customer option.
func (r *CustomerOptionValueRepositoryImpl) ListByOption(ctx context.Context, customerOptionID uint) ([]*models.CustomerOptionValue, error) {
	db := r.getDB(ctx)

	var rows []*models.CustomerOptionValue
	err := db.Where("customer_option_id = ?", customerOptionID).Order("code").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CustomerOptionValueRepositoryImpl) applyFilter(db *gorm.DB, filter models.CustomerOptionValueFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.CustomerOptionID != nil {
		db = db.Where("customer_option_id = ?", *filter.CustomerOptionID)
	}
	return db
}

// ByFilter retrieves values based on filter criteria.
func (r *CustomerOptionValueRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerOptionValueFilter, orderBy string, limit, offset int) ([]*models.CustomerOptionValue, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerOptionValue{}), filter)

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

	var rows []*models.CustomerOptionValue
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of values matching the filter.
func (r *CustomerOptionValueRepositoryImpl) Count(ctx context.Context, filter models.CustomerOptionValueFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerOptionValue{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any value matching the filter exists.
func (r *CustomerOptionValueRepositoryImpl) Exists(ctx context.Context, filter models.CustomerOptionValueFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
