package repository

import (
	"context"
	"errors"

	"github.com/glintshop/customer-options/models"
	"gorm.io/gorm"
)

// CustomerOptionRepositoryImpl implements CustomerOptionRepository
type CustomerOptionRepositoryImpl struct {
	*BaseRepository[models.CustomerOption, models.CustomerOptionFilter]
}

// NewCustomerOptionRepository creates a new repository for customer options
func NewCustomerOptionRepository(db *gorm.DB) CustomerOptionRepository {
	return &CustomerOptionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomerOption, models.CustomerOptionFilter](db),
	}
}

// ByCode retrieves a customer option by its unique code.
func (r *CustomerOptionRepositoryImpl) ByCode(ctx context.Context, code string) (*models.CustomerOption, error) {
	db := r.getDB(ctx)

	var option models.CustomerOption
	err := db.Where("code = ?", code).Last(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CustomerOptionRepositoryImpl) applyFilter(db *gorm.DB, filter models.CustomerOptionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	return db
}

// ByFilter retrieves customer options based on filter criteria.
func (r *CustomerOptionRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerOptionFilter, orderBy string, limit, offset int) ([]*models.CustomerOption, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerOption{}), filter)

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

	var rows []*models.CustomerOption
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of customer options matching the filter.
func (r *CustomerOptionRepositoryImpl) Count(ctx context.Context, filter models.CustomerOptionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerOption{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any customer option matching the filter exists.
func (r *CustomerOptionRepositoryImpl) Exists(ctx context.Context, filter models.CustomerOptionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
