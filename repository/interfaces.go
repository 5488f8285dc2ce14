// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/glintshop/customer-options/models"
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

// ProductRepository defines operations for products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByCode(ctx context.Context, code string) (*models.Product, error)
}

// ChannelRepository defines operations for channels
type ChannelRepository interface {
	Repository[models.Channel, models.ChannelFilter]
	ByCode(ctx context.Context, code string) (*models.Channel, error)
}

// CustomerOptionRepository defines operations for customer options
type CustomerOptionRepository interface {
	Repository[models.CustomerOption, models.CustomerOptionFilter]
	ByCode(ctx context.Context, code string) (*models.CustomerOption, error)
}

// CustomerOptionValueRepository defines operations for customer option values
type CustomerOptionValueRepository interface {
	Repository[models.CustomerOptionValue, models.CustomerOptionValueFilter]
	ByCodeAndOption(ctx context.Context, code string, customerOptionID uint) (*models.CustomerOptionValue, error)
	ListByOption(ctx context.Context, customerOptionID uint) ([]*models.CustomerOptionValue, error)
}

// CustomerOptionValuePriceRepository defines operations for option value prices
type CustomerOptionValuePriceRepository interface {
	Repository[models.CustomerOptionValuePrice, models.CustomerOptionValuePriceFilter]
	// ByValueChannelProduct returns all prices for the exact
	// (value, channel, product) scope; a nil productID matches only
	// channel-wide rows. Date ranges are not part of the query.
	ByValueChannelProduct(ctx context.Context, valueID, channelID uint, productID *uint) ([]*models.CustomerOptionValuePrice, error)
	// ListByProduct returns every price scoped to the product, across all
	// values and channels. Used to build validation candidate sets.
	ListByProduct(ctx context.Context, productID uint) ([]*models.CustomerOptionValuePrice, error)
	// ActiveForValueChannel resolves the price applying at the given
	// instant, preferring product-specific rows over channel-wide ones.
	ActiveForValueChannel(ctx context.Context, valueID, channelID uint, productID *uint, at time.Time) (*models.CustomerOptionValuePrice, error)
}

// OrderItemOptionRepository defines operations for order item options
type OrderItemOptionRepository interface {
	Repository[models.OrderItemOption, models.OrderItemOptionFilter]
	ListByOrderItem(ctx context.Context, orderItemID uint) ([]*models.OrderItemOption, error)
}

// UnitOfWork stages entities and writes them out in batches. Stage never
// touches the store; durability happens on Flush, in one transaction.
type UnitOfWork interface {
	Stage(entity any)
	Flush(ctx context.Context) error
	StagedCount() int
}
