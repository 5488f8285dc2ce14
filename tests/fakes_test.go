package tests

import (
	"context"
	"time"

	"github.com/glintshop/customer-options/models"
)

// fakeBase stubs the generic repository surface so the in-memory fakes
// only have to implement what the flows actually call.
type fakeBase[T any, F any] struct{}

func (f *fakeBase[T, F]) ByID(ctx context.Context, id uint) (*T, error) {
	return nil, nil
}

func (f *fakeBase[T, F]) ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error) {
	return nil, nil
}

func (f *fakeBase[T, F]) Save(ctx context.Context, entity *T) error {
	return nil
}

func (f *fakeBase[T, F]) SaveBatch(ctx context.Context, entities []*T) error {
	return nil
}

func (f *fakeBase[T, F]) Count(ctx context.Context, filter F) (int64, error) {
	return 0, nil
}

func (f *fakeBase[T, F]) Exists(ctx context.Context, filter F) (bool, error) {
	return false, nil
}

type fakeProductRepo struct {
	fakeBase[models.Product, models.ProductFilter]
	products map[string]*models.Product
	lookups  int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (f *fakeProductRepo) add(id uint, code string) *models.Product {
	product := &models.Product{ID: id, Code: code, Name: code}
	f.products[code] = product
	return product
}

func (f *fakeProductRepo) ByCode(ctx context.Context, code string) (*models.Product, error) {
	f.lookups++
	return f.products[code], nil
}

type fakeChannelRepo struct {
	fakeBase[models.Channel, models.ChannelFilter]
	channels map[string]*models.Channel
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: make(map[string]*models.Channel)}
}

func (f *fakeChannelRepo) add(id uint, code string) *models.Channel {
	channel := &models.Channel{ID: id, Code: code, Name: code, CurrencyCode: "USD"}
	f.channels[code] = channel
	return channel
}

func (f *fakeChannelRepo) ByCode(ctx context.Context, code string) (*models.Channel, error) {
	return f.channels[code], nil
}

type fakeOptionRepo struct {
	fakeBase[models.CustomerOption, models.CustomerOptionFilter]
	options map[string]*models.CustomerOption
	nextID  uint
}

func newFakeOptionRepo() *fakeOptionRepo {
	return &fakeOptionRepo{options: make(map[string]*models.CustomerOption)}
}

func (f *fakeOptionRepo) add(id uint, code, optionType string) *models.CustomerOption {
	option := &models.CustomerOption{ID: id, Code: code, Name: code, Type: optionType}
	f.options[code] = option
	if id > f.nextID {
		f.nextID = id
	}
	return option
}

func (f *fakeOptionRepo) ByCode(ctx context.Context, code string) (*models.CustomerOption, error) {
	return f.options[code], nil
}

func (f *fakeOptionRepo) Save(ctx context.Context, option *models.CustomerOption) error {
	if option.ID == 0 {
		f.nextID++
		option.ID = f.nextID
	}
	option.CreatedAt = time.Now().UTC()
	f.options[option.Code] = option
	return nil
}

func (f *fakeOptionRepo) ByFilter(ctx context.Context, filter models.CustomerOptionFilter, orderBy string, limit, offset int) ([]*models.CustomerOption, error) {
	var out []*models.CustomerOption
	for _, option := range f.options {
		out = append(out, option)
	}
	return out, nil
}

type fakeValueRepo struct {
	fakeBase[models.CustomerOptionValue, models.CustomerOptionValueFilter]
	values []*models.CustomerOptionValue
	nextID uint
}

func newFakeValueRepo() *fakeValueRepo {
	return &fakeValueRepo{}
}

func (f *fakeValueRepo) add(id uint, code string, optionID uint) *models.CustomerOptionValue {
	value := &models.CustomerOptionValue{ID: id, Code: code, Name: code, CustomerOptionID: optionID}
	f.values = append(f.values, value)
	if id > f.nextID {
		f.nextID = id
	}
	return value
}

func (f *fakeValueRepo) ByCodeAndOption(ctx context.Context, code string, customerOptionID uint) (*models.CustomerOptionValue, error) {
	for _, value := range f.values {
		if value.Code == code && value.CustomerOptionID == customerOptionID {
			return value, nil
		}
	}
	return nil, nil
}

func (f *fakeValueRepo) ListByOption(ctx context.Context, customerOptionID uint) ([]*models.CustomerOptionValue, error) {
	var out []*models.CustomerOptionValue
	for _, value := range f.values {
		if value.CustomerOptionID == customerOptionID {
			out = append(out, value)
		}
	}
	return out, nil
}

func (f *fakeValueRepo) Save(ctx context.Context, value *models.CustomerOptionValue) error {
	if value.ID == 0 {
		f.nextID++
		value.ID = f.nextID
	}
	f.values = append(f.values, value)
	return nil
}

type fakePriceRepo struct {
	fakeBase[models.CustomerOptionValuePrice, models.CustomerOptionValuePriceFilter]
	prices []*models.CustomerOptionValuePrice
	nextID uint
}

func newFakePriceRepo() *fakePriceRepo {
	return &fakePriceRepo{}
}

func (f *fakePriceRepo) upsert(price *models.CustomerOptionValuePrice) {
	if price.ID == 0 {
		f.nextID++
		price.ID = f.nextID
		f.prices = append(f.prices, price)
		return
	}
	for i, existing := range f.prices {
		if existing.ID == price.ID {
			f.prices[i] = price
			return
		}
	}
	f.prices = append(f.prices, price)
	if price.ID > f.nextID {
		f.nextID = price.ID
	}
}

func sameScope(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakePriceRepo) ByValueChannelProduct(ctx context.Context, valueID, channelID uint, productID *uint) ([]*models.CustomerOptionValuePrice, error) {
	var out []*models.CustomerOptionValuePrice
	for _, price := range f.prices {
		if price.CustomerOptionValueID == valueID && price.ChannelID == channelID && sameScope(price.ProductID, productID) {
			out = append(out, price)
		}
	}
	return out, nil
}

func (f *fakePriceRepo) ListByProduct(ctx context.Context, productID uint) ([]*models.CustomerOptionValuePrice, error) {
	var out []*models.CustomerOptionValuePrice
	for _, price := range f.prices {
		if price.ProductID != nil && *price.ProductID == productID {
			out = append(out, price)
		}
	}
	return out, nil
}

func (f *fakePriceRepo) ActiveForValueChannel(ctx context.Context, valueID, channelID uint, productID *uint, at time.Time) (*models.CustomerOptionValuePrice, error) {
	pick := func(scope *uint) *models.CustomerOptionValuePrice {
		var open *models.CustomerOptionValuePrice
		for _, price := range f.prices {
			if price.CustomerOptionValueID != valueID || price.ChannelID != channelID || !sameScope(price.ProductID, scope) {
				continue
			}
			if !price.IsActiveAt(at) {
				continue
			}
			if price.DateValid() != nil {
				return price
			}
			open = price
		}
		return open
	}

	if productID != nil {
		if price := pick(productID); price != nil {
			return price, nil
		}
	}
	return pick(nil), nil
}

type fakeOrderItemRepo struct {
	fakeBase[models.OrderItemOption, models.OrderItemOptionFilter]
	items  []*models.OrderItemOption
	nextID uint
}

func newFakeOrderItemRepo() *fakeOrderItemRepo {
	return &fakeOrderItemRepo{}
}

func (f *fakeOrderItemRepo) Save(ctx context.Context, item *models.OrderItemOption) error {
	if item.ID == 0 {
		f.nextID++
		item.ID = f.nextID
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeOrderItemRepo) ListByOrderItem(ctx context.Context, orderItemID uint) ([]*models.OrderItemOption, error) {
	var out []*models.OrderItemOption
	for _, item := range f.items {
		if item.OrderItemID == orderItemID {
			out = append(out, item)
		}
	}
	return out, nil
}

// fakeUnitOfWork applies staged prices to the fake price store on Flush
type fakeUnitOfWork struct {
	prices  *fakePriceRepo
	staged  []any
	flushes int
}

func newFakeUnitOfWork(prices *fakePriceRepo) *fakeUnitOfWork {
	return &fakeUnitOfWork{prices: prices}
}

func (f *fakeUnitOfWork) Stage(entity any) {
	f.staged = append(f.staged, entity)
}

func (f *fakeUnitOfWork) StagedCount() int {
	return len(f.staged)
}

func (f *fakeUnitOfWork) Flush(ctx context.Context) error {
	f.flushes++
	for _, entity := range f.staged {
		if price, ok := entity.(*models.CustomerOptionValuePrice); ok {
			f.prices.upsert(price)
		}
	}
	f.staged = f.staged[:0]
	return nil
}
