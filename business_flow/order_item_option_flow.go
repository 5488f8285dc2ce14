package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/glintshop/customer-options/app/dto"
	"github.com/glintshop/customer-options/config"
	"github.com/glintshop/customer-options/models"
	"github.com/glintshop/customer-options/repository"
	"github.com/glintshop/customer-options/utils"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

// OrderItemOptionFlow records shopper choices against order items and
// snapshots the pricing that applied at the moment of the choice, so
// later price edits never change an existing order.
type OrderItemOptionFlow interface {
	CreateForOrderItem(ctx context.Context, req *dto.CreateOrderItemOptionRequest) (*dto.CreateOrderItemOptionResponse, error)
	ListForOrderItem(ctx context.Context, orderItemID uint) ([]dto.OrderItemOptionDTO, error)
}

type OrderItemOptionFlowImpl struct {
	optionRepo  repository.CustomerOptionRepository
	valueRepo   repository.CustomerOptionValueRepository
	channelRepo repository.ChannelRepository
	productRepo repository.ProductRepository
	priceRepo   repository.CustomerOptionValuePriceRepository
	itemRepo    repository.OrderItemOptionRepository
	validate    *validator.Validate
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

func NewOrderItemOptionFlow(
	optionRepo repository.CustomerOptionRepository,
	valueRepo repository.CustomerOptionValueRepository,
	channelRepo repository.ChannelRepository,
	productRepo repository.ProductRepository,
	priceRepo repository.CustomerOptionValuePriceRepository,
	itemRepo repository.OrderItemOptionRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) OrderItemOptionFlow {
	return &OrderItemOptionFlowImpl{
		optionRepo:  optionRepo,
		valueRepo:   valueRepo,
		channelRepo: channelRepo,
		productRepo: productRepo,
		priceRepo:   priceRepo,
		itemRepo:    itemRepo,
		validate:    validator.New(),
		rc:          rc,
		cacheConfig: cacheConfig,
	}
}

// CreateForOrderItem resolves the option by code and persists the choice.
// Select-type options additionally resolve the chosen value and the
// active price for the channel (and product, when given); date-type
// options normalize the entered value to RFC3339.
func (f *OrderItemOptionFlowImpl) CreateForOrderItem(ctx context.Context, req *dto.CreateOrderItemOptionRequest) (*dto.CreateOrderItemOptionResponse, error) {
	if err := f.validate.StructCtx(ctx, req); err != nil {
		return nil, NewBusinessError("ORDER_ITEM_OPTION_INVALID_REQUEST", "Invalid order item option request", err)
	}

	option, err := f.optionRepo.ByCode(ctx, req.CustomerOptionCode)
	if err != nil {
		return nil, err
	}
	if option == nil {
		return nil, NewBusinessErrorf("ORDER_ITEM_OPTION_OPTION_NOT_FOUND",
			`CustomerOption with code "%s" not found`, ErrCustomerOptionNotFound, req.CustomerOptionCode)
	}

	item := &models.OrderItemOption{
		OrderItemID:        req.OrderItemID,
		CustomerOptionID:   option.ID,
		CustomerOptionCode: option.Code,
		CustomerOptionType: option.Type,
		OptionValue:        req.Value,
	}

	switch {
	case models.IsSelectType(option.Type):
		if err := f.resolveSelectValue(ctx, req, option, item); err != nil {
			return nil, err
		}
	case models.IsDateType(option.Type):
		normalized, err := parseDateValue(req.Value)
		if err != nil {
			return nil, NewBusinessErrorf("ORDER_ITEM_OPTION_INVALID_DATE",
				`Value "%s" is not a valid date`, err, req.Value)
		}
		item.OptionValue = normalized.Format(time.RFC3339)
	}

	if err := f.itemRepo.Save(ctx, item); err != nil {
		return nil, NewBusinessError("ORDER_ITEM_OPTION_SAVE_FAILED", "Failed to save order item option", err)
	}

	return &dto.CreateOrderItemOptionResponse{
		Message: "Order item option saved",
		Option:  toOrderItemOptionDTO(item),
	}, nil
}

// resolveSelectValue looks up the chosen value within the option and
// copies the active price onto the order item option.
func (f *OrderItemOptionFlowImpl) resolveSelectValue(ctx context.Context, req *dto.CreateOrderItemOptionRequest, option *models.CustomerOption, item *models.OrderItemOption) error {
	value, err := f.valueRepo.ByCodeAndOption(ctx, req.Value, option.ID)
	if err != nil {
		return err
	}
	if value == nil {
		return NewBusinessErrorf("ORDER_ITEM_OPTION_VALUE_NOT_FOUND",
			`CustomerOptionValue with code "%s" not found`, ErrCustomerOptionValueNotFound, req.Value)
	}

	channel, err := f.channelRepo.ByCode(ctx, req.ChannelCode)
	if err != nil {
		return err
	}
	if channel == nil {
		return NewBusinessErrorf("ORDER_ITEM_OPTION_CHANNEL_NOT_FOUND",
			`Channel with code "%s" not found`, ErrChannelNotFound, req.ChannelCode)
	}

	var productID *uint
	if req.ProductCode != nil {
		product, err := f.productRepo.ByCode(ctx, *req.ProductCode)
		if err != nil {
			return err
		}
		if product == nil {
			return NewBusinessErrorf("ORDER_ITEM_OPTION_PRODUCT_NOT_FOUND",
				`Product with code "%s" not found`, ErrProductNotFound, *req.ProductCode)
		}
		productID = &product.ID
	}

	item.CustomerOptionValueID = &value.ID
	item.CustomerOptionValueCode = &value.Code

	price, err := f.activePrice(ctx, req, value.ID, channel.ID, productID)
	if err != nil {
		return err
	}
	if price != nil {
		priceType := price.Type
		item.PriceType = &priceType
		item.FixedPrice = price.Amount
		item.PricePercent = price.Percent
	}
	return nil
}

// activePrice resolves the currently valid price, going through the
// cache when one is configured. Cache misses and marshalling faults fall
// back to the repository silently.
func (f *OrderItemOptionFlowImpl) activePrice(ctx context.Context, req *dto.CreateOrderItemOptionRequest, valueID, channelID uint, productID *uint) (*models.CustomerOptionValuePrice, error) {
	var cacheKey string
	if f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled {
		cacheKey = activePriceCacheKey(*f.cacheConfig, req.ChannelCode, req.CustomerOptionCode, req.Value, req.ProductCode)
		if raw, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached models.CustomerOptionValuePrice
			if err := json.Unmarshal(raw, &cached); err == nil && cached.IsActiveAt(utils.UTCNow()) {
				return &cached, nil
			}
		}
	}

	price, err := f.priceRepo.ActiveForValueChannel(ctx, valueID, channelID, productID, utils.UTCNow())
	if err != nil {
		return nil, err
	}

	if price != nil && cacheKey != "" {
		if raw, err := json.Marshal(price); err == nil {
			ttl := f.cacheConfig.ActivePriceTTL
			if ttl <= 0 {
				ttl = utils.ActivePriceCacheTTL
			}
			_ = f.rc.Set(ctx, cacheKey, raw, ttl).Err()
		}
	}
	return price, nil
}

// ListForOrderItem returns all recorded choices for an order item.
func (f *OrderItemOptionFlowImpl) ListForOrderItem(ctx context.Context, orderItemID uint) ([]dto.OrderItemOptionDTO, error) {
	if orderItemID == 0 {
		return nil, NewBusinessError("ORDER_ITEM_OPTION_ITEM_REQUIRED", "Order item is required", ErrOrderItemRequired)
	}

	items, err := f.itemRepo.ListByOrderItem(ctx, orderItemID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.OrderItemOptionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toOrderItemOptionDTO(item))
	}
	return out, nil
}

func toOrderItemOptionDTO(item *models.OrderItemOption) dto.OrderItemOptionDTO {
	out := dto.OrderItemOptionDTO{
		ID:                      item.ID,
		OrderItemID:             item.OrderItemID,
		CustomerOptionCode:      item.CustomerOptionCode,
		CustomerOptionType:      item.CustomerOptionType,
		CustomerOptionValueCode: item.CustomerOptionValueCode,
		OptionValue:             item.OptionValue,
		PriceType:               item.PriceType,
	}
	if item.FixedPrice != nil {
		fixed := item.FixedPrice.String()
		out.FixedPrice = &fixed
	}
	if item.PricePercent != nil {
		percent := item.PricePercent.String()
		out.PricePercent = &percent
	}
	return out
}
