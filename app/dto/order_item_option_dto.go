package dto

// CreateOrderItemOptionRequest attaches one customer option choice to an
// order item. ProductCode is optional; when present, product-specific
// prices take precedence over channel-wide ones.
type CreateOrderItemOptionRequest struct {
	OrderItemID        uint    `json:"order_item_id" validate:"required"`
	CustomerOptionCode string  `json:"customer_option_code" validate:"required"`
	Value              string  `json:"value" validate:"required"`
	ChannelCode        string  `json:"channel_code" validate:"required"`
	ProductCode        *string `json:"product_code,omitempty"`
}

// OrderItemOptionDTO is the outward representation of a persisted choice
type OrderItemOptionDTO struct {
	ID                      uint    `json:"id"`
	OrderItemID             uint    `json:"order_item_id"`
	CustomerOptionCode      string  `json:"customer_option_code"`
	CustomerOptionType      string  `json:"customer_option_type"`
	CustomerOptionValueCode *string `json:"customer_option_value_code,omitempty"`
	OptionValue             string  `json:"option_value"`
	PriceType               *string `json:"price_type,omitempty"`
	FixedPrice              *string `json:"fixed_price,omitempty"`
	PricePercent            *string `json:"price_percent,omitempty"`
}

// CreateOrderItemOptionResponse wraps the persisted choice
type CreateOrderItemOptionResponse struct {
	Message string             `json:"message"`
	Option  OrderItemOptionDTO `json:"option"`
}
