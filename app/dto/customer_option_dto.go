package dto

// ConfigOptionDTO mirrors one named configuration knob of an option type
type ConfigOptionDTO struct {
	Kind    string `json:"kind"`
	Default any    `json:"default"`
}

// OptionTypeItem describes one supported option type for admin tooling
type OptionTypeItem struct {
	Type          string                     `json:"type"`
	Widget        string                     `json:"widget"`
	IsSelect      bool                       `json:"is_select"`
	IsDate        bool                       `json:"is_date"`
	Configuration map[string]ConfigOptionDTO `json:"configuration"`
}

// ListOptionTypesResponse lists the closed option type catalog
type ListOptionTypesResponse struct {
	Message string           `json:"message"`
	Items   []OptionTypeItem `json:"items"`
}

// CreateCustomerOptionRequest creates a new customer option administratively
type CreateCustomerOptionRequest struct {
	Code     string   `json:"code" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Type     string   `json:"type" validate:"required"`
	Required bool     `json:"required"`
	Values   []string `json:"values,omitempty"`
}

// CustomerOptionDTO is the outward representation of a customer option
type CustomerOptionDTO struct {
	ID            uint           `json:"id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Required      bool           `json:"required"`
	Configuration map[string]any `json:"configuration"`
	ValueCodes    []string       `json:"value_codes,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

// CreateCustomerOptionResponse wraps the created option
type CreateCustomerOptionResponse struct {
	Message string            `json:"message"`
	Option  CustomerOptionDTO `json:"option"`
}

// ListCustomerOptionsResponse lists configured customer options
type ListCustomerOptionsResponse struct {
	Message string              `json:"message"`
	Items   []CustomerOptionDTO `json:"items"`
}
